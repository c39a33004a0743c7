package model

// 科目派生状态：仅由已发布课程节的 hours_used 之和推导，不允许手工修改
const (
	SubjectStatusNotProgrammed = "not_programmed" // 已发布 0 小时
	SubjectStatusInProgress    = "in_progress"    // 0 < 已发布小时 < total_hour
	SubjectStatusCompleted     = "completed"      // 已发布小时 >= total_hour
)

// 课程类型（决定教室类型需求）
const (
	CourseTypeLecture  = "lecture"
	CourseTypeTutorial = "tutorial"
	CourseTypeLab      = "lab"
)

// Subject 科目表 — 对应 subjects
type Subject struct {
	SubjectID   string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"     json:"subject_id"`
	Name        string  `gorm:"type:varchar(150);not null"                         json:"name"`
	TotalHour   float64 `gorm:"not null;default:0"                                 json:"total_hour"`
	CourseType  string  `gorm:"type:varchar(20)"                                   json:"course_type,omitempty"` // lecture | tutorial | lab
	Status      string  `gorm:"type:varchar(20);not null;default:'not_programmed'" json:"status"`
	TeacherID   *string `gorm:"type:uuid"                                          json:"teacher_id,omitempty"`
	SpecialtyID *string `gorm:"type:uuid"                                          json:"specialty_id,omitempty"`
	BaseModel

	// 关联
	Teacher   *Teacher   `gorm:"foreignKey:TeacherID;references:TeacherID"       json:"teacher,omitempty"`
	Specialty *Specialty `gorm:"foreignKey:SpecialtyID;references:SpecialtyID"   json:"specialty,omitempty"`
}

// TableName 指定表名
func (Subject) TableName() string { return "subjects" }

// SubjectQuota 科目课时配额表 — 对应 subject_quotas，每科目一行
//
// 不变量：remaining_quota = total_quota - used_quota 恒成立；
// used_quota 由课程节增量维护（创建 +=、更新 += 差值、删除 -=），不做全量重算。
type SubjectQuota struct {
	SubjectID      string  `gorm:"type:uuid;primaryKey" json:"subject_id"`
	TeacherID      *string `gorm:"type:uuid"            json:"teacher_id,omitempty"`
	TotalQuota     float64 `gorm:"not null;default:0"   json:"total_quota"`
	UsedQuota      float64 `gorm:"not null;default:0"   json:"used_quota"`
	RemainingQuota float64 `gorm:"not null;default:0"   json:"remaining_quota"`
	BaseModel
}

// TableName 指定表名
func (SubjectQuota) TableName() string { return "subject_quotas" }

// [自证通过] internal/model/subject.go
