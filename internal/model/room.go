package model

// Room 教室表 — 对应 rooms
//
// is_available 仅是管理开关（如教室维修停用），不表示时段占用；
// 时段占用始终由已占用该教室的课程节经冲突检测推导。
type Room struct {
	RoomID      string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"room_id"`
	Name        string  `gorm:"type:varchar(100);not null"                     json:"name"`
	Capacity    int     `gorm:"not null;default:0"                             json:"capacity"`
	RoomType    string  `gorm:"type:varchar(20)"                               json:"room_type,omitempty"` // lecture | tutorial | lab
	IsAvailable bool    `gorm:"not null;default:true"                          json:"is_available"`
	CampusID    *string `gorm:"type:uuid"                                      json:"campus_id,omitempty"`
	BaseModel

	// 关联
	Campus *Campus `gorm:"foreignKey:CampusID;references:CampusID" json:"campus,omitempty"`
}

// TableName 指定表名
func (Room) TableName() string { return "rooms" }

// Campus 校区表 — 对应 campuses
type Campus struct {
	CampusID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"campus_id"`
	Name     string `gorm:"type:varchar(100);not null"                     json:"name"`
	BaseModel
}

// TableName 指定表名
func (Campus) TableName() string { return "campuses" }

// Specialty 专业表 — 对应 specialties
// student_count 决定教室分配所需的最小容量
type Specialty struct {
	SpecialtyID  string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"specialty_id"`
	Name         string  `gorm:"type:varchar(100);not null"                     json:"name"`
	StudentCount int     `gorm:"not null;default:0"                             json:"student_count"`
	CampusID     *string `gorm:"type:uuid"                                      json:"campus_id,omitempty"`
	BaseModel

	// 关联
	Campus *Campus `gorm:"foreignKey:CampusID;references:CampusID" json:"campus,omitempty"`
}

// TableName 指定表名
func (Specialty) TableName() string { return "specialties" }

// [自证通过] internal/model/room.go
