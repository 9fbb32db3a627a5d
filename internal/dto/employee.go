package dto

// ── 账号 / 员工模块 DTO ──

// CreateEmployeeRequest 管理员创建账号
type CreateEmployeeRequest struct {
	FullName     string `json:"full_name"     binding:"required,min=2,max=100"`
	Email        string `json:"email"         binding:"required,email"`
	Password     string `json:"password"      binding:"required,min=8,max=64"`
	Role         string `json:"role"          binding:"omitempty,oneof=ADMIN COLLABORATOR"`
	EmployeeCode string `json:"employee_code" binding:"omitempty,max=30"`
	Phone        string `json:"phone"         binding:"omitempty,max=30"`
	JobTitle     string `json:"job_title"     binding:"omitempty,max=100"`
}

// UpdateEmployeeRequest 更新账号；version 用于乐观锁
type UpdateEmployeeRequest struct {
	FullName     *string `json:"full_name"     binding:"omitempty,min=2,max=100"`
	Role         *string `json:"role"          binding:"omitempty,oneof=ADMIN COLLABORATOR"`
	IsActive     *bool   `json:"is_active"`
	Password     *string `json:"password"      binding:"omitempty,min=8,max=64"`
	EmployeeCode *string `json:"employee_code" binding:"omitempty,max=30"`
	Phone        *string `json:"phone"         binding:"omitempty,max=30"`
	JobTitle     *string `json:"job_title"     binding:"omitempty,max=100"`
	Version      int     `json:"version"       binding:"required,min=1"`
}

// EmployeeListRequest 账号列表查询参数
type EmployeeListRequest struct {
	PaginationRequest
	Role            string `form:"role"             binding:"omitempty,oneof=SUPER_ADMIN ADMIN COLLABORATOR"`
	Keyword         string `form:"keyword"`
	IncludeInactive bool   `form:"include_inactive"`
}

// ProfileResponse 账号信息（脱敏）
type ProfileResponse struct {
	ID           string `json:"id"`
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	IsActive     bool   `json:"is_active"`
	EmployeeCode string `json:"employee_code,omitempty"`
	Phone        string `json:"phone,omitempty"`
	JobTitle     string `json:"job_title,omitempty"`
	Version      int    `json:"version"`
	CreatedAt    string `json:"created_at"`
}
