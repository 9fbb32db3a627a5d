package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"flowdesks/backend/internal/dto"
	"flowdesks/backend/internal/model"
	"flowdesks/backend/internal/repository"
	pkgerrors "flowdesks/backend/pkg/errors"
)

// ── 账号模块业务错误 ──

var (
	ErrEmailExists         = errors.New("邮箱已被使用")
	ErrCannotModifySuper   = errors.New("不能修改超级管理员账号")
	ErrCannotDisableSelf   = errors.New("不能停用自己的账号")
	ErrPasswordHashFailure = errors.New("密码加密失败")
)

// EmployeeService 账号与员工档案业务接口
type EmployeeService interface {
	Create(ctx context.Context, req *dto.CreateEmployeeRequest, callerID string) (*dto.ProfileResponse, error)
	Get(ctx context.Context, id string) (*dto.ProfileResponse, error)
	List(ctx context.Context, req *dto.EmployeeListRequest) ([]dto.ProfileResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateEmployeeRequest, callerID string) (*dto.ProfileResponse, error)
}

type employeeService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewEmployeeService 创建 EmployeeService 实例
func NewEmployeeService(repo *repository.Repository, logger *zap.Logger) EmployeeService {
	return &employeeService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *employeeService) Create(ctx context.Context, req *dto.CreateEmployeeRequest, callerID string) (*dto.ProfileResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.repo.Profile.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询邮箱失败", zap.Error(err))
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrPasswordHashFailure
	}

	role := req.Role
	if role == "" {
		role = model.RoleCollaborator
	}

	p := &model.Profile{
		FullName:     req.FullName,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
		Employee: &model.Employee{
			EmployeeCode: req.EmployeeCode,
			Phone:        req.Phone,
			JobTitle:     req.JobTitle,
		},
	}
	p.StampCreated(callerID)

	if err := s.repo.Profile.Create(ctx, p); err != nil {
		s.logger.Error("创建账号失败", zap.String("email", email), zap.Error(err))
		return nil, err
	}

	resp := toProfileResponse(p)
	return &resp, nil
}

// ────────────────────── Get / List ──────────────────────

func (s *employeeService) Get(ctx context.Context, id string) (*dto.ProfileResponse, error) {
	p, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toProfileResponse(p)
	return &resp, nil
}

func (s *employeeService) List(ctx context.Context, req *dto.EmployeeListRequest) ([]dto.ProfileResponse, int64, error) {
	filter := repository.ProfileFilter{
		Role:            req.Role,
		Keyword:         strings.TrimSpace(req.Keyword),
		IncludeInactive: req.IncludeInactive,
	}
	items, total, err := s.repo.Profile.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询账号列表失败", zap.Error(err))
		return nil, 0, err
	}
	out := make([]dto.ProfileResponse, 0, len(items))
	for i := range items {
		out = append(out, toProfileResponse(&items[i]))
	}
	return out, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *employeeService) Update(ctx context.Context, id string, req *dto.UpdateEmployeeRequest, callerID string) (*dto.ProfileResponse, error) {
	p, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Role == model.RoleSuperAdmin {
		return nil, ErrCannotModifySuper
	}
	if req.Version != p.Version {
		return nil, pkgerrors.ErrOptimisticLock
	}
	if id == callerID && req.IsActive != nil && !*req.IsActive {
		return nil, ErrCannotDisableSelf
	}

	if req.FullName != nil {
		p.FullName = *req.FullName
	}
	if req.Role != nil {
		p.Role = *req.Role
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, ErrPasswordHashFailure
		}
		p.PasswordHash = string(hash)
	}
	p.StampUpdated(callerID)

	if err := s.repo.Profile.Update(ctx, p); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, err
		}
		s.logger.Error("更新账号失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.EmployeeCode != nil || req.Phone != nil || req.JobTitle != nil {
		emp := p.Employee
		if emp == nil {
			emp = &model.Employee{ProfileID: p.ProfileID}
		}
		if req.EmployeeCode != nil {
			emp.EmployeeCode = *req.EmployeeCode
		}
		if req.Phone != nil {
			emp.Phone = *req.Phone
		}
		if req.JobTitle != nil {
			emp.JobTitle = *req.JobTitle
		}
		emp.StampUpdated(callerID)
		if err := s.repo.Profile.SaveEmployee(ctx, emp); err != nil {
			s.logger.Error("更新员工档案失败", zap.String("id", id), zap.Error(err))
			return nil, err
		}
		p.Employee = emp
	}

	resp := toProfileResponse(p)
	return &resp, nil
}

func (s *employeeService) get(ctx context.Context, id string) (*model.Profile, error) {
	p, err := s.repo.Profile.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		s.logger.Error("查询账号失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return p, nil
}

func toProfileResponse(p *model.Profile) dto.ProfileResponse {
	resp := dto.ProfileResponse{
		ID:        p.ProfileID,
		FullName:  p.FullName,
		Email:     p.Email,
		Role:      p.Role,
		IsActive:  p.IsActive,
		Version:   p.Version,
		CreatedAt: formatTime(p.CreatedAt),
	}
	if p.Employee != nil {
		resp.EmployeeCode = p.Employee.EmployeeCode
		resp.Phone = p.Employee.Phone
		resp.JobTitle = p.Employee.JobTitle
	}
	return resp
}
