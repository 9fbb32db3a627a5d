package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"flowdesks/backend/internal/dto"
	"flowdesks/backend/internal/model"
	"flowdesks/backend/internal/repository"
)

// ActivityTypeService 作业类型业务接口
type ActivityTypeService interface {
	Create(ctx context.Context, req *dto.ActivityTypeRequest, callerID string) (*dto.ActivityTypeResponse, error)
	List(ctx context.Context, req *dto.CatalogListRequest) ([]dto.ActivityTypeResponse, error)
	Update(ctx context.Context, id string, req *dto.ActivityTypeRequest, callerID string) (*dto.ActivityTypeResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
}

type activityTypeService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewActivityTypeService 创建 ActivityTypeService 实例
func NewActivityTypeService(repo *repository.Repository, logger *zap.Logger) ActivityTypeService {
	return &activityTypeService{repo: repo, logger: logger}
}

func (s *activityTypeService) Create(ctx context.Context, req *dto.ActivityTypeRequest, callerID string) (*dto.ActivityTypeResponse, error) {
	at := &model.ActivityType{Name: req.Name, IsActive: true}
	if req.IsActive != nil {
		at.IsActive = *req.IsActive
	}
	at.StampCreated(callerID)

	if err := s.repo.ActivityType.Create(ctx, at); err != nil {
		s.logger.Error("创建作业类型失败", zap.Error(err))
		return nil, err
	}
	return toActivityTypeResponse(at), nil
}

func (s *activityTypeService) List(ctx context.Context, req *dto.CatalogListRequest) ([]dto.ActivityTypeResponse, error) {
	items, err := s.repo.ActivityType.List(ctx, req.IncludeInactive)
	if err != nil {
		s.logger.Error("列出作业类型失败", zap.Error(err))
		return nil, err
	}
	out := make([]dto.ActivityTypeResponse, 0, len(items))
	for i := range items {
		out = append(out, *toActivityTypeResponse(&items[i]))
	}
	return out, nil
}

func (s *activityTypeService) Update(ctx context.Context, id string, req *dto.ActivityTypeRequest, callerID string) (*dto.ActivityTypeResponse, error) {
	at, err := s.repo.ActivityType.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActivityTypeNotFound
		}
		return nil, err
	}

	at.Name = req.Name
	if req.IsActive != nil {
		at.IsActive = *req.IsActive
	}
	at.StampUpdated(callerID)

	if err := s.repo.ActivityType.Update(ctx, at); err != nil {
		s.logger.Error("更新作业类型失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toActivityTypeResponse(at), nil
}

func (s *activityTypeService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.repo.ActivityType.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrActivityTypeNotFound
		}
		return err
	}
	if err := s.repo.ActivityType.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除作业类型失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func toActivityTypeResponse(at *model.ActivityType) *dto.ActivityTypeResponse {
	return &dto.ActivityTypeResponse{ID: at.ActivityTypeID, Name: at.Name, IsActive: at.IsActive}
}
