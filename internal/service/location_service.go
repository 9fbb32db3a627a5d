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

// ── 地点模块业务错误 ──

var (
	ErrLocationNotFound   = errors.New("地点不存在")
	ErrGeofenceIncomplete = errors.New("设置打卡范围时必须同时提供经纬度")
)

// LocationService 地点业务接口
type LocationService interface {
	Create(ctx context.Context, req *dto.CreateLocationRequest, callerID string) (*dto.LocationResponse, error)
	GetByID(ctx context.Context, id string) (*dto.LocationResponse, error)
	List(ctx context.Context, req *dto.CatalogListRequest) ([]dto.LocationResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateLocationRequest, callerID string) (*dto.LocationResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
}

type locationService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewLocationService 创建 LocationService 实例
func NewLocationService(repo *repository.Repository, logger *zap.Logger) LocationService {
	return &locationService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *locationService) Create(ctx context.Context, req *dto.CreateLocationRequest, callerID string) (*dto.LocationResponse, error) {
	loc := &model.Location{
		Name:            req.Name,
		Address:         req.Address,
		MapsURL:         req.MapsURL,
		State:           req.State,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		GeofenceRadiusM: req.GeofenceRadiusM,
		IsActive:        true,
	}
	if err := validateGeofence(loc); err != nil {
		return nil, err
	}
	loc.StampCreated(callerID)

	if err := s.repo.Location.Create(ctx, loc); err != nil {
		s.logger.Error("创建地点失败", zap.Error(err))
		return nil, err
	}

	return toLocationResponse(loc), nil
}

// ────────────────────── GetByID / List ──────────────────────

func (s *locationService) GetByID(ctx context.Context, id string) (*dto.LocationResponse, error) {
	loc, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toLocationResponse(loc), nil
}

func (s *locationService) List(ctx context.Context, req *dto.CatalogListRequest) ([]dto.LocationResponse, error) {
	locations, err := s.repo.Location.List(ctx, req.IncludeInactive)
	if err != nil {
		s.logger.Error("列出地点失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.LocationResponse, 0, len(locations))
	for i := range locations {
		result = append(result, *toLocationResponse(&locations[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

// Update 修改地点不会回写已有排班上的地点快照
func (s *locationService) Update(ctx context.Context, id string, req *dto.UpdateLocationRequest, callerID string) (*dto.LocationResponse, error) {
	loc, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		loc.Name = *req.Name
	}
	if req.Address != nil {
		loc.Address = *req.Address
	}
	if req.MapsURL != nil {
		loc.MapsURL = *req.MapsURL
	}
	if req.State != nil {
		loc.State = *req.State
	}
	if req.Latitude != nil {
		loc.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		loc.Longitude = req.Longitude
	}
	if req.GeofenceRadiusM != nil {
		loc.GeofenceRadiusM = req.GeofenceRadiusM
	}
	if req.IsActive != nil {
		loc.IsActive = *req.IsActive
	}
	if err := validateGeofence(loc); err != nil {
		return nil, err
	}

	loc.StampUpdated(callerID)

	if err := s.repo.Location.Update(ctx, loc); err != nil {
		s.logger.Error("更新地点失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toLocationResponse(loc), nil
}

// ────────────────────── Delete ──────────────────────

func (s *locationService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.get(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Location.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除地点失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ── 辅助函数 ──

func (s *locationService) get(ctx context.Context, id string) (*model.Location, error) {
	loc, err := s.repo.Location.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLocationNotFound
		}
		s.logger.Error("查询地点失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return loc, nil
}

// validateGeofence 打卡范围依赖坐标
func validateGeofence(loc *model.Location) error {
	if loc.GeofenceRadiusM != nil && (loc.Latitude == nil || loc.Longitude == nil) {
		return ErrGeofenceIncomplete
	}
	return nil
}

func toLocationResponse(loc *model.Location) *dto.LocationResponse {
	return &dto.LocationResponse{
		ID:              loc.LocationID,
		Name:            loc.Name,
		Address:         loc.Address,
		MapsURL:         loc.MapsURL,
		State:           loc.State,
		Latitude:        loc.Latitude,
		Longitude:       loc.Longitude,
		GeofenceRadiusM: loc.GeofenceRadiusM,
		IsActive:        loc.IsActive,
		CreatedAt:       formatTime(loc.CreatedAt),
		UpdatedAt:       formatTime(loc.UpdatedAt),
	}
}
