package repository

import (
	"context"

	"gorm.io/gorm"

	"flowdesks/backend/internal/model"
)

// LocationRepository 工作地点数据访问接口
type LocationRepository interface {
	Create(ctx context.Context, loc *model.Location) error
	GetByID(ctx context.Context, id string) (*model.Location, error)
	List(ctx context.Context, includeInactive bool) ([]model.Location, error)
	Update(ctx context.Context, loc *model.Location) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

type locationRepo struct {
	db *gorm.DB
}

// NewLocationRepo 创建 LocationRepository 实例
func NewLocationRepo(db *gorm.DB) LocationRepository {
	return &locationRepo{db: db}
}

func (r *locationRepo) Create(ctx context.Context, loc *model.Location) error {
	return r.db.WithContext(ctx).Create(loc).Error
}

func (r *locationRepo) GetByID(ctx context.Context, id string) (*model.Location, error) {
	var loc model.Location
	err := r.db.WithContext(ctx).
		Where("location_id = ?", id).
		First(&loc).Error
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

func (r *locationRepo) List(ctx context.Context, includeInactive bool) ([]model.Location, error) {
	var locations []model.Location
	db := r.db.WithContext(ctx)

	if !includeInactive {
		db = db.Where("is_active = ?", true)
	}

	err := db.Order("name ASC").Find(&locations).Error
	return locations, err
}

func (r *locationRepo) Update(ctx context.Context, loc *model.Location) error {
	return r.db.WithContext(ctx).Save(loc).Error
}

func (r *locationRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Location{}).
		Where("location_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}

// ── ActivityType ──

// ActivityTypeRepository 作业类型数据访问接口
type ActivityTypeRepository interface {
	Create(ctx context.Context, at *model.ActivityType) error
	GetByID(ctx context.Context, id string) (*model.ActivityType, error)
	List(ctx context.Context, includeInactive bool) ([]model.ActivityType, error)
	Update(ctx context.Context, at *model.ActivityType) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

type activityTypeRepo struct {
	db *gorm.DB
}

// NewActivityTypeRepo 创建 ActivityTypeRepository 实例
func NewActivityTypeRepo(db *gorm.DB) ActivityTypeRepository {
	return &activityTypeRepo{db: db}
}

func (r *activityTypeRepo) Create(ctx context.Context, at *model.ActivityType) error {
	return r.db.WithContext(ctx).Create(at).Error
}

func (r *activityTypeRepo) GetByID(ctx context.Context, id string) (*model.ActivityType, error) {
	var at model.ActivityType
	err := r.db.WithContext(ctx).
		Where("activity_type_id = ?", id).
		First(&at).Error
	if err != nil {
		return nil, err
	}
	return &at, nil
}

func (r *activityTypeRepo) List(ctx context.Context, includeInactive bool) ([]model.ActivityType, error) {
	var types []model.ActivityType
	db := r.db.WithContext(ctx)
	if !includeInactive {
		db = db.Where("is_active = ?", true)
	}
	err := db.Order("name ASC").Find(&types).Error
	return types, err
}

func (r *activityTypeRepo) Update(ctx context.Context, at *model.ActivityType) error {
	return r.db.WithContext(ctx).Save(at).Error
}

func (r *activityTypeRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.ActivityType{}).
		Where("activity_type_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}
