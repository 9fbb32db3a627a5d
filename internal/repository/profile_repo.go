package repository

import (
	"context"

	"gorm.io/gorm"

	"flowdesks/backend/internal/model"
	pkgerrors "flowdesks/backend/pkg/errors"
)

// ProfileFilter 账号列表筛选条件
type ProfileFilter struct {
	Role            string
	Keyword         string
	IncludeInactive bool
}

// ProfileRepository 账号与员工档案数据访问接口
type ProfileRepository interface {
	Create(ctx context.Context, profile *model.Profile) error
	GetByID(ctx context.Context, id string) (*model.Profile, error)
	GetByEmail(ctx context.Context, email string) (*model.Profile, error)
	Update(ctx context.Context, profile *model.Profile) error
	SaveEmployee(ctx context.Context, employee *model.Employee) error
	List(ctx context.Context, filter ProfileFilter, offset, limit int) ([]model.Profile, int64, error)
}

// profileRepo ProfileRepository 的 GORM 实现
type profileRepo struct {
	db *gorm.DB
}

// NewProfileRepo 创建 ProfileRepository 实例
func NewProfileRepo(db *gorm.DB) ProfileRepository {
	return &profileRepo{db: db}
}

// Create 同时写入账号与员工档案（Employee 非空时）
func (r *profileRepo) Create(ctx context.Context, profile *model.Profile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *profileRepo) GetByID(ctx context.Context, id string) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Where("profile_id = ?", id).
		First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepo) GetByEmail(ctx context.Context, email string) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Where("LOWER(email) = LOWER(?)", email).
		First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepo) Update(ctx context.Context, profile *model.Profile) error {
	oldVersion := profile.Version
	result := r.db.WithContext(ctx).
		Model(&model.Profile{}).
		Where("profile_id = ? AND version = ?", profile.ProfileID, oldVersion).
		Updates(map[string]interface{}{
			"full_name":     profile.FullName,
			"email":         profile.Email,
			"password_hash": profile.PasswordHash,
			"role":          profile.Role,
			"is_active":     profile.IsActive,
			"updated_by":    profile.UpdatedBy,
			"updated_at":    gorm.Expr("NOW()"),
			"version":       oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	profile.Version = oldVersion + 1
	return nil
}

func (r *profileRepo) SaveEmployee(ctx context.Context, employee *model.Employee) error {
	return r.db.WithContext(ctx).Save(employee).Error
}

func (r *profileRepo) List(ctx context.Context, filter ProfileFilter, offset, limit int) ([]model.Profile, int64, error) {
	var profiles []model.Profile
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Profile{})
	if filter.Role != "" {
		db = db.Where("role = ?", filter.Role)
	}
	if !filter.IncludeInactive {
		db = db.Where("is_active = ?", true)
	}
	if filter.Keyword != "" {
		like := "%" + filter.Keyword + "%"
		db = db.Where("full_name ILIKE ? OR email ILIKE ?", like, like)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("Employee").
		Offset(offset).Limit(limit).
		Order("full_name ASC").
		Find(&profiles).Error
	return profiles, total, err
}
