package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"flowdesks/backend/internal/model"
	pkgerrors "flowdesks/backend/pkg/errors"
)

// AssignmentFilter 排班区间查询条件；区间为半开 [Start, End)
type AssignmentFilter struct {
	Start          time.Time
	End            time.Time
	EmployeeID     string
	LocationID     string
	ActivityTypeID string
	Status         string
}

// SeriesPatch 整组更新的非时间字段（每条排班自身的 start/end 不变）
type SeriesPatch struct {
	EmployeeProfileID string
	LocationID        *string
	ActivityTypeID    *string
	Details           string
	Status            string
	QtyOfHourDays     float64
	HourlyRate        float64
	DailyRate         float64
	FixedWage         float64
	Expenses          float64
	Extras            float64
	Deductions        float64
	TotalAmount       *float64

	EstablishmentName  string
	AssignmentAddress  string
	AssignmentLocation string
	AssignmentState    string

	UpdatedBy string
}

// AssignmentRepository 排班数据访问接口
type AssignmentRepository interface {
	Create(ctx context.Context, a *model.Assignment) error
	GetByID(ctx context.Context, id string) (*model.Assignment, error)
	Update(ctx context.Context, a *model.Assignment) error
	UpdateDates(ctx context.Context, id string, startAt, endAt time.Time, updatedBy string) error
	UpdateByRecurrenceGroup(ctx context.Context, groupID string, patch SeriesPatch) (int64, error)
	Delete(ctx context.Context, id string) error
	DeleteByRecurrenceGroup(ctx context.Context, groupID string) (int64, error)
	ListByRange(ctx context.Context, filter AssignmentFilter) ([]model.Assignment, error)
	ListByRecurrenceGroup(ctx context.Context, groupID string) ([]model.Assignment, error)
}

type assignmentRepo struct {
	db *gorm.DB
}

// NewAssignmentRepo 创建 AssignmentRepository 实例
func NewAssignmentRepo(db *gorm.DB) AssignmentRepository {
	return &assignmentRepo{db: db}
}

func (r *assignmentRepo) Create(ctx context.Context, a *model.Assignment) error {
	return r.db.WithContext(ctx).Omit("Employee", "Location", "ActivityType", "Attendance", "WorkPhotos").Create(a).Error
}

func (r *assignmentRepo) GetByID(ctx context.Context, id string) (*model.Assignment, error) {
	var a model.Assignment
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Preload("Location").
		Preload("ActivityType").
		Preload("Attendance").
		Where("assignment_id = ?", id).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Update 以乐观锁写回单条排班的全部字段（含 start/end，保留组 ID）
func (r *assignmentRepo) Update(ctx context.Context, a *model.Assignment) error {
	oldVersion := a.Version
	result := r.db.WithContext(ctx).
		Model(&model.Assignment{}).
		Where("assignment_id = ? AND version = ?", a.AssignmentID, oldVersion).
		Updates(map[string]interface{}{
			"employee_profile_id": a.EmployeeProfileID,
			"start_at":            a.StartAt,
			"end_at":              a.EndAt,
			"location_id":         a.LocationID,
			"activity_type_id":    a.ActivityTypeID,
			"details":             a.Details,
			"recurrence_group_id": a.RecurrenceGroupID,
			"status":              a.Status,
			"qty_of_hour_days":    a.QtyOfHourDays,
			"hourly_rate":         a.HourlyRate,
			"daily_rate":          a.DailyRate,
			"fixed_wage":          a.FixedWage,
			"expenses":            a.Expenses,
			"extras":              a.Extras,
			"deductions":          a.Deductions,
			"total_amount":        a.TotalAmount,
			"establishment_name":  a.EstablishmentName,
			"assignment_address":  a.AssignmentAddress,
			"assignment_location": a.AssignmentLocation,
			"assignment_state":    a.AssignmentState,
			"updated_by":          a.UpdatedBy,
			"updated_at":          gorm.Expr("NOW()"),
			"version":             oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	a.Version = oldVersion + 1
	return nil
}

// UpdateDates 拖拽调整：只改 start/end
func (r *assignmentRepo) UpdateDates(ctx context.Context, id string, startAt, endAt time.Time, updatedBy string) error {
	result := r.db.WithContext(ctx).
		Model(&model.Assignment{}).
		Where("assignment_id = ?", id).
		Updates(map[string]interface{}{
			"start_at":   startAt,
			"end_at":     endAt,
			"updated_by": updatedBy,
			"updated_at": gorm.Expr("NOW()"),
			"version":    gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateByRecurrenceGroup 一条 UPDATE 改写整组排班的共享字段
func (r *assignmentRepo) UpdateByRecurrenceGroup(ctx context.Context, groupID string, p SeriesPatch) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Assignment{}).
		Where("recurrence_group_id = ?", groupID).
		Updates(map[string]interface{}{
			"employee_profile_id": p.EmployeeProfileID,
			"location_id":         p.LocationID,
			"activity_type_id":    p.ActivityTypeID,
			"details":             p.Details,
			"status":              p.Status,
			"qty_of_hour_days":    p.QtyOfHourDays,
			"hourly_rate":         p.HourlyRate,
			"daily_rate":          p.DailyRate,
			"fixed_wage":          p.FixedWage,
			"expenses":            p.Expenses,
			"extras":              p.Extras,
			"deductions":          p.Deductions,
			"total_amount":        p.TotalAmount,
			"establishment_name":  p.EstablishmentName,
			"assignment_address":  p.AssignmentAddress,
			"assignment_location": p.AssignmentLocation,
			"assignment_state":    p.AssignmentState,
			"updated_by":          p.UpdatedBy,
			"updated_at":          gorm.Expr("NOW()"),
			"version":             gorm.Expr("version + 1"),
		})
	return result.RowsAffected, result.Error
}

func (r *assignmentRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("assignment_id = ?", id).
		Delete(&model.Assignment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *assignmentRepo) DeleteByRecurrenceGroup(ctx context.Context, groupID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("recurrence_group_id = ?", groupID).
		Delete(&model.Assignment{})
	return result.RowsAffected, result.Error
}

// ListByRange 查询与 [Start, End) 有交集的排班，附带打卡记录与工作照片（照片按时间倒序）
func (r *assignmentRepo) ListByRange(ctx context.Context, f AssignmentFilter) ([]model.Assignment, error) {
	var items []model.Assignment
	db := r.db.WithContext(ctx).
		Preload("Employee").
		Preload("Location").
		Preload("ActivityType").
		Preload("Attendance").
		Preload("WorkPhotos", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Where("start_at < ? AND end_at > ?", f.End, f.Start)

	if f.EmployeeID != "" {
		db = db.Where("employee_profile_id = ?", f.EmployeeID)
	}
	if f.LocationID != "" {
		db = db.Where("location_id = ?", f.LocationID)
	}
	if f.ActivityTypeID != "" {
		db = db.Where("activity_type_id = ?", f.ActivityTypeID)
	}
	if f.Status != "" {
		db = db.Where("status = ?", f.Status)
	}

	err := db.Order("start_at ASC").Find(&items).Error
	return items, err
}

func (r *assignmentRepo) ListByRecurrenceGroup(ctx context.Context, groupID string) ([]model.Assignment, error) {
	var items []model.Assignment
	err := r.db.WithContext(ctx).
		Where("recurrence_group_id = ?", groupID).
		Order("start_at ASC").
		Find(&items).Error
	return items, err
}

// ── Reassignment ──

// ReassignmentRepository 排班转派数据访问接口
type ReassignmentRepository interface {
	Reassign(ctx context.Context, assignmentID, toEmployeeID, reason, doneBy string) (*model.ReassignmentLog, error)
	ListByAssignment(ctx context.Context, assignmentID string) ([]model.ReassignmentLog, error)
}

type reassignmentRepo struct {
	db *gorm.DB
}

// NewReassignmentRepo 创建 ReassignmentRepository 实例
func NewReassignmentRepo(db *gorm.DB) ReassignmentRepository {
	return &reassignmentRepo{db: db}
}

// Reassign 调用 reassign_assignment：改派并写入转派记录（同一事务）
func (r *reassignmentRepo) Reassign(ctx context.Context, assignmentID, toEmployeeID, reason, doneBy string) (*model.ReassignmentLog, error) {
	var log model.ReassignmentLog
	result := r.db.WithContext(ctx).
		Raw("SELECT * FROM reassign_assignment(?, ?, ?, ?)", assignmentID, toEmployeeID, reason, doneBy).
		Scan(&log)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &log, nil
}

func (r *reassignmentRepo) ListByAssignment(ctx context.Context, assignmentID string) ([]model.ReassignmentLog, error) {
	var logs []model.ReassignmentLog
	err := r.db.WithContext(ctx).
		Where("assignment_id = ?", assignmentID).
		Order("created_at DESC").
		Find(&logs).Error
	return logs, err
}
