package repository

import (
	"context"

	"gorm.io/gorm"

	"flowdesks/backend/internal/model"
)

// PunchParams punch_assignment 的入参；定位字段可为空
type PunchParams struct {
	AssignmentID string
	Action       string // IN | OUT
	PhotoURL     *string
	Latitude     *float64
	Longitude    *float64
	AccuracyM    *float64
}

// AttendanceRepository 打卡记录数据访问接口
type AttendanceRepository interface {
	GetByAssignment(ctx context.Context, assignmentID string) (*model.AssignmentAttendance, error)
	Punch(ctx context.Context, p PunchParams) (*model.AssignmentAttendance, error)
}

type attendanceRepo struct {
	db *gorm.DB
}

// NewAttendanceRepo 创建 AttendanceRepository 实例
func NewAttendanceRepo(db *gorm.DB) AttendanceRepository {
	return &attendanceRepo{db: db}
}

func (r *attendanceRepo) GetByAssignment(ctx context.Context, assignmentID string) (*model.AssignmentAttendance, error) {
	var att model.AssignmentAttendance
	err := r.db.WithContext(ctx).
		Where("assignment_id = ?", assignmentID).
		First(&att).Error
	if err != nil {
		return nil, err
	}
	return &att, nil
}

// Punch 调用 punch_assignment；围栏、精度、时间窗口由过程判定并以异常返回
func (r *attendanceRepo) Punch(ctx context.Context, p PunchParams) (*model.AssignmentAttendance, error) {
	var att model.AssignmentAttendance
	result := r.db.WithContext(ctx).
		Raw("SELECT * FROM punch_assignment(?, ?, ?, ?, ?, ?)",
			p.AssignmentID, p.Action, p.PhotoURL, p.Latitude, p.Longitude, p.AccuracyM).
		Scan(&att)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &att, nil
}

// ── WorkPhoto ──

// WorkPhotoRepository 工作照片数据访问接口
type WorkPhotoRepository interface {
	Create(ctx context.Context, photo *model.AssignmentWorkPhoto) error
	GetByID(ctx context.Context, id string) (*model.AssignmentWorkPhoto, error)
	ListByAssignment(ctx context.Context, assignmentID string) ([]model.AssignmentWorkPhoto, error)
	Delete(ctx context.Context, id string) error
}

type workPhotoRepo struct {
	db *gorm.DB
}

// NewWorkPhotoRepo 创建 WorkPhotoRepository 实例
func NewWorkPhotoRepo(db *gorm.DB) WorkPhotoRepository {
	return &workPhotoRepo{db: db}
}

func (r *workPhotoRepo) Create(ctx context.Context, photo *model.AssignmentWorkPhoto) error {
	return r.db.WithContext(ctx).Create(photo).Error
}

func (r *workPhotoRepo) GetByID(ctx context.Context, id string) (*model.AssignmentWorkPhoto, error) {
	var photo model.AssignmentWorkPhoto
	err := r.db.WithContext(ctx).
		Where("work_photo_id = ?", id).
		First(&photo).Error
	if err != nil {
		return nil, err
	}
	return &photo, nil
}

func (r *workPhotoRepo) ListByAssignment(ctx context.Context, assignmentID string) ([]model.AssignmentWorkPhoto, error) {
	var photos []model.AssignmentWorkPhoto
	err := r.db.WithContext(ctx).
		Where("assignment_id = ?", assignmentID).
		Order("created_at DESC").
		Find(&photos).Error
	return photos, err
}

func (r *workPhotoRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("work_photo_id = ?", id).
		Delete(&model.AssignmentWorkPhoto{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ── AttendanceRequest ──

// AttendanceRequestRepository 补卡申请数据访问接口
type AttendanceRequestRepository interface {
	Create(ctx context.Context, req *model.AttendanceAdjustmentRequest) error
	GetByID(ctx context.Context, id string) (*model.AttendanceAdjustmentRequest, error)
	ListPending(ctx context.Context, offset, limit int) ([]model.AttendanceAdjustmentRequest, int64, error)
	ListByEmployee(ctx context.Context, employeeID string, offset, limit int) ([]model.AttendanceAdjustmentRequest, int64, error)
	Review(ctx context.Context, id string, approve bool, note *string, reviewerID string) (*model.AttendanceAdjustmentRequest, error)
}

type attendanceRequestRepo struct {
	db *gorm.DB
}

// NewAttendanceRequestRepo 创建 AttendanceRequestRepository 实例
func NewAttendanceRequestRepo(db *gorm.DB) AttendanceRequestRepository {
	return &attendanceRequestRepo{db: db}
}

func (r *attendanceRequestRepo) Create(ctx context.Context, req *model.AttendanceAdjustmentRequest) error {
	return r.db.WithContext(ctx).Omit("Assignment", "Employee").Create(req).Error
}

func (r *attendanceRequestRepo) GetByID(ctx context.Context, id string) (*model.AttendanceAdjustmentRequest, error) {
	var req model.AttendanceAdjustmentRequest
	err := r.db.WithContext(ctx).
		Preload("Assignment").
		Preload("Employee").
		Where("request_id = ?", id).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// ListPending 待审核申请，按提交时间正序
func (r *attendanceRequestRepo) ListPending(ctx context.Context, offset, limit int) ([]model.AttendanceAdjustmentRequest, int64, error) {
	return r.list(ctx, r.db.Where("status = ?", model.RequestPending), "created_at ASC", offset, limit)
}

// ListByEmployee 某员工的申请，按提交时间倒序
func (r *attendanceRequestRepo) ListByEmployee(ctx context.Context, employeeID string, offset, limit int) ([]model.AttendanceAdjustmentRequest, int64, error) {
	return r.list(ctx, r.db.Where("employee_profile_id = ?", employeeID), "created_at DESC", offset, limit)
}

func (r *attendanceRequestRepo) list(ctx context.Context, scope *gorm.DB, order string, offset, limit int) ([]model.AttendanceAdjustmentRequest, int64, error) {
	var reqs []model.AttendanceAdjustmentRequest
	var total int64

	db := r.db.WithContext(ctx).Model(&model.AttendanceAdjustmentRequest{}).Where(scope)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("Assignment").
		Preload("Employee").
		Offset(offset).Limit(limit).
		Order(order).
		Find(&reqs).Error
	return reqs, total, err
}

// Review 调用 review_attendance_request；通过时同步改写打卡记录
func (r *attendanceRequestRepo) Review(ctx context.Context, id string, approve bool, note *string, reviewerID string) (*model.AttendanceAdjustmentRequest, error) {
	var req model.AttendanceAdjustmentRequest
	result := r.db.WithContext(ctx).
		Raw("SELECT * FROM review_attendance_request(?, ?, ?, ?)", id, approve, note, reviewerID).
		Scan(&req)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &req, nil
}
