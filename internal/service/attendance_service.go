package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"flowdesks/backend/internal/attendance"
	"flowdesks/backend/internal/dto"
	"flowdesks/backend/internal/model"
	"flowdesks/backend/internal/repository"
)

// ── 打卡模块业务错误 ──

var (
	ErrNotAssignmentOwner  = errors.New("只能操作自己的排班")
	ErrAssignmentCancelled = errors.New("排班已取消")
	ErrInvalidReading      = errors.New("定位数据无效")
)

// AttendanceService 打卡业务接口
//
// 状态机校验（attendance.Guard）在调用 punch_assignment 之前完成；
// 围栏、精度与时间窗口由数据库过程判定，返回的错误经 attendance.ClassifyRejection 归类。
type AttendanceService interface {
	Punch(ctx context.Context, assignmentID string, req *dto.PunchRequest, callerID string) (*dto.AttendanceResponse, error)
	Get(ctx context.Context, assignmentID, callerID, role string) (*dto.AttendanceResponse, error)
}

type attendanceService struct {
	repo   *repository.Repository
	pinger Pinger
	logger *zap.Logger
}

// NewAttendanceService 创建 AttendanceService 实例
func NewAttendanceService(repo *repository.Repository, pinger Pinger, logger *zap.Logger) AttendanceService {
	return &attendanceService{repo: repo, pinger: pinger, logger: logger}
}

// ────────────────────── Punch ──────────────────────

func (s *attendanceService) Punch(ctx context.Context, assignmentID string, req *dto.PunchRequest, callerID string) (*dto.AttendanceResponse, error) {
	action, err := attendance.ParseAction(req.Action)
	if err != nil {
		return nil, err
	}
	if err := attendance.ValidateReading(req.Geo); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReading, err)
	}
	if err := ensureOnline(ctx, s.pinger); err != nil {
		return nil, err
	}

	a, err := s.repo.Assignment.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		s.logger.Error("查询排班失败", zap.String("assignment_id", assignmentID), zap.Error(err))
		return nil, err
	}
	if a.EmployeeProfileID != callerID {
		return nil, ErrNotAssignmentOwner
	}
	if a.Status == model.AssignmentCancelled {
		return nil, ErrAssignmentCancelled
	}

	// 非法状态转换在此拦截，不会发出过程调用
	if err := attendance.Guard(currentStatus(a.Attendance), action); err != nil {
		return nil, err
	}

	params := repository.PunchParams{
		AssignmentID: assignmentID,
		Action:       string(action),
		PhotoURL:     req.PhotoURL,
	}
	if req.Geo != nil {
		lat, lng := req.Geo.Latitude, req.Geo.Longitude
		params.Latitude = &lat
		params.Longitude = &lng
		params.AccuracyM = req.Geo.AccuracyM
	}

	att, err := s.repo.Attendance.Punch(ctx, params)
	if err != nil {
		return nil, s.translatePunchError(err, assignmentID, action)
	}

	s.logger.Info("打卡成功",
		zap.String("assignment_id", assignmentID),
		zap.String("action", string(action)),
		zap.String("status", att.Status),
	)

	resp := toAttendanceResponse(att)
	return &resp, nil
}

// translatePunchError 并发打卡导致的状态冲突还原为 TransitionError，其余交给拒绝原因归类
func (s *attendanceService) translatePunchError(err error, assignmentID string, action attendance.Action) error {
	switch pgHint(err) {
	case "assignment_not_found":
		return ErrAssignmentNotFound
	case "already_checked_in":
		return &attendance.TransitionError{From: attendance.StatusCheckedIn, Action: action}
	case "already_checked_out":
		return &attendance.TransitionError{From: attendance.StatusDone, Action: action}
	case "invalid_action":
		return attendance.ErrInvalidAction
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrAssignmentNotFound
	}

	classified := attendance.ClassifyRejection(err)
	var re *attendance.RejectionError
	if errors.As(classified, &re) && re.Kind != attendance.UnclassifiedRejection {
		s.logger.Info("打卡被拒绝", zap.String("assignment_id", assignmentID), zap.String("reason", string(re.Kind)))
	} else {
		s.logger.Error("打卡失败", zap.String("assignment_id", assignmentID), zap.Error(err))
	}
	return classified
}

// ────────────────────── Get ──────────────────────

func (s *attendanceService) Get(ctx context.Context, assignmentID, callerID, role string) (*dto.AttendanceResponse, error) {
	a, err := s.repo.Assignment.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	if !model.IsAdminRole(role) && a.EmployeeProfileID != callerID {
		return nil, ErrAssignmentForbidden
	}

	if a.Attendance == nil {
		return &dto.AttendanceResponse{
			AssignmentID: assignmentID,
			Status:       string(attendance.StatusNotStarted),
		}, nil
	}
	resp := toAttendanceResponse(a.Attendance)
	return &resp, nil
}

// ────────────────────── 辅助函数 ──────────────────────

func currentStatus(att *model.AssignmentAttendance) attendance.Status {
	if att == nil {
		return attendance.StatusNotStarted
	}
	return attendance.StatusOf(att.CheckInAt, att.CheckOutAt)
}

// toAttendanceResponse 状态与 done 一律由签到/签退时间推导
func toAttendanceResponse(att *model.AssignmentAttendance) dto.AttendanceResponse {
	rec := attendance.Record{CheckInAt: att.CheckInAt, CheckOutAt: att.CheckOutAt}.Normalize()
	return dto.AttendanceResponse{
		AssignmentID:   att.AssignmentID,
		Status:         string(rec.Status),
		Done:           rec.Done,
		CheckInAt:      formatTimePtr(att.CheckInAt),
		CheckOutAt:     formatTimePtr(att.CheckOutAt),
		BeforePhotoURL: att.BeforePhotoURL,
		AfterPhotoURL:  att.AfterPhotoURL,
	}
}
