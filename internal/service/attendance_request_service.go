package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"flowdesks/backend/internal/attendance"
	"flowdesks/backend/internal/dto"
	"flowdesks/backend/internal/model"
	"flowdesks/backend/internal/repository"
)

// ── 补卡申请模块业务错误 ──

var (
	ErrRequestNotFound        = errors.New("补卡申请不存在")
	ErrRequestAlreadyReviewed = errors.New("该申请已审核")
	ErrRequestTimeOutOfRange  = errors.New("补卡时间与排班时间相差过大")
)

// 补卡时间允许偏离排班起止的范围
const requestTimeSlack = 12 * time.Hour

// AttendanceRequestService 补卡申请业务接口
type AttendanceRequestService interface {
	Create(ctx context.Context, req *dto.CreateAttendanceRequestRequest, callerID string) (*dto.AttendanceRequestResponse, error)
	ListPending(ctx context.Context, page *dto.PaginationRequest) ([]dto.AttendanceRequestResponse, int64, error)
	ListMine(ctx context.Context, page *dto.PaginationRequest, callerID string) ([]dto.AttendanceRequestResponse, int64, error)
	Review(ctx context.Context, id string, req *dto.ReviewAttendanceRequestRequest, reviewerID string) (*dto.AttendanceRequestResponse, error)
}

type attendanceRequestService struct {
	repo         *repository.Repository
	pinger       Pinger
	notification NotificationService
	logger       *zap.Logger
}

// NewAttendanceRequestService 创建 AttendanceRequestService 实例
func NewAttendanceRequestService(repo *repository.Repository, pinger Pinger, notification NotificationService, logger *zap.Logger) AttendanceRequestService {
	return &attendanceRequestService{repo: repo, pinger: pinger, notification: notification, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *attendanceRequestService) Create(ctx context.Context, req *dto.CreateAttendanceRequestRequest, callerID string) (*dto.AttendanceRequestResponse, error) {
	if _, err := attendance.ParseAction(req.RequestType); err != nil {
		return nil, err
	}
	if err := ensureOnline(ctx, s.pinger); err != nil {
		return nil, err
	}

	a, err := s.repo.Assignment.GetByID(ctx, req.AssignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	if a.EmployeeProfileID != callerID {
		return nil, ErrNotAssignmentOwner
	}
	if req.RequestedTime.Before(a.StartAt.Add(-requestTimeSlack)) || req.RequestedTime.After(a.EndAt.Add(requestTimeSlack)) {
		return nil, ErrRequestTimeOutOfRange
	}

	r := &model.AttendanceAdjustmentRequest{
		AssignmentID:      req.AssignmentID,
		EmployeeProfileID: callerID,
		RequestType:       req.RequestType,
		RequestedTime:     req.RequestedTime,
		Reason:            req.Reason,
		Status:            model.RequestPending,
	}
	r.StampCreated(callerID)

	if err := s.repo.AttendanceRequest.Create(ctx, r); err != nil {
		s.logger.Error("创建补卡申请失败", zap.String("assignment_id", req.AssignmentID), zap.Error(err))
		return nil, err
	}

	resp := toAttendanceRequestResponse(r)
	return &resp, nil
}

// ────────────────────── List ──────────────────────

func (s *attendanceRequestService) ListPending(ctx context.Context, page *dto.PaginationRequest) ([]dto.AttendanceRequestResponse, int64, error) {
	items, total, err := s.repo.AttendanceRequest.ListPending(ctx, page.GetOffset(), page.GetPageSize())
	if err != nil {
		s.logger.Error("查询待审核补卡申请失败", zap.Error(err))
		return nil, 0, err
	}
	return toAttendanceRequestList(items), total, nil
}

func (s *attendanceRequestService) ListMine(ctx context.Context, page *dto.PaginationRequest, callerID string) ([]dto.AttendanceRequestResponse, int64, error) {
	items, total, err := s.repo.AttendanceRequest.ListByEmployee(ctx, callerID, page.GetOffset(), page.GetPageSize())
	if err != nil {
		s.logger.Error("查询补卡申请失败", zap.String("user_id", callerID), zap.Error(err))
		return nil, 0, err
	}
	return toAttendanceRequestList(items), total, nil
}

// ────────────────────── Review ──────────────────────

// Review 审核由 review_attendance_request 完成，通过时过程同步改写打卡记录
func (s *attendanceRequestService) Review(ctx context.Context, id string, req *dto.ReviewAttendanceRequestRequest, reviewerID string) (*dto.AttendanceRequestResponse, error) {
	if err := ensureOnline(ctx, s.pinger); err != nil {
		return nil, err
	}

	r, err := s.repo.AttendanceRequest.Review(ctx, id, *req.Approve, req.ReviewNote, reviewerID)
	if err != nil {
		switch pgHint(err) {
		case "request_not_found":
			return nil, ErrRequestNotFound
		case "already_reviewed":
			return nil, ErrRequestAlreadyReviewed
		case "checkin_required":
			return nil, attendance.ClassifyRejection(err)
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		s.logger.Error("审核补卡申请失败", zap.String("request_id", id), zap.Error(err))
		return nil, err
	}

	s.notifyReviewed(ctx, r)

	resp := toAttendanceRequestResponse(r)
	return &resp, nil
}

func (s *attendanceRequestService) notifyReviewed(ctx context.Context, r *model.AttendanceAdjustmentRequest) {
	if s.notification == nil {
		return
	}
	related := "attendance_request"
	title, message := "补卡申请已通过", "你的补卡申请已通过审核"
	if r.Status == model.RequestRejected {
		title, message = "补卡申请被驳回", "你的补卡申请未通过审核"
	}
	if r.ReviewNote != nil && *r.ReviewNote != "" {
		message += "：" + *r.ReviewNote
	}

	n := &model.Notification{
		UserID:      r.EmployeeProfileID,
		Type:        model.NotificationReviewed,
		Title:       title,
		Message:     message,
		RelatedType: &related,
		RelatedID:   &r.RequestID,
	}
	payload := map[string]interface{}{
		"request_id":    r.RequestID,
		"assignment_id": r.AssignmentID,
		"status":        r.Status,
	}
	if err := s.notification.Notify(ctx, n, payload); err != nil {
		s.logger.Warn("发送审核通知失败", zap.String("request_id", r.RequestID), zap.Error(err))
	}
}

// ────────────────────── 辅助函数 ──────────────────────

func toAttendanceRequestList(items []model.AttendanceAdjustmentRequest) []dto.AttendanceRequestResponse {
	out := make([]dto.AttendanceRequestResponse, 0, len(items))
	for i := range items {
		out = append(out, toAttendanceRequestResponse(&items[i]))
	}
	return out
}

func toAttendanceRequestResponse(r *model.AttendanceAdjustmentRequest) dto.AttendanceRequestResponse {
	resp := dto.AttendanceRequestResponse{
		ID:                r.RequestID,
		AssignmentID:      r.AssignmentID,
		EmployeeProfileID: r.EmployeeProfileID,
		RequestType:       r.RequestType,
		RequestedTime:     formatTime(r.RequestedTime),
		Reason:            r.Reason,
		Status:            r.Status,
		ReviewNote:        r.ReviewNote,
		ReviewedBy:        r.ReviewedBy,
		ReviewedAt:        formatTimePtr(r.ReviewedAt),
		CreatedAt:         formatTime(r.CreatedAt),
	}
	if r.Employee != nil {
		resp.EmployeeName = r.Employee.FullName
	}
	if r.Assignment != nil {
		resp.AssignmentStartAt = formatTime(r.Assignment.StartAt)
	}
	return resp
}
