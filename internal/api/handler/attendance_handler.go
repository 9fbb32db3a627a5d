package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"flowdesks/backend/internal/attendance"
	"flowdesks/backend/internal/dto"
	"flowdesks/backend/internal/service"
	"flowdesks/backend/pkg/response"
)

// AttendanceHandler 打卡与补卡申请 HTTP 处理器
type AttendanceHandler struct {
	attendanceSvc service.AttendanceService
	requestSvc    service.AttendanceRequestService
}

// NewAttendanceHandler 创建 AttendanceHandler
func NewAttendanceHandler(attendanceSvc service.AttendanceService, requestSvc service.AttendanceRequestService) *AttendanceHandler {
	return &AttendanceHandler{attendanceSvc: attendanceSvc, requestSvc: requestSvc}
}

// Punch 签到 / 签退
// POST /api/v1/assignments/:id/punch
func (h *AttendanceHandler) Punch(c *gin.Context) {
	var req dto.PunchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	att, err := h.attendanceSvc.Punch(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, att)
}

// GetAttendance 排班的打卡记录
// GET /api/v1/assignments/:id/attendance
func (h *AttendanceHandler) GetAttendance(c *gin.Context) {
	userID, role, ok := MustGetCaller(c)
	if !ok {
		return
	}

	att, err := h.attendanceSvc.Get(c.Request.Context(), c.Param("id"), userID, role)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, att)
}

// ── 补卡申请 ──

// CreateRequest 提交补卡申请
// POST /api/v1/attendance-requests
func (h *AttendanceHandler) CreateRequest(c *gin.Context) {
	var req dto.CreateAttendanceRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	r, err := h.requestSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.Created(c, r)
}

// ListMyRequests 我的补卡申请
// GET /api/v1/attendance-requests/mine
func (h *AttendanceHandler) ListMyRequests(c *gin.Context) {
	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, total, err := h.requestSvc.ListMine(c.Request.Context(), &page, callerID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, page.GetPage(), page.GetPageSize())
}

// ListPendingRequests 待审核的补卡申请（管理员）
// GET /api/v1/attendance-requests/pending
func (h *AttendanceHandler) ListPendingRequests(c *gin.Context) {
	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.requestSvc.ListPending(c.Request.Context(), &page)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, page.GetPage(), page.GetPageSize())
}

// ReviewRequest 审核补卡申请（管理员）
// POST /api/v1/attendance-requests/:id/review
func (h *AttendanceHandler) ReviewRequest(c *gin.Context) {
	var req dto.ReviewAttendanceRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	reviewerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	r, err := h.requestSvc.Review(c.Request.Context(), c.Param("id"), &req, reviewerID)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, r)
}

func (h *AttendanceHandler) handleAttendanceError(c *gin.Context, err error) {
	if writeCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrAssignmentNotFound):
		response.NotFound(c, 20001, "排班不存在")
	case errors.Is(err, service.ErrNotAssignmentOwner), errors.Is(err, service.ErrAssignmentForbidden):
		response.Forbidden(c, 10003, err.Error())
	case errors.Is(err, service.ErrAssignmentCancelled):
		response.Conflict(c, 21005, "排班已取消")
	case errors.Is(err, attendance.ErrInvalidAction):
		response.BadRequest(c, 21003, "无效的打卡动作")
	case errors.Is(err, service.ErrInvalidReading):
		response.BadRequest(c, 21004, err.Error())
	case errors.Is(err, service.ErrRequestNotFound):
		response.NotFound(c, 23001, "补卡申请不存在")
	case errors.Is(err, service.ErrRequestAlreadyReviewed):
		response.Conflict(c, 23002, "该申请已审核")
	case errors.Is(err, service.ErrRequestTimeOutOfRange):
		response.BadRequest(c, 23003, err.Error())
	default:
		response.InternalError(c)
	}
}
