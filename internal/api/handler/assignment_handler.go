package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"flowdesks/backend/internal/dto"
	"flowdesks/backend/internal/service"
	"flowdesks/backend/pkg/response"
)

// AssignmentHandler 排班模块 HTTP 处理器
type AssignmentHandler struct {
	assignmentSvc service.AssignmentService
}

// NewAssignmentHandler 创建 AssignmentHandler
func NewAssignmentHandler(assignmentSvc service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignmentSvc: assignmentSvc}
}

// ListAssignments 日历区间查询；协作者只能看到自己的排班
// GET /api/v1/assignments?start=&end=
func (h *AssignmentHandler) ListAssignments(c *gin.Context) {
	var req dto.AssignmentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	userID, role, ok := MustGetCaller(c)
	if !ok {
		return
	}

	result, err := h.assignmentSvc.ListByRange(c.Request.Context(), &req, userID, role)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.OK(c, result)
}

// GetAssignment 排班详情
// GET /api/v1/assignments/:id
func (h *AssignmentHandler) GetAssignment(c *gin.Context) {
	userID, role, ok := MustGetCaller(c)
	if !ok {
		return
	}

	a, err := h.assignmentSvc.Get(c.Request.Context(), c.Param("id"), userID, role)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.OK(c, a)
}

// SaveAssignment 新建或编辑排班
// POST /api/v1/assignments
func (h *AssignmentHandler) SaveAssignment(c *gin.Context) {
	var req dto.SaveAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.assignmentSvc.Save(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	if req.IsCreate() {
		response.Created(c, result)
		return
	}
	response.OK(c, result)
}

// UpdateDates 拖拽调整排班时间
// PATCH /api/v1/assignments/:id/dates
func (h *AssignmentHandler) UpdateDates(c *gin.Context) {
	var req dto.UpdateDatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	a, err := h.assignmentSvc.UpdateDates(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.OK(c, a)
}

// DeleteAssignment 删除排班
// DELETE /api/v1/assignments/:id?scope=single|series
func (h *AssignmentHandler) DeleteAssignment(c *gin.Context) {
	var req dto.DeleteAssignmentRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.assignmentSvc.Delete(c.Request.Context(), c.Param("id"), req.Scope, callerID)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.OK(c, result)
}

// Reassign 转派给其他员工
// POST /api/v1/assignments/:id/reassign
func (h *AssignmentHandler) Reassign(c *gin.Context) {
	var req dto.ReassignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	log, err := h.assignmentSvc.Reassign(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.OK(c, log)
}

// ListReassignments 转派记录
// GET /api/v1/assignments/:id/reassignments
func (h *AssignmentHandler) ListReassignments(c *gin.Context) {
	logs, err := h.assignmentSvc.ListReassignments(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.OK(c, gin.H{"list": logs})
}

// handleAssignmentError 统一处理排班模块业务错误
func (h *AssignmentHandler) handleAssignmentError(c *gin.Context, err error) {
	if writeCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrAssignmentNotFound):
		response.NotFound(c, 20001, "排班不存在")
	case errors.Is(err, service.ErrAssignmentForbidden):
		response.Forbidden(c, 10003, "无权访问该排班")
	case errors.Is(err, service.ErrInvalidTimeRange):
		response.BadRequest(c, 20002, "结束时间必须晚于开始时间")
	case errors.Is(err, service.ErrScopeRequired):
		response.BadRequest(c, 20003, err.Error())
	case errors.Is(err, service.ErrSameEmployee):
		response.BadRequest(c, 20004, err.Error())
	case errors.Is(err, service.ErrEmployeeNotFound):
		response.BadRequest(c, 20005, "员工不存在或已停用")
	case errors.Is(err, service.ErrLocationNotFound):
		response.BadRequest(c, 20006, "地点不存在")
	case errors.Is(err, service.ErrActivityTypeNotFound):
		response.BadRequest(c, 20007, "作业类型不存在")
	default:
		response.InternalError(c)
	}
}
