package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"flowdesks/backend/internal/dto"
	"flowdesks/backend/internal/service"
	"flowdesks/backend/pkg/response"
)

// CatalogHandler 目录数据（作业地点、作业类型）HTTP 处理器
// 读接口对所有登录用户开放，写接口由路由层限定管理员
type CatalogHandler struct {
	locations     service.LocationService
	activityTypes service.ActivityTypeService
}

// NewCatalogHandler 创建 CatalogHandler
func NewCatalogHandler(locations service.LocationService, activityTypes service.ActivityTypeService) *CatalogHandler {
	return &CatalogHandler{locations: locations, activityTypes: activityTypes}
}

// ────────────────────── 作业地点 ──────────────────────

// ListLocations GET /api/v1/locations
func (h *CatalogHandler) ListLocations(c *gin.Context) {
	filter, ok := bindCatalogFilter(c)
	if !ok {
		return
	}
	list, err := h.locations.List(c.Request.Context(), filter)
	if err != nil {
		writeCatalogError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// GetLocation GET /api/v1/locations/:id
func (h *CatalogHandler) GetLocation(c *gin.Context) {
	loc, err := h.locations.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeCatalogError(c, err)
		return
	}
	response.OK(c, loc)
}

// CreateLocation POST /api/v1/locations
func (h *CatalogHandler) CreateLocation(c *gin.Context) {
	var req dto.CreateLocationRequest
	callerID, ok := bindCatalogWrite(c, &req)
	if !ok {
		return
	}
	loc, err := h.locations.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		writeCatalogError(c, err)
		return
	}
	response.Created(c, loc)
}

// UpdateLocation PUT /api/v1/locations/:id
// 只更新请求中出现的字段；改坐标时围栏三项需保持完整
func (h *CatalogHandler) UpdateLocation(c *gin.Context) {
	var req dto.UpdateLocationRequest
	callerID, ok := bindCatalogWrite(c, &req)
	if !ok {
		return
	}
	loc, err := h.locations.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		writeCatalogError(c, err)
		return
	}
	response.OK(c, loc)
}

// DeleteLocation DELETE /api/v1/locations/:id
func (h *CatalogHandler) DeleteLocation(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	if err := h.locations.Delete(c.Request.Context(), c.Param("id"), callerID); err != nil {
		writeCatalogError(c, err)
		return
	}
	response.OK(c, nil)
}

// ────────────────────── 作业类型 ──────────────────────

// ListActivityTypes GET /api/v1/activity-types
func (h *CatalogHandler) ListActivityTypes(c *gin.Context) {
	filter, ok := bindCatalogFilter(c)
	if !ok {
		return
	}
	list, err := h.activityTypes.List(c.Request.Context(), filter)
	if err != nil {
		writeCatalogError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// CreateActivityType POST /api/v1/activity-types
func (h *CatalogHandler) CreateActivityType(c *gin.Context) {
	var req dto.ActivityTypeRequest
	callerID, ok := bindCatalogWrite(c, &req)
	if !ok {
		return
	}
	at, err := h.activityTypes.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		writeCatalogError(c, err)
		return
	}
	response.Created(c, at)
}

// UpdateActivityType PUT /api/v1/activity-types/:id
func (h *CatalogHandler) UpdateActivityType(c *gin.Context) {
	var req dto.ActivityTypeRequest
	callerID, ok := bindCatalogWrite(c, &req)
	if !ok {
		return
	}
	at, err := h.activityTypes.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		writeCatalogError(c, err)
		return
	}
	response.OK(c, at)
}

// DeleteActivityType DELETE /api/v1/activity-types/:id
func (h *CatalogHandler) DeleteActivityType(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	if err := h.activityTypes.Delete(c.Request.Context(), c.Param("id"), callerID); err != nil {
		writeCatalogError(c, err)
		return
	}
	response.OK(c, nil)
}

// ────────────────────── 辅助函数 ──────────────────────

func bindCatalogFilter(c *gin.Context) (*dto.CatalogListRequest, bool) {
	var req dto.CatalogListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return nil, false
	}
	return &req, true
}

// bindCatalogWrite 解析请求体并取出操作人
func bindCatalogWrite(c *gin.Context, req interface{}) (string, bool) {
	if err := c.ShouldBindJSON(req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return "", false
	}
	return MustGetUserID(c)
}

func writeCatalogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrLocationNotFound):
		response.NotFound(c, 16001, "地点不存在")
	case errors.Is(err, service.ErrGeofenceIncomplete):
		response.BadRequest(c, 16002, err.Error())
	case errors.Is(err, service.ErrActivityTypeNotFound):
		response.NotFound(c, 17001, "作业类型不存在")
	case writeCommonError(c, err):
	default:
		response.InternalError(c)
	}
}
