package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"flowdesks/backend/internal/attendance"
	"flowdesks/backend/internal/scheduling"
	pkgerrors "flowdesks/backend/pkg/errors"
	"flowdesks/backend/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	return mustGetString(c, "user_id")
}

// MustGetRole 从 Gin 上下文中安全提取 role。
func MustGetRole(c *gin.Context) (string, bool) {
	return mustGetString(c, "role")
}

// MustGetCaller 同时提取 user_id 与 role
func MustGetCaller(c *gin.Context) (userID, role string, ok bool) {
	if userID, ok = MustGetUserID(c); !ok {
		return "", "", false
	}
	if role, ok = MustGetRole(c); !ok {
		return "", "", false
	}
	return userID, role, true
}

func mustGetString(c *gin.Context, key string) (string, bool) {
	v, exists := c.Get(key)
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// writeCommonError 处理跨模块的错误（离线、乐观锁、重复排班、打卡拒绝）；已写响应时返回 true
func writeCommonError(c *gin.Context, err error) bool {
	var (
		conflict   *scheduling.ConflictError
		transition *attendance.TransitionError
		rejection  *attendance.RejectionError
	)
	switch {
	case errors.Is(err, pkgerrors.ErrOffline):
		response.ServiceUnavailable(c, 50301, err.Error())
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 10006, err.Error())
	case errors.As(err, &conflict):
		if conflict.Kind == scheduling.DoubleBookingConflict {
			response.Conflict(c, 20009, conflict.Message)
			return true
		}
		response.ErrorWithDetails(c, http.StatusInternalServerError, 50000, "服务器内部错误", conflict.Message)
	case errors.As(err, &transition):
		response.Conflict(c, 21001, transition.Error())
	case errors.As(err, &rejection):
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, 21002, rejection.Message, string(rejection.Kind))
	default:
		return false
	}
	return true
}
