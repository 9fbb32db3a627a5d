package middleware

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"flowdesks/backend/internal/model"
	"flowdesks/backend/pkg/jwt"
	"flowdesks/backend/pkg/response"
)

// TokenChecker Token 黑名单查询
type TokenChecker interface {
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// JWTAuth JWT 认证中间件
// 从 Authorization: Bearer <token> 中提取并验证 Access Token；
// EventSource 与日历订阅无法设置请求头，允许改用 access_token 查询参数。
// blacklist 为 nil 时不检查黑名单。
func JWTAuth(jwtMgr *jwt.Manager, blacklist TokenChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			response.Unauthorized(c, 10002, "缺少认证信息")
			return
		}

		claims, err := jwtMgr.ParseAs(token, jwt.TokenTypeAccess)
		switch {
		case errors.Is(err, jwt.ErrTokenWrongType):
			response.Unauthorized(c, 10002, "Token 类型无效")
			return
		case err != nil:
			response.Unauthorized(c, 10002, "Token 无效或已过期")
			return
		}

		if blacklist != nil {
			revoked, err := blacklist.IsBlacklisted(c.Request.Context(), claims.ID)
			// Redis 出错时降级放行
			if err == nil && revoked {
				response.Unauthorized(c, 10002, "Token 已失效")
				return
			}
		}

		// 将用户信息注入上下文
		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Set("access_token", token)

		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		if q := c.Query("access_token"); q != "" {
			return q, true
		}
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// RoleAuth 要求当前账号角色属于 allowedRoles 之一，须挂在 JWTAuth 之后
func RoleAuth(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == "" {
			response.Unauthorized(c, 10002, "未认证")
			return
		}
		if !slices.Contains(allowedRoles, role) {
			response.Forbidden(c, 10003, "无权限访问")
			return
		}
		c.Next()
	}
}

// AdminOnly 仅 ADMIN / SUPER_ADMIN 可访问
func AdminOnly() gin.HandlerFunc {
	return RoleAuth(model.RoleAdmin, model.RoleSuperAdmin)
}
