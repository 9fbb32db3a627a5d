package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// SecurityHeaders 安全 HTTP 头中间件
// imgSources 追加到 img-src 的来源（对象存储的公开地址），打卡页面需要定位与相机权限
func SecurityHeaders(imgSources ...string) gin.HandlerFunc {
	img := strings.TrimSpace("'self' data: " + strings.Join(imgSources, " "))
	csp := "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src " + img + "; font-src 'self' data:"

	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Content-Security-Policy", csp)
		c.Header("Permissions-Policy", "camera=(self), microphone=(), geolocation=(self)")

		c.Next()
	}
}
