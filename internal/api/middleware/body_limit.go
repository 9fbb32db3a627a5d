package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"flowdesks/backend/pkg/response"
)

// BodyLimit 请求体大小限制
// overrides 以路由模板（c.FullPath()）为键放宽上限，照片上传走这里
func BodyLimit(maxBytes int64, overrides map[string]int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := maxBytes
		if v, ok := overrides[c.FullPath()]; ok {
			limit = v
		}
		if limit <= 0 || c.Request.Body == nil {
			c.Next()
			return
		}

		// 声明长度已超限的请求不必读取请求体
		if c.Request.ContentLength > limit {
			response.PayloadTooLarge(c, 10005, "请求体过大")
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

		c.Next()

		if c.IsAborted() || c.Writer.Written() {
			return
		}
		for _, e := range c.Errors {
			var tooLarge *http.MaxBytesError
			if errors.As(e.Err, &tooLarge) {
				response.PayloadTooLarge(c, 10005, "请求体过大")
				return
			}
		}
	}
}
