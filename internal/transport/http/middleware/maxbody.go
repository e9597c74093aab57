package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	resp "catalog-api/internal/transport/http/response"
)

// MaxBodyBytes 限制请求体大小；上传接口另有自己的上限
func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > n {
			resp.Abort(c, resp.CodeTooLarge, "request body too large")
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
