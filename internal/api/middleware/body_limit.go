package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"rigops/backend/pkg/response"
)

// BodyLimit 全局请求体大小限制中间件
// 班报请求含整组子记录，maxBytes 以最大班报（数百条子记录）为基准取值
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()

		if c.IsAborted() {
			return
		}
		for _, err := range c.Errors {
			if err.Err != nil && strings.Contains(err.Err.Error(), "request body too large") {
				response.Error(c, http.StatusRequestEntityTooLarge, 10005, "请求体过大")
				return
			}
		}
	}
}
