package mw

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const RequestIDHeader = "X-Request-ID"

// RequestLog 为每个请求分配 request id 并输出一条访问日志。
// 客户端已带 X-Request-ID 时沿用它。
func RequestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(RequestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Header(RequestIDHeader, rid)
		start := time.Now()
		c.Next()
		log.Info().
			Str("request_id", rid).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	}
}
