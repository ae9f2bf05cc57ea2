package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mhk-dev/bidhaus/internal/pkg/logger"
	"github.com/mhk-dev/bidhaus/internal/pkg/session"
)

// Logger logs each request with structured fields.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if path == "/health" {
			c.Next()
			return
		}

		c.Next()

		fields := map[string]any{
			"method":  c.Request.Method,
			"path":    path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
			"ip":      c.ClientIP(),
		}
		if v, ok := c.Get(SessionKey); ok {
			if p, ok := v.(*session.Payload); ok {
				fields["user"] = p.Email
			}
		}

		if c.Writer.Status() >= 500 {
			logger.Error("request failed", fields)
		} else {
			logger.Info("request", fields)
		}
	}
}
