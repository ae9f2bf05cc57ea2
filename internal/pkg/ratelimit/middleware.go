package ratelimit

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Middleware limits requests per client IP. Used on magic-link issuance to
// bound how fast login emails can be requested.
func Middleware(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()

		if !limiter.Allow(key) {
			c.Header("Retry-After", "60")
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded. Try again later.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
