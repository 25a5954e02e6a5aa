package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Bekzhanizb/HabitGridBackend/cache"
	"github.com/Bekzhanizb/HabitGridBackend/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimit allows maxRequests per client IP per window. It fails open when
// redis errors, and is a pass-through when the cache is disabled or maxRequests is 0.
func RateLimit(store *cache.Cache, maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !store.Enabled() || maxRequests <= 0 {
			c.Next()
			return
		}

		clientIP := c.ClientIP()
		count, err := store.IncrementCounter(c.Request.Context(), "rate_limit:"+clientIP, window)
		if err != nil {
			utils.Logger.Error("rate_limit_error", zap.Error(err))
			c.Next()
			return
		}

		remaining := maxRequests - int(count)
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(maxRequests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if count > int64(maxRequests) {
			utils.Logger.Warn("rate_limit_exceeded", zap.String("ip", clientIP), zap.Int64("count", count))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			return
		}

		c.Next()
	}
}
