package middleware

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Bekzhanizb/HabitGridBackend/cache"
	"github.com/Bekzhanizb/HabitGridBackend/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	responseKeyPrefix = "http:"
	generationKey     = "http:gen"
)

// CacheMiddleware serves successful GET responses from redis for ttl.
// Keys carry the response generation read before the handler runs, so a body
// computed before an invalidation is never served after it.
// With a disabled cache it is a pass-through.
func CacheMiddleware(store *cache.Cache, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !store.Enabled() || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		gen, err := store.Counter(ctx, generationKey)
		if err != nil {
			utils.ErrorCount.WithLabelValues(c.FullPath(), "cache").Inc()
			utils.Logger.Warn("cache_generation_failed", zap.Error(err))
			c.Next()
			return
		}
		key := fmt.Sprintf("%s%d:%s?%s", responseKeyPrefix, gen, c.Request.URL.Path, c.Request.URL.RawQuery)

		var cached CachedResponse
		if err := store.Get(ctx, key, &cached); err == nil {
			c.Header("X-Cache", "HIT")
			c.Data(cached.Status, cached.ContentType, cached.Body)
			c.Abort()
			return
		}

		c.Header("X-Cache", "MISS")
		blw := &bodyLogWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		if c.Writer.Status() != http.StatusOK {
			return
		}
		resp := CachedResponse{
			Status:      c.Writer.Status(),
			ContentType: c.Writer.Header().Get("Content-Type"),
			Body:        blw.body.Bytes(),
		}
		if err := store.Set(ctx, key, resp, ttl); err != nil {
			utils.ErrorCount.WithLabelValues(c.FullPath(), "cache").Inc()
			utils.Logger.Warn("cache_set_failed", zap.Error(err), zap.String("key", key))
		}
	}
}

// InvalidateResponses moves to a new response generation; older entries are
// unreachable and expire with their TTL. Failures are logged only.
func InvalidateResponses(ctx context.Context, store *cache.Cache) {
	if _, err := store.Increment(ctx, generationKey); err != nil {
		utils.ErrorCount.WithLabelValues("invalidate", "cache").Inc()
		utils.Logger.Warn("cache_invalidate_failed", zap.Error(err))
	}
}

type CachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

type bodyLogWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyLogWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyLogWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
