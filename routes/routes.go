package routes

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Bekzhanizb/HabitGridBackend/cache"
	"github.com/Bekzhanizb/HabitGridBackend/handlers"
	"github.com/Bekzhanizb/HabitGridBackend/middleware"
	"github.com/gin-gonic/gin"
)

type Options struct {
	Cache     *cache.Cache
	CacheTTL  time.Duration
	RateLimit int
	StaticDir string
}

func RegisterAPIRoutes(router *gin.Engine, h *handlers.Handler, opts Options) {
	api := router.Group("/api")
	api.Use(middleware.RateLimit(opts.Cache, opts.RateLimit, time.Minute))
	api.Use(middleware.CacheMiddleware(opts.Cache, opts.CacheTTL))
	{
		api.GET("/habits", h.GetHabits)
		api.POST("/habits", h.CreateHabit)
		api.DELETE("/habits/:id", h.DeleteHabit)

		api.GET("/checks", h.GetChecks)
		api.POST("/checks/toggle", h.ToggleCheck)

		api.GET("/stats", h.GetStats)
	}

	router.NoRoute(noRoute(opts.StaticDir))
}

// noRoute answers unknown /api paths with JSON and, when dir is set,
// serves the front-end bundle for everything else.
func noRoute(dir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if dir == "" || strings.HasPrefix(path, "/api/") || c.Request.Method != http.MethodGet {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}

		if path == "/" {
			c.File(filepath.Join(dir, "index.html"))
			return
		}

		file := filepath.Join(dir, filepath.FromSlash(filepath.Clean("/"+path)))
		if info, err := os.Stat(file); err != nil || info.IsDir() {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.File(file)
	}
}
