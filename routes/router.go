package routes

import (
	"net/http"
	"time"

	"github.com/Bekzhanizb/HabitGridBackend/handlers"
	"github.com/Bekzhanizb/HabitGridBackend/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter assembles the engine: middleware, health, metrics and the API.
// ping reports storage health for /health.
func NewRouter(h *handlers.Handler, ping func() error, opts Options) *gin.Engine {
	r := gin.New()

	r.Use(middleware.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.SecurityHeaders())

	// the front end may be hosted by a separate static server
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type"},
		ExposeHeaders:   []string{"Content-Length", "X-Cache"},
		MaxAge:          12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		status := http.StatusOK
		database := "connected"
		if err := ping(); err != nil {
			status = http.StatusServiceUnavailable
			database = "unavailable"
		}
		c.JSON(status, gin.H{
			"status":    http.StatusText(status),
			"timestamp": time.Now().UTC(),
			"database":  database,
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	RegisterAPIRoutes(r, h, opts)
	return r
}
