package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Bekzhanizb/HabitGridBackend/cache"
	"github.com/Bekzhanizb/HabitGridBackend/config"
	"github.com/Bekzhanizb/HabitGridBackend/db"
	"github.com/Bekzhanizb/HabitGridBackend/handlers"
	"github.com/Bekzhanizb/HabitGridBackend/routes"
	"github.com/Bekzhanizb/HabitGridBackend/services"
	"github.com/Bekzhanizb/HabitGridBackend/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := utils.InitLogger(cfg.LogFile, cfg.LogLevel); err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer utils.Logger.Sync()
	utils.InitMetrics()

	utils.Logger.Info("starting_application", zap.String("db_driver", cfg.DBDriver))

	database, err := db.Connect(cfg)
	if err != nil {
		utils.Logger.Fatal("database_init_failed", zap.Error(err))
	}
	defer db.Close(database)

	// redis is optional; without it responses are not cached and rate limiting is off
	var store *cache.Cache
	if cfg.RedisAddr != "" {
		store, err = cache.New(cfg.RedisAddr, utils.Logger)
		if err != nil {
			utils.Logger.Warn("cache_disabled", zap.Error(err))
			store = nil
		}
	}
	defer store.Close()

	gin.SetMode(cfg.GinMode)

	svc := services.NewHabitService(database, utils.Logger)
	router := routes.NewRouter(
		handlers.New(svc, store),
		func() error { return db.Ping(database) },
		routes.Options{
			Cache:     store,
			CacheTTL:  cfg.CacheTTL,
			RateLimit: cfg.RateLimit,
			StaticDir: cfg.StaticDir,
		},
	)

	startServer(router, cfg.Port)
}

func startServer(router *gin.Engine, port string) {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	utils.Logger.Info("starting_http_server", zap.String("port", port))

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			utils.Logger.Fatal("http_server_failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	utils.Logger.Info("shutting_down_server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		utils.Logger.Error("server_forced_shutdown", zap.Error(err))
		return
	}

	utils.Logger.Info("server_stopped")
}
