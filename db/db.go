package db

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/Bekzhanizb/HabitGridBackend/config"
	"github.com/Bekzhanizb/HabitGridBackend/models"
	"github.com/Bekzhanizb/HabitGridBackend/utils"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	maxRetries    = 10
	retryInterval = 2 * time.Second
)

// Connect opens the configured store and ensures the schema and seed rows exist.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	var (
		database *gorm.DB
		err      error
	)

	switch cfg.DBDriver {
	case config.DriverPostgres:
		database, err = openPostgres(cfg.PostgresDSN())
	default:
		database, err = OpenSQLite(cfg.DBPath)
	}
	if err != nil {
		return nil, err
	}

	if err := Init(database); err != nil {
		Close(database)
		return nil, err
	}
	return database, nil
}

// OpenSQLite opens the embedded store. A single connection serializes every
// statement, which is what the toggle and delete transactions rely on.
func OpenSQLite(path string) (*gorm.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL&_txlock=immediate", path)
	database, err := gorm.Open(sqlite.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	utils.Logger.Info("database_connected", zap.String("driver", config.DriverSQLite), zap.String("path", path))
	return database, nil
}

func openPostgres(dsn string) (*gorm.DB, error) {
	var err error
	for i := 0; i < maxRetries; i++ {
		var database *gorm.DB
		database, err = gorm.Open(postgres.Open(dsn), gormConfig())
		if err == nil {
			if err = Ping(database); err == nil {
				sqlDB, _ := database.DB()
				sqlDB.SetMaxIdleConns(10)
				sqlDB.SetMaxOpenConns(100)
				sqlDB.SetConnMaxLifetime(time.Hour)

				utils.Logger.Info("database_connected", zap.String("driver", config.DriverPostgres))
				return database, nil
			}
			Close(database)
		}

		utils.Logger.Warn("database_waiting",
			zap.Int("attempt", i+1),
			zap.Int("max_attempts", maxRetries),
			zap.Error(err),
		)
		time.Sleep(retryInterval)
	}
	return nil, fmt.Errorf("connect to postgres after %d attempts: %w", maxRetries, err)
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger: logger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			logger.Config{
				SlowThreshold:             200 * time.Millisecond,
				LogLevel:                  logger.Warn,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Init creates missing tables and seeds the default habits. Safe to call on every start.
func Init(database *gorm.DB) error {
	if err := database.AutoMigrate(&models.Habit{}, &models.Check{}); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return Seed(database)
}

// Ping reports whether the store answers.
func Ping(database *gorm.DB) error {
	sqlDB, err := database.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func Close(database *gorm.DB) {
	sqlDB, err := database.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		utils.Logger.Warn("database_close_failed", zap.Error(err))
	}
}
