package db

import (
	"fmt"

	"github.com/Bekzhanizb/HabitGridBackend/models"
	"github.com/Bekzhanizb/HabitGridBackend/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultHabits are inserted once, into an empty habits table.
var DefaultHabits = []models.Habit{
	{ID: 1, Name: "5:30 AM Wake Up", Icon: "bi-alarm", Color: "#f87171"},
	{ID: 2, Name: "Stop smoking green", Icon: "bi-flower1", Color: "#4ade80"},
	{ID: 3, Name: "No Porn", Icon: "bi-droplet", Color: "#60a5fa"},
	{ID: 4, Name: "Budget Tracking", Icon: "bi-piggy-bank", Color: "#fbbf24"},
	{ID: 5, Name: "No Alcohol", Icon: "bi-cup-straw", Color: "#a855f7"},
	{ID: 6, Name: "No social media", Icon: "bi-phone-vibrate", Color: "#f43f5e"},
	{ID: 7, Name: "Project Work", Icon: "bi-bullseye", Color: "#2563eb"},
	{ID: 8, Name: "Read 10 Pages", Icon: "bi-book", Color: "#f59e0b"},
	{ID: 9, Name: "Cold Shower", Icon: "bi-snow", Color: "#06b6d4"},
	{ID: 10, Name: "Work Session", Icon: "bi-laptop", Color: "#8b5cf6"},
}

func Seed(database *gorm.DB) error {
	return database.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Habit{}).Count(&count).Error; err != nil {
			return fmt.Errorf("count habits: %w", err)
		}
		if count > 0 {
			return nil
		}

		habits := make([]models.Habit, len(DefaultHabits))
		copy(habits, DefaultHabits)
		if err := tx.Create(&habits).Error; err != nil {
			return fmt.Errorf("insert seed habits: %w", err)
		}

		// explicit ids do not advance a postgres serial
		if tx.Dialector.Name() == "postgres" {
			if err := tx.Exec(`SELECT setval(pg_get_serial_sequence('habits', 'id'), (SELECT MAX(id) FROM habits))`).Error; err != nil {
				return fmt.Errorf("advance habits sequence: %w", err)
			}
		}

		utils.Logger.Info("seed_inserted", zap.Int("habits", len(habits)))
		return nil
	})
}
