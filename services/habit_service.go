package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Bekzhanizb/HabitGridBackend/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrValidation marks input that fails a precondition. Handlers map it to 400.
var ErrValidation = errors.New("validation failed")

// ValidationMessage returns the human-readable part of a wrapped ErrValidation.
func ValidationMessage(err error) string {
	var ve *validationError
	if errors.As(err, &ve) {
		return ve.msg
	}
	return err.Error()
}

type validationError struct {
	msg string
}

func (e *validationError) Error() string { return e.msg }

func (e *validationError) Unwrap() error { return ErrValidation }

func invalid(msg string) error {
	return &validationError{msg: msg}
}

// HabitService owns all reads and writes of habits and checks.
type HabitService struct {
	db     *gorm.DB
	logger *zap.Logger

	// held across read-then-write sequences so they cannot interleave
	writeMu sync.Mutex
}

func NewHabitService(db *gorm.DB, logger *zap.Logger) *HabitService {
	return &HabitService{db: db, logger: logger}
}

func (s *HabitService) ListHabits(ctx context.Context) ([]models.Habit, error) {
	habits := []models.Habit{}
	if err := s.db.WithContext(ctx).Order("id").Find(&habits).Error; err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	return habits, nil
}

// CreateHabit stores a habit with the default icon and color and returns the stored row.
func (s *HabitService) CreateHabit(ctx context.Context, name string) (*models.Habit, error) {
	if name == "" {
		return nil, invalid("Name is required")
	}

	habit := models.Habit{
		Name:  name,
		Icon:  models.DefaultIcon,
		Color: models.DefaultColor,
	}
	if err := s.db.WithContext(ctx).Create(&habit).Error; err != nil {
		return nil, fmt.Errorf("create habit: %w", err)
	}

	s.logger.Info("habit_created", zap.Uint("habit_id", habit.ID), zap.String("name", habit.Name))
	return &habit, nil
}

// DeleteHabit removes a habit and its checks in one transaction. Unknown ids are a no-op.
func (s *HabitService) DeleteHabit(ctx context.Context, id uint) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	var removed int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ?", id).Delete(&models.Habit{})
		if result.Error != nil {
			return result.Error
		}
		removed = result.RowsAffected

		return tx.Where("habit_id = ?", id).Delete(&models.Check{}).Error
	})
	if err != nil {
		return fmt.Errorf("delete habit %d: %w", id, err)
	}

	s.logger.Info("habit_deleted", zap.Uint("habit_id", id), zap.Bool("existed", removed > 0))
	return nil
}

func (s *HabitService) ListChecks(ctx context.Context) ([]models.Check, error) {
	checks := []models.Check{}
	if err := s.db.WithContext(ctx).Order("habit_id, date").Find(&checks).Error; err != nil {
		return nil, fmt.Errorf("list checks: %w", err)
	}
	return checks, nil
}

// ToggleCheck flips the presence of (habitID, date) and reports whether the
// habit is checked afterwards.
func (s *HabitService) ToggleCheck(ctx context.Context, habitID uint, date string) (bool, error) {
	if habitID == 0 {
		return false, invalid("habitId is required")
	}
	if date == "" {
		return false, invalid("date is required")
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	var checked bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("habit_id = ? AND date = ?", habitID, date).Delete(&models.Check{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			checked = false
			return nil
		}

		check := models.Check{HabitID: habitID, Date: date}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&check).Error; err != nil {
			return err
		}
		checked = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("toggle check %d/%s: %w", habitID, date, err)
	}

	return checked, nil
}

// CheckKey is the wire key of a check: "<habitId>-<date>".
func CheckKey(c models.Check) string {
	return fmt.Sprintf("%d-%s", c.HabitID, c.Date)
}

// CheckMap renders checks as the sparse map the front end reads.
func CheckMap(checks []models.Check) map[string]bool {
	out := make(map[string]bool, len(checks))
	for _, c := range checks {
		out[CheckKey(c)] = true
	}
	return out
}
