package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Bekzhanizb/HabitGridBackend/models"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

type HabitStats struct {
	HabitID       uint  `json:"habit_id"`
	TotalChecks   int   `json:"total_checks"`
	CurrentStreak int   `json:"current_streak"`
	LongestStreak int   `json:"longest_streak"`
	Error         error `json:"-"`
}

// Stats computes per-habit statistics, one goroutine per habit, ordered by habit id.
func (s *HabitService) Stats(ctx context.Context) ([]HabitStats, error) {
	start := time.Now()

	habits, err := s.ListHabits(ctx)
	if err != nil {
		return nil, err
	}

	statsChan := make(chan HabitStats, len(habits))
	var wg sync.WaitGroup

	for _, habit := range habits {
		wg.Add(1)
		go func(id uint) {
			defer wg.Done()
			statsChan <- s.habitStats(ctx, id)
		}(habit.ID)
	}

	go func() {
		wg.Wait()
		close(statsChan)
	}()

	result := make([]HabitStats, 0, len(habits))
	var firstErr error
	for stat := range statsChan {
		if stat.Error != nil {
			s.logger.Warn("habit_stats_error", zap.Uint("habit_id", stat.HabitID), zap.Error(stat.Error))
			if firstErr == nil {
				firstErr = stat.Error
			}
			continue
		}
		result = append(result, stat)
	}
	if firstErr != nil {
		return nil, fmt.Errorf("habit stats: %w", firstErr)
	}

	sort.Slice(result, func(i, j int) bool { return result[i].HabitID < result[j].HabitID })

	s.logger.Debug("stats_calculated",
		zap.Int("habits_count", len(habits)),
		zap.Duration("duration", time.Since(start)),
	)
	return result, nil
}

func (s *HabitService) habitStats(ctx context.Context, habitID uint) HabitStats {
	stats := HabitStats{HabitID: habitID}

	var dates []string
	if err := s.db.WithContext(ctx).
		Model(&models.Check{}).
		Where("habit_id = ?", habitID).
		Pluck("date", &dates).Error; err != nil {
		stats.Error = err
		return stats
	}

	stats.TotalChecks = len(dates)
	stats.CurrentStreak, stats.LongestStreak = Streaks(dates)
	return stats
}

// Streaks returns the run of consecutive days ending at the latest date and
// the longest such run. Unparseable dates are skipped.
func Streaks(dates []string) (current, longest int) {
	days := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		t, err := time.Parse(dateLayout, d)
		if err != nil {
			continue
		}
		days = append(days, t)
	}
	if len(days) == 0 {
		return 0, 0
	}

	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	run := 1
	longest = 1
	for i := 1; i < len(days); i++ {
		switch days[i].Sub(days[i-1]) {
		case 0:
			continue
		case 24 * time.Hour:
			run++
		default:
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return run, longest
}
