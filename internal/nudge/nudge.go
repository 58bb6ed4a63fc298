package nudge

import (
	"context"
	"fmt"
	"time"

	"github.com/brk3/consistent/internal/logger"
)

// GetHabitsAtRisk returns the names of habits whose streak ran through
// yesterday but that have nothing logged today. Their current streak reads 0
// until today's entry lands, and it is lost for good at midnight.
func GetHabitsAtRisk(ctx context.Context, q Querier) ([]string, error) {
	habits, err := q.ListHabits(ctx)
	if err != nil {
		return nil, err
	}

	var atRisk []string
	for _, h := range habits {
		if h.IsArchived {
			continue
		}
		st, err := q.GetHabitStats(ctx, h.ID)
		if err != nil {
			return nil, fmt.Errorf("stats for %s: %w", h.Name, err)
		}
		if st.TotalCompletions > 0 && st.DaysSinceLastEntry == 1 {
			atRisk = append(atRisk, h.Name)
		}
	}
	return atRisk, nil
}

// HoursLeftToday is the number of started hours remaining before midnight.
func HoursLeftToday(now time.Time) int {
	return 24 - now.Hour()
}

// Nudge sends one reminder listing every at-risk habit. Nothing is sent when
// no streak is at risk.
func Nudge(ctx context.Context, q Querier, n Notifier, now time.Time) ([]string, error) {
	atRisk, err := GetHabitsAtRisk(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(atRisk) == 0 {
		logger.Info("No streaks at risk")
		return nil, nil
	}

	hours := HoursLeftToday(now)
	logger.Info("Sending nudge", "habits", atRisk, "hours_left", hours)
	if err := n.SendNudge(atRisk, hours); err != nil {
		return nil, fmt.Errorf("sending nudge: %w", err)
	}
	return atRisk, nil
}
