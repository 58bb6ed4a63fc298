package nudge

import (
	"context"

	"github.com/brk3/consistent/pkg/habit"
)

// Querier is the read side of the habits API the nudge needs.
type Querier interface {
	ListHabits(ctx context.Context) ([]habit.Habit, error)
	GetHabitStats(ctx context.Context, habitID string) (*habit.HabitStats, error)
}

type Notifier interface {
	SendNudge(habits []string, hoursTillExpiry int) error
}
