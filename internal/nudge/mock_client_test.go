package nudge

import (
	"context"

	"github.com/brk3/consistent/pkg/habit"
)

type mockClient struct {
	habits []habit.Habit
	stats  map[string]*habit.HabitStats
	err    error
}

func (f *mockClient) ListHabits(ctx context.Context) ([]habit.Habit, error) {
	return f.habits, f.err
}

func (f *mockClient) GetHabitStats(ctx context.Context, habitID string) (*habit.HabitStats, error) {
	if st, ok := f.stats[habitID]; ok {
		return st, f.err
	}
	return &habit.HabitStats{}, f.err
}
