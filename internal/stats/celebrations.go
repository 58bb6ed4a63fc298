package stats

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/brk3/consistent/pkg/habit"
)

var (
	StreakLadder = []int{3, 7, 14, 21, 30, 50, 100, 365}
	TotalLadder  = []int{10, 25, 50, 100, 250, 500, 1000}
)

// priority orders celebrations for consumers that only show one; lower wins.
var priority = map[habit.CelebrationType]int{
	habit.NewLongestStreak: 1,
	habit.StreakMilestone:  2,
	habit.TotalMilestone:   3,
	habit.PerfectWeek:      4,
	habit.Overachiever:     5,
	habit.TargetHit:        6,
	habit.Comeback:         7,
}

func Priority(t habit.CelebrationType) int {
	if p, ok := priority[t]; ok {
		return p
	}
	return len(priority) + 1
}

// crossed returns the lowest ladder value reached by after but not by before.
func crossed(ladder []int, before, after int) (int, bool) {
	for _, m := range ladder {
		if before < m && after >= m {
			return m, true
		}
	}
	return 0, false
}

// Celebrations diffs the stats taken before and after a new entry and returns
// every event the transition triggers, ordered by priority.
func Celebrations(h habit.Habit, before, after habit.HabitStats) []habit.Celebration {
	out := []habit.Celebration{}

	if after.LongestStreak > before.LongestStreak {
		out = append(out, habit.Celebration{
			Type:        habit.NewLongestStreak,
			Title:       "New Record!",
			Description: fmt.Sprintf("%d day streak", after.LongestStreak),
			Emoji:       "🏆",
		})
	}

	if m, ok := crossed(StreakLadder, before.CurrentStreak, after.CurrentStreak); ok {
		out = append(out, habit.Celebration{
			Type:        habit.StreakMilestone,
			Title:       fmt.Sprintf("%d Days Streak!", m),
			Description: "Keep it going!",
			Emoji:       "🔥",
		})
	}

	if m, ok := crossed(TotalLadder, before.TotalCompletions, after.TotalCompletions); ok {
		out = append(out, habit.Celebration{
			Type:        habit.TotalMilestone,
			Title:       fmt.Sprintf("%d Completions!", m),
			Description: "Consistency pays off",
			Emoji:       "⭐",
		})
	}

	if !h.HasTarget() && after.CompletionsThisWeek == 7 && before.CompletionsThisWeek < 7 {
		out = append(out, habit.Celebration{
			Type:        habit.PerfectWeek,
			Title:       "Perfect Week!",
			Description: "7 for 7",
			Emoji:       "💯",
		})
	}

	if h.HasTarget() {
		target := h.TargetCount
		if after.CompletionsThisPeriod >= target && before.CompletionsThisPeriod < target {
			out = append(out, habit.Celebration{
				Type:        habit.TargetHit,
				Title:       "Target Hit!",
				Description: fmt.Sprintf("%d/%s complete", target, h.TargetPeriod),
				Emoji:       "🎯",
			})
		}
		if after.CompletionsThisPeriod > target && before.CompletionsThisPeriod <= target {
			out = append(out, habit.Celebration{
				Type:        habit.Overachiever,
				Title:       "Overachiever!",
				Description: fmt.Sprintf("%d/%d this %s", after.CompletionsThisPeriod, target, h.TargetPeriod),
				Emoji:       "🚀",
			})
		}
	}

	if before.DaysSinceLastEntry >= 7 && after.DaysSinceLastEntry == 0 {
		out = append(out, habit.Celebration{
			Type:        habit.Comeback,
			Title:       "Welcome Back!",
			Description: "Every day is a fresh start",
			Emoji:       "🌅",
		})
	}

	slices.SortStableFunc(out, func(a, b habit.Celebration) int {
		return cmp.Compare(Priority(a.Type), Priority(b.Type))
	})
	return out
}

// Top returns the single most relevant celebration, if any.
func Top(celebrations []habit.Celebration) (habit.Celebration, bool) {
	if len(celebrations) == 0 {
		return habit.Celebration{}, false
	}
	return slices.MinFunc(celebrations, func(a, b habit.Celebration) int {
		return cmp.Compare(Priority(a.Type), Priority(b.Type))
	}), true
}
