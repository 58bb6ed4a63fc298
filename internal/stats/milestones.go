package stats

import "github.com/brk3/consistent/pkg/habit"

// Milestones lists what a habit has already achieved according to st.
func Milestones(h habit.Habit, st habit.HabitStats) habit.Achievements {
	a := habit.Achievements{
		StreakMilestones: reached(StreakLadder, st.LongestStreak),
		TotalMilestones:  reached(TotalLadder, st.TotalCompletions),
		CompletionRate:   st.CompletionRate,
		TotalCompletions: st.TotalCompletions,
	}
	if h.HasTarget() {
		a.TargetMet = st.CompletionsThisPeriod >= h.TargetCount
		a.Overachieved = st.CompletionsThisPeriod > h.TargetCount
	} else {
		a.PerfectWeek = st.CompletionsThisWeek == 7
	}
	return a
}

func reached(ladder []int, value int) []int {
	out := []int{}
	for _, m := range ladder {
		if value >= m {
			out = append(out, m)
		}
	}
	return out
}
