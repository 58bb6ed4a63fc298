package stats

type Streak struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// Streaks computes the current and longest runs of consecutive days.
//
// The current streak counts back from today: the k-th most recent day must be
// exactly today-k. A habit without an entry today therefore has a current
// streak of zero, even when a run ends yesterday.
func Streaks(days DaySet, today string) Streak {
	current := 0
	for i := len(days.asc) - 1; i >= 0; i-- {
		if days.asc[i] != AddDays(today, -current) {
			break
		}
		current++
	}

	longest, run := 0, 0
	prev := ""
	for _, d := range days.asc {
		if prev != "" && AddDays(prev, 1) == d {
			run++
		} else {
			run = 1
		}
		longest = max(longest, run)
		prev = d
	}

	return Streak{Current: current, Longest: max(longest, current)}
}
