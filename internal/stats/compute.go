package stats

import (
	"strings"
	"time"

	"github.com/brk3/consistent/pkg/habit"
)

// Compute builds the stats snapshot for one habit at now. entries is not modified.
func Compute(h habit.Habit, entries []habit.Entry, now time.Time) habit.HabitStats {
	if len(entries) == 0 {
		return habit.HabitStats{}
	}

	today := Today(now)
	days := NewDaySet(entries)
	streak := Streaks(days, today)

	weekStart, weekEnd := WeekBounds(now)
	month := today[:len("2006-01")]

	var week, monthCount, todayCount int
	for _, e := range entries {
		if e.Date >= weekStart && e.Date <= weekEnd {
			week++
		}
		if strings.HasPrefix(e.Date, month) {
			monthCount++
		}
		if e.Date == today {
			todayCount++
		}
	}

	var period int
	switch h.TargetPeriod {
	case habit.PeriodDay:
		period = todayCount
	case habit.PeriodWeek:
		period = week
	case habit.PeriodMonth:
		period = monthCount
	}

	daysSince := 0
	if latest, ok := days.Latest(); ok {
		if n, ok := daysBetween(latest, today); ok && n > 0 {
			daysSince = n
		}
	}

	return habit.HabitStats{
		CurrentStreak:         streak.Current,
		LongestStreak:         streak.Longest,
		TotalCompletions:      len(entries),
		CompletionsThisWeek:   week,
		CompletionsThisMonth:  monthCount,
		CompletionsThisPeriod: period,
		DaysSinceLastEntry:    daysSince,
		CompletionRate:        Rate(days.CountBetween(AddDays(today, -RateWindowDays), today)),
	}
}
