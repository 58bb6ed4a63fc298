// Package stats derives streaks, windowed counts, celebrations and leaderboards
// from a habit's entries. Every function takes the reference time explicitly and
// none of them read the wall clock.
package stats

import (
	"slices"
	"time"

	"github.com/brk3/consistent/pkg/habit"
)

// RateWindowDays is the trailing window used for completion rates and leaderboards.
const RateWindowDays = 30

// Today returns the calendar day of now in now's own location. No timezone
// conversion happens here: callers pass an already localized time.
func Today(now time.Time) string {
	return now.Format(habit.DateLayout)
}

// AddDays shifts a calendar day by n days. A malformed day yields "".
func AddDays(day string, n int) string {
	t, err := time.Parse(habit.DateLayout, day)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, n).Format(habit.DateLayout)
}

func daysBetween(from, to string) (int, bool) {
	f, err := time.Parse(habit.DateLayout, from)
	if err != nil {
		return 0, false
	}
	t, err := time.Parse(habit.DateLayout, to)
	if err != nil {
		return 0, false
	}
	return int(t.Sub(f).Hours() / 24), true
}

// WeekBounds returns the Monday and Sunday of the ISO week containing now.
func WeekBounds(now time.Time) (start, end string) {
	offset := (int(now.Weekday()) + 6) % 7
	start = AddDays(Today(now), -offset)
	return start, AddDays(start, 6)
}

// DaySet is the sorted set of distinct calendar days that carry at least one entry.
type DaySet struct {
	asc []string
}

func NewDaySet(entries []habit.Entry) DaySet {
	seen := make(map[string]struct{}, len(entries))
	days := make([]string, 0, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.Date]; ok {
			continue
		}
		seen[e.Date] = struct{}{}
		days = append(days, e.Date)
	}
	// YYYY-MM-DD is fixed width, so lexicographic order is chronological.
	slices.Sort(days)
	return DaySet{asc: days}
}

func (s DaySet) Len() int {
	return len(s.asc)
}

func (s DaySet) Ascending() []string {
	return slices.Clone(s.asc)
}

func (s DaySet) Descending() []string {
	out := slices.Clone(s.asc)
	slices.Reverse(out)
	return out
}

// Latest returns the most recent day in the set.
func (s DaySet) Latest() (string, bool) {
	if len(s.asc) == 0 {
		return "", false
	}
	return s.asc[len(s.asc)-1], true
}

// CountBetween counts the days d with from <= d <= to.
func (s DaySet) CountBetween(from, to string) int {
	lo, _ := slices.BinarySearch(s.asc, from)
	hi, found := slices.BinarySearch(s.asc, to)
	if found {
		hi++
	}
	return max(hi-lo, 0)
}

// Rate converts a day count within the trailing window into a 0-100 percentage.
func Rate(uniqueDays int) int {
	return min(100, roundDiv(100*uniqueDays, RateWindowDays))
}

// roundDiv divides non-negative a by positive b, rounding half up.
func roundDiv(a, b int) int {
	return (2*a + b) / (2 * b)
}
