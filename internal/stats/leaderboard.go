package stats

import (
	"cmp"
	"slices"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/brk3/consistent/pkg/habit"
)

// Member is one participant of a shared habit together with the entries of
// their private copy of the habit.
type Member struct {
	UserID   string
	Name     string
	Email    string
	JoinedAt string
	Entries  []habit.Entry
}

func (m Member) label() string {
	if l := DisplayLabel(m.Name, m.Email); l != "" {
		return l
	}
	return m.UserID
}

// Leaderboard ranks members over the trailing window ending at now. Streaks use
// each member's full history; counts and rates only use entries in the window.
func Leaderboard(members []Member, now time.Time) []habit.LeaderboardEntry {
	today := Today(now)
	since := AddDays(today, -RateWindowDays)

	board := make([]habit.LeaderboardEntry, 0, len(members))
	for _, m := range members {
		window := entriesSince(m.Entries, since)
		unique := NewDaySet(window).Len()
		board = append(board, habit.LeaderboardEntry{
			UserID:         m.UserID,
			DisplayLabel:   m.label(),
			TotalEntries:   len(window),
			UniqueDays:     unique,
			CurrentStreak:  Streaks(NewDaySet(m.Entries), today).Current,
			CompletionRate: Rate(unique),
		})
	}
	Rank(board)
	return board
}

// Rank sorts by current streak, then total entries, then user id so that equal
// scores still get a deterministic order.
func Rank(board []habit.LeaderboardEntry) {
	slices.SortStableFunc(board, func(a, b habit.LeaderboardEntry) int {
		if c := cmp.Compare(b.CurrentStreak, a.CurrentStreak); c != 0 {
			return c
		}
		if c := cmp.Compare(b.TotalEntries, a.TotalEntries); c != 0 {
			return c
		}
		return strings.Compare(a.UserID, b.UserID)
	})
}

func entriesSince(entries []habit.Entry, since string) []habit.Entry {
	out := make([]habit.Entry, 0, len(entries))
	for _, e := range entries {
		if e.Date >= since {
			out = append(out, e)
		}
	}
	return out
}

// Summarize derives the group metrics shown alongside a leaderboard.
func Summarize(board []habit.LeaderboardEntry) habit.GroupSummary {
	n := len(board)
	if n == 0 {
		return habit.GroupSummary{}
	}
	var active, streaks, rates, top int
	for _, e := range board {
		if e.CurrentStreak > 0 {
			active++
		}
		streaks += e.CurrentStreak
		rates += e.CompletionRate
		top = max(top, e.CurrentStreak)
	}
	return habit.GroupSummary{
		Members:               n,
		ActiveMembers:         active,
		AverageStreak:         roundDiv(streaks, n),
		AverageCompletionRate: roundDiv(rates, n),
		TopStreak:             top,
	}
}

var medalNames = []string{"gold", "silver", "bronze"}

// Medals ranks members using only entries dated on or after the day the second
// member joined, so solo tracking before the group formed earns nothing.
func Medals(members []Member, now time.Time) []habit.Medal {
	medals := []habit.Medal{}
	if len(members) < 2 {
		return medals
	}

	joined := make([]string, 0, len(members))
	for _, m := range members {
		joined = append(joined, m.JoinedAt)
	}
	slices.Sort(joined)
	cutoff := joined[1]

	scoped := make([]Member, 0, len(members))
	for _, m := range members {
		m.Entries = entriesSince(m.Entries, cutoff)
		scoped = append(scoped, m)
	}

	for _, e := range Leaderboard(scoped, now) {
		if len(medals) == len(medalNames) {
			break
		}
		if e.TotalEntries == 0 && e.CurrentStreak == 0 {
			continue
		}
		medals = append(medals, habit.Medal{
			Place: len(medals) + 1,
			Medal: medalNames[len(medals)],
			Entry: e,
		})
	}
	return medals
}

// Activity counts each member's entries per day over the trailing window.
func Activity(members []Member, now time.Time) []habit.MemberActivity {
	since := AddDays(Today(now), -RateWindowDays)
	out := make([]habit.MemberActivity, 0, len(members))
	for _, m := range members {
		byDate := map[string]int{}
		for _, e := range entriesSince(m.Entries, since) {
			byDate[e.Date]++
		}
		out = append(out, habit.MemberActivity{
			UserID:        m.UserID,
			DisplayLabel:  m.label(),
			EntriesByDate: byDate,
		})
	}
	return out
}

// DisplayLabel returns the member's name, or a short label derived from the
// local part of their email ("jane.doe@x" -> "Jane D").
func DisplayLabel(name, email string) string {
	if n := strings.TrimSpace(name); n != "" {
		return n
	}
	local, _, _ := strings.Cut(email, "@")
	parts := strings.FieldsFunc(local, func(r rune) bool {
		return r == '.' || r == '_' || r == '-'
	})
	switch {
	case len(parts) >= 2:
		initial, _ := utf8.DecodeRuneInString(parts[1])
		return capitalize(parts[0]) + " " + string(unicode.ToUpper(initial))
	case len(parts) == 1:
		return capitalize(parts[0])
	}
	return local
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
