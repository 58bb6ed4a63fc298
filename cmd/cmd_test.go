package cmd

import (
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/brk3/consistent/internal/apiclient"
	"github.com/brk3/consistent/internal/server"
	"github.com/brk3/consistent/internal/storage/bolt"
	"github.com/brk3/consistent/pkg/habit"
	"github.com/brk3/consistent/pkg/versioninfo"
)

func newTestClient(t *testing.T, user string) *apiclient.Client {
	t.Helper()
	store, err := bolt.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	s, err := server.New(store)
	if err != nil {
		t.Fatalf("server.New failed: %v", err)
	}
	s.Now = func() time.Time { return time.Date(2025, 6, 11, 9, 0, 0, 0, time.UTC) }

	ts := httptest.NewServer(s.Router())
	t.Cleanup(ts.Close)
	return apiclient.New(ts.URL, user)
}

func TestTrack_PrintsCelebration(t *testing.T) {
	c := newTestClient(t, "alice")
	ctx := context.Background()
	h, err := c.CreateHabit(ctx, habit.Habit{Name: "guitar"})
	if err != nil {
		t.Fatal(err)
	}

	if err := track(ctx, io.Discard, c, h.ID, "", "2025-06-09"); err != nil {
		t.Fatal(err)
	}
	if err := track(ctx, io.Discard, c, h.ID, "", "2025-06-10"); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := track(ctx, &out, c, h.ID, "", ""); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	if !strings.Contains(got, "Logged "+h.ID+" for 2025-06-11") {
		t.Errorf("missing logged line in %q", got)
	}
	if !strings.Contains(got, "New Record!") {
		t.Errorf("missing celebration in %q", got)
	}
	if !strings.Contains(got, "Streak: 3 (best 3)") {
		t.Errorf("missing streak in %q", got)
	}
}

func TestTrack_UnknownHabit(t *testing.T) {
	c := newTestClient(t, "alice")
	if err := track(context.Background(), io.Discard, c, "missing", "", ""); err == nil {
		t.Fatal("expected an error for an unknown habit")
	}
}

func TestList(t *testing.T) {
	c := newTestClient(t, "alice")
	ctx := context.Background()

	var out bytes.Buffer
	if err := list(ctx, &out, c); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No habits yet") {
		t.Fatalf("unexpected output %q", out.String())
	}

	if _, err := c.CreateHabit(ctx, habit.Habit{Name: "gym", TargetCount: 3, TargetPeriod: habit.PeriodWeek}); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	if err := list(ctx, &out, c); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "gym") || !strings.Contains(out.String(), "3/week") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestShowStats(t *testing.T) {
	c := newTestClient(t, "alice")
	ctx := context.Background()
	h, err := c.CreateHabit(ctx, habit.Habit{Name: "read"})
	if err != nil {
		t.Fatal(err)
	}
	for _, d := range []string{"2025-06-09", "2025-06-10", "2025-06-11"} {
		if _, err := c.LogEntry(ctx, h.ID, d, ""); err != nil {
			t.Fatal(err)
		}
	}

	var out bytes.Buffer
	if err := showStats(ctx, &out, c, h.ID); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Current streak:   3", "30 day rate:      10%", "Streak badges:    [3]"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("missing %q in %q", want, out.String())
		}
	}
}

func TestPrintLeaderboard(t *testing.T) {
	resp := &server.LeaderboardResponse{
		Leaderboard: []habit.LeaderboardEntry{
			{UserID: "bob", DisplayLabel: "Bob S", CurrentStreak: 4, TotalEntries: 6, CompletionRate: 20},
			{UserID: "alice", DisplayLabel: "Alice", CurrentStreak: 1, TotalEntries: 2, CompletionRate: 7},
		},
		Summary: habit.GroupSummary{Members: 2, ActiveMembers: 2, AverageStreak: 3, AverageCompletionRate: 14, TopStreak: 4},
		Medals: []habit.Medal{
			{Place: 1, Medal: "gold", Entry: habit.LeaderboardEntry{DisplayLabel: "Bob S"}},
		},
	}

	var out bytes.Buffer
	if err := printLeaderboard(&out, resp); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(out.String(), "\n")
	if !strings.HasPrefix(lines[1], "1") || !strings.Contains(lines[1], "Bob S") {
		t.Fatalf("bob should be first, got %q", lines[1])
	}
	if !strings.Contains(out.String(), "2/2 members active") {
		t.Errorf("missing summary in %q", out.String())
	}
	if !strings.Contains(out.String(), "🥇 Bob S") {
		t.Errorf("missing medal in %q", out.String())
	}
}

func TestVersion(t *testing.T) {
	c := newTestClient(t, "")
	var out bytes.Buffer
	version(context.Background(), &out, c)
	if !strings.Contains(out.String(), "Server Version: "+versioninfo.Version) {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestRootCommand_ArgValidation(t *testing.T) {
	t.Setenv("HABITS_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	tests := [][]string{
		{"track"},
		{"track", "h1", "note", "extra"},
		{"stats"},
		{"leaderboard"},
		{"list", "extra"},
	}
	for _, args := range tests {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			rootCmd.SetArgs(args)
			rootCmd.SetOut(io.Discard)
			rootCmd.SetErr(io.Discard)
			if err := rootCmd.Execute(); err == nil {
				t.Fatalf("expected error for args %v", args)
			}
		})
	}
}
