package server

import (
	"github.com/brk3/consistent/pkg/habit"
)

type ErrorResponse struct {
	Error  string              `json:"error"`
	Fields []map[string]string `json:"fields,omitempty"`
}

type HabitListResponse struct {
	Habits []habit.Habit `json:"habits"`
}

type HabitGetResponse struct {
	Habit   habit.Habit   `json:"habit"`
	Entries []habit.Entry `json:"entries"`
}

// UpdateHabitRequest carries the habit fields to change. Nil fields are left
// as they are.
type UpdateHabitRequest struct {
	Name         *string             `json:"name,omitempty"`
	Icon         *string             `json:"icon,omitempty"`
	Color        *string             `json:"color,omitempty"`
	TargetCount  *int                `json:"target_count,omitempty"`
	TargetPeriod *habit.TargetPeriod `json:"target_period,omitempty"`
	NotesEnabled *bool               `json:"notes_enabled,omitempty"`
	IsArchived   *bool               `json:"is_archived,omitempty"`
}

func (u UpdateHabitRequest) apply(h *habit.Habit) {
	if u.Name != nil {
		h.Name = *u.Name
	}
	if u.Icon != nil {
		h.Icon = *u.Icon
	}
	if u.Color != nil {
		h.Color = *u.Color
	}
	if u.TargetCount != nil {
		h.TargetCount = *u.TargetCount
	}
	if u.TargetPeriod != nil {
		h.TargetPeriod = *u.TargetPeriod
	}
	if u.NotesEnabled != nil {
		h.NotesEnabled = *u.NotesEnabled
	}
	if u.IsArchived != nil {
		h.IsArchived = *u.IsArchived
	}
}

type LogEntryRequest struct {
	Date string `json:"date,omitempty"`
	Note string `json:"note,omitempty"`
}

type LogEntryResponse struct {
	Entry        habit.Entry         `json:"entry"`
	Stats        habit.HabitStats    `json:"stats"`
	Celebrations []habit.Celebration `json:"celebrations"`
	// Celebration is the highest priority event, if any fired.
	Celebration *habit.Celebration `json:"celebration,omitempty"`
}

type UpdateEntryRequest struct {
	Note string `json:"note"`
}

type HabitStatsResponse struct {
	HabitID string           `json:"habit_id"`
	Stats   habit.HabitStats `json:"stats"`
}

type MilestonesResponse struct {
	HabitID      string             `json:"habit_id"`
	Achievements habit.Achievements `json:"achievements"`
}

// MemberRequest is the optional profile a member shares with the group.
type MemberRequest struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

type ShareResponse struct {
	SharedHabit habit.SharedHabit `json:"shared_habit"`
	Membership  habit.Membership  `json:"membership"`
}

type JoinResponse struct {
	Habit      habit.Habit      `json:"habit"`
	Membership habit.Membership `json:"membership"`
}

type LeaderboardResponse struct {
	SharedHabitID string                   `json:"shared_habit_id"`
	Leaderboard   []habit.LeaderboardEntry `json:"leaderboard"`
	Summary       habit.GroupSummary       `json:"summary"`
	Medals        []habit.Medal            `json:"medals"`
}

type ActivityResponse struct {
	SharedHabitID string                 `json:"shared_habit_id"`
	Activity      []habit.MemberActivity `json:"activity"`
}
