package storage

import (
	"errors"

	"github.com/brk3/consistent/pkg/habit"
)

var ErrNotFound = errors.New("not found")

type Store interface {
	PutHabit(userID string, h habit.Habit) error
	GetHabit(userID, habitID string) (habit.Habit, error)
	ListHabits(userID string) ([]habit.Habit, error)
	// DeleteHabit removes the habit together with all of its entries.
	DeleteHabit(userID, habitID string) error

	PutEntry(userID string, e habit.Entry) error
	GetEntry(userID, habitID, entryID string) (habit.Entry, error)
	// ListEntries returns a habit's entries ordered by date.
	ListEntries(userID, habitID string) ([]habit.Entry, error)
	DeleteEntry(userID, habitID, entryID string) error

	PutSharedHabit(s habit.SharedHabit) error
	GetSharedHabit(id string) (habit.SharedHabit, error)
	// DeleteSharedHabit removes the shared habit and all of its memberships.
	DeleteSharedHabit(id string) error
	PutMembership(m habit.Membership) error
	DeleteMembership(sharedHabitID, userID string) error
	ListMemberships(sharedHabitID string) ([]habit.Membership, error)

	Close() error
}
