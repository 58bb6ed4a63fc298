package server

import (
	"cmp"
	"slices"
	"sync"

	"github.com/brk3/consistent/internal/storage"
	"github.com/brk3/consistent/pkg/habit"
)

type memStore struct {
	mu      sync.RWMutex
	habits  map[string]map[string]habit.Habit
	entries map[string]map[string]habit.Entry // user -> entry id -> entry
	shared  map[string]habit.SharedHabit
	members map[string][]habit.Membership
}

func newMemStore() *memStore {
	return &memStore{
		habits:  map[string]map[string]habit.Habit{},
		entries: map[string]map[string]habit.Entry{},
		shared:  map[string]habit.SharedHabit{},
		members: map[string][]habit.Membership{},
	}
}

func (m *memStore) PutHabit(userID string, h habit.Habit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.habits[userID] == nil {
		m.habits[userID] = map[string]habit.Habit{}
	}
	m.habits[userID][h.ID] = h
	return nil
}

func (m *memStore) GetHabit(userID, habitID string) (habit.Habit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.habits[userID][habitID]
	if !ok {
		return habit.Habit{}, storage.ErrNotFound
	}
	return h, nil
}

func (m *memStore) ListHabits(userID string) ([]habit.Habit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []habit.Habit{}
	for _, h := range m.habits[userID] {
		out = append(out, h)
	}
	slices.SortFunc(out, func(a, b habit.Habit) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (m *memStore) DeleteHabit(userID, habitID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.habits[userID][habitID]; !ok {
		return storage.ErrNotFound
	}
	delete(m.habits[userID], habitID)
	for id, e := range m.entries[userID] {
		if e.HabitID == habitID {
			delete(m.entries[userID], id)
		}
	}
	return nil
}

func (m *memStore) PutEntry(userID string, e habit.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.habits[userID][e.HabitID]; !ok {
		return storage.ErrNotFound
	}
	if m.entries[userID] == nil {
		m.entries[userID] = map[string]habit.Entry{}
	}
	m.entries[userID][e.ID] = e
	return nil
}

func (m *memStore) GetEntry(userID, habitID, entryID string) (habit.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[userID][entryID]
	if !ok || e.HabitID != habitID {
		return habit.Entry{}, storage.ErrNotFound
	}
	return e, nil
}

func (m *memStore) ListEntries(userID, habitID string) ([]habit.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []habit.Entry{}
	for _, e := range m.entries[userID] {
		if e.HabitID == habitID {
			out = append(out, e)
		}
	}
	slices.SortFunc(out, func(a, b habit.Entry) int {
		if c := cmp.Compare(a.Date, b.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (m *memStore) DeleteEntry(userID, habitID, entryID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[userID][entryID]
	if !ok || e.HabitID != habitID {
		return storage.ErrNotFound
	}
	delete(m.entries[userID], entryID)
	return nil
}

func (m *memStore) PutSharedHabit(s habit.SharedHabit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shared[s.ID] = s
	return nil
}

func (m *memStore) GetSharedHabit(id string) (habit.SharedHabit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.shared[id]
	if !ok {
		return habit.SharedHabit{}, storage.ErrNotFound
	}
	return s, nil
}

func (m *memStore) DeleteSharedHabit(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.shared[id]; !ok {
		return storage.ErrNotFound
	}
	delete(m.shared, id)
	delete(m.members, id)
	return nil
}

func (m *memStore) PutMembership(ms habit.Membership) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.shared[ms.SharedHabitID]; !ok {
		return storage.ErrNotFound
	}
	m.members[ms.SharedHabitID] = append(m.members[ms.SharedHabitID], ms)
	return nil
}

func (m *memStore) DeleteMembership(sharedHabitID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	members := m.members[sharedHabitID]
	for i, ms := range members {
		if ms.UserID == userID {
			m.members[sharedHabitID] = slices.Delete(members, i, i+1)
			return nil
		}
	}
	return storage.ErrNotFound
}

func (m *memStore) ListMemberships(sharedHabitID string) ([]habit.Membership, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.shared[sharedHabitID]; !ok {
		return nil, storage.ErrNotFound
	}
	return append([]habit.Membership{}, m.members[sharedHabitID]...), nil
}

func (m *memStore) Close() error {
	return nil
}

var _ storage.Store = (*memStore)(nil)
