package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/brk3/consistent/internal/logger"
	"github.com/brk3/consistent/internal/stats"
	"github.com/brk3/consistent/pkg/habit"
	"github.com/brk3/consistent/pkg/versioninfo"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (s *Server) getVersionInfo(w http.ResponseWriter, _ *http.Request) {
	if err := writeJSON(w, http.StatusOK, versioninfo.Get()); err != nil {
		logger.Error("Failed to serialize version info response", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to serialize version info")
		return
	}
}

func (s *Server) createHabit(w http.ResponseWriter, r *http.Request) {
	userID := requestUser(r)
	var h habit.Habit
	if err := json.NewDecoder(r.Body).Decode(&h); err != nil {
		logger.Warn("Invalid JSON in create habit request", "error", err)
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := s.validate.Habit(h); err != nil {
		writeValidationError(w, err)
		return
	}

	h.ID = uuid.NewString()
	h.OwnerID = userID
	h.IsShared = false
	h.SharedHabitID = ""
	h.IsArchived = false
	h.CreatedAt = stats.Today(s.Now())

	logger.Info("Storing habit", "user_id", userID, "habit_id", h.ID, "habit_name", h.Name)
	if err := s.store.PutHabit(userID, h); err != nil {
		logger.Error("Failed to store habit", "user_id", userID, "habit_name", h.Name, "error", err)
		writeError(w, http.StatusInternalServerError, "database write failed")
		return
	}

	if err := writeJSON(w, http.StatusCreated, h); err != nil {
		logger.Error("Failed to serialize create habit response", "user_id", userID, "error", err)
	}
}

func (s *Server) listHabits(w http.ResponseWriter, r *http.Request) {
	userID := requestUser(r)
	habits, err := s.store.ListHabits(userID)
	if err != nil {
		logger.Error("Failed to list habits", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}
	logger.Debug("Listed habits", "user_id", userID, "count", len(habits))
	if err := writeJSON(w, http.StatusOK, HabitListResponse{Habits: habits}); err != nil {
		logger.Error("Failed to serialize habit list response", "user_id", userID, "error", err)
	}
}

// loadHabit fetches a habit with its entries, writing the error response
// itself when either lookup fails.
func (s *Server) loadHabit(w http.ResponseWriter, userID, habitID string) (habit.Habit, []habit.Entry, bool) {
	h, err := s.store.GetHabit(userID, habitID)
	if err != nil {
		writeStoreError(w, err, "habit", "user_id", userID, "habit_id", habitID)
		return habit.Habit{}, nil, false
	}
	entries, err := s.store.ListEntries(userID, habitID)
	if err != nil {
		writeStoreError(w, err, "habit", "user_id", userID, "habit_id", habitID)
		return habit.Habit{}, nil, false
	}
	return h, entries, true
}

func (s *Server) getHabit(w http.ResponseWriter, r *http.Request) {
	userID := requestUser(r)
	habitID := chi.URLParam(r, "habit_id")

	h, entries, ok := s.loadHabit(w, userID, habitID)
	if !ok {
		return
	}
	if err := writeJSON(w, http.StatusOK, HabitGetResponse{Habit: h, Entries: entries}); err != nil {
		logger.Error("Failed to serialize get habit response", "user_id", userID, "habit_id", habitID, "error", err)
	}
}

// updateHabit applies the fields present in the body. Sharing state is only
// changed through the share, join and leave routes.
func (s *Server) updateHabit(w http.ResponseWriter, r *http.Request) {
	userID := requestUser(r)
	habitID := chi.URLParam(r, "habit_id")

	var req UpdateHabitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Invalid JSON in update habit request", "error", err)
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	h, err := s.store.GetHabit(userID, habitID)
	if err != nil {
		writeStoreError(w, err, "habit", "user_id", userID, "habit_id", habitID)
		return
	}
	req.apply(&h)
	if err := s.validate.Habit(h); err != nil {
		writeValidationError(w, err)
		return
	}

	if err := s.store.PutHabit(userID, h); err != nil {
		writeStoreError(w, err, "habit", "user_id", userID, "habit_id", habitID)
		return
	}
	logger.Info("Habit updated", "user_id", userID, "habit_id", habitID, "archived", h.IsArchived)

	if err := writeJSON(w, http.StatusOK, h); err != nil {
		logger.Error("Failed to serialize update habit response", "user_id", userID, "habit_id", habitID, "error", err)
	}
}

func (s *Server) deleteHabit(w http.ResponseWriter, r *http.Request) {
	userID := requestUser(r)
	habitID := chi.URLParam(r, "habit_id")
	logger.Info("Deleting habit", "user_id", userID, "habit_id", habitID)

	h, err := s.store.GetHabit(userID, habitID)
	if err != nil {
		writeStoreError(w, err, "habit", "user_id", userID, "habit_id", habitID)
		return
	}
	if h.IsShared && h.SharedHabitID != "" {
		if err := s.leaveGroup(h.SharedHabitID, userID); err != nil {
			writeStoreError(w, err, "shared habit", "shared_habit_id", h.SharedHabitID)
			return
		}
	}

	if err := s.store.DeleteHabit(userID, habitID); err != nil {
		writeStoreError(w, err, "habit", "user_id", userID, "habit_id", habitID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// logEntry stores a completion and reports the celebrations it triggered by
// comparing the habit's stats before and after the write.
func (s *Server) logEntry(w http.ResponseWriter, r *http.Request) {
	userID := requestUser(r)
	habitID := chi.URLParam(r, "habit_id")
	now := s.Now()

	var req LogEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		logger.Warn("Invalid JSON in log entry request", "error", err)
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	e := habit.Entry{
		ID:      uuid.NewString(),
		HabitID: habitID,
		OwnerID: userID,
		Date:    req.Date,
		Note:    req.Note,
	}
	if e.Date == "" {
		e.Date = stats.Today(now)
	}
	if err := s.validate.Entry(e); err != nil {
		writeValidationError(w, err)
		return
	}

	h, entries, ok := s.loadHabit(w, userID, habitID)
	if !ok {
		return
	}
	if e.Note != "" && !h.NotesEnabled {
		writeError(w, http.StatusBadRequest, "notes are disabled for this habit")
		return
	}

	before := stats.Compute(h, entries, now)
	if err := s.store.PutEntry(userID, e); err != nil {
		writeStoreError(w, err, "habit", "user_id", userID, "habit_id", habitID)
		return
	}
	after := stats.Compute(h, append(entries, e), now)

	resp := LogEntryResponse{
		Entry:        e,
		Stats:        after,
		Celebrations: stats.Celebrations(h, before, after),
	}
	if top, ok := stats.Top(resp.Celebrations); ok {
		resp.Celebration = &top
	}

	entriesLoggedTotal.Inc()
	recordCelebrations(resp.Celebrations)
	logger.Info("Entry logged", "user_id", userID, "habit_id", habitID, "date", e.Date,
		"current_streak", after.CurrentStreak, "celebrations", len(resp.Celebrations))

	if err := writeJSON(w, http.StatusCreated, resp); err != nil {
		logger.Error("Failed to serialize log entry response", "user_id", userID, "habit_id", habitID, "error", err)
	}
}

func (s *Server) updateEntry(w http.ResponseWriter, r *http.Request) {
	userID := requestUser(r)
	habitID := chi.URLParam(r, "habit_id")
	entryID := chi.URLParam(r, "entry_id")

	var req UpdateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	e, err := s.store.GetEntry(userID, habitID, entryID)
	if err != nil {
		writeStoreError(w, err, "entry", "user_id", userID, "habit_id", habitID, "entry_id", entryID)
		return
	}
	e.Note = req.Note
	if err := s.validate.Entry(e); err != nil {
		writeValidationError(w, err)
		return
	}
	if err := s.store.PutEntry(userID, e); err != nil {
		writeStoreError(w, err, "entry", "user_id", userID, "habit_id", habitID, "entry_id", entryID)
		return
	}

	if err := writeJSON(w, http.StatusOK, e); err != nil {
		logger.Error("Failed to serialize update entry response", "user_id", userID, "entry_id", entryID, "error", err)
	}
}

func (s *Server) deleteEntry(w http.ResponseWriter, r *http.Request) {
	userID := requestUser(r)
	habitID := chi.URLParam(r, "habit_id")
	entryID := chi.URLParam(r, "entry_id")

	if err := s.store.DeleteEntry(userID, habitID, entryID); err != nil {
		writeStoreError(w, err, "entry", "user_id", userID, "habit_id", habitID, "entry_id", entryID)
		return
	}
	logger.Info("Entry deleted", "user_id", userID, "habit_id", habitID, "entry_id", entryID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getHabitStats(w http.ResponseWriter, r *http.Request) {
	userID := requestUser(r)
	habitID := chi.URLParam(r, "habit_id")

	h, entries, ok := s.loadHabit(w, userID, habitID)
	if !ok {
		return
	}
	resp := HabitStatsResponse{HabitID: habitID, Stats: stats.Compute(h, entries, s.Now())}
	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		logger.Error("Failed to serialize habit stats response", "user_id", userID, "habit_id", habitID, "error", err)
	}
}

func (s *Server) getMilestones(w http.ResponseWriter, r *http.Request) {
	userID := requestUser(r)
	habitID := chi.URLParam(r, "habit_id")

	h, entries, ok := s.loadHabit(w, userID, habitID)
	if !ok {
		return
	}
	st := stats.Compute(h, entries, s.Now())
	resp := MilestonesResponse{HabitID: habitID, Achievements: stats.Milestones(h, st)}
	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		logger.Error("Failed to serialize milestones response", "user_id", userID, "habit_id", habitID, "error", err)
	}
}
