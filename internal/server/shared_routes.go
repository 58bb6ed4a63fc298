package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"slices"

	"github.com/brk3/consistent/internal/logger"
	"github.com/brk3/consistent/internal/stats"
	"github.com/brk3/consistent/internal/storage"
	"github.com/brk3/consistent/pkg/habit"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func decodeMember(r *http.Request) (MemberRequest, error) {
	var req MemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return req, err
	}
	return req, nil
}

// shareHabit turns one of the caller's habits into a shared habit with the
// caller as its owner member.
func (s *Server) shareHabit(w http.ResponseWriter, r *http.Request) {
	userID := requestUser(r)
	habitID := chi.URLParam(r, "habit_id")

	req, err := decodeMember(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	h, err := s.store.GetHabit(userID, habitID)
	if err != nil {
		writeStoreError(w, err, "habit", "user_id", userID, "habit_id", habitID)
		return
	}
	if h.IsShared {
		writeError(w, http.StatusConflict, "habit is already shared")
		return
	}

	today := stats.Today(s.Now())
	sh := habit.SharedHabit{
		ID:           uuid.NewString(),
		HabitName:    h.Name,
		HabitIcon:    h.Icon,
		HabitColor:   h.Color,
		TargetCount:  h.TargetCount,
		TargetPeriod: h.TargetPeriod,
		OwnerUserID:  userID,
		CreatedAt:    today,
	}
	m := habit.Membership{
		SharedHabitID: sh.ID,
		UserID:        userID,
		Name:          req.Name,
		Email:         req.Email,
		Role:          habit.RoleOwner,
		JoinedAt:      today,
		HabitID:       h.ID,
	}
	h.IsShared = true
	h.SharedHabitID = sh.ID

	if err := s.store.PutSharedHabit(sh); err != nil {
		writeStoreError(w, err, "shared habit", "shared_habit_id", sh.ID)
		return
	}
	if err := s.store.PutMembership(m); err != nil {
		writeStoreError(w, err, "shared habit", "shared_habit_id", sh.ID)
		return
	}
	if err := s.store.PutHabit(userID, h); err != nil {
		writeStoreError(w, err, "habit", "user_id", userID, "habit_id", habitID)
		return
	}
	logger.Info("Habit shared", "user_id", userID, "habit_id", habitID, "shared_habit_id", sh.ID)

	if err := writeJSON(w, http.StatusCreated, ShareResponse{SharedHabit: sh, Membership: m}); err != nil {
		logger.Error("Failed to serialize share response", "shared_habit_id", sh.ID, "error", err)
	}
}

// joinSharedHabit gives the caller a private copy of the shared habit and
// records their membership.
func (s *Server) joinSharedHabit(w http.ResponseWriter, r *http.Request) {
	userID := requestUser(r)
	sharedID := chi.URLParam(r, "shared_id")

	req, err := decodeMember(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	sh, err := s.store.GetSharedHabit(sharedID)
	if err != nil {
		writeStoreError(w, err, "shared habit", "shared_habit_id", sharedID)
		return
	}
	members, err := s.store.ListMemberships(sharedID)
	if err != nil {
		writeStoreError(w, err, "shared habit", "shared_habit_id", sharedID)
		return
	}
	if _, ok := findMembership(members, userID); ok {
		writeError(w, http.StatusConflict, "already a member")
		return
	}

	today := stats.Today(s.Now())
	h := habit.Habit{
		ID:            uuid.NewString(),
		OwnerID:       userID,
		Name:          sh.HabitName,
		Icon:          sh.HabitIcon,
		Color:         sh.HabitColor,
		TargetCount:   sh.TargetCount,
		TargetPeriod:  sh.TargetPeriod,
		IsShared:      true,
		SharedHabitID: sh.ID,
		CreatedAt:     today,
	}
	m := habit.Membership{
		SharedHabitID: sh.ID,
		UserID:        userID,
		Name:          req.Name,
		Email:         req.Email,
		Role:          habit.RoleMember,
		JoinedAt:      today,
		HabitID:       h.ID,
	}

	if err := s.store.PutHabit(userID, h); err != nil {
		writeStoreError(w, err, "habit", "user_id", userID, "habit_id", h.ID)
		return
	}
	if err := s.store.PutMembership(m); err != nil {
		writeStoreError(w, err, "shared habit", "shared_habit_id", sharedID)
		return
	}
	sharedJoinsTotal.Inc()
	logger.Info("Joined shared habit", "user_id", userID, "shared_habit_id", sharedID, "members", len(members)+1)

	if err := writeJSON(w, http.StatusCreated, JoinResponse{Habit: h, Membership: m}); err != nil {
		logger.Error("Failed to serialize join response", "shared_habit_id", sharedID, "error", err)
	}
}

// leaveGroup drops userID's membership. A group left with a single member is
// dissolved and that member's copy becomes a private habit again.
func (s *Server) leaveGroup(sharedID, userID string) error {
	if err := s.store.DeleteMembership(sharedID, userID); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return err
	}
	remaining, err := s.store.ListMemberships(sharedID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	switch len(remaining) {
	case 0:
	case 1:
		last := remaining[0]
		h, err := s.store.GetHabit(last.UserID, last.HabitID)
		if err == nil {
			h.IsShared = false
			h.SharedHabitID = ""
			if err := s.store.PutHabit(last.UserID, h); err != nil {
				return err
			}
		} else if !errors.Is(err, storage.ErrNotFound) {
			return err
		}
	default:
		return nil
	}

	logger.Info("Dissolving shared habit", "shared_habit_id", sharedID, "members", len(remaining))
	return s.store.DeleteSharedHabit(sharedID)
}

func findMembership(members []habit.Membership, userID string) (habit.Membership, bool) {
	i := slices.IndexFunc(members, func(m habit.Membership) bool { return m.UserID == userID })
	if i < 0 {
		return habit.Membership{}, false
	}
	return members[i], true
}

// archiveCopy archives a member's copy of a shared habit once they are out of
// the group. A copy that was already deleted is ignored.
func (s *Server) archiveCopy(m habit.Membership) error {
	h, err := s.store.GetHabit(m.UserID, m.HabitID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	h.IsArchived = true
	h.IsShared = false
	h.SharedHabitID = ""
	return s.store.PutHabit(m.UserID, h)
}

func (s *Server) leaveSharedHabit(w http.ResponseWriter, r *http.Request) {
	userID := requestUser(r)
	sharedID := chi.URLParam(r, "shared_id")

	members, err := s.store.ListMemberships(sharedID)
	if err != nil {
		writeStoreError(w, err, "shared habit", "shared_habit_id", sharedID)
		return
	}
	m, ok := findMembership(members, userID)
	if !ok {
		writeError(w, http.StatusNotFound, "not a member")
		return
	}

	if err := s.leaveGroup(sharedID, userID); err != nil {
		writeStoreError(w, err, "shared habit", "shared_habit_id", sharedID)
		return
	}
	if err := s.archiveCopy(m); err != nil {
		writeStoreError(w, err, "habit", "user_id", userID, "habit_id", m.HabitID)
		return
	}
	logger.Info("Left shared habit", "user_id", userID, "shared_habit_id", sharedID)
	w.WriteHeader(http.StatusNoContent)
}

// removeMember lets the owner drop another member from the group.
func (s *Server) removeMember(w http.ResponseWriter, r *http.Request) {
	userID := requestUser(r)
	sharedID := chi.URLParam(r, "shared_id")
	target := chi.URLParam(r, "user_id")

	members, err := s.store.ListMemberships(sharedID)
	if err != nil {
		writeStoreError(w, err, "shared habit", "shared_habit_id", sharedID)
		return
	}
	if caller, ok := findMembership(members, userID); !ok || caller.Role != habit.RoleOwner {
		writeError(w, http.StatusForbidden, "only the owner can remove members")
		return
	}
	if target == userID {
		writeError(w, http.StatusBadRequest, "owner cannot remove themselves")
		return
	}
	m, ok := findMembership(members, target)
	if !ok {
		writeError(w, http.StatusNotFound, "not a member")
		return
	}

	if err := s.leaveGroup(sharedID, target); err != nil {
		writeStoreError(w, err, "shared habit", "shared_habit_id", sharedID)
		return
	}
	if err := s.archiveCopy(m); err != nil {
		writeStoreError(w, err, "habit", "user_id", target, "habit_id", m.HabitID)
		return
	}
	logger.Info("Removed shared habit member", "user_id", userID, "member", target, "shared_habit_id", sharedID)
	w.WriteHeader(http.StatusNoContent)
}

// groupMembers loads every membership of a shared habit together with the
// entries of that member's habit copy.
func (s *Server) groupMembers(sharedID string) ([]stats.Member, error) {
	if _, err := s.store.GetSharedHabit(sharedID); err != nil {
		return nil, err
	}
	memberships, err := s.store.ListMemberships(sharedID)
	if err != nil {
		return nil, err
	}

	members := make([]stats.Member, 0, len(memberships))
	for _, m := range memberships {
		entries, err := s.store.ListEntries(m.UserID, m.HabitID)
		if err != nil {
			return nil, err
		}
		members = append(members, stats.Member{
			UserID:   m.UserID,
			Name:     m.Name,
			Email:    m.Email,
			JoinedAt: m.JoinedAt,
			Entries:  entries,
		})
	}
	return members, nil
}

func (s *Server) getLeaderboard(w http.ResponseWriter, r *http.Request) {
	sharedID := chi.URLParam(r, "shared_id")
	now := s.Now()

	members, err := s.groupMembers(sharedID)
	if err != nil {
		writeStoreError(w, err, "shared habit", "shared_habit_id", sharedID)
		return
	}

	board := stats.Leaderboard(members, now)
	resp := LeaderboardResponse{
		SharedHabitID: sharedID,
		Leaderboard:   board,
		Summary:       stats.Summarize(board),
		Medals:        stats.Medals(members, now),
	}
	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		logger.Error("Failed to serialize leaderboard response", "shared_habit_id", sharedID, "error", err)
	}
}

func (s *Server) getActivity(w http.ResponseWriter, r *http.Request) {
	sharedID := chi.URLParam(r, "shared_id")

	members, err := s.groupMembers(sharedID)
	if err != nil {
		writeStoreError(w, err, "shared habit", "shared_habit_id", sharedID)
		return
	}

	resp := ActivityResponse{SharedHabitID: sharedID, Activity: stats.Activity(members, s.Now())}
	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		logger.Error("Failed to serialize activity response", "shared_habit_id", sharedID, "error", err)
	}
}
