package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/brk3/consistent/internal/logger"
	"github.com/brk3/consistent/internal/storage"
	"github.com/brk3/consistent/internal/validation"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// UserHeader carries the caller's user id. It is trusted as-is.
const UserHeader = "X-Habits-User"

const anonymousUser = "anonymous"

type Server struct {
	store    storage.Store
	validate *validation.Validator

	// Now is the clock every stats computation is evaluated against.
	Now func() time.Time
}

func New(store storage.Store) (*Server, error) {
	v, err := validation.New()
	if err != nil {
		return nil, err
	}
	return &Server{store: store, validate: v, Now: time.Now}, nil
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(metricsMiddleware)

	r.Get("/version", s.getVersionInfo)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/habits", func(r chi.Router) {
		r.Post("/", s.createHabit)
		r.Get("/", s.listHabits)
		r.Get("/{habit_id}", s.getHabit)
		r.Patch("/{habit_id}", s.updateHabit)
		r.Delete("/{habit_id}", s.deleteHabit)

		r.Post("/{habit_id}/entries", s.logEntry)
		r.Patch("/{habit_id}/entries/{entry_id}", s.updateEntry)
		r.Delete("/{habit_id}/entries/{entry_id}", s.deleteEntry)

		r.Get("/{habit_id}/stats", s.getHabitStats)
		r.Get("/{habit_id}/milestones", s.getMilestones)
		r.Post("/{habit_id}/share", s.shareHabit)
	})

	r.Route("/shared/{shared_id}", func(r chi.Router) {
		r.Post("/join", s.joinSharedHabit)
		r.Post("/leave", s.leaveSharedHabit)
		r.Delete("/members/{user_id}", s.removeMember)
		r.Get("/leaderboard", s.getLeaderboard)
		r.Get("/activity", s.getActivity)
	})
	return r
}

func requestUser(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get(UserHeader)); id != "" {
		return id
	}
	return anonymousUser
}

func writeJSON(w http.ResponseWriter, code int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	_ = writeJSON(w, code, ErrorResponse{Error: msg})
}

func writeValidationError(w http.ResponseWriter, err error) {
	_ = writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:  "validation failed",
		Fields: validation.FieldErrors(err),
	})
}

// writeStoreError maps storage failures onto a status code, logging anything
// that is not a plain miss.
func writeStoreError(w http.ResponseWriter, err error, what string, args ...any) {
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, what+" not found")
		return
	}
	logger.Error("Storage error", append(args, "error", err)...)
	writeError(w, http.StatusInternalServerError, "storage error")
}
