package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/brk3/consistent/internal/logger"
	"github.com/brk3/consistent/pkg/habit"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "habits_http_requests_total",
			Help: "Total number of HTTP requests by endpoint, method, and status",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "habits_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	entriesLoggedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "habits_entries_logged_total",
			Help: "Total number of completion entries logged",
		},
	)

	celebrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "habits_celebrations_total",
			Help: "Celebrations fired by type",
		},
		[]string{"type"},
	)

	sharedJoinsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "habits_shared_joins_total",
			Help: "Total number of members that joined a shared habit",
		},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()
		statusCode := strconv.Itoa(wrapped.statusCode)

		// route patterns keep ids out of the label set
		endpoint := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			endpoint = rctx.RoutePattern()
		}

		httpRequestsTotal.WithLabelValues(endpoint, r.Method, statusCode).Inc()
		httpRequestDuration.WithLabelValues(endpoint, r.Method, statusCode).Observe(duration)
	})
}

func recordCelebrations(celebrations []habit.Celebration) {
	for _, c := range celebrations {
		celebrationsTotal.WithLabelValues(string(c.Type)).Inc()
		logger.Debug("Celebration fired", "type", c.Type, "title", c.Title)
	}
}
