// Package httpapi exposes the academy over HTTP: curriculum browsing,
// recommendations, lesson progress, prompt analysis and the live session
// WebSocket.
package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/p-n-ai/pai-academy/internal/analytics"
	"github.com/p-n-ai/pai-academy/internal/coach"
	"github.com/p-n-ai/pai-academy/internal/curriculum"
	"github.com/p-n-ai/pai-academy/internal/platform/metrics"
	"github.com/p-n-ai/pai-academy/internal/progress"
	"github.com/p-n-ai/pai-academy/internal/recommend"
)

const (
	maxBodyBytes     = 1 << 20
	readinessTimeout = 2 * time.Second
)

// Fixed client-facing error messages.
const (
	msgBadRequest   = "invalid request body"
	msgNotFound     = "not found"
	msgRateLimited  = "too many requests"
	msgBudget       = "daily AI budget exceeded"
	msgIncomplete   = "profile is incomplete"
	msgUserRequired = "user id is required"
)

// Checker is a dependency checked by /readyz.
type Checker interface {
	HealthCheck(ctx context.Context) error
}

// Config wires the server's dependencies. Catalog and Progress are
// required; the rest are optional.
type Config struct {
	Catalog        *curriculum.Catalog
	Progress       *progress.Service
	Coach          *coach.Engine
	Sessions       http.Handler
	Metrics        *metrics.Metrics
	Events         analytics.EventLogger
	RatePerMinute  int
	TrustedProxies []string // peers allowed to set X-Forwarded-For
	Checks         map[string]Checker
}

// Server holds the handlers' dependencies.
type Server struct {
	catalog     *curriculum.Catalog
	recommender *recommend.Engine
	progress    *progress.Service
	coach       *coach.Engine
	sessions    http.Handler
	metrics     *metrics.Metrics
	events      analytics.EventLogger
	limiter     *rateLimiter
	checks      map[string]Checker
}

// New creates a Server.
func New(cfg Config) *Server {
	events := cfg.Events
	if events == nil {
		events = analytics.NopEventLogger{}
	}
	rpm := cfg.RatePerMinute
	if rpm <= 0 {
		rpm = 30
	}
	coachEngine := cfg.Coach
	if coachEngine == nil {
		coachEngine = coach.NewEngine(coach.EngineConfig{Events: events, Metrics: cfg.Metrics})
	}
	return &Server{
		catalog:     cfg.Catalog,
		recommender: recommend.NewEngine(cfg.Catalog),
		progress:    cfg.Progress,
		coach:       coachEngine,
		sessions:    cfg.Sessions,
		metrics:     cfg.Metrics,
		events:      events,
		limiter:     newRateLimiter(rpm, time.Minute, parseTrustedProxies(cfg.TrustedProxies)...),
		checks:      cfg.Checks,
	}
}

// Handler returns the HTTP router.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.handle(mux, "GET /healthz", s.handleHealthz)
	s.handle(mux, "GET /readyz", s.handleReadyz)

	s.handle(mux, "GET /api/curriculum", s.handleGrades)
	s.handle(mux, "GET /api/curriculum/{grade}", s.handleCurriculum)
	s.handle(mux, "GET /api/lessons", s.handleLessons)
	s.handle(mux, "GET /api/quizzes/{id}", s.handleQuiz)
	s.handle(mux, "POST /api/recommendations", s.handleRecommend)
	s.handle(mux, "POST /api/lessons/{id}/validate", s.handleValidate)
	s.handle(mux, "POST /api/user/{id}/complete-lesson", s.handleComplete)
	s.handle(mux, "GET /api/user/{id}/progress", s.handleProgress)
	s.handle(mux, "GET /api/user/{id}/report.xlsx", s.handleReport)
	s.handle(mux, "POST /api/prompts/analyze", s.limiter.middleware(s.handleAnalyze))
	s.handle(mux, "POST /api/prompts/rewrite", s.limiter.middleware(s.handleRewrite))

	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}
	if s.sessions != nil {
		// Not wrapped: the upgrade needs the raw ResponseWriter.
		mux.Handle("GET /ws", s.sessions)
	}
	return mux
}

func (s *Server) handle(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	if s.metrics == nil {
		mux.HandleFunc(pattern, h)
		return
	}
	mux.Handle(pattern, s.metrics.Middleware(pattern, h))
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	var failed []string
	for name, c := range s.checks {
		if err := c.HealthCheck(ctx); err != nil {
			slog.Warn("readiness check failed", "check", name, "error", err)
			failed = append(failed, name)
		}
	}
	if len(failed) > 0 {
		sort.Strings(failed)
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "unavailable", "failed": failed})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to write response", "error", err)
	}
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return false
	}
	return true
}
