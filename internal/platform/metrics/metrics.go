// Package metrics defines the Prometheus collectors exposed on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the application collectors on their own registry.
type Metrics struct {
	Registry *prometheus.Registry

	RequestCounter       *prometheus.CounterVec
	RequestDuration      *prometheus.HistogramVec
	AssessmentsSubmitted prometheus.Counter
	QuizzesCompleted     *prometheus.CounterVec
	LessonsCompleted     prometheus.Counter
	PromptAnalyses       *prometheus.CounterVec
	PromptRewrites       *prometheus.CounterVec
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		RequestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
			},
			[]string{"method", "endpoint"},
		),
		AssessmentsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "academy_assessments_submitted_total",
			Help: "Assessments submitted",
		}),
		QuizzesCompleted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "academy_quizzes_completed_total",
				Help: "Quizzes completed by result",
			},
			[]string{"result"},
		),
		LessonsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "academy_lessons_completed_total",
			Help: "Lesson completions recorded",
		}),
		PromptAnalyses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "academy_prompt_analyses_total",
				Help: "Prompt analyses by outcome",
			},
			[]string{"outcome"},
		),
		PromptRewrites: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "academy_prompt_rewrites_total",
				Help: "Prompt rewrites by outcome",
			},
			[]string{"outcome"},
		),
	}

	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RequestCounter,
		m.RequestDuration,
		m.AssessmentsSubmitted,
		m.QuizzesCompleted,
		m.LessonsCompleted,
		m.PromptAnalyses,
		m.PromptRewrites,
	)
	return m
}

// QuizCompleted counts a finished quiz.
func (m *Metrics) QuizCompleted(passed bool) {
	if m == nil {
		return
	}
	result := "fail"
	if passed {
		result = "pass"
	}
	m.QuizzesCompleted.WithLabelValues(result).Inc()
}

// AssessmentSubmitted counts a submitted assessment.
func (m *Metrics) AssessmentSubmitted() {
	if m == nil {
		return
	}
	m.AssessmentsSubmitted.Inc()
}

// LessonCompleted counts a recorded lesson completion.
func (m *Metrics) LessonCompleted() {
	if m == nil {
		return
	}
	m.LessonsCompleted.Inc()
}

// PromptAnalyzed counts a prompt analysis by outcome (ai, cached,
// fallback, budget).
func (m *Metrics) PromptAnalyzed(outcome string) {
	if m == nil {
		return
	}
	m.PromptAnalyses.WithLabelValues(outcome).Inc()
}

// PromptRewritten counts a prompt rewrite by outcome.
func (m *Metrics) PromptRewritten(outcome string) {
	if m == nil {
		return
	}
	m.PromptRewrites.WithLabelValues(outcome).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// Middleware records request count and duration. route names the endpoint
// label; callers pass the mux pattern so path parameters do not explode
// label cardinality.
func (m *Metrics) Middleware(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		m.RequestCounter.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		m.RequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the underlying writer, which
// the WebSocket upgrade needs.
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}
