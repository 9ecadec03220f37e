package progress

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/p-n-ai/pai-academy/internal/analytics"
	"github.com/p-n-ai/pai-academy/internal/curriculum"
	"github.com/p-n-ai/pai-academy/internal/platform/metrics"
)

// Service is the backend Tracker: it checks exercises against the catalog
// and records completions in a Store.
type Service struct {
	catalog *curriculum.Catalog
	store   Store
	events  analytics.EventLogger
	metrics *metrics.Metrics
	now     func() time.Time
}

var _ Tracker = (*Service)(nil)

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithEventLogger sets the analytics sink for lesson completions.
func WithEventLogger(l analytics.EventLogger) ServiceOption {
	return func(s *Service) { s.events = l }
}

// WithMetrics sets the metrics collectors.
func WithMetrics(m *metrics.Metrics) ServiceOption {
	return func(s *Service) { s.metrics = m }
}

// WithClock overrides the completion timestamp source.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

// NewService creates a Service.
func NewService(catalog *curriculum.Catalog, store Store, opts ...ServiceOption) *Service {
	s := &Service{
		catalog: catalog,
		store:   store,
		events:  analytics.NopEventLogger{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SubmitAnswer checks sub against the lesson's exercise.
func (s *Service) SubmitAnswer(_ context.Context, lessonID string, sub Submission) (Verdict, error) {
	lesson, ok := s.catalog.Lesson(lessonID)
	if !ok {
		return Verdict{}, fmt.Errorf("%w: %s", ErrLessonNotFound, lessonID)
	}
	return Check(lesson.Exercise, sub), nil
}

// CompleteLesson marks lessonID complete for userID. Completing a lesson
// twice is not an error.
func (s *Service) CompleteLesson(ctx context.Context, userID, lessonID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return ErrUserRequired
	}
	if _, ok := s.catalog.Lesson(lessonID); !ok {
		return fmt.Errorf("%w: %s", ErrLessonNotFound, lessonID)
	}

	created, err := s.store.MarkComplete(ctx, userID, lessonID, s.now())
	if err != nil {
		return fmt.Errorf("marking lesson complete: %w", err)
	}
	if !created {
		return nil
	}

	s.metrics.LessonCompleted()
	analytics.Log(ctx, s.events, userID, analytics.LessonCompleted, map[string]any{
		"lesson_id": lessonID,
	})
	slog.Info("lesson completed", "user_id", userID, "lesson_id", lessonID)
	return nil
}

// Progress counts the user's completions of lessons still in the catalog.
func (s *Service) Progress(ctx context.Context, userID string) (Summary, error) {
	done, err := s.Completed(ctx, userID)
	if err != nil {
		return Summary{}, err
	}
	return Summary{Completed: len(done), Total: s.catalog.TotalLessons()}, nil
}

// Completed returns the user's completions of lessons in the catalog,
// oldest first.
func (s *Service) Completed(ctx context.Context, userID string) ([]Completion, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrUserRequired
	}
	all, err := s.store.Completions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading completions: %w", err)
	}

	out := make([]Completion, 0, len(all))
	for _, c := range all {
		if _, ok := s.catalog.Lesson(c.LessonID); ok {
			out = append(out, c)
		}
	}
	return out, nil
}
