package progress_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/p-n-ai/pai-academy/internal/analytics"
	"github.com/p-n-ai/pai-academy/internal/curriculum"
	"github.com/p-n-ai/pai-academy/internal/progress"
)

func newService(t *testing.T, opts ...progress.ServiceOption) (*progress.Service, *curriculum.Catalog) {
	t.Helper()
	c, err := curriculum.Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	return progress.NewService(c, progress.NewMemoryStore(), opts...), c
}

func passingRoleSubmission() progress.Submission {
	return progress.Submission{
		Role:       "너는 친절한 코딩 선생님이야",
		Context:    "파이썬을 처음 배우는 중학생이야",
		Action:     "반복문을 예시와 함께 설명해 줘",
		TokenCount: 80,
		Command:    "/ask",
	}
}

func TestService_SubmitAnswer(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()

	v, err := s.SubmitAnswer(ctx, "lesson-role", passingRoleSubmission())
	if err != nil {
		t.Fatalf("SubmitAnswer() error = %v", err)
	}
	if !v.Passed {
		t.Errorf("Passed = false, feedback %q", v.Feedback)
	}

	if _, err := s.SubmitAnswer(ctx, "missing", passingRoleSubmission()); !errors.Is(err, progress.ErrLessonNotFound) {
		t.Errorf("SubmitAnswer(missing) error = %v, want ErrLessonNotFound", err)
	}
}

func TestService_CompleteLessonAndProgress(t *testing.T) {
	events := analytics.NewMemoryEventLogger()
	s, c := newService(t,
		progress.WithEventLogger(events),
		progress.WithClock(func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }),
	)
	ctx := context.Background()

	if err := s.CompleteLesson(ctx, "u1", "lesson-role"); err != nil {
		t.Fatalf("CompleteLesson() error = %v", err)
	}
	if err := s.CompleteLesson(ctx, "u1", "lesson-role"); err != nil {
		t.Fatalf("repeat CompleteLesson() error = %v", err)
	}

	sum, err := s.Progress(ctx, "u1")
	if err != nil {
		t.Fatalf("Progress() error = %v", err)
	}
	if sum.Completed != 1 || sum.Total != c.TotalLessons() {
		t.Errorf("Progress() = %+v, want {1 %d}", sum, c.TotalLessons())
	}
	if got := len(events.OfType(analytics.LessonCompleted)); got != 1 {
		t.Errorf("lesson_completed events = %d, want 1", got)
	}
}

func TestService_CompleteLessonErrors(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()

	if err := s.CompleteLesson(ctx, "", "lesson-role"); !errors.Is(err, progress.ErrUserRequired) {
		t.Errorf("empty user error = %v, want ErrUserRequired", err)
	}
	if err := s.CompleteLesson(ctx, "u1", "nope"); !errors.Is(err, progress.ErrLessonNotFound) {
		t.Errorf("unknown lesson error = %v, want ErrLessonNotFound", err)
	}
}

func TestService_ProgressIgnoresRemovedLessons(t *testing.T) {
	c, err := curriculum.Default()
	if err != nil {
		t.Fatal(err)
	}
	store := progress.NewMemoryStore()
	_, _ = store.MarkComplete(context.Background(), "u1", "retired-lesson", time.Now())
	s := progress.NewService(c, store)

	sum, err := s.Progress(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Progress() error = %v", err)
	}
	if sum.Completed != 0 {
		t.Errorf("Completed = %d, want 0", sum.Completed)
	}
}
