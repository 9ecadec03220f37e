package progress

import (
	"context"
	"log/slog"
)

// Outcome is what a lesson submission means for the learner. When Failed
// is set, Message holds FailureMessage and the caller keeps its state so
// the learner can retry.
type Outcome struct {
	Passed    bool   `json:"passed"`
	Feedback  string `json:"feedback,omitempty"`
	Completed bool   `json:"completed"`
	Failed    bool   `json:"failed"`
	Message   string `json:"message,omitempty"`
}

// Coordinator glues exercise submission to lesson completion and turns
// tracker failures into a fixed message.
type Coordinator struct {
	tracker Tracker
}

// NewCoordinator creates a coordinator over tracker.
func NewCoordinator(tracker Tracker) *Coordinator {
	return &Coordinator{tracker: tracker}
}

// Submit checks sub and, when it passes, completes the lesson.
func (c *Coordinator) Submit(ctx context.Context, userID, lessonID string, sub Submission) Outcome {
	v, err := c.tracker.SubmitAnswer(ctx, lessonID, sub)
	if err != nil {
		slog.Error("lesson submission failed", "user_id", userID, "lesson_id", lessonID, "error", err)
		return failed()
	}
	out := Outcome{Passed: v.Passed, Feedback: v.Feedback}
	if !v.Passed {
		return out
	}

	if err := c.tracker.CompleteLesson(ctx, userID, lessonID); err != nil {
		slog.Error("lesson completion failed", "user_id", userID, "lesson_id", lessonID, "error", err)
		f := failed()
		f.Passed = true
		f.Feedback = v.Feedback
		return f
	}
	out.Completed = true
	return out
}

// Complete marks a lesson finished outside an exercise, e.g. after a
// passed quiz is acknowledged.
func (c *Coordinator) Complete(ctx context.Context, userID, lessonID string) Outcome {
	if err := c.tracker.CompleteLesson(ctx, userID, lessonID); err != nil {
		slog.Error("lesson completion failed", "user_id", userID, "lesson_id", lessonID, "error", err)
		return failed()
	}
	return Outcome{Passed: true, Completed: true}
}

func failed() Outcome {
	return Outcome{Failed: true, Message: FailureMessage}
}
