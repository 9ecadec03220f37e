// Package progress records which lessons a learner has finished and checks
// structured lesson exercises.
//
// The learning core talks to progress through Tracker only. Service is the
// backend implementation; Client reaches a remote Service over HTTP.
package progress

import (
	"context"
	"errors"
)

// FailureMessage is shown to the learner when a progress call fails.
const FailureMessage = "오류가 발생했습니다. 잠시 후 다시 시도해 주세요."

var (
	ErrLessonNotFound = errors.New("lesson not found")
	ErrUserRequired   = errors.New("user id is required")
)

// Submission is a structured prompt exercise answer.
type Submission struct {
	Role       string `json:"role"`
	Context    string `json:"context"`
	Action     string `json:"action"`
	TokenCount int    `json:"tokenCount"`
	Command    string `json:"command"`
}

// Verdict is the result of checking a Submission.
type Verdict struct {
	Passed   bool   `json:"passed"`
	Feedback string `json:"feedback"`
}

// Summary counts a learner's finished lessons.
type Summary struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// Tracker is the narrow interface the learning core consumes.
type Tracker interface {
	SubmitAnswer(ctx context.Context, lessonID string, sub Submission) (Verdict, error)
	// CompleteLesson is idempotent.
	CompleteLesson(ctx context.Context, userID, lessonID string) error
	Progress(ctx context.Context, userID string) (Summary, error)
}
