// Package quiz implements the question-by-question quiz state machine used on
// lesson pages: answer selection, navigation, scoring and review.
package quiz

import (
	"fmt"
	"math"
)

// PassThreshold is the minimum percentage a learner needs to pass a quiz.
const PassThreshold = 70

// Question is a single multiple-choice question.
type Question struct {
	Question string   `json:"question" yaml:"question"`
	Options  []string `json:"options" yaml:"options"`
	Correct  int      `json:"correct" yaml:"correct"`
}

// Validate checks that the question has at least two options and that the
// correct index points at one of them.
func (q Question) Validate() error {
	if q.Question == "" {
		return fmt.Errorf("question text is empty")
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("question %q needs at least 2 options, got %d", q.Question, len(q.Options))
	}
	if q.Correct < 0 || q.Correct >= len(q.Options) {
		return fmt.Errorf("question %q: correct index %d out of range", q.Question, q.Correct)
	}
	return nil
}

// Session is one run-through of a fixed question set. It is a value: every
// transition returns a new Session and leaves the receiver untouched.
type Session struct {
	Questions []Question  `json:"questions"`
	Current   int         `json:"current"`
	Answers   map[int]int `json:"answers"`
	Completed bool        `json:"completed"`
	Score     int         `json:"score"`
}

// Completed is emitted when the last question is submitted.
type Completed struct {
	Score      int  `json:"score"`
	Total      int  `json:"total"`
	Percentage int  `json:"percentage"`
	Passed     bool `json:"passed"`
}

// Advanced is emitted when the learner acknowledges a passed quiz and moves
// on to the next lesson.
type Advanced struct {
	Score int `json:"score"`
	Total int `json:"total"`
}

// NewSession starts a quiz at the first question with no answers.
func NewSession(questions []Question) Session {
	return Session{
		Questions: append([]Question(nil), questions...),
		Answers:   map[int]int{},
	}
}

// Total returns the number of questions.
func (s Session) Total() int {
	return len(s.Questions)
}

// Answered reports whether the current question has a recorded answer.
func (s Session) Answered() bool {
	_, ok := s.Answers[s.Current]
	return ok
}

// CanGoNext reports whether GoNext would be accepted. UIs use it to disable
// the next/submit control.
func (s Session) CanGoNext() bool {
	return !s.Completed && s.Total() > 0 && s.Answered()
}

// CanGoPrevious reports whether GoPrevious would be accepted.
func (s Session) CanGoPrevious() bool {
	return !s.Completed && s.Current > 0
}

// IsLast reports whether the current question is the final one.
func (s Session) IsLast() bool {
	return s.Current == s.Total()-1
}

// SelectOption records an answer for the current question without advancing.
func (s Session) SelectOption(option int) (Session, bool) {
	if s.Completed || s.Total() == 0 {
		return s, false
	}
	if option < 0 || option >= len(s.Questions[s.Current].Options) {
		return s, false
	}
	next := s.clone()
	next.Answers[s.Current] = option
	return next, true
}

// GoNext advances to the next question, or completes the quiz when the
// current question is the last one. A completion event is returned only on
// the terminal transition.
func (s Session) GoNext() (Session, *Completed, bool) {
	if !s.CanGoNext() {
		return s, nil, false
	}
	next := s.clone()
	if !s.IsLast() {
		next.Current++
		return next, nil, true
	}

	next.Completed = true
	next.Score = Score(next.Questions, next.Answers)
	return next, next.result(), true
}

// GoPrevious steps back one question. Answers are kept.
func (s Session) GoPrevious() (Session, bool) {
	if !s.CanGoPrevious() {
		return s, false
	}
	next := s.clone()
	next.Current--
	return next, true
}

// Retry resets a completed quiz to its first question with no answers.
func (s Session) Retry() (Session, bool) {
	if !s.Completed {
		return s, false
	}
	return NewSession(s.Questions), true
}

// Acknowledge signals progression after a passed quiz.
func (s Session) Acknowledge() (Advanced, bool) {
	if !s.Completed || !Passed(s.Percentage()) {
		return Advanced{}, false
	}
	return Advanced{Score: s.Score, Total: s.Total()}, true
}

// Percentage returns the current score as a rounded percentage.
func (s Session) Percentage() int {
	return Percentage(s.Score, s.Total())
}

// Result returns the completion summary, or nil while the quiz is running.
func (s Session) Result() *Completed {
	if !s.Completed {
		return nil
	}
	return s.result()
}

func (s Session) result() *Completed {
	pct := s.Percentage()
	return &Completed{
		Score:      s.Score,
		Total:      s.Total(),
		Percentage: pct,
		Passed:     Passed(pct),
	}
}

func (s Session) clone() Session {
	answers := make(map[int]int, len(s.Answers))
	for k, v := range s.Answers {
		answers[k] = v
	}
	s.Answers = answers
	return s
}

// Score counts answers that match the correct option.
func Score(questions []Question, answers map[int]int) int {
	score := 0
	for i, q := range questions {
		if a, ok := answers[i]; ok && a == q.Correct {
			score++
		}
	}
	return score
}

// Percentage returns round(score/total*100), or 0 for an empty quiz.
func Percentage(score, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(score) / float64(total) * 100))
}

// Passed applies the pass threshold to a percentage.
func Passed(percentage int) bool {
	return percentage >= PassThreshold
}
