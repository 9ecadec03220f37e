// Package session runs one learner's assessment and quiz state machines
// over a WebSocket connection. Each connection owns its own Session; no
// state is shared between connections.
package session

import (
	"context"
	"log/slog"

	"github.com/p-n-ai/pai-academy/internal/analytics"
	"github.com/p-n-ai/pai-academy/internal/assessment"
	"github.com/p-n-ai/pai-academy/internal/curriculum"
	"github.com/p-n-ai/pai-academy/internal/platform/metrics"
	"github.com/p-n-ai/pai-academy/internal/progress"
	"github.com/p-n-ai/pai-academy/internal/quiz"
	"github.com/p-n-ai/pai-academy/internal/recommend"
)

// Command types accepted from clients.
const (
	CmdState            = "state"
	CmdAssessmentSet    = "assessment.set"
	CmdAssessmentToggle = "assessment.toggle_interest"
	CmdAssessmentNext   = "assessment.next"
	CmdAssessmentBack   = "assessment.back"
	CmdAssessmentSubmit = "assessment.submit"
	CmdAssessmentReset  = "assessment.reset"
	CmdQuizStart        = "quiz.start"
	CmdQuizSelect       = "quiz.select"
	CmdQuizNext         = "quiz.next"
	CmdQuizPrevious     = "quiz.previous"
	CmdQuizRetry        = "quiz.retry"
	CmdQuizAcknowledge  = "quiz.acknowledge"
	CmdLessonSubmit     = "lesson.submit"
)

// Reply types sent to clients.
const (
	ReplyState               = "state"
	ReplyRejected            = "rejected"
	ReplyAssessmentSubmitted = "assessment.submitted"
	ReplyQuizCompleted       = "quiz.completed"
	ReplyQuizAdvanced        = "quiz.advanced"
	ReplyLessonResult        = "lesson.result"
)

// Command is one client input.
type Command struct {
	Type       string               `json:"type"`
	Field      string               `json:"field,omitempty"`
	Value      string               `json:"value,omitempty"`
	Option     int                  `json:"option,omitempty"`
	QuizID     string               `json:"quizId,omitempty"`
	LessonID   string               `json:"lessonId,omitempty"`
	Submission *progress.Submission `json:"submission,omitempty"`
}

// Reply is one server output. Only the fields relevant to Type are set.
type Reply struct {
	Type           string                    `json:"type"`
	Command        string                    `json:"command,omitempty"`
	Error          string                    `json:"error,omitempty"`
	Assessment     *assessment.State         `json:"assessment,omitempty"`
	CanAdvance     bool                      `json:"canAdvance,omitempty"`
	Quiz           *QuizView                 `json:"quiz,omitempty"`
	Recommendation *recommend.Recommendation `json:"recommendation,omitempty"`
	Result         *quiz.Completed           `json:"result,omitempty"`
	Review         []quiz.ReviewItem         `json:"review,omitempty"`
	Advanced       *quiz.Advanced            `json:"advanced,omitempty"`
	Outcome        *progress.Outcome         `json:"outcome,omitempty"`
}

// QuizView is what a client sees of a running quiz. Correct answers stay
// on the server.
type QuizView struct {
	QuizID        string          `json:"quizId"`
	Current       int             `json:"current"`
	Total         int             `json:"total"`
	Question      string          `json:"question"`
	Options       []string        `json:"options"`
	Selected      *int            `json:"selected,omitempty"`
	CanGoNext     bool            `json:"canGoNext"`
	CanGoPrevious bool            `json:"canGoPrevious"`
	IsLast        bool            `json:"isLast"`
	Completed     bool            `json:"completed"`
	Result        *quiz.Completed `json:"result,omitempty"`
}

// Deps are the shared, concurrency-safe services a session calls into.
type Deps struct {
	Catalog     *curriculum.Catalog
	Recommender *recommend.Engine
	Coordinator *progress.Coordinator
	Events      analytics.EventLogger
	Metrics     *metrics.Metrics
}

type activeQuiz struct {
	id       string
	lessonID string
	state    quiz.Session
}

// Session holds one learner's state machines.
type Session struct {
	userID     string
	deps       Deps
	assessment assessment.State
	quiz       *activeQuiz
}

// New starts a session with a fresh assessment and no quiz.
func New(userID string, deps Deps) *Session {
	if deps.Recommender == nil && deps.Catalog != nil {
		deps.Recommender = recommend.NewEngine(deps.Catalog)
	}
	return &Session{
		userID:     userID,
		deps:       deps,
		assessment: assessment.New(),
	}
}

// Handle applies cmd and returns the replies to send, in order. A rejected
// command leaves the session unchanged.
func (s *Session) Handle(ctx context.Context, cmd Command) []Reply {
	switch cmd.Type {
	case CmdState:
		return []Reply{s.snapshot()}

	case CmdAssessmentSet:
		return s.assess(cmd, func(st assessment.State) (assessment.State, bool) {
			return st.SetField(assessment.Field(cmd.Field), cmd.Value)
		})
	case CmdAssessmentToggle:
		return s.assess(cmd, func(st assessment.State) (assessment.State, bool) {
			return st.ToggleInterest(assessment.Interest(cmd.Value))
		})
	case CmdAssessmentNext:
		return s.assess(cmd, assessment.State.Next)
	case CmdAssessmentBack:
		return s.assess(cmd, assessment.State.Back)
	case CmdAssessmentSubmit:
		return s.submitAssessment(ctx, cmd)
	case CmdAssessmentReset:
		s.assessment = assessment.New()
		slog.Info("assessment reset", "user_id", s.userID)
		return []Reply{s.snapshot()}

	case CmdQuizStart:
		return s.startQuiz(cmd)
	case CmdQuizSelect:
		return s.stepQuiz(cmd, func(q quiz.Session) (quiz.Session, bool) {
			return q.SelectOption(cmd.Option)
		})
	case CmdQuizNext:
		return s.nextQuestion(ctx, cmd)
	case CmdQuizPrevious:
		return s.stepQuiz(cmd, quiz.Session.GoPrevious)
	case CmdQuizRetry:
		return s.stepQuiz(cmd, quiz.Session.Retry)
	case CmdQuizAcknowledge:
		return s.acknowledge(ctx, cmd)

	case CmdLessonSubmit:
		return s.submitLesson(ctx, cmd)
	}
	return []Reply{rejected(cmd, "unknown command")}
}

func (s *Session) assess(cmd Command, step func(assessment.State) (assessment.State, bool)) []Reply {
	next, ok := step(s.assessment)
	if !ok {
		return []Reply{rejected(cmd, "")}
	}
	s.assessment = next
	return []Reply{s.snapshot()}
}

func (s *Session) submitAssessment(ctx context.Context, cmd Command) []Reply {
	next, ev, ok := s.assessment.Submit()
	if !ok {
		return []Reply{rejected(cmd, "")}
	}
	s.assessment = next

	rec := s.deps.Recommender.Recommend(ev.Profile)
	s.deps.Metrics.AssessmentSubmitted()
	analytics.Log(ctx, s.deps.Events, s.userID, analytics.AssessmentSubmitted, map[string]any{
		"grade":    string(ev.Profile.Grade),
		"fallback": rec.Fallback,
	})
	slog.Info("assessment submitted", "user_id", s.userID, "grade", ev.Profile.Grade)

	return []Reply{
		s.snapshot(),
		{Type: ReplyAssessmentSubmitted, Recommendation: &rec},
	}
}

func (s *Session) startQuiz(cmd Command) []Reply {
	set, ok := s.deps.Catalog.Quiz(cmd.QuizID)
	if !ok {
		return []Reply{rejected(cmd, "quiz not found")}
	}
	s.quiz = &activeQuiz{
		id:       set.ID,
		lessonID: set.LessonID,
		state:    quiz.NewSession(set.Questions),
	}
	return []Reply{s.snapshot()}
}

func (s *Session) stepQuiz(cmd Command, step func(quiz.Session) (quiz.Session, bool)) []Reply {
	if s.quiz == nil {
		return []Reply{rejected(cmd, "no quiz in progress")}
	}
	next, ok := step(s.quiz.state)
	if !ok {
		return []Reply{rejected(cmd, "")}
	}
	s.quiz.state = next
	return []Reply{s.snapshot()}
}

func (s *Session) nextQuestion(ctx context.Context, cmd Command) []Reply {
	if s.quiz == nil {
		return []Reply{rejected(cmd, "no quiz in progress")}
	}
	next, done, ok := s.quiz.state.GoNext()
	if !ok {
		return []Reply{rejected(cmd, "")}
	}
	s.quiz.state = next
	if done == nil {
		return []Reply{s.snapshot()}
	}

	s.deps.Metrics.QuizCompleted(done.Passed)
	analytics.Log(ctx, s.deps.Events, s.userID, analytics.QuizCompleted, map[string]any{
		"quiz_id":    s.quiz.id,
		"score":      done.Score,
		"total":      done.Total,
		"percentage": done.Percentage,
		"passed":     done.Passed,
	})
	return []Reply{
		s.snapshot(),
		{Type: ReplyQuizCompleted, Result: done, Review: next.Review()},
	}
}

func (s *Session) acknowledge(ctx context.Context, cmd Command) []Reply {
	if s.quiz == nil {
		return []Reply{rejected(cmd, "no quiz in progress")}
	}
	adv, ok := s.quiz.state.Acknowledge()
	if !ok {
		return []Reply{rejected(cmd, "")}
	}

	reply := Reply{Type: ReplyQuizAdvanced, Advanced: &adv}
	if s.quiz.lessonID != "" && s.deps.Coordinator != nil {
		out := s.deps.Coordinator.Complete(ctx, s.userID, s.quiz.lessonID)
		reply.Outcome = &out
		if out.Failed {
			// Keep the finished quiz so the learner can acknowledge again.
			return []Reply{reply}
		}
	}
	s.quiz = nil
	return []Reply{reply, s.snapshot()}
}

func (s *Session) submitLesson(ctx context.Context, cmd Command) []Reply {
	if cmd.LessonID == "" || cmd.Submission == nil {
		return []Reply{rejected(cmd, "lessonId and submission are required")}
	}
	if s.deps.Coordinator == nil {
		return []Reply{rejected(cmd, "lesson tracking unavailable")}
	}
	out := s.deps.Coordinator.Submit(ctx, s.userID, cmd.LessonID, *cmd.Submission)
	return []Reply{{Type: ReplyLessonResult, Outcome: &out}}
}

func (s *Session) snapshot() Reply {
	st := s.assessment
	return Reply{
		Type:       ReplyState,
		Assessment: &st,
		CanAdvance: st.CanAdvance(),
		Quiz:       s.quizView(),
	}
}

func (s *Session) quizView() *QuizView {
	if s.quiz == nil {
		return nil
	}
	q := s.quiz.state
	v := &QuizView{
		QuizID:        s.quiz.id,
		Current:       q.Current,
		Total:         q.Total(),
		CanGoNext:     q.CanGoNext(),
		CanGoPrevious: q.CanGoPrevious(),
		IsLast:        q.IsLast(),
		Completed:     q.Completed,
		Result:        q.Result(),
	}
	if q.Current < q.Total() {
		cur := q.Questions[q.Current]
		v.Question = cur.Question
		v.Options = append([]string(nil), cur.Options...)
	}
	if sel, ok := q.Answers[q.Current]; ok {
		v.Selected = &sel
	}
	return v
}

func rejected(cmd Command, reason string) Reply {
	return Reply{Type: ReplyRejected, Command: cmd.Type, Error: reason}
}
