package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/p-n-ai/pai-academy/internal/assessment"
	"github.com/p-n-ai/pai-academy/internal/curriculum"
	"github.com/p-n-ai/pai-academy/internal/progress"
	"github.com/p-n-ai/pai-academy/internal/quiz"
)

func newQuizCmd(app *App, user func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "quiz <quiz-id>",
		Short: "Take a lesson quiz",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireInteractive(); err != nil {
				return err
			}
			set, ok := app.Catalog.Quiz(args[0])
			if !ok {
				return fmt.Errorf("quiz %q not found", args[0])
			}
			return runQuiz(cmd.Context(), cmd.OutOrStdout(), app, user(), set)
		},
	}
}

// runQuiz drives one quiz until the learner passes and moves on or stops
// retrying.
func runQuiz(ctx context.Context, out io.Writer, app *App, userID string, set curriculum.QuizSet) error {
	s := quiz.NewSession(set.Questions)
	for {
		var done *quiz.Completed
		for done == nil {
			choice, err := askQuestion(app.Prompt, s)
			if err != nil {
				return err
			}
			if next, ok := s.SelectOption(choice); ok {
				s = next
			}
			next, completed, ok := s.GoNext()
			if !ok {
				continue
			}
			s, done = next, completed
		}

		fmt.Fprint(out, formatQuizResult(*done, s.Review()))

		if !done.Passed {
			again, err := app.Prompt.Confirm("다시 풀어 볼까요?")
			if err != nil || !again {
				return err
			}
			s, _ = s.Retry()
			continue
		}

		move, err := app.Prompt.Confirm("다음 레슨으로 넘어갈까요?")
		if err != nil || !move {
			return err
		}
		if _, ok := s.Acknowledge(); ok && set.LessonID != "" {
			outcome := progress.NewCoordinator(app.Tracker).Complete(ctx, userID, set.LessonID)
			fmt.Fprint(out, formatOutcome(outcome))
		}
		return nil
	}
}

func askQuestion(p Prompter, s quiz.Session) (int, error) {
	q := s.Questions[s.Current]
	opts := make([]assessment.Option, len(q.Options))
	for i, text := range q.Options {
		opts[i] = assessment.Option{Value: strconv.Itoa(i), Label: text}
	}
	title := fmt.Sprintf("[%d/%d] %s", s.Current+1, s.Total(), q.Question)

	v, err := p.Select(title, opts)
	if err != nil {
		return 0, err
	}
	choice, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid choice %q", v)
	}
	return choice, nil
}
