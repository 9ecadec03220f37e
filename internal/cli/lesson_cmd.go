package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/p-n-ai/pai-academy/internal/progress"
	"github.com/p-n-ai/pai-academy/internal/tokens"
)

func newLessonCmd(app *App, user func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "lesson <lesson-id>",
		Short: "Submit a structured prompt exercise for a lesson",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireInteractive(); err != nil {
				return err
			}
			lesson, ok := app.Catalog.Lesson(args[0])
			if !ok {
				return fmt.Errorf("lesson %q not found", args[0])
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, styleHeader.Render(lesson.Title))

			sub, err := askSubmission(app.Prompt, lesson.Exercise.Command)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, styleDim.Render(fmt.Sprintf("예상 토큰 수: %d", sub.TokenCount)))

			outcome := progress.NewCoordinator(app.Tracker).Submit(cmd.Context(), user(), lesson.ID, sub)
			fmt.Fprint(out, formatOutcome(outcome))
			return nil
		},
	}
}

func askSubmission(p Prompter, command string) (progress.Submission, error) {
	var sub progress.Submission
	fields := []struct {
		title       string
		placeholder string
		dst         *string
	}{
		{"역할(Role)", "너는 친절한 과학 선생님이야", &sub.Role},
		{"맥락(Context)", "나는 광합성을 처음 배우는 중학생이야", &sub.Context},
		{"행동(Action)", "광합성 과정을 세 단계로 설명해 줘", &sub.Action},
	}
	for _, f := range fields {
		v, err := p.Input(f.title, f.placeholder)
		if err != nil {
			return sub, err
		}
		*f.dst = v
	}

	if command != "" {
		v, err := p.Input("명령어(Command)", command)
		if err != nil {
			return sub, err
		}
		sub.Command = v
	}

	sub.TokenCount = tokens.Estimate(strings.Join([]string{sub.Role, sub.Context, sub.Action}, "\n"))
	return sub, nil
}
