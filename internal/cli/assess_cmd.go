package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/p-n-ai/pai-academy/internal/assessment"
	"github.com/p-n-ai/pai-academy/internal/recommend"
)

func newAssessCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "assess",
		Short: "Answer the learner questionnaire and get a learning plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireInteractive(); err != nil {
				return err
			}
			rec, err := runAssessment(app)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatRecommendation(rec))
			return nil
		},
	}
}

// runAssessment walks the state machine from step 1 to submission.
func runAssessment(app *App) (recommend.Recommendation, error) {
	st := assessment.New()
	for {
		step, _ := assessment.StepInfo(st.Step)
		title := fmt.Sprintf("[%d/%d] %s", step.Number, assessment.LastStep, step.Title)

		next, err := answerStep(app.Prompt, st, step, title)
		if err != nil {
			return recommend.Recommendation{}, err
		}
		st = next

		if st.Step < assessment.LastStep {
			advanced, ok := st.Next()
			if !ok {
				continue
			}
			st = advanced
			continue
		}

		_, ev, ok := st.Submit()
		if !ok {
			continue
		}
		return app.Recommender.Recommend(ev.Profile), nil
	}
}

func answerStep(p Prompter, st assessment.State, step assessment.Step, title string) (assessment.State, error) {
	if step.Multi {
		values, err := p.MultiSelect(title, step.Opts)
		if err != nil {
			return st, err
		}
		// Replace the previous selection.
		for _, tag := range st.Profile.Interests {
			st, _ = st.ToggleInterest(tag)
		}
		for _, v := range values {
			st, _ = st.ToggleInterest(assessment.Interest(v))
		}
		return st, nil
	}

	value, err := p.Select(title, step.Opts)
	if err != nil {
		return st, err
	}
	st, _ = st.SetField(step.Field, value)
	return st, nil
}
