// Package cli implements the academy terminal client.
package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/p-n-ai/pai-academy/internal/curriculum"
	"github.com/p-n-ai/pai-academy/internal/progress"
	"github.com/p-n-ai/pai-academy/internal/recommend"
)

var errNotInteractive = errors.New("this command needs an interactive terminal")

// App holds what the commands need.
type App struct {
	Catalog     *curriculum.Catalog
	Recommender *recommend.Engine
	Tracker     progress.Tracker
	Prompt      Prompter

	// IsInteractive reports whether stdin is a terminal. Interactive
	// commands refuse to run without one.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "academy" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	if app.Recommender == nil {
		app.Recommender = recommend.NewEngine(app.Catalog)
	}
	if app.Prompt == nil {
		app.Prompt = huhPrompter{}
	}

	var userID string
	root := &cobra.Command{
		Use:           "academy",
		Short:         "P&AI Academy terminal client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&userID, "user", os.Getenv("USER"), "Learner ID used for progress")

	user := func() string { return userID }
	root.AddCommand(
		newAssessCmd(app),
		newQuizCmd(app, user),
		newLessonCmd(app, user),
		newProgressCmd(app, user),
	)
	return root
}

func (a *App) requireInteractive() error {
	if a.IsInteractive != nil && !a.IsInteractive() {
		return errNotInteractive
	}
	return nil
}
