package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newProgressCmd(app *App, user func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "progress [user-id]",
		Short: "Show completed lessons",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID := user()
			if len(args) == 1 {
				userID = args[0]
			}
			if userID == "" {
				return fmt.Errorf("user id is required (pass it or set --user)")
			}

			sum, err := app.Tracker.Progress(cmd.Context(), userID)
			if err != nil {
				return fmt.Errorf("loading progress: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatProgress(userID, sum))
			return nil
		},
	}
}
