package activity

import (
	"fmt"

	"github.com/felixgeelhaar/cadence/adapter/cli"
	"github.com/felixgeelhaar/cadence/internal/habits/application/commands"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [activity-id]",
	Short: "Delete an activity",
	Long: `Delete an activity and its habit links. Logged sessions and the minutes
they contributed stay on the habits.`,
	Aliases: []string{"rm"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		activityID, err := parseID("activity", args[0])
		if err != nil {
			return err
		}

		if err := app.DeleteActivityHandler.Handle(cmd.Context(), commands.DeleteActivityCommand{
			ActivityID: activityID,
			UserID:     app.CurrentUserID,
		}); err != nil {
			return fmt.Errorf("failed to delete activity: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Activity deleted: %s\n", activityID)
		return nil
	},
}
