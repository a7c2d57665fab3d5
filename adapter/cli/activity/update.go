package activity

import (
	"fmt"

	"github.com/felixgeelhaar/cadence/adapter/cli"
	"github.com/felixgeelhaar/cadence/internal/habits/application/commands"
	"github.com/spf13/cobra"
)

var (
	updateName        string
	updateDescription string
)

var updateCmd = &cobra.Command{
	Use:   "update [activity-id]",
	Short: "Rename or describe an activity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		activityID, err := parseID("activity", args[0])
		if err != nil {
			return err
		}

		update := commands.UpdateActivityCommand{ActivityID: activityID, UserID: app.CurrentUserID}
		if cmd.Flags().Changed("name") {
			update.Name = &updateName
		}
		if cmd.Flags().Changed("description") {
			update.Description = &updateDescription
		}

		if err := app.UpdateActivityHandler.Handle(cmd.Context(), update); err != nil {
			return fmt.Errorf("failed to update activity: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Activity updated: %s\n", activityID)
		return nil
	},
}

func init() {
	updateCmd.Flags().StringVar(&updateName, "name", "", "new name")
	updateCmd.Flags().StringVarP(&updateDescription, "description", "d", "", "new description")
}
