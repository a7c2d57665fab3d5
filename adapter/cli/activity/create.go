package activity

import (
	"fmt"

	"github.com/felixgeelhaar/cadence/adapter/cli"
	"github.com/felixgeelhaar/cadence/internal/habits/application/commands"
	"github.com/spf13/cobra"
)

var description string

var createCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create an activity",
	Long: `Create an activity to log sessions against.

Examples:
  cadence activity create "Cycling"
  cadence activity create "Podcast in Spanish" -d "commute listening"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		result, err := app.CreateActivityHandler.Handle(cmd.Context(), commands.CreateActivityCommand{
			UserID:      app.CurrentUserID,
			Name:        args[0],
			Description: description,
		})
		if err != nil {
			return fmt.Errorf("failed to create activity: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Created activity: %s\n", args[0])
		fmt.Fprintf(out, "  ID: %s\n", result.ActivityID)
		fmt.Fprintln(out, "Link it to a habit with: cadence activity link <activity-id> <habit-id> --weight 1")
		return nil
	},
}

func init() {
	createCmd.Flags().StringVarP(&description, "description", "d", "", "activity description")
}
