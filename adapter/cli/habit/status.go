package habit

import (
	"fmt"

	"github.com/felixgeelhaar/cadence/adapter/cli"
	"github.com/felixgeelhaar/cadence/internal/habits/application/commands"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var deactivateCmd = &cobra.Command{
	Use:   "deactivate [habit-id]",
	Short: "Deactivate a habit",
	Long: `Hide a habit from the default listing and the weekly summary. Its
history is kept and linked activities still contribute to it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return changeStatus(cmd, args[0], false)
	},
}

var reactivateCmd = &cobra.Command{
	Use:   "reactivate [habit-id]",
	Short: "Reactivate a habit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return changeStatus(cmd, args[0], true)
	},
}

func changeStatus(cmd *cobra.Command, rawID string, active bool) error {
	app, err := cli.RequireApp()
	if err != nil {
		return err
	}
	habitID, err := uuid.Parse(rawID)
	if err != nil {
		return fmt.Errorf("invalid habit ID: %w", err)
	}

	if err := app.ChangeHabitStatusHandler.Handle(cmd.Context(), commands.ChangeHabitStatusCommand{
		HabitID: habitID,
		UserID:  app.CurrentUserID,
		Active:  active,
	}); err != nil {
		return fmt.Errorf("failed to change habit status: %w", err)
	}

	state := "deactivated"
	if active {
		state = "reactivated"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Habit %s: %s\n", state, habitID)
	return nil
}
