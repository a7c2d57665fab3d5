package habit

import (
	"fmt"

	"github.com/felixgeelhaar/cadence/adapter/cli"
	"github.com/felixgeelhaar/cadence/internal/habits/application/commands"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	updateName        string
	updateDescription string
	updateTarget      int
	updateMax         int
	updateGoal        int
)

var updateCmd = &cobra.Command{
	Use:   "update [habit-id]",
	Short: "Update a habit's name or targets",
	Long: `Update only the flags you pass. Changing the goal recomputes completion.

Examples:
  cadence habit update 1b9d... --goal 200
  cadence habit update 1b9d... --name "Strength" --target 240`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		habitID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid habit ID: %w", err)
		}

		update := commands.UpdateHabitCommand{HabitID: habitID, UserID: app.CurrentUserID}
		flags := cmd.Flags()
		if flags.Changed("name") {
			update.Name = &updateName
		}
		if flags.Changed("description") {
			update.Description = &updateDescription
		}
		if flags.Changed("target") {
			update.TargetMinutesPerWeek = &updateTarget
		}
		if flags.Changed("max") {
			update.MaxMinutesPerWeek = &updateMax
		}
		if flags.Changed("goal") {
			update.TotalHoursGoal = &updateGoal
		}

		result, err := app.UpdateHabitHandler.Handle(cmd.Context(), update)
		if err != nil {
			return fmt.Errorf("failed to update habit: %w", err)
		}

		out := cmd.OutOrStdout()
		switch {
		case !result.Changed:
			fmt.Fprintln(out, "Nothing to update.")
		case result.GoalChanged:
			fmt.Fprintln(out, "Habit updated; completion recomputed for the new goal.")
		default:
			fmt.Fprintln(out, "Habit updated.")
		}
		return nil
	},
}

func init() {
	updateCmd.Flags().StringVar(&updateName, "name", "", "new name")
	updateCmd.Flags().StringVarP(&updateDescription, "description", "d", "", "new description")
	updateCmd.Flags().IntVar(&updateTarget, "target", 0, "weekly target in minutes")
	updateCmd.Flags().IntVar(&updateMax, "max", 0, "weekly maximum in minutes")
	updateCmd.Flags().IntVar(&updateGoal, "goal", 0, "lifetime goal in hours")
}
