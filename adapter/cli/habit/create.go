package habit

import (
	"fmt"

	"github.com/felixgeelhaar/cadence/adapter/cli"
	"github.com/felixgeelhaar/cadence/internal/habits/application/commands"
	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	"github.com/spf13/cobra"
)

var (
	description string
	target      int
	maxMinutes  int
	goalHours   int
)

var createCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a new habit",
	Long: `Create a long-term habit to invest time in.

Unset targets fall back to one hour a day (420 minutes a week), a
900 minute weekly ceiling and a 100 hour lifetime goal.

Examples:
  cadence habit create "Fitness"
  cadence habit create "Spanish" --target 180 --max 600 --goal 300`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		createCmd := commands.CreateHabitCommand{
			UserID:      app.CurrentUserID,
			Name:        args[0],
			Description: description,
		}
		if cmd.Flags().Changed("target") {
			createCmd.TargetMinutesPerWeek = &target
		}
		if cmd.Flags().Changed("max") {
			createCmd.MaxMinutesPerWeek = &maxMinutes
		}
		if cmd.Flags().Changed("goal") {
			createCmd.TotalHoursGoal = &goalHours
		}

		result, err := app.CreateHabitHandler.Handle(cmd.Context(), createCmd)
		if err != nil {
			return fmt.Errorf("failed to create habit: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Created habit: %s\n", args[0])
		fmt.Fprintf(out, "  ID: %s\n", result.HabitID)
		fmt.Fprintf(out, "  Weekly target: %s (max %s)\n",
			domain.FormatDuration(float64(result.Targets.TargetMinutesPerWeek)),
			domain.FormatDuration(float64(result.Targets.MaxMinutesPerWeek)))
		fmt.Fprintf(out, "  Goal: %dh\n", result.Targets.TotalHoursGoal)
		return nil
	},
}

func init() {
	createCmd.Flags().StringVarP(&description, "description", "d", "", "habit description")
	createCmd.Flags().IntVar(&target, "target", domain.DefaultTargetMinutesPerWeek, "weekly target in minutes")
	createCmd.Flags().IntVar(&maxMinutes, "max", domain.DefaultMaxMinutesPerWeek, "weekly maximum in minutes")
	createCmd.Flags().IntVar(&goalHours, "goal", domain.DefaultTotalHoursGoal, "lifetime goal in hours")
}
