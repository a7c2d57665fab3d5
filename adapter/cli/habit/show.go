package habit

import (
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/cadence/adapter/cli"
	"github.com/felixgeelhaar/cadence/internal/habits/application/queries"
	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show [habit-id]",
	Short: "Show a habit's progress",
	Long: `Show lifetime progress, this week's compliance, the projected goal date
and the activities feeding the habit.`,
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

		p, err := app.GetHabitProgressHandler.Handle(cmd.Context(), queries.GetHabitProgressQuery{
			HabitID: habitID,
			UserID:  app.CurrentUserID,
		})
		if err != nil {
			return fmt.Errorf("failed to load habit: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s\n", p.Habit.Name)
		fmt.Fprintln(out, strings.Repeat("-", 50))
		if p.Habit.Description != "" {
			fmt.Fprintf(out, "%s\n\n", p.Habit.Description)
		}

		if m := p.Habit.Metrics; m != nil {
			fmt.Fprintf(out, "Invested:   %s in %d sessions\n", m.TotalInvested, m.TotalSessions)
			fmt.Fprintf(out, "Streak:     %d days (best %d)\n", m.CurrentStreak, m.LongestStreak)
			fmt.Fprintf(out, "Completion: %.1f%% of %dh  %s - %s\n",
				m.CompletionPercentage, p.Habit.TotalHoursGoal, p.Completion.Status, p.Completion.Message)
		}

		fmt.Fprintf(out, "This week:  %s of %s  %.1f%% %s\n",
			domain.FormatDuration(p.WeekMinutes),
			domain.FormatDuration(float64(p.Habit.TargetMinutesPerWeek)),
			p.Compliance.Percentage, p.Compliance.Status)

		if p.Projection.Computable {
			fmt.Fprintf(out, "Projection: about %d weeks at %s/week, around %s\n",
				p.Projection.WholeWeeks(), domain.FormatDuration(p.MinutesPerWeek),
				p.Projection.EstimatedDate.Format(time.DateOnly))
		} else {
			fmt.Fprintln(out, "Projection: log sessions to estimate a finish date")
		}

		if len(p.Activities) > 0 {
			fmt.Fprintln(out, "\nActivities:")
			for _, a := range p.Activities {
				fmt.Fprintf(out, "  %-24s weight %.2f\n", a.ActivityName, a.Weight)
			}
		}
		return nil
	},
}
