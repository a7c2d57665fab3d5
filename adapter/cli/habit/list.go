package habit

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/cadence/adapter/cli"
	"github.com/felixgeelhaar/cadence/internal/habits/application/queries"
	"github.com/spf13/cobra"
)

var showInactive bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List habits",
	Long: `List habits with their invested time, streaks and goal completion.

Examples:
  cadence habit list
  cadence habit list --all   # include deactivated habits`,
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		habits, err := app.ListHabitsHandler.Handle(cmd.Context(), queries.ListHabitsQuery{
			UserID:          app.CurrentUserID,
			IncludeInactive: showInactive,
		})
		if err != nil {
			return fmt.Errorf("failed to list habits: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(habits) == 0 {
			fmt.Fprintln(out, "No habits found. Create one with: cadence habit create \"Habit name\"")
			return nil
		}

		fmt.Fprintf(out, "Habits (%d):\n", len(habits))
		fmt.Fprintln(out, strings.Repeat("-", 70))

		for _, h := range habits {
			inactive := ""
			if !h.IsActive {
				inactive = " [inactive]"
			}
			fmt.Fprintf(out, "%s%s\n", h.Name, inactive)

			if m := h.Metrics; m != nil {
				streak := ""
				if m.CurrentStreak > 0 || m.LongestStreak > 0 {
					streak = fmt.Sprintf(" | streak: %d (best: %d)", m.CurrentStreak, m.LongestStreak)
				}
				fmt.Fprintf(out, "    %s in %d sessions | %.1f%% of %dh%s\n",
					m.TotalInvested, m.TotalSessions, m.CompletionPercentage, h.TotalHoursGoal, streak)
			}
			fmt.Fprintf(out, "    ID: %s\n", h.ID)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVarP(&showInactive, "all", "a", false, "include inactive habits")
}
