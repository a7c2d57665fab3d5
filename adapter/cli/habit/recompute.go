package habit

import (
	"fmt"

	"github.com/felixgeelhaar/cadence/adapter/cli"
	"github.com/felixgeelhaar/cadence/internal/habits/application/commands"
	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var recomputeCmd = &cobra.Command{
	Use:   "recompute [habit-id]",
	Short: "Rebuild metrics from the contribution ledger",
	Long: `Rebuild totals, streaks and completion from recorded contributions.
Without an ID every habit is rebuilt.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		habitID := uuid.Nil
		if len(args) == 1 {
			if habitID, err = uuid.Parse(args[0]); err != nil {
				return fmt.Errorf("invalid habit ID: %w", err)
			}
		}

		result, err := app.RecomputeMetricsHandler.Handle(cmd.Context(), commands.RecomputeMetricsCommand{
			UserID:  app.CurrentUserID,
			HabitID: habitID,
		})
		if err != nil {
			return fmt.Errorf("failed to recompute metrics: %w", err)
		}

		cli.Logger(cmd.Context()).Info("metrics recomputed", "habits", len(result.Metrics))
		out := cmd.OutOrStdout()
		for _, m := range result.Metrics {
			fmt.Fprintf(out, "%s  %s in %d sessions, streak %d (best %d), %.1f%%\n",
				m.HabitID, domain.FormatDuration(m.TotalMinutesInvested), m.TotalSessions,
				m.CurrentStreak, m.LongestStreak, m.CompletionPercentage)
		}
		return nil
	},
}
