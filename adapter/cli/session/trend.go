package session

import (
	"fmt"

	"github.com/felixgeelhaar/cadence/adapter/cli"
	"github.com/felixgeelhaar/cadence/internal/habits/application/queries"
	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	"github.com/spf13/cobra"
)

var (
	trendPeriod string
	trendFrom   string
	trendTo     string
)

var trendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Show session totals per day, week, month or year",
	Example: `  cadence session trend --period week
  cadence session trend --period month --from 2024-01-01`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		q := queries.SessionTrendQuery{UserID: app.CurrentUserID, Period: domain.Period(trendPeriod)}
		if q.From, err = parseDate("from", trendFrom); err != nil {
			return err
		}
		if q.To, err = parseDate("to", trendTo); err != nil {
			return err
		}

		totals, err := app.SessionTrendHandler.Handle(cmd.Context(), q)
		if err != nil {
			return fmt.Errorf("failed to load trend: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(totals) == 0 {
			fmt.Fprintln(out, "No sessions in range.")
			return nil
		}
		for _, t := range totals {
			fmt.Fprintf(out, "%-12s %3d sessions %8s\n", t.Label, t.Sessions, domain.FormatDuration(float64(t.Minutes)))
		}
		return nil
	},
}

func init() {
	trendCmd.Flags().StringVarP(&trendPeriod, "period", "p", string(domain.PeriodWeek), "bucket size: day, week, month or year")
	trendCmd.Flags().StringVar(&trendFrom, "from", "", "first day (YYYY-MM-DD)")
	trendCmd.Flags().StringVar(&trendTo, "to", "", "last day (YYYY-MM-DD)")
}
