package session

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/cadence/adapter/cli"
	"github.com/felixgeelhaar/cadence/internal/habits/application/queries"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	listActivity string
	listFrom     string
	listTo       string
	listLimit    int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List logged sessions",
	Long: `List sessions, newest first, with count, total and average statistics.

Examples:
  cadence session list
  cadence session list --from 2024-03-01 --to 2024-03-31 --limit 100`,
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		q := queries.ListSessionsQuery{UserID: app.CurrentUserID, Limit: listLimit}
		if listActivity != "" {
			if q.ActivityID, err = uuid.Parse(listActivity); err != nil {
				return fmt.Errorf("invalid --activity: %w", err)
			}
		}
		if q.From, err = parseDate("from", listFrom); err != nil {
			return err
		}
		if q.To, err = parseDate("to", listTo); err != nil {
			return err
		}

		list, err := app.ListSessionsHandler.Handle(cmd.Context(), q)
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(list.Sessions) == 0 {
			fmt.Fprintln(out, "No sessions found.")
			return nil
		}

		for _, s := range list.Sessions {
			extra := ""
			if s.StartTime != nil {
				extra += " at " + *s.StartTime
			}
			if s.Mood != nil {
				extra += fmt.Sprintf(" mood %d", *s.Mood)
			}
			fmt.Fprintf(out, "%s  %-20s %4dm%s\n", s.SessionDate, s.ActivityName, s.DurationMinutes, extra)
		}
		fmt.Fprintln(out, strings.Repeat("-", 50))
		stats := list.Stats
		fmt.Fprintf(out, "%d sessions, %d minutes, %.1f minutes on average", stats.Count, stats.TotalMinutes, stats.AverageDuration)
		if stats.AverageMood != nil {
			fmt.Fprintf(out, ", mood %.1f", *stats.AverageMood)
		}
		fmt.Fprintln(out)
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listActivity, "activity", "", "only sessions of this activity ID")
	listCmd.Flags().StringVar(&listFrom, "from", "", "first day (YYYY-MM-DD)")
	listCmd.Flags().StringVar(&listTo, "to", "", "last day (YYYY-MM-DD)")
	listCmd.Flags().IntVar(&listLimit, "limit", 50, "maximum sessions to show")
}
