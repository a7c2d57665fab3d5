package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	habitQueries "github.com/felixgeelhaar/cadence/internal/habits/application/queries"
	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	dashboardDate          string
	dashboardContributions bool
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	overMaxStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(domain.ColorRed))
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show this week's progress",
	Long: `Display a combined view of the current week:
- Minutes per habit against the weekly target, flagging weeks over the maximum
- Which activities feed which habits, with session totals
- With --contributions, the minutes each activity contributed to each habit

Examples:
  cadence dashboard
  cadence dashboard --date 2024-03-04 --contributions`,
	Aliases: []string{"dash", "week"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := RequireApp()
		if err != nil {
			return err
		}

		reference := time.Now()
		if dashboardDate != "" {
			reference, err = time.Parse(time.DateOnly, dashboardDate)
			if err != nil {
				return fmt.Errorf("invalid --date, use YYYY-MM-DD: %w", err)
			}
		}

		var (
			summary       *habitQueries.WeeklySummaryDTO
			matrix        []habitQueries.ActivityMatrixRow
			contributions []habitQueries.ContributionRow
		)
		g, ctx := errgroup.WithContext(cmd.Context())
		g.Go(func() error {
			var err error
			summary, err = app.WeeklySummaryHandler.Handle(ctx, habitQueries.WeeklySummaryQuery{
				UserID:    app.CurrentUserID,
				Reference: reference,
			})
			return err
		})
		g.Go(func() error {
			var err error
			matrix, err = app.ActivityMatrixHandler.Handle(ctx, habitQueries.ActivityMatrixQuery{UserID: app.CurrentUserID})
			return err
		})
		if dashboardContributions {
			g.Go(func() error {
				var err error
				contributions, err = app.ContributionBreakdownHandler.Handle(ctx, habitQueries.ContributionBreakdownQuery{UserID: app.CurrentUserID})
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return fmt.Errorf("failed to load dashboard: %w", err)
		}

		out := cmd.OutOrStdout()
		printWeeklySummary(out, summary)
		printActivityMatrix(out, matrix)
		if dashboardContributions {
			printContributions(out, contributions)
		}
		fmt.Fprintln(out)
		return nil
	},
}

func printWeeklySummary(out io.Writer, summary *habitQueries.WeeklySummaryDTO) {
	fmt.Fprintf(out, "\n  %s\n", headingStyle.Render(fmt.Sprintf("Week %s - %s", summary.WeekStart, summary.WeekEnd)))
	fmt.Fprintln(out, strings.Repeat("=", 60))

	if len(summary.Habits) == 0 {
		fmt.Fprintln(out, "  No active habits. Create one with: cadence habit create \"Habit name\"")
		return
	}

	for _, h := range summary.Habits {
		line := fmt.Sprintf("  %s %-24s %8s", complianceIcon(h.Compliance), h.Name, h.Formatted)
		if h.Target > 0 {
			line += fmt.Sprintf(" / %-8s %5.1f%% %s",
				domain.FormatDuration(float64(h.Target)), h.Compliance.Percentage, h.Compliance.Status)
		}
		if h.OverMax {
			line += " " + overMaxStyle.Render("[over weekly max]")
		}
		fmt.Fprintln(out, line)
	}
	fmt.Fprintf(out, "  Total this week: %s\n", domain.FormatDuration(summary.TotalMinutes))
}

func printActivityMatrix(out io.Writer, rows []habitQueries.ActivityMatrixRow) {
	fmt.Fprintf(out, "\n  %s\n", headingStyle.Render("Activities"))
	fmt.Fprintln(out, strings.Repeat("-", 60))
	if len(rows) == 0 {
		fmt.Fprintln(out, "  No activities yet.")
		return
	}
	for _, r := range rows {
		habits := "-"
		if len(r.Habits) > 0 {
			habits = strings.Join(r.Habits, ", ")
		}
		fmt.Fprintf(out, "  %-20s %3d sessions %8s  -> %s\n",
			r.ActivityName, r.Sessions, domain.FormatDuration(float64(r.Minutes)), habits)
	}
}

func printContributions(out io.Writer, rows []habitQueries.ContributionRow) {
	fmt.Fprintf(out, "\n  %s\n", headingStyle.Render("Contributions"))
	fmt.Fprintln(out, strings.Repeat("-", 60))
	if len(rows) == 0 {
		fmt.Fprintln(out, "  Nothing contributed yet.")
		return
	}
	for _, r := range rows {
		fmt.Fprintf(out, "  %-20s <- %-20s %3d sessions %8s\n",
			r.HabitName, r.ActivityName, r.Sessions, domain.FormatDuration(r.Minutes))
	}
}

// complianceIcon renders in the compliance color; styling is dropped when
// output is not a terminal.
func complianceIcon(c domain.Compliance) string {
	icon := "[-]"
	switch c.Tier {
	case domain.TierCompleted:
		icon = "[x]"
	case domain.TierNearComplete, domain.TierOnTrack:
		icon = "[~]"
	case domain.TierBehind:
		icon = "[ ]"
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color)).Render(icon)
}

func init() {
	dashboardCmd.Flags().StringVar(&dashboardDate, "date", "", "any day of the week to show (YYYY-MM-DD)")
	dashboardCmd.Flags().BoolVar(&dashboardContributions, "contributions", false, "include the per-activity contribution breakdown")
	rootCmd.AddCommand(dashboardCmd)
}
