package session

import (
	"fmt"
	"strconv"
	"time"

	"github.com/felixgeelhaar/cadence/adapter/cli"
	"github.com/felixgeelhaar/cadence/internal/habits/application/commands"
	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	sessionDate  string
	startTime    string
	mood         int
	productivity int
	notes        string
)

var logCmd = &cobra.Command{
	Use:   "log [activity-id] [minutes]",
	Short: "Log a session of an activity",
	Long: `Log time spent on an activity. Every habit linked to the activity is
credited with minutes x link weight, and its streak and completion update.

Examples:
  cadence session log <cycling-id> 90
  cadence session log <cycling-id> 45 --date 2024-03-02 --start 07:30 --mood 4`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		activityID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid activity ID: %w", err)
		}
		minutes, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid minutes %q: %w", args[1], err)
		}

		register := commands.RegisterSessionCommand{
			UserID:          app.CurrentUserID,
			ActivityID:      activityID,
			DurationMinutes: minutes,
			Notes:           notes,
		}
		if sessionDate != "" {
			date, err := parseDate("date", sessionDate)
			if err != nil {
				return err
			}
			register.SessionDate = &date
		}
		if startTime != "" {
			register.StartTime = &startTime
		}
		if cmd.Flags().Changed("mood") {
			register.Mood = &mood
		}
		if cmd.Flags().Changed("productivity") {
			register.Productivity = &productivity
		}

		result, err := app.RegisterSessionHandler.Handle(cmd.Context(), register)
		if err != nil {
			return fmt.Errorf("failed to log session: %w", err)
		}
		cli.Logger(cmd.Context()).Info("session logged",
			"session_id", result.SessionID,
			"contributions", len(result.Contributions),
		)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Logged %s on %s\n", domain.FormatDuration(float64(minutes)), result.SessionDate.Format(time.DateOnly))
		if len(result.Contributions) == 0 {
			fmt.Fprintln(out, "  Activity is not linked to any habit; nothing was credited.")
			return nil
		}
		for _, c := range result.Contributions {
			line := fmt.Sprintf("  +%s (x%.2f) -> %s", domain.FormatDuration(c.Minutes), c.Weight, c.HabitID)
			if m, ok := result.Metrics[c.HabitID]; ok {
				line += fmt.Sprintf("  total %s, streak %d, %.1f%%",
					domain.FormatDuration(m.TotalMinutesInvested), m.CurrentStreak, m.CompletionPercentage)
			}
			fmt.Fprintln(out, line)
		}
		return nil
	},
}

func init() {
	logCmd.Flags().StringVar(&sessionDate, "date", "", "session date (YYYY-MM-DD, default today)")
	logCmd.Flags().StringVar(&startTime, "start", "", "start time (HH:MM)")
	logCmd.Flags().IntVar(&mood, "mood", 0, "mood from 1 to 5")
	logCmd.Flags().IntVar(&productivity, "productivity", 0, "productivity from 1 to 5")
	logCmd.Flags().StringVarP(&notes, "notes", "n", "", "free-form notes")
}
