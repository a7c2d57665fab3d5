package session

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// Cmd is the session command group
var Cmd = &cobra.Command{
	Use:   "session",
	Short: "Log and review activity sessions",
}

func init() {
	Cmd.AddCommand(logCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(trendCmd)
}

func parseDate(flag, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s, use YYYY-MM-DD: %w", flag, err)
	}
	return t, nil
}
