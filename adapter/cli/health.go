package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check database and outbox health",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := RequireApp()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if app.Container != nil {
			if err := app.Container.DB.Ping(cmd.Context()); err != nil {
				return fmt.Errorf("database unreachable: %w", err)
			}
			fmt.Fprintf(out, "database: ok (%s)\n", app.Container.DB.Driver())

			if p := app.Container.OutboxProcessor; p != nil {
				stats := p.GetStats()
				fmt.Fprintf(out, "outbox:   published=%d failed=%d dead=%d\n",
					stats.PublishedCount, stats.FailedCount, stats.DeadCount)
			}
		}
		fmt.Fprintln(out, "ok")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
