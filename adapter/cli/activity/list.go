package activity

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/cadence/adapter/cli"
	"github.com/felixgeelhaar/cadence/internal/habits/application/queries"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List activities",
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		activities, err := app.ListActivitiesHandler.Handle(cmd.Context(), queries.ListActivitiesQuery{UserID: app.CurrentUserID})
		if err != nil {
			return fmt.Errorf("failed to list activities: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(activities) == 0 {
			fmt.Fprintln(out, "No activities found. Create one with: cadence activity create \"Activity name\"")
			return nil
		}

		fmt.Fprintf(out, "Activities (%d):\n", len(activities))
		fmt.Fprintln(out, strings.Repeat("-", 70))
		for _, a := range activities {
			fmt.Fprintf(out, "%s (%d linked habits)\n", a.Name, a.LinkCount)
			if a.Description != "" {
				fmt.Fprintf(out, "    %s\n", a.Description)
			}
			fmt.Fprintf(out, "    ID: %s\n", a.ID)
		}
		return nil
	},
}
