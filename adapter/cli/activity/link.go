package activity

import (
	"fmt"

	"github.com/felixgeelhaar/cadence/adapter/cli"
	"github.com/felixgeelhaar/cadence/internal/habits/application/commands"
	"github.com/felixgeelhaar/cadence/internal/habits/application/queries"
	"github.com/spf13/cobra"
)

var weight float64

var linkCmd = &cobra.Command{
	Use:   "link [activity-id] [habit-id]",
	Short: "Link an activity to a habit",
	Long: `Link an activity to a habit, or change the weight of an existing link.
A session of the activity credits the habit with duration x weight minutes.
Sessions already logged keep the weight they were logged with.

Examples:
  cadence activity link <cycling-id> <fitness-id> --weight 1
  cadence activity link <cycling-id> <outdoors-id> --weight 0.5`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		activityID, err := parseID("activity", args[0])
		if err != nil {
			return err
		}
		habitID, err := parseID("habit", args[1])
		if err != nil {
			return err
		}

		result, err := app.LinkActivityHandler.Handle(cmd.Context(), commands.LinkActivityCommand{
			UserID:     app.CurrentUserID,
			HabitID:    habitID,
			ActivityID: activityID,
			Weight:     weight,
		})
		if err != nil {
			return fmt.Errorf("failed to link activity: %w", err)
		}

		verb := "Updated link"
		if result.Created {
			verb = "Linked"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s with weight %.2f\n", verb, result.Weight)
		return nil
	},
}

var unlinkCmd = &cobra.Command{
	Use:   "unlink [activity-id] [habit-id]",
	Short: "Remove a link between an activity and a habit",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		activityID, err := parseID("activity", args[0])
		if err != nil {
			return err
		}
		habitID, err := parseID("habit", args[1])
		if err != nil {
			return err
		}

		if err := app.UnlinkActivityHandler.Handle(cmd.Context(), commands.UnlinkActivityCommand{
			UserID:     app.CurrentUserID,
			HabitID:    habitID,
			ActivityID: activityID,
		}); err != nil {
			return fmt.Errorf("failed to unlink activity: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Link removed.")
		return nil
	},
}

var linksCmd = &cobra.Command{
	Use:   "links [activity-id]",
	Short: "Show which habits an activity feeds",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		activityID, err := parseID("activity", args[0])
		if err != nil {
			return err
		}

		links, err := app.ListActivityLinksHandler.Handle(cmd.Context(), queries.ListActivityLinksQuery{
			UserID:     app.CurrentUserID,
			ActivityID: activityID,
		})
		if err != nil {
			return fmt.Errorf("failed to list links: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(links) == 0 {
			fmt.Fprintln(out, "Not linked to any habit.")
			return nil
		}
		for _, l := range links {
			fmt.Fprintf(out, "  %-24s weight %.2f  (%s)\n", l.HabitName, l.Weight, l.HabitID)
		}
		return nil
	},
}

func init() {
	linkCmd.Flags().Float64VarP(&weight, "weight", "w", 1, "share of each session credited to the habit (0 to 1)")
}
