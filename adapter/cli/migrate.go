package cli

import (
	"errors"
	"fmt"

	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/migrations"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Long: `Apply pending schema migrations for the configured database and list
the versions now recorded. Startup already migrates, so this is mostly
useful to check a PostgreSQL deployment.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := RequireApp()
		if err != nil {
			return err
		}
		if app.Container == nil {
			return errors.New("migrate requires a database connection")
		}

		ctx := cmd.Context()
		db := app.Container.DB
		if err := migrations.Run(ctx, db, logger); err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}
		versions, err := migrations.Applied(ctx, db)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s schema is up to date (%d migrations)\n", db.Driver(), len(versions))
		for _, v := range versions {
			fmt.Fprintf(out, "  %s\n", v)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
