package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	sharedApplication "github.com/felixgeelhaar/cadence/internal/shared/application"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	logger  *slog.Logger
)

type commandContext struct {
	correlationID uuid.UUID
	startedAt     time.Time
}

type commandContextKey struct{}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cadence",
	Short: "Cadence - weighted habit tracking",
	Long: `Cadence tracks time invested in long-term habits.

Log a session of an activity once and every habit the activity is linked
to receives its weighted share of the minutes. Streaks, weekly compliance
and goal completion are kept up to date as sessions arrive.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if logger == nil {
			logger = slog.Default()
		}
		ctx := cmd.Context()
		info := commandContext{
			correlationID: uuid.New(),
			startedAt:     time.Now(),
		}
		ctx = sharedApplication.WithCorrelationID(ctx, info.correlationID)
		cmd.SetContext(context.WithValue(ctx, commandContextKey{}, info))
		logger.Debug("command start",
			"command", cmd.CommandPath(),
			"correlation_id", info.correlationID.String(),
		)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger == nil {
			logger = slog.Default()
		}
		info, ok := cmd.Context().Value(commandContextKey{}).(commandContext)
		if !ok {
			return
		}
		logger.Debug("command end",
			"command", cmd.CommandPath(),
			"correlation_id", info.correlationID.String(),
			"duration_ms", time.Since(info.startedAt).Milliseconds(),
		)
	},
}

// Execute runs the root command with ctx, which commands observe for
// cancellation.
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// AddCommand adds a command to the root command.
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}

// SetLogger sets the CLI logger.
func SetLogger(l *slog.Logger) {
	logger = l
}

// Verbose reports whether --verbose was passed.
func Verbose() bool {
	return verbose
}

// CorrelationID returns the id assigned to the running command, or uuid.Nil
// outside a command.
func CorrelationID(ctx context.Context) uuid.UUID {
	info, ok := ctx.Value(commandContextKey{}).(commandContext)
	if !ok {
		return uuid.Nil
	}
	return info.correlationID
}

// Logger returns the CLI logger tagged with the command's correlation id.
func Logger(ctx context.Context) *slog.Logger {
	l := logger
	if l == nil {
		l = slog.Default()
	}
	if id := CorrelationID(ctx); id != uuid.Nil {
		l = l.With("correlation_id", id.String())
	}
	return l
}

// RequireApp returns the CLI app or an error explaining that no database is
// available.
func RequireApp() (*App, error) {
	if cliApp == nil {
		return nil, errors.New("cadence is not initialized: check DATABASE_URL and that the database is reachable")
	}
	return cliApp, nil
}
