package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/cadence/adapter/cli"
	"github.com/felixgeelhaar/cadence/adapter/cli/activity"
	"github.com/felixgeelhaar/cadence/adapter/cli/habit"
	"github.com/felixgeelhaar/cadence/adapter/cli/mcp"
	"github.com/felixgeelhaar/cadence/adapter/cli/session"
	"github.com/felixgeelhaar/cadence/internal/app"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/logging"
	"github.com/felixgeelhaar/cadence/pkg/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, closer, err := logging.New(cfg.Logging("cadence"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closer.Close()
	slog.SetDefault(logger)
	cli.SetLogger(logger)

	// Without a store the CLI still answers version and help in development.
	var cliApp *cli.App
	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		if !cfg.IsDevelopment() {
			logger.Error("failed to initialize container", "error", err)
			os.Exit(1)
		}
		logger.Warn("failed to initialize container, running in limited mode", "error", err)
	} else {
		defer container.Close()
		logger.Debug("store ready", "driver", cfg.DatabaseDriver, "local_mode", cfg.LocalMode)

		if cfg.OutboxProcessorEnabled {
			if err := container.OutboxProcessor.Start(ctx); err != nil {
				logger.Warn("outbox processor not started", "error", err)
			}
		} else {
			logger.Debug("outbox processor disabled in CLI")
		}

		cliApp = cli.NewApp(container, cfg.User())
	}
	cli.SetApp(cliApp)

	cli.AddCommand(habit.Cmd)
	cli.AddCommand(activity.Cmd)
	cli.AddCommand(session.Cmd)
	cli.AddCommand(mcp.Cmd)

	cli.Execute(ctx)
}
