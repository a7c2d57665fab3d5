package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/felixgeelhaar/cadence/internal/app"
	"github.com/felixgeelhaar/cadence/internal/habits/infrastructure/consumers"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/logging"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/cadence/pkg/config"
	"github.com/felixgeelhaar/cadence/pkg/observability"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("worker stopped with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, closer, err := logging.New(cfg.Logging("worker"))
	if err != nil {
		return err
	}
	defer closer.Close()
	slog.SetDefault(logger)

	logger.Info("starting cadence worker", "env", cfg.AppEnv, "driver", cfg.DatabaseDriver)

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer container.Close()

	processor := container.OutboxProcessor
	if err := processor.Start(ctx); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)

	// Cache invalidation rides the broker when there is one; otherwise the
	// container already delivers it in process.
	if container.EventBus == nil {
		consumer, err := eventbus.NewRabbitMQConsumer(eventbus.RabbitMQConsumerConfig{
			URL:       cfg.RabbitMQURL,
			QueueName: cfg.WorkerQueue,
			Logger:    logger,
		}, eventbus.NewConsumerRegistry(logger))
		if err != nil {
			return err
		}
		defer consumer.Close()
		consumer.RegisterConsumer(consumers.NewMetricsCacheConsumer(container.MetricsCache, logger))

		g.Go(func() error { return consumer.Start(ctx) })
	}

	g.Go(func() error {
		return every(ctx, cfg.OutboxCleanupInterval, func() {
			deleted, err := container.OutboxRepo.DeleteOld(ctx, cfg.OutboxRetentionDays)
			if err != nil {
				logger.Error("outbox cleanup failed", "error", err)
				return
			}
			if deleted > 0 {
				logger.Info("outbox cleanup completed", "deleted", deleted, "retention_days", cfg.OutboxRetentionDays)
			}
		})
	})

	g.Go(func() error {
		return every(ctx, cfg.OutboxStatsInterval, func() {
			stats := processor.GetStats()
			logger.Info("outbox stats",
				"running", stats.IsRunning,
				"published", stats.PublishedCount,
				"failed", stats.FailedCount,
				"dead", stats.DeadCount,
				"lag_seconds", stats.LagSeconds,
				"last_error", stats.LastError,
			)
		})
	})

	if cfg.WorkerHealthAddr != "" {
		health := healthRegistry(container)
		mux := http.NewServeMux()
		mux.Handle("/healthz", health.Handler())
		mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
			if err := container.DB.Ping(r.Context()); err != nil {
				http.Error(w, "database unavailable", http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
		})

		srv := &http.Server{
			Addr:              cfg.WorkerHealthAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			logger.Info("health server starting", "addr", cfg.WorkerHealthAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	err = g.Wait()
	logger.Info("shutting down worker")
	return err
}

func healthRegistry(c *app.Container) *observability.HealthRegistry {
	r := observability.NewHealthRegistry(2 * time.Second)
	r.Register("database", observability.PingChecker("database", observability.HealthStatusUnhealthy, c.DB.Ping))
	if c.RedisClient != nil {
		r.Register("redis", observability.PingChecker("redis", observability.HealthStatusDegraded, func(ctx context.Context) error {
			return c.RedisClient.Ping(ctx).Err()
		}))
	}
	r.Register("outbox", observability.FuncChecker(func() observability.HealthCheckResult {
		return outboxHealth(c.OutboxProcessor.GetStats(), c.EventPublisher)
	}))
	return r
}

func outboxHealth(stats outbox.Stats, publisher eventbus.Publisher) observability.HealthCheckResult {
	result := observability.HealthCheckResult{
		Status: observability.HealthStatusHealthy,
		Details: map[string]any{
			"published":   stats.PublishedCount,
			"failed":      stats.FailedCount,
			"dead":        stats.DeadCount,
			"lag_seconds": stats.LagSeconds,
		},
	}
	if bp, ok := publisher.(*eventbus.BreakerPublisher); ok {
		state := bp.State()
		result.Details["breaker"] = state
		if state == "open" {
			result.Status = observability.HealthStatusDegraded
			result.Message = "broker circuit open"
		}
	}
	if !stats.IsRunning {
		result.Status = observability.HealthStatusUnhealthy
		result.Message = "outbox relay stopped"
	}
	return result
}

func every(ctx context.Context, interval time.Duration, fn func()) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			fn()
		}
	}
}
