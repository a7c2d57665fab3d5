package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/cadence/internal/habits/application/commands"
	"github.com/felixgeelhaar/cadence/internal/habits/application/queries"
	"github.com/felixgeelhaar/cadence/internal/habits/application/services"
	"github.com/felixgeelhaar/cadence/internal/habits/infrastructure/cache"
	"github.com/felixgeelhaar/cadence/internal/habits/infrastructure/consumers"
	sharedApplication "github.com/felixgeelhaar/cadence/internal/shared/application"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/cadence/internal/shared/infrastructure/database/postgres" // Register PostgreSQL driver
	_ "github.com/felixgeelhaar/cadence/internal/shared/infrastructure/database/sqlite"   // Register SQLite driver
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/resilience"
	"github.com/felixgeelhaar/cadence/pkg/config"
	"github.com/redis/go-redis/v9"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	DB          database.Connection
	RedisClient *redis.Client

	Repositories Repositories
	// MetricsCache serves metric reads and is invalidated after writes.
	MetricsCache *cache.MetricsCache
	OutboxRepo   outbox.Repository
	UnitOfWork   sharedApplication.UnitOfWork
	Aggregator   *services.MetricsAggregator

	// EventBus is set when events are delivered in process instead of
	// through RabbitMQ.
	EventBus        *eventbus.InProcessEventBus
	EventPublisher  eventbus.Publisher
	OutboxProcessor *outbox.Processor

	// Habit command handlers
	CreateHabitHandler       *commands.CreateHabitHandler
	UpdateHabitHandler       *commands.UpdateHabitHandler
	ChangeHabitStatusHandler *commands.ChangeHabitStatusHandler
	RecomputeMetricsHandler  *commands.RecomputeMetricsHandler

	// Activity and link command handlers
	CreateActivityHandler *commands.CreateActivityHandler
	UpdateActivityHandler *commands.UpdateActivityHandler
	DeleteActivityHandler *commands.DeleteActivityHandler
	LinkActivityHandler   *commands.LinkActivityHandler
	UnlinkActivityHandler *commands.UnlinkActivityHandler

	RegisterSessionHandler *commands.RegisterSessionHandler

	// Query handlers
	ListHabitsHandler            *queries.ListHabitsHandler
	GetHabitProgressHandler      *queries.GetHabitProgressHandler
	WeeklySummaryHandler         *queries.WeeklySummaryHandler
	ListActivitiesHandler        *queries.ListActivitiesHandler
	ListActivityLinksHandler     *queries.ListActivityLinksHandler
	ActivityMatrixHandler        *queries.ActivityMatrixHandler
	ContributionBreakdownHandler *queries.ContributionBreakdownHandler
	ListSessionsHandler          *queries.ListSessionsHandler
	SessionTrendHandler          *queries.SessionTrendHandler
}

// NewContainer connects to the configured database, applies migrations and
// wires every handler. Redis and RabbitMQ are optional in development and
// fall back to in-process implementations.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Container{Config: cfg, Logger: logger}

	dbCfg := cfg.Database()
	if dbCfg.Driver == database.DriverSQLite && dbCfg.SQLitePath != "" {
		if err := database.EnsureDirectory(dbCfg.SQLitePath); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	conn, err := database.NewConnection(ctx, dbCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	c.DB = conn
	logger.Debug("connected to database", "driver", conn.Driver())

	if err := migrations.Run(ctx, conn, logger); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	store, err := c.cacheStore(ctx)
	if err != nil {
		c.Close()
		return nil, err
	}

	if err := c.wire(conn, store); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

// NewContainerWithConnection wires handlers on an open connection with an
// in-process cache and event bus. Tests use it with in-memory SQLite.
func NewContainerWithConnection(ctx context.Context, cfg *config.Config, conn database.Connection, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Container{Config: cfg, Logger: logger, DB: conn}
	if err := migrations.Run(ctx, conn, logger); err != nil {
		return nil, err
	}
	if err := c.wire(conn, cache.NewMemoryStore()); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Container) wire(conn database.Connection, store cache.Store) error {
	cfg, logger := c.Config, c.Logger

	c.Repositories = NewRepositories(conn)
	repos := c.Repositories
	c.OutboxRepo = outbox.NewSQLRepository(conn)
	c.UnitOfWork = database.NewUnitOfWork(conn)
	c.MetricsCache = cache.NewMetricsCache(repos.Metrics, store, cfg.CacheTTL, logger)

	// The aggregator reads and writes the database directly; handlers drop
	// the cached snapshots once their transaction has committed.
	c.Aggregator = services.NewMetricsAggregator(repos.Habits, repos.Metrics, repos.Contributions, logger)

	if err := c.publisher(); err != nil {
		return err
	}
	c.OutboxProcessor = outbox.NewProcessor(c.OutboxRepo, c.EventPublisher, cfg.Outbox(), logger)

	c.CreateHabitHandler = commands.NewCreateHabitHandler(repos.Habits, repos.Metrics, c.OutboxRepo, c.UnitOfWork)
	c.UpdateHabitHandler = commands.NewUpdateHabitHandler(repos.Habits, c.Aggregator, c.OutboxRepo, c.UnitOfWork, c.MetricsCache)
	c.ChangeHabitStatusHandler = commands.NewChangeHabitStatusHandler(repos.Habits, c.OutboxRepo, c.UnitOfWork)
	c.RecomputeMetricsHandler = commands.NewRecomputeMetricsHandler(repos.Habits, c.Aggregator, c.OutboxRepo, c.UnitOfWork, c.MetricsCache)

	c.CreateActivityHandler = commands.NewCreateActivityHandler(repos.Activities, c.OutboxRepo, c.UnitOfWork)
	c.UpdateActivityHandler = commands.NewUpdateActivityHandler(repos.Activities, c.OutboxRepo, c.UnitOfWork)
	c.DeleteActivityHandler = commands.NewDeleteActivityHandler(repos.Activities, c.OutboxRepo, c.UnitOfWork)
	c.LinkActivityHandler = commands.NewLinkActivityHandler(repos.Habits, repos.Activities, repos.Links, c.OutboxRepo, c.UnitOfWork)
	c.UnlinkActivityHandler = commands.NewUnlinkActivityHandler(repos.Habits, repos.Activities, repos.Links, c.OutboxRepo, c.UnitOfWork)

	c.RegisterSessionHandler = commands.NewRegisterSessionHandler(
		repos.Activities,
		repos.Links,
		repos.Sessions,
		repos.Contributions,
		c.Aggregator,
		c.OutboxRepo,
		c.UnitOfWork,
		c.MetricsCache,
		logger,
	)

	c.ListHabitsHandler = queries.NewListHabitsHandler(repos.Habits, c.MetricsCache)
	c.GetHabitProgressHandler = queries.NewGetHabitProgressHandler(repos.Habits, c.MetricsCache, repos.Contributions, repos.Links, repos.Activities)
	c.WeeklySummaryHandler = queries.NewWeeklySummaryHandler(repos.Habits, repos.Contributions)
	c.ListActivitiesHandler = queries.NewListActivitiesHandler(repos.Activities, repos.Links)
	c.ListActivityLinksHandler = queries.NewListActivityLinksHandler(repos.Activities, repos.Links, repos.Habits)
	c.ActivityMatrixHandler = queries.NewActivityMatrixHandler(repos.Activities, repos.Links, repos.Habits, repos.Sessions)
	c.ContributionBreakdownHandler = queries.NewContributionBreakdownHandler(repos.Habits, repos.Activities, repos.Contributions)
	c.ListSessionsHandler = queries.NewListSessionsHandler(repos.Sessions)
	c.SessionTrendHandler = queries.NewSessionTrendHandler(repos.Sessions)

	return nil
}

func (c *Container) cacheStore(ctx context.Context) (cache.Store, error) {
	cfg, logger := c.Config, c.Logger
	if cfg.RedisURL == "" {
		return cache.NewMemoryStore(), nil
	}

	client, err := cache.NewRedisClient(cfg.RedisURL)
	if err == nil {
		err = client.Ping(ctx).Err()
		if err != nil {
			_ = client.Close()
		}
	}
	if err != nil {
		if !cfg.IsDevelopment() {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		logger.Warn("Redis not available, metrics cache stays in process", "error", err)
		return cache.NewMemoryStore(), nil
	}

	c.RedisClient = client
	logger.Debug("connected to Redis")
	breaker := resilience.NewBreaker("redis", cfg.Breaker(), logger)
	return cache.NewRedisStore(client, breaker), nil
}

func (c *Container) publisher() error {
	cfg, logger := c.Config, c.Logger
	if cfg.RabbitMQURL != "" {
		rabbit, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, logger)
		if err == nil {
			c.EventPublisher = eventbus.NewBreakerPublisher(rabbit, cfg.Breaker(), logger)
			return nil
		}
		if !cfg.IsDevelopment() {
			return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		logger.Warn("RabbitMQ not available, delivering events in process", "error", err)
	}

	bus := eventbus.NewInProcessEventBus(logger)
	bus.RegisterConsumer(consumers.NewMetricsCacheConsumer(c.MetricsCache, logger))
	c.EventBus = bus
	c.EventPublisher = bus
	return nil
}

// Close flushes pending events when they are delivered in process, then
// releases connections.
func (c *Container) Close() {
	if c.OutboxProcessor != nil {
		c.OutboxProcessor.Stop()
		if c.EventBus != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := c.OutboxProcessor.Drain(ctx); err != nil {
				c.Logger.Warn("outbox drain failed", "error", err)
			}
			cancel()
		}
	}

	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("error closing event publisher", "error", err)
		}
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("error closing Redis connection", "error", err)
		}
	}

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			c.Logger.Warn("error closing database connection", "error", err)
		}
	}
}
