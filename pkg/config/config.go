package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/logging"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/resilience"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/security"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// DefaultUserID is the single local user when CADENCE_USER_ID is unset.
const DefaultUserID = "00000000-0000-0000-0000-000000000001"

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv   string
	LogLevel string
	LogFile  string
	UserID   string

	// Database. An empty DatabaseURL selects SQLite (local mode).
	DatabaseURL      string
	DatabaseDriver   string
	SQLitePath       string
	DatabaseMaxConns int
	LocalMode        bool

	// Cache. An empty RedisURL keeps metrics snapshots in process.
	RedisURL string
	CacheTTL time.Duration

	// RabbitMQ. An empty URL delivers outbox events in process.
	RabbitMQURL string

	// Outbox
	OutboxPollInterval     time.Duration
	OutboxBatchSize        int
	OutboxMaxRetries       int
	OutboxStatsInterval    time.Duration
	OutboxRetentionDays    int
	OutboxCleanupInterval  time.Duration
	OutboxProcessorEnabled bool

	// Worker
	WorkerHealthAddr string
	WorkerQueue      string

	// Surfaces
	HTTPAddr     string
	MCPAddr      string
	MCPAuthToken string

	// Circuit breakers around Redis and RabbitMQ
	BreakerFailureThreshold int
	BreakerTimeout          time.Duration
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	databaseURL := getEnv("DATABASE_URL", "")
	driver, sqliteFromURL, err := database.ParseURL(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("DATABASE_URL: %w", err)
	}
	sqlitePath := getEnv("SQLITE_PATH", database.DefaultSQLitePath())
	if sqliteFromURL != "" {
		sqlitePath = sqliteFromURL
	}

	cfg := &Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),
		UserID:   getEnv("CADENCE_USER_ID", DefaultUserID),

		DatabaseURL:      databaseURL,
		DatabaseDriver:   driver.String(),
		SQLitePath:       sqlitePath,
		DatabaseMaxConns: getIntEnv("DATABASE_MAX_CONNS", 10),
		LocalMode:        driver == database.DriverSQLite,

		RedisURL: getEnv("REDIS_URL", ""),
		CacheTTL: getDurationEnv("CACHE_TTL", 10*time.Minute),

		RabbitMQURL: getEnv("RABBITMQ_URL", ""),

		OutboxPollInterval:     getDurationEnv("OUTBOX_POLL_INTERVAL", 100*time.Millisecond),
		OutboxBatchSize:        getIntEnv("OUTBOX_BATCH_SIZE", 100),
		OutboxMaxRetries:       getIntEnv("OUTBOX_MAX_RETRIES", 5),
		OutboxStatsInterval:    getDurationEnv("OUTBOX_STATS_INTERVAL", 30*time.Second),
		OutboxRetentionDays:    getIntEnv("OUTBOX_RETENTION_DAYS", 14),
		OutboxCleanupInterval:  getDurationEnv("OUTBOX_CLEANUP_INTERVAL", 24*time.Hour),
		OutboxProcessorEnabled: getBoolEnv("OUTBOX_PROCESSOR_ENABLED", true),

		WorkerHealthAddr: getEnv("WORKER_HEALTH_ADDR", "0.0.0.0:8081"),
		WorkerQueue:      getEnv("WORKER_QUEUE", "cadence.metrics-cache"),

		HTTPAddr:     getEnv("HTTP_ADDR", "127.0.0.1:8080"),
		MCPAddr:      getEnv("MCP_ADDR", "127.0.0.1:8082"),
		MCPAuthToken: getEnv("MCP_AUTH_TOKEN", ""),

		BreakerFailureThreshold: getIntEnv("BREAKER_FAILURE_THRESHOLD", 5),
		BreakerTimeout:          getDurationEnv("BREAKER_TIMEOUT", 30*time.Second),
	}

	if _, err := uuid.Parse(cfg.UserID); err != nil {
		return nil, fmt.Errorf("CADENCE_USER_ID %q is not a uuid: %w", cfg.UserID, err)
	}

	if cfg.LocalMode && cfg.SQLitePath != ":memory:" {
		path, err := security.ResolvePath(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("SQLITE_PATH: %w", err)
		}
		cfg.SQLitePath = path
	}
	if cfg.LogFile != "" {
		path, err := security.ResolvePath(cfg.LogFile)
		if err != nil {
			return nil, fmt.Errorf("LOG_FILE: %w", err)
		}
		cfg.LogFile = path
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// User is the parsed UserID. Load has already validated it.
func (c *Config) User() uuid.UUID {
	return uuid.MustParse(c.UserID)
}

func (c *Config) Database() database.Config {
	return database.Config{
		Driver:     database.Driver(c.DatabaseDriver),
		URL:        c.DatabaseURL,
		SQLitePath: c.SQLitePath,
		MaxConns:   c.DatabaseMaxConns,
	}
}

// Logging forces debug output in development.
func (c *Config) Logging(prefix string) logging.Config {
	level := c.LogLevel
	if c.IsDevelopment() && !strings.EqualFold(level, "error") && !strings.EqualFold(level, "warn") {
		level = "debug"
	}
	return logging.Config{
		Level:  level,
		File:   c.LogFile,
		Prefix: prefix,
		JSON:   c.IsProduction(),
	}
}

func (c *Config) Breaker() resilience.BreakerConfig {
	cfg := resilience.DefaultBreakerConfig()
	if c.BreakerFailureThreshold > 0 {
		cfg.FailureThreshold = uint32(c.BreakerFailureThreshold)
	}
	if c.BreakerTimeout > 0 {
		cfg.Timeout = c.BreakerTimeout
	}
	return cfg
}

func (c *Config) Outbox() outbox.ProcessorConfig {
	cfg := outbox.DefaultProcessorConfig()
	if c.OutboxPollInterval > 0 {
		cfg.PollInterval = c.OutboxPollInterval
	}
	if c.OutboxBatchSize > 0 {
		cfg.BatchSize = c.OutboxBatchSize
	}
	if c.OutboxMaxRetries > 0 {
		cfg.MaxRetries = c.OutboxMaxRetries
	}
	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
