package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	"github.com/google/uuid"
)

const (
	keyPrefix  = "cadence:metrics:"
	DefaultTTL = 10 * time.Minute
)

// MetricsCache decorates a MetricsRepository with a read-through Store.
// Store failures are logged and the repository answers instead, so a dead
// Redis only costs latency. Writes go to the repository and drop the
// cached snapshot.
type MetricsCache struct {
	next   domain.MetricsRepository
	store  Store
	ttl    time.Duration
	logger *slog.Logger
}

func NewMetricsCache(next domain.MetricsRepository, store Store, ttl time.Duration, logger *slog.Logger) *MetricsCache {
	if logger == nil {
		logger = slog.Default()
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MetricsCache{next: next, store: store, ttl: ttl, logger: logger}
}

func metricsKey(habitID uuid.UUID) string {
	return keyPrefix + habitID.String()
}

type snapshot struct {
	HabitID              uuid.UUID  `json:"habit_id"`
	TotalMinutesInvested float64    `json:"total_minutes_invested"`
	TotalSessions        int        `json:"total_sessions"`
	CurrentStreak        int        `json:"current_streak"`
	LongestStreak        int        `json:"longest_streak"`
	CompletionPercentage float64    `json:"completion_percentage"`
	LastSessionDate      *time.Time `json:"last_session_date,omitempty"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

func encode(m *domain.HabitMetrics) ([]byte, error) {
	return json.Marshal(snapshot(*m))
}

func decode(data []byte) (*domain.HabitMetrics, error) {
	var s snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	m := domain.HabitMetrics(s)
	return &m, nil
}

func (c *MetricsCache) Load(ctx context.Context, habitID uuid.UUID) (*domain.HabitMetrics, error) {
	if m, ok := c.lookup(ctx, habitID); ok {
		return m, nil
	}
	m, err := c.next.Load(ctx, habitID)
	if err != nil {
		return nil, err
	}
	c.fill(ctx, m)
	return m, nil
}

func (c *MetricsCache) LoadMany(ctx context.Context, habitIDs []uuid.UUID) (map[uuid.UUID]*domain.HabitMetrics, error) {
	out := make(map[uuid.UUID]*domain.HabitMetrics, len(habitIDs))
	var missing []uuid.UUID
	for _, id := range habitIDs {
		if m, ok := c.lookup(ctx, id); ok {
			out[id] = m
			continue
		}
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return out, nil
	}

	loaded, err := c.next.LoadMany(ctx, missing)
	if err != nil {
		return nil, err
	}
	for id, m := range loaded {
		out[id] = m
		c.fill(ctx, m)
	}
	return out, nil
}

func (c *MetricsCache) Save(ctx context.Context, m *domain.HabitMetrics) error {
	if err := c.next.Save(ctx, m); err != nil {
		return err
	}
	c.InvalidateMetrics(ctx, m.HabitID)
	return nil
}

// InvalidateMetrics drops cached snapshots. Failures are logged only; the
// TTL bounds how long a stale entry can survive.
func (c *MetricsCache) InvalidateMetrics(ctx context.Context, habitIDs ...uuid.UUID) {
	if len(habitIDs) == 0 {
		return
	}
	keys := make([]string, len(habitIDs))
	for i, id := range habitIDs {
		keys[i] = metricsKey(id)
	}
	if err := c.store.Del(ctx, keys...); err != nil {
		c.logger.Warn("metrics cache invalidation failed", "habits", len(keys), "error", err)
	}
}

func (c *MetricsCache) lookup(ctx context.Context, habitID uuid.UUID) (*domain.HabitMetrics, bool) {
	data, err := c.store.Get(ctx, metricsKey(habitID))
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			c.logger.Debug("metrics cache unavailable", "habit_id", habitID, "error", err)
		}
		return nil, false
	}
	m, err := decode(data)
	if err != nil {
		c.logger.Warn("discarding corrupt metrics snapshot", "habit_id", habitID, "error", err)
		_ = c.store.Del(ctx, metricsKey(habitID))
		return nil, false
	}
	return m, true
}

func (c *MetricsCache) fill(ctx context.Context, m *domain.HabitMetrics) {
	data, err := encode(m)
	if err != nil {
		return
	}
	if err := c.store.Set(ctx, metricsKey(m.HabitID), data, c.ttl); err != nil {
		c.logger.Debug("metrics cache fill failed", "habit_id", m.HabitID, "error", err)
	}
}
