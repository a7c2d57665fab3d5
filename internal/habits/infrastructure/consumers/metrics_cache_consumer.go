// Package consumers reacts to habit events delivered by the event bus.
package consumers

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
)

// Invalidator drops cached metrics snapshots.
type Invalidator interface {
	InvalidateMetrics(ctx context.Context, habitIDs ...uuid.UUID)
}

// MetricsCacheConsumer keeps cached metrics consistent for processes other
// than the one that wrote them.
type MetricsCacheConsumer struct {
	cache  Invalidator
	logger *slog.Logger
}

func NewMetricsCacheConsumer(cache Invalidator, logger *slog.Logger) *MetricsCacheConsumer {
	if logger == nil {
		logger = slog.Default()
	}
	return &MetricsCacheConsumer{cache: cache, logger: logger}
}

func (c *MetricsCacheConsumer) EventTypes() []string {
	return []string{domain.RoutingMetricsUpdated, domain.RoutingSessionRegistered}
}

// Handle never fails on bad payloads; redelivering them would not help.
func (c *MetricsCacheConsumer) Handle(ctx context.Context, event *eventbus.ConsumedEvent) error {
	var ids []uuid.UUID

	switch event.RoutingKey {
	case domain.RoutingMetricsUpdated:
		var payload domain.MetricsUpdated
		if err := event.Decode(&payload); err != nil {
			c.logger.Warn("undecodable metrics event", "event_id", event.EventID, "error", err)
			return nil
		}
		ids = append(ids, payload.HabitID)
	case domain.RoutingSessionRegistered:
		var payload domain.SessionRegistered
		if err := event.Decode(&payload); err != nil {
			c.logger.Warn("undecodable session event", "event_id", event.EventID, "error", err)
			return nil
		}
		for _, contribution := range payload.Contributions {
			ids = append(ids, contribution.HabitID)
		}
	default:
		return nil
	}

	if len(ids) == 0 {
		return nil
	}
	c.cache.InvalidateMetrics(ctx, ids...)
	c.logger.Debug("metrics cache invalidated", "routing_key", event.RoutingKey, "habits", len(ids))
	return nil
}
