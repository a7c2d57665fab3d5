package commands

import (
	"context"

	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	sharedApplication "github.com/felixgeelhaar/cadence/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/cadence/internal/shared/domain"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// Aggregator is the part of services.MetricsAggregator the handlers use.
type Aggregator interface {
	Apply(ctx context.Context, c domain.Contribution) (*domain.HabitMetrics, error)
	Recompute(ctx context.Context, habitID uuid.UUID) (*domain.HabitMetrics, error)
	Refresh(ctx context.Context, habit *domain.Habit) (*domain.HabitMetrics, error)
}

// MetricsInvalidator drops cached metrics snapshots. Handlers call it after
// a successful commit.
type MetricsInvalidator interface {
	InvalidateMetrics(ctx context.Context, habitIDs ...uuid.UUID)
}

type noopInvalidator struct{}

func (noopInvalidator) InvalidateMetrics(context.Context, ...uuid.UUID) {}

func invalidatorOrNoop(inv MetricsInvalidator) MetricsInvalidator {
	if inv == nil {
		return noopInvalidator{}
	}
	return inv
}

// saveEvents stamps metadata on events and writes them to the outbox in the
// caller's transaction.
func saveEvents(ctx context.Context, repo outbox.Repository, userID uuid.UUID, events []sharedDomain.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}
	sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(ctx, userID))

	msgs, err := outbox.NewMessages(events)
	if err != nil {
		return err
	}
	return repo.SaveBatch(ctx, msgs)
}
