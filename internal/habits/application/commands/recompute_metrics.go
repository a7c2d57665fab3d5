package commands

import (
	"context"

	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	sharedApplication "github.com/felixgeelhaar/cadence/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/cadence/internal/shared/domain"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// RecomputeMetricsCommand rebuilds metrics from the contribution ledger.
// A nil HabitID recomputes every habit of the user, active or not.
type RecomputeMetricsCommand struct {
	UserID  uuid.UUID
	HabitID uuid.UUID
}

type RecomputeMetricsResult struct {
	Metrics []*domain.HabitMetrics
}

// RecomputeMetricsHandler is the recovery path for metrics that drifted from
// the ledger.
type RecomputeMetricsHandler struct {
	habitRepo   domain.HabitRepository
	aggregator  Aggregator
	outboxRepo  outbox.Repository
	uow         sharedApplication.UnitOfWork
	invalidator MetricsInvalidator
}

func NewRecomputeMetricsHandler(
	habitRepo domain.HabitRepository,
	aggregator Aggregator,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	invalidator MetricsInvalidator,
) *RecomputeMetricsHandler {
	return &RecomputeMetricsHandler{
		habitRepo:   habitRepo,
		aggregator:  aggregator,
		outboxRepo:  outboxRepo,
		uow:         uow,
		invalidator: invalidatorOrNoop(invalidator),
	}
}

func (h *RecomputeMetricsHandler) Handle(ctx context.Context, cmd RecomputeMetricsCommand) (*RecomputeMetricsResult, error) {
	result := &RecomputeMetricsResult{}

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		habitIDs, err := h.targets(txCtx, cmd)
		if err != nil {
			return err
		}

		events := make([]sharedDomain.DomainEvent, 0, len(habitIDs))
		for _, id := range habitIDs {
			metrics, err := h.aggregator.Recompute(txCtx, id)
			if err != nil {
				return err
			}
			result.Metrics = append(result.Metrics, metrics)
			events = append(events, domain.NewMetricsUpdated(metrics, true))
		}
		return saveEvents(txCtx, h.outboxRepo, cmd.UserID, events)
	})
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(result.Metrics))
	for _, m := range result.Metrics {
		ids = append(ids, m.HabitID)
	}
	if len(ids) > 0 {
		h.invalidator.InvalidateMetrics(ctx, ids...)
	}
	return result, nil
}

func (h *RecomputeMetricsHandler) targets(ctx context.Context, cmd RecomputeMetricsCommand) ([]uuid.UUID, error) {
	if cmd.HabitID != uuid.Nil {
		habit, err := h.habitRepo.FindByID(ctx, cmd.HabitID)
		if err != nil {
			return nil, err
		}
		if err := habit.OwnedBy(cmd.UserID); err != nil {
			return nil, err
		}
		return []uuid.UUID{habit.ID()}, nil
	}

	habits, err := h.habitRepo.FindByUserID(ctx, cmd.UserID, true)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(habits))
	for _, habit := range habits {
		ids = append(ids, habit.ID())
	}
	return ids, nil
}
