package commands

import (
	"context"

	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	sharedApplication "github.com/felixgeelhaar/cadence/internal/shared/application"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// UpdateHabitCommand changes the non-nil fields of a habit. A non-nil Active
// also reactivates (before the fields apply) or deactivates (after) the habit
// in the same transaction.
type UpdateHabitCommand struct {
	HabitID              uuid.UUID
	UserID               uuid.UUID
	Name                 *string
	Description          *string
	TargetMinutesPerWeek *int
	MaxMinutesPerWeek    *int
	TotalHoursGoal       *int
	Active               *bool
}

func (c UpdateHabitCommand) changesFields() bool {
	return c.Name != nil || c.Description != nil || c.TargetMinutesPerWeek != nil ||
		c.MaxMinutesPerWeek != nil || c.TotalHoursGoal != nil
}

type UpdateHabitResult struct {
	Changed     bool
	GoalChanged bool
}

// UpdateHabitHandler handles the UpdateHabitCommand. A goal change refreshes
// the habit's completion percentage in the same transaction.
type UpdateHabitHandler struct {
	habitRepo   domain.HabitRepository
	aggregator  Aggregator
	outboxRepo  outbox.Repository
	uow         sharedApplication.UnitOfWork
	invalidator MetricsInvalidator
}

func NewUpdateHabitHandler(
	habitRepo domain.HabitRepository,
	aggregator Aggregator,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	invalidator MetricsInvalidator,
) *UpdateHabitHandler {
	return &UpdateHabitHandler{
		habitRepo:   habitRepo,
		aggregator:  aggregator,
		outboxRepo:  outboxRepo,
		uow:         uow,
		invalidator: invalidatorOrNoop(invalidator),
	}
}

func (h *UpdateHabitHandler) Handle(ctx context.Context, cmd UpdateHabitCommand) (*UpdateHabitResult, error) {
	result := &UpdateHabitResult{}

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		habit, err := h.habitRepo.FindByID(txCtx, cmd.HabitID)
		if err != nil {
			return err
		}
		if err := habit.OwnedBy(cmd.UserID); err != nil {
			return err
		}

		if cmd.Active != nil && *cmd.Active {
			habit.Reactivate()
		}

		previousGoal := habit.TotalHoursGoal()
		if cmd.changesFields() || cmd.Active == nil {
			if err := habit.Update(domain.HabitChanges{
				Name:                 cmd.Name,
				Description:          cmd.Description,
				TargetMinutesPerWeek: cmd.TargetMinutesPerWeek,
				MaxMinutesPerWeek:    cmd.MaxMinutesPerWeek,
				TotalHoursGoal:       cmd.TotalHoursGoal,
			}); err != nil {
				return err
			}
		}

		if cmd.Active != nil && !*cmd.Active {
			habit.Deactivate()
		}

		events := habit.DomainEvents()
		if len(events) == 0 {
			return nil
		}
		result.Changed = true

		if err := h.habitRepo.Save(txCtx, habit); err != nil {
			return err
		}

		if habit.TotalHoursGoal() != previousGoal {
			metrics, err := h.aggregator.Refresh(txCtx, habit)
			if err != nil {
				return err
			}
			result.GoalChanged = true
			events = append(events, domain.NewMetricsUpdated(metrics, false))
		}

		return saveEvents(txCtx, h.outboxRepo, cmd.UserID, events)
	})
	if err != nil {
		return nil, err
	}

	if result.GoalChanged {
		h.invalidator.InvalidateMetrics(ctx, cmd.HabitID)
	}
	return result, nil
}
