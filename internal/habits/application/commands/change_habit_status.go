package commands

import (
	"context"

	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	sharedApplication "github.com/felixgeelhaar/cadence/internal/shared/application"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// ChangeHabitStatusCommand deactivates (Active false) or reactivates a habit.
type ChangeHabitStatusCommand struct {
	HabitID uuid.UUID
	UserID  uuid.UUID
	Active  bool
}

// ChangeHabitStatusHandler handles the ChangeHabitStatusCommand. Habits are
// never physically deleted, so links, sessions and metrics survive.
type ChangeHabitStatusHandler struct {
	habitRepo  domain.HabitRepository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

func NewChangeHabitStatusHandler(habitRepo domain.HabitRepository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *ChangeHabitStatusHandler {
	return &ChangeHabitStatusHandler{
		habitRepo:  habitRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
	}
}

func (h *ChangeHabitStatusHandler) Handle(ctx context.Context, cmd ChangeHabitStatusCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		habit, err := h.habitRepo.FindByID(txCtx, cmd.HabitID)
		if err != nil {
			return err
		}
		if err := habit.OwnedBy(cmd.UserID); err != nil {
			return err
		}

		if cmd.Active {
			habit.Reactivate()
		} else {
			habit.Deactivate()
		}

		events := habit.DomainEvents()
		if len(events) == 0 {
			return nil
		}
		if err := h.habitRepo.Save(txCtx, habit); err != nil {
			return err
		}
		return saveEvents(txCtx, h.outboxRepo, cmd.UserID, events)
	})
}
