package commands

import (
	"context"

	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	sharedApplication "github.com/felixgeelhaar/cadence/internal/shared/application"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// CreateHabitCommand contains the data needed to create a habit. Nil targets
// take the defaults.
type CreateHabitCommand struct {
	UserID               uuid.UUID
	Name                 string
	Description          string
	TargetMinutesPerWeek *int
	MaxMinutesPerWeek    *int
	TotalHoursGoal       *int
}

// CreateHabitResult contains the result of creating a habit.
type CreateHabitResult struct {
	HabitID uuid.UUID
	Targets domain.Targets
}

// CreateHabitHandler handles the CreateHabitCommand.
type CreateHabitHandler struct {
	habitRepo   domain.HabitRepository
	metricsRepo domain.MetricsRepository
	outboxRepo  outbox.Repository
	uow         sharedApplication.UnitOfWork
}

// NewCreateHabitHandler creates a new CreateHabitHandler.
func NewCreateHabitHandler(
	habitRepo domain.HabitRepository,
	metricsRepo domain.MetricsRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
) *CreateHabitHandler {
	return &CreateHabitHandler{
		habitRepo:   habitRepo,
		metricsRepo: metricsRepo,
		outboxRepo:  outboxRepo,
		uow:         uow,
	}
}

// Handle creates the habit together with its zeroed metrics row.
func (h *CreateHabitHandler) Handle(ctx context.Context, cmd CreateHabitCommand) (*CreateHabitResult, error) {
	targets := domain.DefaultTargets()
	if cmd.TargetMinutesPerWeek != nil {
		targets.TargetMinutesPerWeek = *cmd.TargetMinutesPerWeek
	}
	if cmd.MaxMinutesPerWeek != nil {
		targets.MaxMinutesPerWeek = *cmd.MaxMinutesPerWeek
	}
	if cmd.TotalHoursGoal != nil {
		targets.TotalHoursGoal = *cmd.TotalHoursGoal
	}

	habit, err := domain.NewHabit(cmd.UserID, cmd.Name, cmd.Description, targets)
	if err != nil {
		return nil, err
	}

	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		if err := h.habitRepo.Save(txCtx, habit); err != nil {
			return err
		}
		if err := h.metricsRepo.Save(txCtx, domain.NewHabitMetrics(habit.ID())); err != nil {
			return err
		}
		return saveEvents(txCtx, h.outboxRepo, cmd.UserID, habit.DomainEvents())
	})
	if err != nil {
		return nil, err
	}

	return &CreateHabitResult{HabitID: habit.ID(), Targets: habit.Targets()}, nil
}
