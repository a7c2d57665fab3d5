package commands

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	sharedApplication "github.com/felixgeelhaar/cadence/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/cadence/internal/shared/domain"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// LinkActivityCommand sets the weight with which an activity counts toward a
// habit. Linking an already linked pair replaces the weight.
type LinkActivityCommand struct {
	UserID     uuid.UUID
	HabitID    uuid.UUID
	ActivityID uuid.UUID
	Weight     float64
}

type LinkActivityResult struct {
	Created bool
	Weight  float64
}

// LinkActivityHandler handles the LinkActivityCommand.
type LinkActivityHandler struct {
	habitRepo    domain.HabitRepository
	activityRepo domain.ActivityRepository
	linkRepo     domain.LinkRepository
	outboxRepo   outbox.Repository
	uow          sharedApplication.UnitOfWork
}

func NewLinkActivityHandler(
	habitRepo domain.HabitRepository,
	activityRepo domain.ActivityRepository,
	linkRepo domain.LinkRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
) *LinkActivityHandler {
	return &LinkActivityHandler{
		habitRepo:    habitRepo,
		activityRepo: activityRepo,
		linkRepo:     linkRepo,
		outboxRepo:   outboxRepo,
		uow:          uow,
	}
}

func (h *LinkActivityHandler) Handle(ctx context.Context, cmd LinkActivityCommand) (*LinkActivityResult, error) {
	if err := domain.ValidateWeight(cmd.Weight); err != nil {
		return nil, err
	}

	var result *LinkActivityResult
	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		if err := checkLinkEndpoints(txCtx, h.habitRepo, h.activityRepo, cmd, true); err != nil {
			return err
		}

		link, err := h.linkRepo.Find(txCtx, cmd.HabitID, cmd.ActivityID)
		switch {
		case errors.Is(err, domain.ErrLinkNotFound):
			link, err = domain.NewLink(cmd.HabitID, cmd.ActivityID, cmd.Weight)
			if err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			if err := link.SetWeight(cmd.Weight); err != nil {
				return err
			}
		}

		created, err := h.linkRepo.Upsert(txCtx, link)
		if err != nil {
			return err
		}

		result = &LinkActivityResult{Created: created, Weight: link.Weight()}
		events := []sharedDomain.DomainEvent{domain.NewLinkUpserted(link, created)}
		return saveEvents(txCtx, h.outboxRepo, cmd.UserID, events)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// checkLinkEndpoints loads both ends of a link and checks the user owns them.
func checkLinkEndpoints(
	ctx context.Context,
	habits domain.HabitRepository,
	activities domain.ActivityRepository,
	cmd LinkActivityCommand,
	requireActive bool,
) error {
	habit, err := habits.FindByID(ctx, cmd.HabitID)
	if err != nil {
		return err
	}
	if err := habit.OwnedBy(cmd.UserID); err != nil {
		return err
	}
	if requireActive && !habit.IsActive() {
		return domain.ErrHabitInactive
	}

	activity, err := activities.FindByID(ctx, cmd.ActivityID)
	if err != nil {
		return err
	}
	return activity.OwnedBy(cmd.UserID)
}

type UnlinkActivityCommand struct {
	UserID     uuid.UUID
	HabitID    uuid.UUID
	ActivityID uuid.UUID
}

// UnlinkActivityHandler removes a link. Contributions already recorded
// through it stay in the ledger.
type UnlinkActivityHandler struct {
	habitRepo    domain.HabitRepository
	activityRepo domain.ActivityRepository
	linkRepo     domain.LinkRepository
	outboxRepo   outbox.Repository
	uow          sharedApplication.UnitOfWork
}

func NewUnlinkActivityHandler(
	habitRepo domain.HabitRepository,
	activityRepo domain.ActivityRepository,
	linkRepo domain.LinkRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
) *UnlinkActivityHandler {
	return &UnlinkActivityHandler{
		habitRepo:    habitRepo,
		activityRepo: activityRepo,
		linkRepo:     linkRepo,
		outboxRepo:   outboxRepo,
		uow:          uow,
	}
}

func (h *UnlinkActivityHandler) Handle(ctx context.Context, cmd UnlinkActivityCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		endpoints := LinkActivityCommand{UserID: cmd.UserID, HabitID: cmd.HabitID, ActivityID: cmd.ActivityID}
		if err := checkLinkEndpoints(txCtx, h.habitRepo, h.activityRepo, endpoints, false); err != nil {
			return err
		}

		link, err := h.linkRepo.Find(txCtx, cmd.HabitID, cmd.ActivityID)
		if err != nil {
			return err
		}
		if err := h.linkRepo.Delete(txCtx, cmd.HabitID, cmd.ActivityID); err != nil {
			return err
		}

		events := []sharedDomain.DomainEvent{domain.NewLinkRemoved(link)}
		return saveEvents(txCtx, h.outboxRepo, cmd.UserID, events)
	})
}
