package commands

import (
	"context"

	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	sharedApplication "github.com/felixgeelhaar/cadence/internal/shared/application"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

type CreateActivityCommand struct {
	UserID      uuid.UUID
	Name        string
	Description string
}

type CreateActivityResult struct {
	ActivityID uuid.UUID
}

// CreateActivityHandler handles the CreateActivityCommand.
type CreateActivityHandler struct {
	activityRepo domain.ActivityRepository
	outboxRepo   outbox.Repository
	uow          sharedApplication.UnitOfWork
}

func NewCreateActivityHandler(activityRepo domain.ActivityRepository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *CreateActivityHandler {
	return &CreateActivityHandler{activityRepo: activityRepo, outboxRepo: outboxRepo, uow: uow}
}

func (h *CreateActivityHandler) Handle(ctx context.Context, cmd CreateActivityCommand) (*CreateActivityResult, error) {
	activity, err := domain.NewActivity(cmd.UserID, cmd.Name, cmd.Description)
	if err != nil {
		return nil, err
	}

	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		if err := h.activityRepo.Save(txCtx, activity); err != nil {
			return err
		}
		return saveEvents(txCtx, h.outboxRepo, cmd.UserID, activity.DomainEvents())
	})
	if err != nil {
		return nil, err
	}
	return &CreateActivityResult{ActivityID: activity.ID()}, nil
}

type UpdateActivityCommand struct {
	ActivityID  uuid.UUID
	UserID      uuid.UUID
	Name        *string
	Description *string
}

// UpdateActivityHandler renames or re-describes an activity. Sessions keep
// the name they were logged with.
type UpdateActivityHandler struct {
	activityRepo domain.ActivityRepository
	outboxRepo   outbox.Repository
	uow          sharedApplication.UnitOfWork
}

func NewUpdateActivityHandler(activityRepo domain.ActivityRepository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *UpdateActivityHandler {
	return &UpdateActivityHandler{activityRepo: activityRepo, outboxRepo: outboxRepo, uow: uow}
}

func (h *UpdateActivityHandler) Handle(ctx context.Context, cmd UpdateActivityCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		activity, err := h.activityRepo.FindByID(txCtx, cmd.ActivityID)
		if err != nil {
			return err
		}
		if err := activity.OwnedBy(cmd.UserID); err != nil {
			return err
		}
		if err := activity.Update(cmd.Name, cmd.Description); err != nil {
			return err
		}

		events := activity.DomainEvents()
		if len(events) == 0 {
			return nil
		}
		if err := h.activityRepo.Save(txCtx, activity); err != nil {
			return err
		}
		return saveEvents(txCtx, h.outboxRepo, cmd.UserID, events)
	})
}

type DeleteActivityCommand struct {
	ActivityID uuid.UUID
	UserID     uuid.UUID
}

// DeleteActivityHandler hard-deletes an activity. Its links go with it;
// sessions and the contribution ledger stay.
type DeleteActivityHandler struct {
	activityRepo domain.ActivityRepository
	outboxRepo   outbox.Repository
	uow          sharedApplication.UnitOfWork
}

func NewDeleteActivityHandler(activityRepo domain.ActivityRepository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *DeleteActivityHandler {
	return &DeleteActivityHandler{activityRepo: activityRepo, outboxRepo: outboxRepo, uow: uow}
}

func (h *DeleteActivityHandler) Handle(ctx context.Context, cmd DeleteActivityCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		activity, err := h.activityRepo.FindByID(txCtx, cmd.ActivityID)
		if err != nil {
			return err
		}
		if err := activity.OwnedBy(cmd.UserID); err != nil {
			return err
		}

		activity.MarkDeleted()
		if err := h.activityRepo.Delete(txCtx, activity.ID()); err != nil {
			return err
		}
		return saveEvents(txCtx, h.outboxRepo, cmd.UserID, activity.DomainEvents())
	})
}
