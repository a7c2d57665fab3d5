package domain

import (
	"strings"
	"time"

	sharedDomain "github.com/felixgeelhaar/cadence/internal/shared/domain"
	"github.com/google/uuid"
)

// Activity is a concrete action a user logs sessions of. Deleting an
// activity is a hard delete; its links go with it, its sessions stay.
type Activity struct {
	sharedDomain.BaseAggregateRoot
	userID      uuid.UUID
	name        string
	description string
}

func NewActivity(userID uuid.UUID, name, description string) (*Activity, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrActivityEmptyName
	}

	activity := &Activity{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		userID:            userID,
		name:              name,
		description:       strings.TrimSpace(description),
	}
	activity.AddDomainEvent(NewActivityCreated(activity))
	return activity, nil
}

// RehydrateActivity recreates an activity from persisted state.
func RehydrateActivity(id, userID uuid.UUID, name, description string, createdAt, updatedAt time.Time) *Activity {
	entity := sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt)
	return &Activity{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(entity),
		userID:            userID,
		name:              name,
		description:       description,
	}
}

func (a *Activity) UserID() uuid.UUID   { return a.userID }
func (a *Activity) Name() string        { return a.name }
func (a *Activity) Description() string { return a.description }

func (a *Activity) OwnedBy(userID uuid.UUID) error {
	if a.userID != userID {
		return ErrNotOwner
	}
	return nil
}

// Update renames the activity and/or replaces its description.
func (a *Activity) Update(name, description *string) error {
	newName := a.name
	if name != nil {
		newName = strings.TrimSpace(*name)
		if newName == "" {
			return ErrActivityEmptyName
		}
	}
	newDescription := a.description
	if description != nil {
		newDescription = strings.TrimSpace(*description)
	}
	if newName == a.name && newDescription == a.description {
		return nil
	}

	a.name = newName
	a.description = newDescription
	a.Touch()
	a.AddDomainEvent(NewActivityUpdated(a))
	return nil
}

// MarkDeleted records the deletion event; the repository removes the row.
func (a *Activity) MarkDeleted() {
	a.AddDomainEvent(NewActivityDeleted(a))
}
