package domain

import (
	"strings"
	"time"

	sharedDomain "github.com/felixgeelhaar/cadence/internal/shared/domain"
	"github.com/google/uuid"
)

const (
	DefaultTargetMinutesPerWeek = 420
	DefaultMaxMinutesPerWeek    = 900
	DefaultTotalHoursGoal       = 100
)

// Targets are the numeric goals of a habit.
type Targets struct {
	TargetMinutesPerWeek int
	MaxMinutesPerWeek    int
	TotalHoursGoal       int
}

// DefaultTargets: one hour a day, a 15 hour weekly ceiling and a 100 hour goal.
func DefaultTargets() Targets {
	return Targets{
		TargetMinutesPerWeek: DefaultTargetMinutesPerWeek,
		MaxMinutesPerWeek:    DefaultMaxMinutesPerWeek,
		TotalHoursGoal:       DefaultTotalHoursGoal,
	}
}

// Validate checks 0 <= target <= max and goal > 0.
func (t Targets) Validate() error {
	if t.TargetMinutesPerWeek < 0 || t.MaxMinutesPerWeek < t.TargetMinutesPerWeek {
		return ErrInvalidWeeklyTarget
	}
	if t.TotalHoursGoal <= 0 {
		return ErrInvalidGoal
	}
	return nil
}

// Habit is a long-horizon goal that activities contribute time to. Habits
// are never removed; Deactivate hides them while history and metrics remain.
type Habit struct {
	sharedDomain.BaseAggregateRoot
	userID      uuid.UUID
	name        string
	description string
	targets     Targets
	active      bool
}

// NewHabit creates an active habit.
func NewHabit(userID uuid.UUID, name, description string, targets Targets) (*Habit, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrHabitEmptyName
	}
	if err := targets.Validate(); err != nil {
		return nil, err
	}

	habit := &Habit{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		userID:            userID,
		name:              name,
		description:       strings.TrimSpace(description),
		targets:           targets,
		active:            true,
	}
	habit.AddDomainEvent(NewHabitCreated(habit))

	return habit, nil
}

// RehydrateHabit recreates a habit from persisted state without generating events.
func RehydrateHabit(
	id, userID uuid.UUID,
	name, description string,
	targets Targets,
	active bool,
	createdAt, updatedAt time.Time,
) *Habit {
	entity := sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt)
	return &Habit{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(entity),
		userID:            userID,
		name:              name,
		description:       description,
		targets:           targets,
		active:            active,
	}
}

func (h *Habit) UserID() uuid.UUID         { return h.userID }
func (h *Habit) Name() string              { return h.name }
func (h *Habit) Description() string       { return h.description }
func (h *Habit) Targets() Targets          { return h.targets }
func (h *Habit) TargetMinutesPerWeek() int { return h.targets.TargetMinutesPerWeek }
func (h *Habit) MaxMinutesPerWeek() int    { return h.targets.MaxMinutesPerWeek }
func (h *Habit) TotalHoursGoal() int       { return h.targets.TotalHoursGoal }
func (h *Habit) IsActive() bool            { return h.active }

// OwnedBy returns ErrNotOwner unless userID owns the habit.
func (h *Habit) OwnedBy(userID uuid.UUID) error {
	if h.userID != userID {
		return ErrNotOwner
	}
	return nil
}

// HabitChanges lists the fields to update; nil fields are left alone.
type HabitChanges struct {
	Name                 *string
	Description          *string
	TargetMinutesPerWeek *int
	MaxMinutesPerWeek    *int
	TotalHoursGoal       *int
}

// Update applies changes atomically: on error nothing is modified.
func (h *Habit) Update(changes HabitChanges) error {
	if !h.active {
		return ErrHabitInactive
	}

	name := h.name
	if changes.Name != nil {
		name = strings.TrimSpace(*changes.Name)
		if name == "" {
			return ErrHabitEmptyName
		}
	}
	description := h.description
	if changes.Description != nil {
		description = strings.TrimSpace(*changes.Description)
	}
	targets := h.targets
	if changes.TargetMinutesPerWeek != nil {
		targets.TargetMinutesPerWeek = *changes.TargetMinutesPerWeek
	}
	if changes.MaxMinutesPerWeek != nil {
		targets.MaxMinutesPerWeek = *changes.MaxMinutesPerWeek
	}
	if changes.TotalHoursGoal != nil {
		targets.TotalHoursGoal = *changes.TotalHoursGoal
	}
	if err := targets.Validate(); err != nil {
		return err
	}

	if name == h.name && description == h.description && targets == h.targets {
		return nil
	}

	goalChanged := targets.TotalHoursGoal != h.targets.TotalHoursGoal
	h.name = name
	h.description = description
	h.targets = targets
	h.Touch()
	h.AddDomainEvent(NewHabitUpdated(h, goalChanged))
	return nil
}

// Deactivate soft-deletes the habit. Calling it twice is a no-op.
func (h *Habit) Deactivate() {
	if !h.active {
		return
	}
	h.active = false
	h.Touch()
	h.AddDomainEvent(NewHabitDeactivated(h))
}

// Reactivate restores a deactivated habit.
func (h *Habit) Reactivate() {
	if h.active {
		return
	}
	h.active = true
	h.Touch()
	h.AddDomainEvent(NewHabitReactivated(h))
}
