package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// ValidateWeight accepts weights in [0, 1]. NaN is rejected.
func ValidateWeight(weight float64) error {
	if math.IsNaN(weight) || weight < 0 || weight > 1 {
		return ErrInvalidWeight
	}
	return nil
}

// Link says how much of an activity's time counts toward a habit. A weight
// of 0 keeps the link but contributes nothing. There is at most one link per
// (habit, activity) pair.
type Link struct {
	habitID    uuid.UUID
	activityID uuid.UUID
	weight     float64
	createdAt  time.Time
	updatedAt  time.Time
}

func NewLink(habitID, activityID uuid.UUID, weight float64) (*Link, error) {
	if err := ValidateWeight(weight); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Link{
		habitID:    habitID,
		activityID: activityID,
		weight:     weight,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

// RehydrateLink recreates a link from persisted state.
func RehydrateLink(habitID, activityID uuid.UUID, weight float64, createdAt, updatedAt time.Time) *Link {
	return &Link{
		habitID:    habitID,
		activityID: activityID,
		weight:     weight,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

func (l *Link) HabitID() uuid.UUID    { return l.habitID }
func (l *Link) ActivityID() uuid.UUID { return l.activityID }
func (l *Link) Weight() float64       { return l.weight }
func (l *Link) CreatedAt() time.Time  { return l.createdAt }
func (l *Link) UpdatedAt() time.Time  { return l.updatedAt }

// SetWeight changes the weight. Contributions already recorded keep the
// weight they were computed with.
func (l *Link) SetWeight(weight float64) error {
	if err := ValidateWeight(weight); err != nil {
		return err
	}
	l.weight = weight
	l.updatedAt = time.Now().UTC()
	return nil
}
