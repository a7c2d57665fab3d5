package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// HabitRepository persists habits. Lookups of unknown ids return ErrHabitNotFound.
type HabitRepository interface {
	Save(ctx context.Context, habit *Habit) error
	FindByID(ctx context.Context, id uuid.UUID) (*Habit, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, includeInactive bool) ([]*Habit, error)
}

// MetricsRepository stores one metrics row per habit.
type MetricsRepository interface {
	Load(ctx context.Context, habitID uuid.UUID) (*HabitMetrics, error)
	LoadMany(ctx context.Context, habitIDs []uuid.UUID) (map[uuid.UUID]*HabitMetrics, error)
	Save(ctx context.Context, metrics *HabitMetrics) error
}

type ActivityRepository interface {
	Save(ctx context.Context, activity *Activity) error
	FindByID(ctx context.Context, id uuid.UUID) (*Activity, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*Activity, error)
	// Delete removes the activity and, by cascade, its links. Sessions keep
	// their activity name and lose the reference.
	Delete(ctx context.Context, id uuid.UUID) error
}

// LinkRepository stores habit-activity links, unique per pair.
type LinkRepository interface {
	// Upsert inserts the link or replaces the weight of the existing pair.
	// It reports whether a new row was created.
	Upsert(ctx context.Context, link *Link) (bool, error)
	Find(ctx context.Context, habitID, activityID uuid.UUID) (*Link, error)
	Delete(ctx context.Context, habitID, activityID uuid.UUID) error
	FindByActivity(ctx context.Context, activityID uuid.UUID) ([]*Link, error)
	FindByHabit(ctx context.Context, habitID uuid.UUID) ([]*Link, error)
	FindByActivities(ctx context.Context, activityIDs []uuid.UUID) ([]*Link, error)
}

// SessionFilter narrows ListSessions. Zero values mean no bound.
type SessionFilter struct {
	UserID     uuid.UUID
	ActivityID uuid.UUID
	From       time.Time
	To         time.Time
	Limit      int
}

// ActivityTotals aggregates the sessions of one activity.
type ActivityTotals struct {
	ActivityID uuid.UUID
	Sessions   int
	Minutes    int
}

type SessionRepository interface {
	Save(ctx context.Context, session *Session) error
	FindByID(ctx context.Context, id uuid.UUID) (*Session, error)
	// List returns sessions newest first.
	List(ctx context.Context, filter SessionFilter) ([]*Session, error)
	TotalsByActivity(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]ActivityTotals, error)
}

// ContributionTotal is the ledger summed per (habit, activity) pair.
type ContributionTotal struct {
	HabitID    uuid.UUID
	ActivityID uuid.UUID
	Sessions   int
	Minutes    float64
}

// ContributionRepository is the append-only contribution ledger.
type ContributionRepository interface {
	SaveBatch(ctx context.Context, contributions []Contribution) error
	// FindByHabit returns the full ledger of a habit, oldest first.
	FindByHabit(ctx context.Context, habitID uuid.UUID) ([]Contribution, error)
	// SessionDatesForHabit returns the date of every contributing session.
	SessionDatesForHabit(ctx context.Context, habitID uuid.UUID) ([]time.Time, error)
	// MinutesBetween sums contributed minutes per habit with from <= date <= to.
	MinutesBetween(ctx context.Context, habitIDs []uuid.UUID, from, to time.Time) (map[uuid.UUID]float64, error)
	TotalsByHabit(ctx context.Context, habitIDs []uuid.UUID) ([]ContributionTotal, error)
}
