package domain

import (
	"time"

	sharedDomain "github.com/felixgeelhaar/cadence/internal/shared/domain"
	"github.com/google/uuid"
)

const (
	habitAggregate    = "Habit"
	activityAggregate = "Activity"
	sessionAggregate  = "Session"
)

// Routing keys.
const (
	RoutingHabitCreated      = "habits.habit.created"
	RoutingHabitUpdated      = "habits.habit.updated"
	RoutingHabitDeactivated  = "habits.habit.deactivated"
	RoutingHabitReactivated  = "habits.habit.reactivated"
	RoutingActivityCreated   = "habits.activity.created"
	RoutingActivityUpdated   = "habits.activity.updated"
	RoutingActivityDeleted   = "habits.activity.deleted"
	RoutingLinkUpserted      = "habits.link.upserted"
	RoutingLinkRemoved       = "habits.link.removed"
	RoutingSessionRegistered = "habits.session.registered"
	RoutingMetricsUpdated    = "habits.metrics.updated"
)

type HabitCreated struct {
	sharedDomain.BaseEvent
	HabitID              uuid.UUID `json:"habit_id"`
	UserID               uuid.UUID `json:"user_id"`
	Name                 string    `json:"name"`
	TargetMinutesPerWeek int       `json:"target_minutes_per_week"`
	MaxMinutesPerWeek    int       `json:"max_minutes_per_week"`
	TotalHoursGoal       int       `json:"total_hours_goal"`
}

func NewHabitCreated(h *Habit) *HabitCreated {
	return &HabitCreated{
		BaseEvent:            sharedDomain.NewBaseEvent(h.ID(), habitAggregate, RoutingHabitCreated),
		HabitID:              h.ID(),
		UserID:               h.UserID(),
		Name:                 h.Name(),
		TargetMinutesPerWeek: h.TargetMinutesPerWeek(),
		MaxMinutesPerWeek:    h.MaxMinutesPerWeek(),
		TotalHoursGoal:       h.TotalHoursGoal(),
	}
}

// HabitUpdated carries the new targets. GoalChanged tells consumers that
// the completion percentage was recomputed.
type HabitUpdated struct {
	sharedDomain.BaseEvent
	HabitID              uuid.UUID `json:"habit_id"`
	UserID               uuid.UUID `json:"user_id"`
	Name                 string    `json:"name"`
	TargetMinutesPerWeek int       `json:"target_minutes_per_week"`
	MaxMinutesPerWeek    int       `json:"max_minutes_per_week"`
	TotalHoursGoal       int       `json:"total_hours_goal"`
	GoalChanged          bool      `json:"goal_changed"`
}

func NewHabitUpdated(h *Habit, goalChanged bool) *HabitUpdated {
	return &HabitUpdated{
		BaseEvent:            sharedDomain.NewBaseEvent(h.ID(), habitAggregate, RoutingHabitUpdated),
		HabitID:              h.ID(),
		UserID:               h.UserID(),
		Name:                 h.Name(),
		TargetMinutesPerWeek: h.TargetMinutesPerWeek(),
		MaxMinutesPerWeek:    h.MaxMinutesPerWeek(),
		TotalHoursGoal:       h.TotalHoursGoal(),
		GoalChanged:          goalChanged,
	}
}

// HabitStatusChanged is emitted on deactivation and reactivation.
type HabitStatusChanged struct {
	sharedDomain.BaseEvent
	HabitID  uuid.UUID `json:"habit_id"`
	UserID   uuid.UUID `json:"user_id"`
	IsActive bool      `json:"is_active"`
}

func NewHabitDeactivated(h *Habit) *HabitStatusChanged {
	return &HabitStatusChanged{
		BaseEvent: sharedDomain.NewBaseEvent(h.ID(), habitAggregate, RoutingHabitDeactivated),
		HabitID:   h.ID(),
		UserID:    h.UserID(),
		IsActive:  false,
	}
}

func NewHabitReactivated(h *Habit) *HabitStatusChanged {
	return &HabitStatusChanged{
		BaseEvent: sharedDomain.NewBaseEvent(h.ID(), habitAggregate, RoutingHabitReactivated),
		HabitID:   h.ID(),
		UserID:    h.UserID(),
		IsActive:  true,
	}
}

type ActivityChanged struct {
	sharedDomain.BaseEvent
	ActivityID uuid.UUID `json:"activity_id"`
	UserID     uuid.UUID `json:"user_id"`
	Name       string    `json:"name"`
}

func newActivityEvent(a *Activity, routingKey string) *ActivityChanged {
	return &ActivityChanged{
		BaseEvent:  sharedDomain.NewBaseEvent(a.ID(), activityAggregate, routingKey),
		ActivityID: a.ID(),
		UserID:     a.UserID(),
		Name:       a.Name(),
	}
}

func NewActivityCreated(a *Activity) *ActivityChanged {
	return newActivityEvent(a, RoutingActivityCreated)
}

func NewActivityUpdated(a *Activity) *ActivityChanged {
	return newActivityEvent(a, RoutingActivityUpdated)
}

func NewActivityDeleted(a *Activity) *ActivityChanged {
	return newActivityEvent(a, RoutingActivityDeleted)
}

// LinkChanged belongs to the activity aggregate. Weight is the new weight on
// upsert and the last weight on removal.
type LinkChanged struct {
	sharedDomain.BaseEvent
	HabitID    uuid.UUID `json:"habit_id"`
	ActivityID uuid.UUID `json:"activity_id"`
	Weight     float64   `json:"weight"`
	Created    bool      `json:"created,omitempty"`
}

func NewLinkUpserted(l *Link, created bool) *LinkChanged {
	return &LinkChanged{
		BaseEvent:  sharedDomain.NewBaseEvent(l.ActivityID(), activityAggregate, RoutingLinkUpserted),
		HabitID:    l.HabitID(),
		ActivityID: l.ActivityID(),
		Weight:     l.Weight(),
		Created:    created,
	}
}

func NewLinkRemoved(l *Link) *LinkChanged {
	return &LinkChanged{
		BaseEvent:  sharedDomain.NewBaseEvent(l.ActivityID(), activityAggregate, RoutingLinkRemoved),
		HabitID:    l.HabitID(),
		ActivityID: l.ActivityID(),
		Weight:     l.Weight(),
	}
}

type ContributionPayload struct {
	HabitID uuid.UUID `json:"habit_id"`
	Weight  float64   `json:"weight"`
	Minutes float64   `json:"minutes"`
}

type SessionRegistered struct {
	sharedDomain.BaseEvent
	SessionID       uuid.UUID             `json:"session_id"`
	UserID          uuid.UUID             `json:"user_id"`
	ActivityID      uuid.UUID             `json:"activity_id"`
	DurationMinutes int                   `json:"duration_minutes"`
	SessionDate     string                `json:"session_date"`
	Contributions   []ContributionPayload `json:"contributions"`
}

func NewSessionRegistered(s *Session, contributions []Contribution) *SessionRegistered {
	payload := make([]ContributionPayload, 0, len(contributions))
	for _, c := range contributions {
		payload = append(payload, ContributionPayload{HabitID: c.HabitID, Weight: c.Weight, Minutes: c.Minutes})
	}
	return &SessionRegistered{
		BaseEvent:       sharedDomain.NewBaseEvent(s.ID(), sessionAggregate, RoutingSessionRegistered),
		SessionID:       s.ID(),
		UserID:          s.UserID(),
		ActivityID:      s.ActivityID(),
		DurationMinutes: s.DurationMinutes(),
		SessionDate:     s.SessionDate().Format(time.DateOnly),
		Contributions:   payload,
	}
}

// MetricsUpdated is published after any change to a habit's metrics. The
// worker uses it to invalidate cached snapshots.
type MetricsUpdated struct {
	sharedDomain.BaseEvent
	HabitID              uuid.UUID `json:"habit_id"`
	TotalMinutesInvested float64   `json:"total_minutes_invested"`
	TotalSessions        int       `json:"total_sessions"`
	CurrentStreak        int       `json:"current_streak"`
	LongestStreak        int       `json:"longest_streak"`
	CompletionPercentage float64   `json:"completion_percentage"`
	Recomputed           bool      `json:"recomputed,omitempty"`
}

func NewMetricsUpdated(m *HabitMetrics, recomputed bool) *MetricsUpdated {
	return &MetricsUpdated{
		BaseEvent:            sharedDomain.NewBaseEvent(m.HabitID, habitAggregate, RoutingMetricsUpdated),
		HabitID:              m.HabitID,
		TotalMinutesInvested: m.TotalMinutesInvested,
		TotalSessions:        m.TotalSessions,
		CurrentStreak:        m.CurrentStreak,
		LongestStreak:        m.LongestStreak,
		CompletionPercentage: m.CompletionPercentage,
		Recomputed:           recomputed,
	}
}
