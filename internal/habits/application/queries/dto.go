package queries

import (
	"context"
	"errors"
	"time"

	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	"github.com/google/uuid"
)

// ErrInvalidPeriod is returned for trend periods other than day, week, month or year.
var ErrInvalidPeriod = errors.New("period must be day, week, month or year")

// MetricsReader is the read side of the metrics store. The Redis cache and
// the SQL repository both satisfy it.
type MetricsReader interface {
	Load(ctx context.Context, habitID uuid.UUID) (*domain.HabitMetrics, error)
	LoadMany(ctx context.Context, habitIDs []uuid.UUID) (map[uuid.UUID]*domain.HabitMetrics, error)
}

// HabitDTO is a data transfer object for habits.
type HabitDTO struct {
	ID                   uuid.UUID   `json:"id"`
	Name                 string      `json:"name"`
	Description          string      `json:"description,omitempty"`
	TargetMinutesPerWeek int         `json:"target_minutes_per_week"`
	MaxMinutesPerWeek    int         `json:"max_minutes_per_week"`
	TotalHoursGoal       int         `json:"total_hours_goal"`
	IsActive             bool        `json:"is_active"`
	CreatedAt            time.Time   `json:"created_at"`
	Metrics              *MetricsDTO `json:"metrics,omitempty"`
}

// MetricsDTO is a habit's cumulative metrics.
type MetricsDTO struct {
	TotalMinutesInvested float64 `json:"total_minutes_invested"`
	TotalInvested        string  `json:"total_invested"`
	TotalSessions        int     `json:"total_sessions"`
	CurrentStreak        int     `json:"current_streak"`
	LongestStreak        int     `json:"longest_streak"`
	CompletionPercentage float64 `json:"completion_percentage"`
	LastSessionDate      string  `json:"last_session_date,omitempty"`
}

func toHabitDTO(h *domain.Habit, m *domain.HabitMetrics) HabitDTO {
	dto := HabitDTO{
		ID:                   h.ID(),
		Name:                 h.Name(),
		Description:          h.Description(),
		TargetMinutesPerWeek: h.TargetMinutesPerWeek(),
		MaxMinutesPerWeek:    h.MaxMinutesPerWeek(),
		TotalHoursGoal:       h.TotalHoursGoal(),
		IsActive:             h.IsActive(),
		CreatedAt:            h.CreatedAt(),
	}
	if m != nil {
		dto.Metrics = NewMetricsDTO(m)
	}
	return dto
}

// NewMetricsDTO presents metrics with the lifetime total pre-formatted.
func NewMetricsDTO(m *domain.HabitMetrics) *MetricsDTO {
	dto := &MetricsDTO{
		TotalMinutesInvested: m.TotalMinutesInvested,
		TotalInvested:        domain.FormatDuration(m.TotalMinutesInvested),
		TotalSessions:        m.TotalSessions,
		CurrentStreak:        m.CurrentStreak,
		LongestStreak:        m.LongestStreak,
		CompletionPercentage: m.CompletionPercentage,
	}
	if m.LastSessionDate != nil {
		dto.LastSessionDate = m.LastSessionDate.Format(time.DateOnly)
	}
	return dto
}

type ActivityDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	LinkCount   int       `json:"link_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// LinkDTO is one side of a habit-activity link with the other side's name.
type LinkDTO struct {
	HabitID      uuid.UUID `json:"habit_id"`
	HabitName    string    `json:"habit_name,omitempty"`
	ActivityID   uuid.UUID `json:"activity_id"`
	ActivityName string    `json:"activity_name,omitempty"`
	Weight       float64   `json:"weight"`
}

type SessionDTO struct {
	ID              uuid.UUID  `json:"id"`
	ActivityID      *uuid.UUID `json:"activity_id,omitempty"`
	ActivityName    string     `json:"activity_name"`
	DurationMinutes int        `json:"duration_minutes"`
	SessionDate     string     `json:"session_date"`
	StartTime       *string    `json:"start_time,omitempty"`
	Mood            *int       `json:"mood,omitempty"`
	Productivity    *int       `json:"productivity,omitempty"`
	Notes           string     `json:"notes,omitempty"`
}

func toSessionDTO(s *domain.Session) SessionDTO {
	dto := SessionDTO{
		ID:              s.ID(),
		ActivityName:    s.ActivityName(),
		DurationMinutes: s.DurationMinutes(),
		SessionDate:     s.SessionDate().Format(time.DateOnly),
		StartTime:       s.StartTime(),
		Mood:            s.Mood(),
		Productivity:    s.Productivity(),
		Notes:           s.Notes(),
	}
	if s.HasActivity() {
		id := s.ActivityID()
		dto.ActivityID = &id
	}
	return dto
}

func referenceOrNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now()
	}
	return t
}

func habitIDs(habits []*domain.Habit) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(habits))
	for _, h := range habits {
		ids = append(ids, h.ID())
	}
	return ids
}
