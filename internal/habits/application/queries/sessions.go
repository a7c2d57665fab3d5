package queries

import (
	"context"
	"time"

	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	"github.com/google/uuid"
)

// ListSessionsQuery filters the session history. Zero values mean no bound.
type ListSessionsQuery struct {
	UserID     uuid.UUID
	ActivityID uuid.UUID
	From       time.Time
	To         time.Time
	Limit      int
}

// SessionStats summarizes the listed sessions. AverageMood is nil when no
// listed session recorded a mood.
type SessionStats struct {
	Count           int      `json:"count"`
	TotalMinutes    int      `json:"total_minutes"`
	AverageDuration float64  `json:"average_duration"`
	AverageMood     *float64 `json:"average_mood,omitempty"`
}

type SessionListDTO struct {
	Sessions []SessionDTO `json:"sessions"`
	Stats    SessionStats `json:"stats"`
}

// ListSessionsHandler returns the session history, newest first.
type ListSessionsHandler struct {
	sessionRepo domain.SessionRepository
}

func NewListSessionsHandler(sessionRepo domain.SessionRepository) *ListSessionsHandler {
	return &ListSessionsHandler{sessionRepo: sessionRepo}
}

func (h *ListSessionsHandler) Handle(ctx context.Context, query ListSessionsQuery) (*SessionListDTO, error) {
	sessions, err := h.sessionRepo.List(ctx, domain.SessionFilter{
		UserID:     query.UserID,
		ActivityID: query.ActivityID,
		From:       query.From,
		To:         query.To,
		Limit:      query.Limit,
	})
	if err != nil {
		return nil, err
	}

	out := &SessionListDTO{Sessions: make([]SessionDTO, 0, len(sessions))}
	moodSum, moodCount := 0, 0
	for _, s := range sessions {
		out.Sessions = append(out.Sessions, toSessionDTO(s))
		out.Stats.TotalMinutes += s.DurationMinutes()
		if mood := s.Mood(); mood != nil {
			moodSum += *mood
			moodCount++
		}
	}
	out.Stats.Count = len(sessions)
	if out.Stats.Count > 0 {
		out.Stats.AverageDuration = float64(out.Stats.TotalMinutes) / float64(out.Stats.Count)
	}
	if moodCount > 0 {
		avg := float64(moodSum) / float64(moodCount)
		out.Stats.AverageMood = &avg
	}
	return out, nil
}

// SessionTrendQuery buckets sessions between From and To by Period.
type SessionTrendQuery struct {
	UserID uuid.UUID
	Period domain.Period
	From   time.Time
	To     time.Time
}

type SessionTrendHandler struct {
	sessionRepo domain.SessionRepository
}

func NewSessionTrendHandler(sessionRepo domain.SessionRepository) *SessionTrendHandler {
	return &SessionTrendHandler{sessionRepo: sessionRepo}
}

func (h *SessionTrendHandler) Handle(ctx context.Context, query SessionTrendQuery) ([]domain.PeriodTotal, error) {
	if !query.Period.IsValid() {
		return nil, ErrInvalidPeriod
	}
	sessions, err := h.sessionRepo.List(ctx, domain.SessionFilter{
		UserID: query.UserID,
		From:   query.From,
		To:     query.To,
	})
	if err != nil {
		return nil, err
	}
	return domain.AggregateByPeriod(sessions, query.Period), nil
}
