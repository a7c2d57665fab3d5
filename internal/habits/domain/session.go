package domain

import (
	"strings"
	"time"

	sharedDomain "github.com/felixgeelhaar/cadence/internal/shared/domain"
	"github.com/google/uuid"
)

const (
	MinRating = 1
	MaxRating = 5
)

// SessionParams are the user-supplied fields of a session. Nil pointers
// mean the field was not given.
type SessionParams struct {
	UserID          uuid.UUID
	Activity        *Activity
	DurationMinutes int
	SessionDate     *time.Time
	StartTime       *string
	Mood            *int
	Productivity    *int
	Notes           string
}

// Session is one immutable occurrence of an activity. It is the ledger
// contributions and metrics are derived from.
type Session struct {
	sharedDomain.BaseAggregateRoot
	userID          uuid.UUID
	activityID      uuid.UUID
	activityName    string
	durationMinutes int
	sessionDate     time.Time
	startTime       *string
	mood            *int
	productivity    *int
	notes           string
}

// NewSession validates params against now. The session date defaults to
// the calendar date of now and may not be later than it.
func NewSession(params SessionParams, now time.Time) (*Session, error) {
	if params.Activity == nil {
		return nil, ErrActivityNotFound
	}
	if params.DurationMinutes <= 0 {
		return nil, ErrInvalidDuration
	}
	if err := validateRating(params.Mood); err != nil {
		return nil, err
	}
	if err := validateRating(params.Productivity); err != nil {
		return nil, err
	}

	today := CalendarDate(now)
	date := today
	if params.SessionDate != nil {
		date = CalendarDate(*params.SessionDate)
		if date.After(today) {
			return nil, ErrFutureSession
		}
	}

	var startTime *string
	if params.StartTime != nil && strings.TrimSpace(*params.StartTime) != "" {
		parsed, err := time.Parse("15:04", strings.TrimSpace(*params.StartTime))
		if err != nil {
			return nil, ErrInvalidStartTime
		}
		formatted := parsed.Format("15:04")
		startTime = &formatted
	}

	session := &Session{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		userID:            params.UserID,
		activityID:        params.Activity.ID(),
		activityName:      params.Activity.Name(),
		durationMinutes:   params.DurationMinutes,
		sessionDate:       date,
		startTime:         startTime,
		mood:              copyInt(params.Mood),
		productivity:      copyInt(params.Productivity),
		notes:             strings.TrimSpace(params.Notes),
	}
	return session, nil
}

// RehydrateSession recreates a session from persisted state. activityID is
// uuid.Nil once the activity has been deleted.
func RehydrateSession(
	id, userID, activityID uuid.UUID,
	activityName string,
	durationMinutes int,
	sessionDate time.Time,
	startTime *string,
	mood, productivity *int,
	notes string,
	createdAt time.Time,
) *Session {
	entity := sharedDomain.RehydrateBaseEntity(id, createdAt, createdAt)
	return &Session{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(entity),
		userID:            userID,
		activityID:        activityID,
		activityName:      activityName,
		durationMinutes:   durationMinutes,
		sessionDate:       CalendarDate(sessionDate),
		startTime:         startTime,
		mood:              mood,
		productivity:      productivity,
		notes:             notes,
	}
}

func (s *Session) UserID() uuid.UUID      { return s.userID }
func (s *Session) ActivityID() uuid.UUID  { return s.activityID }
func (s *Session) ActivityName() string   { return s.activityName }
func (s *Session) DurationMinutes() int   { return s.durationMinutes }
func (s *Session) SessionDate() time.Time { return s.sessionDate }
func (s *Session) StartTime() *string     { return s.startTime }
func (s *Session) Mood() *int             { return s.mood }
func (s *Session) Productivity() *int     { return s.productivity }
func (s *Session) Notes() string          { return s.notes }

// HasActivity is false for sessions whose activity was deleted.
func (s *Session) HasActivity() bool { return s.activityID != uuid.Nil }

// Registered records the registration event with the contributions it produced.
func (s *Session) Registered(contributions []Contribution) {
	s.AddDomainEvent(NewSessionRegistered(s, contributions))
}

func validateRating(v *int) error {
	if v != nil && (*v < MinRating || *v > MaxRating) {
		return ErrInvalidMoodOrProductivity
	}
	return nil
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
