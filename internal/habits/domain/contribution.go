package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Contribution is the share of one session credited to one habit. The link
// weight in effect at registration is stored with it, so replaying the
// ledger reproduces the original minutes even after weights change.
type Contribution struct {
	SessionID   uuid.UUID
	HabitID     uuid.UUID
	ActivityID  uuid.UUID
	SessionDate time.Time
	Weight      float64
	Minutes     float64
}

// Distribute fans a session out over the links of its activity:
// one contribution per link with Minutes = duration * weight, unrounded.
// Links of other activities are ignored. A single invalid weight fails the
// whole distribution so nothing is partially applied.
func Distribute(session *Session, links []*Link) ([]Contribution, error) {
	if session.DurationMinutes() <= 0 {
		return nil, ErrInvalidDuration
	}

	contributions := make([]Contribution, 0, len(links))
	seen := make(map[uuid.UUID]bool, len(links))
	for _, link := range links {
		if link.ActivityID() != session.ActivityID() || seen[link.HabitID()] {
			continue
		}
		if err := ValidateWeight(link.Weight()); err != nil {
			return nil, fmt.Errorf("link to habit %s: %w", link.HabitID(), err)
		}
		seen[link.HabitID()] = true

		contributions = append(contributions, Contribution{
			SessionID:   session.ID(),
			HabitID:     link.HabitID(),
			ActivityID:  session.ActivityID(),
			SessionDate: session.SessionDate(),
			Weight:      link.Weight(),
			Minutes:     float64(session.DurationMinutes()) * link.Weight(),
		})
	}
	return contributions, nil
}

// TotalMinutes sums contributed minutes.
func TotalMinutes(contributions []Contribution) float64 {
	var total float64
	for _, c := range contributions {
		total += c.Minutes
	}
	return total
}
