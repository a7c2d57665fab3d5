package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// HabitMetrics is the cumulative, derived state of a habit. It is created
// zeroed with the habit and only changed by Apply or RebuildMetrics.
type HabitMetrics struct {
	HabitID              uuid.UUID
	TotalMinutesInvested float64
	TotalSessions        int
	CurrentStreak        int
	LongestStreak        int
	CompletionPercentage float64
	LastSessionDate      *time.Time
	UpdatedAt            time.Time
}

func NewHabitMetrics(habitID uuid.UUID) *HabitMetrics {
	return &HabitMetrics{
		HabitID:   habitID,
		UpdatedAt: time.Now().UTC(),
	}
}

// Apply adds one contribution. sessionDates is the habit's full
// session-date history, including the date of the session being applied.
// Applying the same contribution twice double counts; use RebuildMetrics
// to recover.
func (m *HabitMetrics) Apply(minutes float64, goalHours int, sessionDates []time.Time, reference time.Time) {
	m.TotalMinutesInvested += minutes
	m.TotalSessions++
	m.CompletionPercentage = CompletionPercentage(m.TotalMinutesInvested, goalHours)
	m.CurrentStreak = CurrentStreak(sessionDates, reference)
	m.LongestStreak = max(m.LongestStreak, LongestStreak(sessionDates))
	m.LastSessionDate = latestDate(sessionDates)
	m.UpdatedAt = time.Now().UTC()
}

// Refresh recomputes the goal-dependent percentage, e.g. after the goal changed.
func (m *HabitMetrics) Refresh(goalHours int) {
	m.CompletionPercentage = CompletionPercentage(m.TotalMinutesInvested, goalHours)
	m.UpdatedAt = time.Now().UTC()
}

// RebuildMetrics derives a fresh snapshot from the complete contribution
// ledger of a habit. The result depends only on its inputs, so rebuilding
// twice gives identical metrics.
func RebuildMetrics(habitID uuid.UUID, goalHours int, contributions []Contribution, reference time.Time) *HabitMetrics {
	m := NewHabitMetrics(habitID)

	dates := make([]time.Time, 0, len(contributions))
	for _, c := range contributions {
		m.TotalMinutesInvested += c.Minutes
		m.TotalSessions++
		dates = append(dates, c.SessionDate)
	}

	m.CompletionPercentage = CompletionPercentage(m.TotalMinutesInvested, goalHours)
	m.CurrentStreak = CurrentStreak(dates, reference)
	m.LongestStreak = LongestStreak(dates)
	m.LastSessionDate = latestDate(dates)
	return m
}

// SameTotals compares the derived numbers, ignoring UpdatedAt.
func (m *HabitMetrics) SameTotals(other *HabitMetrics) bool {
	if m == nil || other == nil {
		return m == other
	}
	sameLast := (m.LastSessionDate == nil && other.LastSessionDate == nil) ||
		(m.LastSessionDate != nil && other.LastSessionDate != nil && m.LastSessionDate.Equal(*other.LastSessionDate))
	return m.HabitID == other.HabitID &&
		m.TotalMinutesInvested == other.TotalMinutesInvested &&
		m.TotalSessions == other.TotalSessions &&
		m.CurrentStreak == other.CurrentStreak &&
		m.LongestStreak == other.LongestStreak &&
		m.CompletionPercentage == other.CompletionPercentage &&
		sameLast
}

func latestDate(dates []time.Time) *time.Time {
	if len(dates) == 0 {
		return nil
	}
	sorted := append([]time.Time(nil), dates...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].After(sorted[j]) })
	latest := CalendarDate(sorted[0])
	return &latest
}
