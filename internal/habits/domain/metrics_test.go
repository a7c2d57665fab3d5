package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2026, 1, 14, 9, 30, 0, 0, time.UTC)

func daysAgo(n int) time.Time {
	return CalendarDate(today).AddDate(0, 0, -n)
}

func TestCurrentStreak(t *testing.T) {
	tests := []struct {
		name  string
		dates []time.Time
		want  int
	}{
		{"empty history", nil, 0},
		{"today, yesterday and the day before", []time.Time{daysAgo(0), daysAgo(1), daysAgo(2)}, 3},
		{"only yesterday still counts", []time.Time{daysAgo(1)}, 1},
		{"gap after today stops the walk", []time.Time{daysAgo(0), daysAgo(3)}, 1},
		// The walk only starts at today or yesterday, so a lone session three
		// days back is a broken streak of 0, not a streak of 1.
		{"lone session three days back yields zero not one", []time.Time{daysAgo(3)}, 0},
		{"same day collapses", []time.Time{daysAgo(0), daysAgo(0).Add(5 * time.Hour), daysAgo(1)}, 2},
		{"order does not matter", []time.Time{daysAgo(2), daysAgo(0), daysAgo(1)}, 3},
		{"one skipped day is tolerated per step", []time.Time{daysAgo(0), daysAgo(2)}, 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CurrentStreak(tc.dates, today))
		})
	}
}

func TestLongestStreak(t *testing.T) {
	assert.Equal(t, 0, LongestStreak(nil))
	assert.Equal(t, 1, LongestStreak([]time.Time{daysAgo(9)}))
	assert.Equal(t, 3, LongestStreak([]time.Time{daysAgo(10), daysAgo(9), daysAgo(8), daysAgo(5), daysAgo(4), daysAgo(0)}))
	assert.Equal(t, 2, LongestStreak([]time.Time{daysAgo(1), daysAgo(1), daysAgo(2)}))
	assert.Equal(t, 3, LongestStreak([]time.Time{daysAgo(20), daysAgo(18), daysAgo(17), daysAgo(14)}), "one skipped day keeps the run")

	t.Run("never below the current streak", func(t *testing.T) {
		dates := []time.Time{daysAgo(0), daysAgo(2), daysAgo(4), daysAgo(9)}
		assert.Equal(t, 3, CurrentStreak(dates, today))
		assert.Equal(t, 3, LongestStreak(dates))
	})
}

func TestHabitMetrics_Apply(t *testing.T) {
	habitID := uuid.New()
	m := NewHabitMetrics(habitID)

	m.Apply(90, 100, []time.Time{daysAgo(0)}, today)

	assert.Equal(t, 90.0, m.TotalMinutesInvested)
	assert.Equal(t, 1, m.TotalSessions)
	assert.InDelta(t, 1.5, m.CompletionPercentage, 1e-9)
	assert.Equal(t, 1, m.CurrentStreak)
	assert.Equal(t, 1, m.LongestStreak)
	require.NotNil(t, m.LastSessionDate)
	assert.Equal(t, daysAgo(0), *m.LastSessionDate)

	t.Run("zero minute contribution still counts as a session", func(t *testing.T) {
		m.Apply(0, 100, []time.Time{daysAgo(0), daysAgo(1)}, today)
		assert.Equal(t, 2, m.TotalSessions)
		assert.Equal(t, 90.0, m.TotalMinutesInvested)
		assert.Equal(t, 2, m.CurrentStreak)
	})

	t.Run("longest streak never shrinks", func(t *testing.T) {
		m.Apply(10, 100, []time.Time{daysAgo(0), daysAgo(1), daysAgo(10)}, today.AddDate(0, 0, 5))
		assert.Equal(t, 0, m.CurrentStreak)
		assert.Equal(t, 2, m.LongestStreak)
	})

	t.Run("completion is clamped", func(t *testing.T) {
		m.Apply(100000, 1, []time.Time{daysAgo(0)}, today)
		assert.Equal(t, 100.0, m.CompletionPercentage)
	})
}

func TestRebuildMetrics(t *testing.T) {
	habitID := uuid.New()
	ledger := []Contribution{
		{HabitID: habitID, SessionDate: daysAgo(2), Weight: 1, Minutes: 60},
		{HabitID: habitID, SessionDate: daysAgo(1), Weight: 0.5, Minutes: 22.5},
		{HabitID: habitID, SessionDate: daysAgo(0), Weight: 0, Minutes: 0},
	}

	first := RebuildMetrics(habitID, 10, ledger, today)
	second := RebuildMetrics(habitID, 10, ledger, today)

	assert.True(t, first.SameTotals(second))
	assert.Equal(t, 82.5, first.TotalMinutesInvested)
	assert.Equal(t, 3, first.TotalSessions)
	assert.Equal(t, 3, first.CurrentStreak)
	assert.Equal(t, 3, first.LongestStreak)
	assert.InDelta(t, 82.5/600*100, first.CompletionPercentage, 1e-9)

	t.Run("matches incremental application", func(t *testing.T) {
		incremental := NewHabitMetrics(habitID)
		var dates []time.Time
		for _, c := range ledger {
			dates = append(dates, c.SessionDate)
			incremental.Apply(c.Minutes, 10, dates, today)
		}
		assert.True(t, incremental.SameTotals(first))
	})

	t.Run("backdated sessions match incremental application", func(t *testing.T) {
		backdated := []Contribution{
			{HabitID: habitID, SessionDate: daysAgo(10), Weight: 1, Minutes: 30},
			{HabitID: habitID, SessionDate: daysAgo(9), Weight: 1, Minutes: 30},
			{HabitID: habitID, SessionDate: daysAgo(8), Weight: 1, Minutes: 30},
		}
		incremental := NewHabitMetrics(habitID)
		var dates []time.Time
		for _, c := range backdated {
			dates = append(dates, c.SessionDate)
			incremental.Apply(c.Minutes, 10, dates, today)
		}
		rebuilt := RebuildMetrics(habitID, 10, backdated, today)

		assert.Equal(t, 0, rebuilt.CurrentStreak)
		assert.Equal(t, 3, rebuilt.LongestStreak)
		assert.True(t, incremental.SameTotals(rebuilt))
	})

	t.Run("empty ledger is zero", func(t *testing.T) {
		empty := RebuildMetrics(habitID, 10, nil, today)
		assert.True(t, empty.SameTotals(NewHabitMetrics(habitID)))
	})
}

// A 90 minute session on an activity linked at 1.0 and 0.8 adds 90 and 72
// minutes, and 1.5% of a 100 hour goal.
func TestScenario_NinetyMinuteSession(t *testing.T) {
	userID := uuid.New()
	primary, err := NewHabit(userID, "Become a writer", "", Targets{TargetMinutesPerWeek: 420, MaxMinutesPerWeek: 900, TotalHoursGoal: 100})
	require.NoError(t, err)
	secondary, err := NewHabit(userID, "Learn English", "", DefaultTargets())
	require.NoError(t, err)
	activity, err := NewActivity(userID, "Write essay in English", "")
	require.NoError(t, err)

	toPrimary, _ := NewLink(primary.ID(), activity.ID(), 1.0)
	toSecondary, _ := NewLink(secondary.ID(), activity.ID(), 0.8)

	session, err := NewSession(SessionParams{UserID: userID, Activity: activity, DurationMinutes: 90}, today)
	require.NoError(t, err)

	contributions, err := Distribute(session, []*Link{toPrimary, toSecondary})
	require.NoError(t, err)

	metrics := map[uuid.UUID]*HabitMetrics{
		primary.ID():   NewHabitMetrics(primary.ID()),
		secondary.ID(): NewHabitMetrics(secondary.ID()),
	}
	goals := map[uuid.UUID]int{primary.ID(): primary.TotalHoursGoal(), secondary.ID(): secondary.TotalHoursGoal()}
	for _, c := range contributions {
		metrics[c.HabitID].Apply(c.Minutes, goals[c.HabitID], []time.Time{c.SessionDate}, today)
	}

	assert.Equal(t, 90.0, metrics[primary.ID()].TotalMinutesInvested)
	assert.Equal(t, 72.0, metrics[secondary.ID()].TotalMinutesInvested)
	assert.InDelta(t, 1.5, metrics[primary.ID()].CompletionPercentage, 1e-9)
	assert.Equal(t, CompletionJustStarting, CategorizeCompletion(metrics[primary.ID()].CompletionPercentage).Tier)
}
