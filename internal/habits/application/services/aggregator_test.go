package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 1, 14, 20, 0, 0, 0, time.UTC)

func newTestHabit(t *testing.T, goalHours int) *domain.Habit {
	t.Helper()
	habit, err := domain.NewHabit(uuid.New(), "Write", "", domain.Targets{
		TargetMinutesPerWeek: 420,
		MaxMinutesPerWeek:    900,
		TotalHoursGoal:       goalHours,
	})
	require.NoError(t, err)
	return habit
}

func TestMetricsAggregator_Apply(t *testing.T) {
	ctx := context.Background()

	t.Run("adds the contribution and saves", func(t *testing.T) {
		habit := newTestHabit(t, 100)
		habits := new(mockHabitRepo)
		habits.On("FindByID", ctx, habit.ID()).Return(habit, nil)
		metrics := newMemoryMetrics(habit.ID())
		ledger := &memoryLedger{}
		aggregator := NewMetricsAggregator(habits, metrics, ledger, nil).WithClock(func() time.Time { return fixedNow })

		c := domain.Contribution{SessionID: uuid.New(), HabitID: habit.ID(), SessionDate: domain.CalendarDate(fixedNow), Weight: 1, Minutes: 90}
		require.NoError(t, ledger.SaveBatch(ctx, []domain.Contribution{c}))

		got, err := aggregator.Apply(ctx, c)

		require.NoError(t, err)
		assert.Equal(t, 90.0, got.TotalMinutesInvested)
		assert.Equal(t, 1, got.TotalSessions)
		assert.InDelta(t, 1.5, got.CompletionPercentage, 1e-9)
		assert.Equal(t, 1, got.CurrentStreak)
		assert.Equal(t, 1, metrics.saves)
		habits.AssertExpectations(t)
	})

	t.Run("unknown habit is NotFound", func(t *testing.T) {
		habits := new(mockHabitRepo)
		id := uuid.New()
		habits.On("FindByID", ctx, id).Return(nil, domain.ErrHabitNotFound)
		aggregator := NewMetricsAggregator(habits, newMemoryMetrics(), &memoryLedger{}, nil)

		_, err := aggregator.Apply(ctx, domain.Contribution{HabitID: id, Minutes: 5})

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("missing metrics row is NotFound", func(t *testing.T) {
		habit := newTestHabit(t, 10)
		habits := new(mockHabitRepo)
		habits.On("FindByID", ctx, habit.ID()).Return(habit, nil)
		aggregator := NewMetricsAggregator(habits, newMemoryMetrics(), &memoryLedger{}, nil)

		_, err := aggregator.Apply(ctx, domain.Contribution{HabitID: habit.ID(), Minutes: 5})

		assert.ErrorIs(t, err, domain.ErrMetricsNotFound)
	})

	t.Run("ledger failure is returned", func(t *testing.T) {
		habit := newTestHabit(t, 10)
		habits := new(mockHabitRepo)
		habits.On("FindByID", ctx, habit.ID()).Return(habit, nil)
		boom := errors.New("disk full")
		metrics := newMemoryMetrics(habit.ID())
		aggregator := NewMetricsAggregator(habits, metrics, &memoryLedger{err: boom}, nil)

		_, err := aggregator.Apply(ctx, domain.Contribution{HabitID: habit.ID(), Minutes: 5})

		assert.ErrorIs(t, err, boom)
		assert.Zero(t, metrics.saves)
	})
}

func TestMetricsAggregator_Recompute(t *testing.T) {
	ctx := context.Background()
	habit := newTestHabit(t, 10)
	habits := new(mockHabitRepo)
	habits.On("FindByID", ctx, habit.ID()).Return(habit, nil)

	day := domain.CalendarDate(fixedNow)
	ledger := &memoryLedger{rows: []domain.Contribution{
		{HabitID: habit.ID(), SessionDate: day.AddDate(0, 0, -1), Weight: 1, Minutes: 60},
		{HabitID: habit.ID(), SessionDate: day, Weight: 0.5, Minutes: 15},
		{HabitID: uuid.New(), SessionDate: day, Weight: 1, Minutes: 999},
	}}
	metrics := newMemoryMetrics(habit.ID())
	aggregator := NewMetricsAggregator(habits, metrics, ledger, nil).WithClock(func() time.Time { return fixedNow })

	// Drift the stored snapshot as a crash between writes would.
	drifted, _ := metrics.Load(ctx, habit.ID())
	drifted.TotalMinutesInvested = 1234
	drifted.TotalSessions = 40
	require.NoError(t, metrics.Save(ctx, drifted))

	first, err := aggregator.Recompute(ctx, habit.ID())
	require.NoError(t, err)
	second, err := aggregator.Recompute(ctx, habit.ID())
	require.NoError(t, err)

	assert.Equal(t, 75.0, first.TotalMinutesInvested)
	assert.Equal(t, 2, first.TotalSessions)
	assert.Equal(t, 2, first.CurrentStreak)
	assert.InDelta(t, 12.5, first.CompletionPercentage, 1e-9)
	assert.True(t, first.SameTotals(second))

	stored, _ := metrics.Load(ctx, habit.ID())
	assert.True(t, stored.SameTotals(second))
}

func TestMetricsAggregator_Refresh(t *testing.T) {
	ctx := context.Background()
	habit := newTestHabit(t, 10)
	metrics := newMemoryMetrics(habit.ID())
	row, _ := metrics.Load(ctx, habit.ID())
	row.TotalMinutesInvested = 300
	row.CompletionPercentage = 50
	require.NoError(t, metrics.Save(ctx, row))

	newGoal := 20
	require.NoError(t, habit.Update(domain.HabitChanges{TotalHoursGoal: &newGoal}))
	aggregator := NewMetricsAggregator(new(mockHabitRepo), metrics, &memoryLedger{}, nil)

	got, err := aggregator.Refresh(ctx, habit)

	require.NoError(t, err)
	assert.InDelta(t, 25.0, got.CompletionPercentage, 1e-9)
}
