package domain

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func TestNewHabit(t *testing.T) {
	userID := uuid.New()
	habit, err := NewHabit(userID, "  Learn Go ", "deep work", DefaultTargets())

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, habit.ID())
	assert.Equal(t, userID, habit.UserID())
	assert.Equal(t, "Learn Go", habit.Name())
	assert.Equal(t, 420, habit.TargetMinutesPerWeek())
	assert.Equal(t, 900, habit.MaxMinutesPerWeek())
	assert.Equal(t, 100, habit.TotalHoursGoal())
	assert.True(t, habit.IsActive())

	events := habit.DomainEvents()
	require.Len(t, events, 1)
	created, ok := events[0].(*HabitCreated)
	require.True(t, ok)
	assert.Equal(t, habit.ID(), created.HabitID)
	assert.Equal(t, RoutingHabitCreated, created.RoutingKey())
}

func TestNewHabit_Validation(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name    string
		habit   string
		targets Targets
		want    error
	}{
		{"empty name", "  ", DefaultTargets(), ErrHabitEmptyName},
		{"max below target", "Run", Targets{TargetMinutesPerWeek: 300, MaxMinutesPerWeek: 200, TotalHoursGoal: 10}, ErrInvalidWeeklyTarget},
		{"negative target", "Run", Targets{TargetMinutesPerWeek: -1, MaxMinutesPerWeek: 200, TotalHoursGoal: 10}, ErrInvalidWeeklyTarget},
		{"zero goal", "Run", Targets{TargetMinutesPerWeek: 0, MaxMinutesPerWeek: 0, TotalHoursGoal: 0}, ErrInvalidGoal},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewHabit(userID, tc.habit, "", tc.targets)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	t.Run("max equal to target is allowed", func(t *testing.T) {
		_, err := NewHabit(userID, "Run", "", Targets{TargetMinutesPerWeek: 200, MaxMinutesPerWeek: 200, TotalHoursGoal: 10})
		assert.NoError(t, err)
	})
}

func TestHabit_Update(t *testing.T) {
	habit, _ := NewHabit(uuid.New(), "Fitness", "", DefaultTargets())
	habit.ClearDomainEvents()

	t.Run("applies changes and emits one event", func(t *testing.T) {
		err := habit.Update(HabitChanges{Name: strPtr("Strength"), TotalHoursGoal: intPtr(200)})

		require.NoError(t, err)
		assert.Equal(t, "Strength", habit.Name())
		assert.Equal(t, 200, habit.TotalHoursGoal())
		require.Len(t, habit.DomainEvents(), 1)
		updated := habit.DomainEvents()[0].(*HabitUpdated)
		assert.True(t, updated.GoalChanged)
		habit.ClearDomainEvents()
	})

	t.Run("invalid change leaves habit untouched", func(t *testing.T) {
		err := habit.Update(HabitChanges{Name: strPtr("Other"), MaxMinutesPerWeek: intPtr(10)})

		assert.ErrorIs(t, err, ErrInvalidWeeklyTarget)
		assert.Equal(t, "Strength", habit.Name())
		assert.Empty(t, habit.DomainEvents())
	})

	t.Run("no-op update emits nothing", func(t *testing.T) {
		require.NoError(t, habit.Update(HabitChanges{Name: strPtr("Strength")}))
		assert.Empty(t, habit.DomainEvents())
	})

	t.Run("inactive habit cannot be updated", func(t *testing.T) {
		habit.Deactivate()
		assert.ErrorIs(t, habit.Update(HabitChanges{Name: strPtr("x")}), ErrHabitInactive)
	})
}

func TestHabit_DeactivateReactivate(t *testing.T) {
	habit, _ := NewHabit(uuid.New(), "Reading", "", DefaultTargets())
	habit.ClearDomainEvents()

	habit.Deactivate()
	habit.Deactivate()
	assert.False(t, habit.IsActive())
	require.Len(t, habit.DomainEvents(), 1)
	assert.Equal(t, RoutingHabitDeactivated, habit.DomainEvents()[0].RoutingKey())

	habit.Reactivate()
	assert.True(t, habit.IsActive())
	require.Len(t, habit.DomainEvents(), 2)
	assert.Equal(t, RoutingHabitReactivated, habit.DomainEvents()[1].RoutingKey())
}

func TestHabit_OwnedBy(t *testing.T) {
	owner := uuid.New()
	habit, _ := NewHabit(owner, "Reading", "", DefaultTargets())

	assert.NoError(t, habit.OwnedBy(owner))
	assert.ErrorIs(t, habit.OwnedBy(uuid.New()), ErrNotOwner)
}

func TestActivity(t *testing.T) {
	userID := uuid.New()

	_, err := NewActivity(userID, " ", "")
	assert.ErrorIs(t, err, ErrActivityEmptyName)

	activity, err := NewActivity(userID, "Read paper", "")
	require.NoError(t, err)
	activity.ClearDomainEvents()

	require.NoError(t, activity.Update(strPtr("Read a paper"), nil))
	assert.Equal(t, "Read a paper", activity.Name())
	assert.ErrorIs(t, activity.Update(strPtr(""), nil), ErrActivityEmptyName)

	activity.MarkDeleted()
	events := activity.DomainEvents()
	require.Len(t, events, 2)
	assert.Equal(t, RoutingActivityDeleted, events[1].RoutingKey())
}

func TestErrors_WrapNotFound(t *testing.T) {
	for _, err := range []error{ErrHabitNotFound, ErrActivityNotFound, ErrLinkNotFound, ErrSessionNotFound, ErrMetricsNotFound} {
		assert.ErrorIs(t, err, ErrNotFound)
	}
}

func TestIsValidation(t *testing.T) {
	assert.True(t, IsValidation(ErrInvalidWeight))
	assert.True(t, IsValidation(fmt.Errorf("link to habit x: %w", ErrInvalidWeight)))
	assert.True(t, IsValidation(ErrFutureSession))
	assert.False(t, IsValidation(ErrHabitNotFound))
	assert.False(t, IsValidation(ErrHabitInactive))
	assert.False(t, IsValidation(nil))
}
