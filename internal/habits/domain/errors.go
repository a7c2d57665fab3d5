package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is wrapped by every lookup failure in this package.
var ErrNotFound = errors.New("not found")

var (
	ErrHabitNotFound    = fmt.Errorf("habit %w", ErrNotFound)
	ErrActivityNotFound = fmt.Errorf("activity %w", ErrNotFound)
	ErrLinkNotFound     = fmt.Errorf("link %w", ErrNotFound)
	ErrSessionNotFound  = fmt.Errorf("session %w", ErrNotFound)
	ErrMetricsNotFound  = fmt.Errorf("habit metrics %w", ErrNotFound)
)

var (
	ErrInvalidWeight             = errors.New("weight must be between 0 and 1")
	ErrInvalidDuration           = errors.New("duration must be positive")
	ErrInvalidMoodOrProductivity = errors.New("mood and productivity must be between 1 and 5")
	ErrInvalidStartTime          = errors.New("start time must be HH:MM")
	ErrFutureSession             = errors.New("session date cannot be in the future")

	ErrHabitEmptyName      = errors.New("habit name cannot be empty")
	ErrActivityEmptyName   = errors.New("activity name cannot be empty")
	ErrInvalidWeeklyTarget = errors.New("weekly target must be >= 0 and not exceed the weekly maximum")
	ErrInvalidGoal         = errors.New("total hours goal must be positive")
	ErrHabitInactive       = errors.New("habit is inactive")
	ErrNotOwner            = errors.New("resource belongs to another user")
)

var validationErrors = []error{
	ErrInvalidWeight,
	ErrInvalidDuration,
	ErrInvalidMoodOrProductivity,
	ErrInvalidStartTime,
	ErrFutureSession,
	ErrHabitEmptyName,
	ErrActivityEmptyName,
	ErrInvalidWeeklyTarget,
	ErrInvalidGoal,
}

// IsValidation reports whether err stems from rejected caller input.
func IsValidation(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
