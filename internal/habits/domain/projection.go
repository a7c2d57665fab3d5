package domain

import (
	"math"
	"time"
)

// Projection estimates when the hours goal is reached at a steady pace.
// Computable is false when the pace is zero or negative.
type Projection struct {
	Computable     bool      `json:"computable"`
	WeeksRemaining float64   `json:"weeks_remaining"`
	EstimatedDate  time.Time `json:"estimated_date"`
}

// WholeWeeks truncates WeeksRemaining for display.
func (p Projection) WholeWeeks() int {
	return int(p.WeeksRemaining)
}

// ProjectGoal computes weeks = max(0, (goal*60 - current) / pace) and the
// calendar date floor(weeks*7) days after today. Display only.
func ProjectGoal(currentMinutes float64, goalHours int, minutesPerWeek float64, today time.Time) Projection {
	if minutesPerWeek <= 0 || math.IsNaN(minutesPerWeek) {
		return Projection{}
	}

	remaining := float64(goalHours*60) - currentMinutes
	weeks := math.Max(0, remaining/minutesPerWeek)
	days := int(math.Floor(weeks * 7))

	return Projection{
		Computable:     true,
		WeeksRemaining: weeks,
		EstimatedDate:  CalendarDate(today).AddDate(0, 0, days),
	}
}
