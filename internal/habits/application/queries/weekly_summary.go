package queries

import (
	"context"
	"time"

	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	"github.com/google/uuid"
)

type WeeklySummaryQuery struct {
	UserID    uuid.UUID
	Reference time.Time
}

// WeeklyHabitDTO is one habit's line in the weekly summary. OverMax flags
// weeks above the habit's maximum.
type WeeklyHabitDTO struct {
	HabitID    uuid.UUID         `json:"habit_id"`
	Name       string            `json:"name"`
	Minutes    float64           `json:"minutes"`
	Formatted  string            `json:"formatted"`
	Target     int               `json:"target_minutes_per_week"`
	Max        int               `json:"max_minutes_per_week"`
	Compliance domain.Compliance `json:"compliance"`
	OverMax    bool              `json:"over_max"`
}

type WeeklySummaryDTO struct {
	WeekStart    string           `json:"week_start"`
	WeekEnd      string           `json:"week_end"`
	TotalMinutes float64          `json:"total_minutes"`
	Habits       []WeeklyHabitDTO `json:"habits"`
}

// WeeklySummaryHandler reports this week's minutes against every active habit.
type WeeklySummaryHandler struct {
	habitRepo        domain.HabitRepository
	contributionRepo domain.ContributionRepository
}

func NewWeeklySummaryHandler(habitRepo domain.HabitRepository, contributionRepo domain.ContributionRepository) *WeeklySummaryHandler {
	return &WeeklySummaryHandler{habitRepo: habitRepo, contributionRepo: contributionRepo}
}

func (h *WeeklySummaryHandler) Handle(ctx context.Context, query WeeklySummaryQuery) (*WeeklySummaryDTO, error) {
	start, end := domain.WeekBounds(referenceOrNow(query.Reference))
	summary := &WeeklySummaryDTO{
		WeekStart: start.Format(time.DateOnly),
		WeekEnd:   end.Format(time.DateOnly),
		Habits:    []WeeklyHabitDTO{},
	}

	habits, err := h.habitRepo.FindByUserID(ctx, query.UserID, false)
	if err != nil {
		return nil, err
	}
	if len(habits) == 0 {
		return summary, nil
	}

	minutes, err := h.contributionRepo.MinutesBetween(ctx, habitIDs(habits), start, end)
	if err != nil {
		return nil, err
	}

	for _, habit := range habits {
		m := minutes[habit.ID()]
		summary.TotalMinutes += m
		summary.Habits = append(summary.Habits, WeeklyHabitDTO{
			HabitID:    habit.ID(),
			Name:       habit.Name(),
			Minutes:    m,
			Formatted:  domain.FormatDuration(m),
			Target:     habit.TargetMinutesPerWeek(),
			Max:        habit.MaxMinutesPerWeek(),
			Compliance: domain.WeeklyCompliance(m, habit.TargetMinutesPerWeek()),
			OverMax:    m > float64(habit.MaxMinutesPerWeek()),
		})
	}
	return summary, nil
}
