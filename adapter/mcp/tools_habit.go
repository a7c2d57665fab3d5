package mcp

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/cadence/internal/habits/application/commands"
	"github.com/felixgeelhaar/cadence/internal/habits/application/queries"
	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	"github.com/felixgeelhaar/mcp-go"
)

type habitCreateInput struct {
	Name                 string `json:"name" jsonschema:"required"`
	Description          string `json:"description,omitempty"`
	TargetMinutesPerWeek *int   `json:"target_minutes_per_week,omitempty"`
	MaxMinutesPerWeek    *int   `json:"max_minutes_per_week,omitempty"`
	TotalHoursGoal       *int   `json:"total_hours_goal,omitempty"`
}

type habitCreateOutput struct {
	HabitID              string `json:"habit_id"`
	TargetMinutesPerWeek int    `json:"target_minutes_per_week"`
	MaxMinutesPerWeek    int    `json:"max_minutes_per_week"`
	TotalHoursGoal       int    `json:"total_hours_goal"`
}

type habitListInput struct {
	IncludeInactive bool `json:"include_inactive,omitempty"`
}

type habitProgressInput struct {
	HabitID string `json:"habit_id" jsonschema:"required"`
	Date    string `json:"date,omitempty"`
}

type habitUpdateInput struct {
	HabitID              string  `json:"habit_id" jsonschema:"required"`
	Name                 *string `json:"name,omitempty"`
	Description          *string `json:"description,omitempty"`
	TargetMinutesPerWeek *int    `json:"target_minutes_per_week,omitempty"`
	MaxMinutesPerWeek    *int    `json:"max_minutes_per_week,omitempty"`
	TotalHoursGoal       *int    `json:"total_hours_goal,omitempty"`
}

type habitStatusInput struct {
	HabitID string `json:"habit_id" jsonschema:"required"`
	Active  bool   `json:"active"`
}

type habitRecomputeInput struct {
	HabitID string `json:"habit_id,omitempty"`
}

type habitMetricsOutput struct {
	HabitID string `json:"habit_id"`
	*queries.MetricsDTO
}

func registerHabitTools(srv *mcp.Server, t *toolset) {
	srv.Tool("habit.create").
		Description("Create a habit. Unset targets default to 420 min/week, a 900 min/week ceiling and a 100 hour goal").
		Handler(t.createHabit)

	srv.Tool("habit.list").
		Description("List habits with invested time, streaks and goal completion").
		Handler(t.listHabits)

	srv.Tool("habit.progress").
		Description("Show a habit's metrics, weekly compliance, goal projection and feeding activities").
		Handler(t.habitProgress)

	srv.Tool("habit.update").
		Description("Update a habit's name, description or targets").
		Handler(t.updateHabit)

	srv.Tool("habit.set_active").
		Description("Deactivate or reactivate a habit").
		Handler(t.setHabitActive)

	srv.Tool("habit.recompute").
		Description("Rebuild metrics from the contribution ledger; omit habit_id to rebuild all habits").
		Handler(t.recomputeHabits)
}

func (t *toolset) createHabit(ctx context.Context, input habitCreateInput) (*habitCreateOutput, error) {
	if input.Name == "" {
		return nil, errors.New("name is required")
	}
	result, err := t.app.CreateHabitHandler.Handle(ctx, commands.CreateHabitCommand{
		UserID:               t.app.CurrentUserID,
		Name:                 input.Name,
		Description:          input.Description,
		TargetMinutesPerWeek: input.TargetMinutesPerWeek,
		MaxMinutesPerWeek:    input.MaxMinutesPerWeek,
		TotalHoursGoal:       input.TotalHoursGoal,
	})
	if err != nil {
		return nil, err
	}
	return &habitCreateOutput{
		HabitID:              result.HabitID.String(),
		TargetMinutesPerWeek: result.Targets.TargetMinutesPerWeek,
		MaxMinutesPerWeek:    result.Targets.MaxMinutesPerWeek,
		TotalHoursGoal:       result.Targets.TotalHoursGoal,
	}, nil
}

func (t *toolset) listHabits(ctx context.Context, input habitListInput) ([]queries.HabitDTO, error) {
	return t.app.ListHabitsHandler.Handle(ctx, queries.ListHabitsQuery{
		UserID:          t.app.CurrentUserID,
		IncludeInactive: input.IncludeInactive,
	})
}

func (t *toolset) habitProgress(ctx context.Context, input habitProgressInput) (*queries.HabitProgressDTO, error) {
	habitID, err := parseUUID(input.HabitID)
	if err != nil {
		return nil, err
	}
	reference, err := parseDate(input.Date)
	if err != nil {
		return nil, err
	}
	return t.app.GetHabitProgressHandler.Handle(ctx, queries.GetHabitProgressQuery{
		HabitID:   habitID,
		UserID:    t.app.CurrentUserID,
		Reference: reference,
	})
}

func (t *toolset) updateHabit(ctx context.Context, input habitUpdateInput) (*commands.UpdateHabitResult, error) {
	habitID, err := parseUUID(input.HabitID)
	if err != nil {
		return nil, err
	}
	return t.app.UpdateHabitHandler.Handle(ctx, commands.UpdateHabitCommand{
		HabitID:              habitID,
		UserID:               t.app.CurrentUserID,
		Name:                 input.Name,
		Description:          input.Description,
		TargetMinutesPerWeek: input.TargetMinutesPerWeek,
		MaxMinutesPerWeek:    input.MaxMinutesPerWeek,
		TotalHoursGoal:       input.TotalHoursGoal,
	})
}

func (t *toolset) setHabitActive(ctx context.Context, input habitStatusInput) (map[string]any, error) {
	habitID, err := parseUUID(input.HabitID)
	if err != nil {
		return nil, err
	}
	if err := t.app.ChangeHabitStatusHandler.Handle(ctx, commands.ChangeHabitStatusCommand{
		HabitID: habitID,
		UserID:  t.app.CurrentUserID,
		Active:  input.Active,
	}); err != nil {
		return nil, err
	}
	return map[string]any{"habit_id": habitID, "active": input.Active}, nil
}

func (t *toolset) recomputeHabits(ctx context.Context, input habitRecomputeInput) ([]habitMetricsOutput, error) {
	habitID, err := parseOptionalUUID(input.HabitID)
	if err != nil {
		return nil, err
	}
	result, err := t.app.RecomputeMetricsHandler.Handle(ctx, commands.RecomputeMetricsCommand{
		UserID:  t.app.CurrentUserID,
		HabitID: habitID,
	})
	if err != nil {
		return nil, err
	}
	return presentMetrics(result.Metrics), nil
}

func presentMetrics(metrics []*domain.HabitMetrics) []habitMetricsOutput {
	out := make([]habitMetricsOutput, 0, len(metrics))
	for _, m := range metrics {
		out = append(out, habitMetricsOutput{HabitID: m.HabitID.String(), MetricsDTO: queries.NewMetricsDTO(m)})
	}
	return out
}
