package mcp

import (
	"context"
	"time"

	"github.com/felixgeelhaar/cadence/internal/habits/application/commands"
	"github.com/felixgeelhaar/cadence/internal/habits/application/queries"
	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	"github.com/felixgeelhaar/mcp-go"
)

type sessionLogInput struct {
	ActivityID      string  `json:"activity_id" jsonschema:"required"`
	DurationMinutes int     `json:"duration_minutes" jsonschema:"required"`
	Date            string  `json:"date,omitempty"`
	StartTime       *string `json:"start_time,omitempty"`
	Mood            *int    `json:"mood,omitempty"`
	Productivity    *int    `json:"productivity,omitempty"`
	Notes           string  `json:"notes,omitempty"`
}

type contributionOutput struct {
	HabitID string  `json:"habit_id"`
	Weight  float64 `json:"weight"`
	Minutes float64 `json:"minutes"`
}

type sessionLogOutput struct {
	SessionID     string               `json:"session_id"`
	SessionDate   string               `json:"session_date"`
	Contributions []contributionOutput `json:"contributions"`
	Metrics       []habitMetricsOutput `json:"metrics"`
}

type sessionListInput struct {
	ActivityID string `json:"activity_id,omitempty"`
	From       string `json:"from,omitempty"`
	To         string `json:"to,omitempty"`
	Limit      int    `json:"limit,omitempty"`
}

type sessionTrendInput struct {
	Period string `json:"period,omitempty"`
	From   string `json:"from,omitempty"`
	To     string `json:"to,omitempty"`
}

func registerSessionTools(srv *mcp.Server, t *toolset) {
	srv.Tool("session.log").
		Description("Log minutes spent on an activity; each linked habit is credited duration x weight").
		Handler(t.logSession)

	srv.Tool("session.list").
		Description("List sessions newest first with count, total and average figures").
		Handler(t.listSessions)

	srv.Tool("session.trend").
		Description("Bucket session minutes by day, week, month or year").
		Handler(t.sessionTrend)
}

func (t *toolset) logSession(ctx context.Context, input sessionLogInput) (*sessionLogOutput, error) {
	activityID, err := parseUUID(input.ActivityID)
	if err != nil {
		return nil, err
	}
	sessionDate, err := parseOptionalDate(input.Date)
	if err != nil {
		return nil, err
	}
	result, err := t.app.RegisterSessionHandler.Handle(ctx, commands.RegisterSessionCommand{
		UserID:          t.app.CurrentUserID,
		ActivityID:      activityID,
		DurationMinutes: input.DurationMinutes,
		SessionDate:     sessionDate,
		StartTime:       input.StartTime,
		Mood:            input.Mood,
		Productivity:    input.Productivity,
		Notes:           input.Notes,
	})
	if err != nil {
		return nil, err
	}

	out := &sessionLogOutput{
		SessionID:     result.SessionID.String(),
		SessionDate:   result.SessionDate.Format(time.DateOnly),
		Contributions: make([]contributionOutput, 0, len(result.Contributions)),
	}
	metrics := make([]*domain.HabitMetrics, 0, len(result.Metrics))
	for _, c := range result.Contributions {
		out.Contributions = append(out.Contributions, contributionOutput{
			HabitID: c.HabitID.String(),
			Weight:  c.Weight,
			Minutes: c.Minutes,
		})
		if m, ok := result.Metrics[c.HabitID]; ok {
			metrics = append(metrics, m)
		}
	}
	out.Metrics = presentMetrics(metrics)
	return out, nil
}

func (t *toolset) listSessions(ctx context.Context, input sessionListInput) (*queries.SessionListDTO, error) {
	activityID, err := parseOptionalUUID(input.ActivityID)
	if err != nil {
		return nil, err
	}
	from, err := parseDate(input.From)
	if err != nil {
		return nil, err
	}
	to, err := parseDate(input.To)
	if err != nil {
		return nil, err
	}
	return t.app.ListSessionsHandler.Handle(ctx, queries.ListSessionsQuery{
		UserID:     t.app.CurrentUserID,
		ActivityID: activityID,
		From:       from,
		To:         to,
		Limit:      input.Limit,
	})
}

func (t *toolset) sessionTrend(ctx context.Context, input sessionTrendInput) ([]domain.PeriodTotal, error) {
	period := domain.PeriodWeek
	if input.Period != "" {
		period = domain.Period(input.Period)
	}
	from, err := parseDate(input.From)
	if err != nil {
		return nil, err
	}
	to, err := parseDate(input.To)
	if err != nil {
		return nil, err
	}
	return t.app.SessionTrendHandler.Handle(ctx, queries.SessionTrendQuery{
		UserID: t.app.CurrentUserID,
		Period: period,
		From:   from,
		To:     to,
	})
}
