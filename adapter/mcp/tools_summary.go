package mcp

import (
	"context"

	"github.com/felixgeelhaar/cadence/internal/habits/application/queries"
	"github.com/felixgeelhaar/mcp-go"
)

type summaryWeeklyInput struct {
	Date string `json:"date,omitempty"`
}

type summaryContributionsInput struct {
	HabitID string `json:"habit_id,omitempty"`
}

func registerSummaryTools(srv *mcp.Server, t *toolset) {
	srv.Tool("summary.weekly").
		Description("Minutes per active habit for the Monday-Sunday week containing date, with compliance").
		Handler(t.weeklySummary)

	srv.Tool("summary.matrix").
		Description("Which activities feed which habits, with session counts and minutes").
		Handler(t.activityMatrix)

	srv.Tool("summary.contributions").
		Description("Minutes each activity contributed to each habit, optionally for one habit").
		Handler(t.contributions)
}

func (t *toolset) weeklySummary(ctx context.Context, input summaryWeeklyInput) (*queries.WeeklySummaryDTO, error) {
	reference, err := parseDate(input.Date)
	if err != nil {
		return nil, err
	}
	return t.app.WeeklySummaryHandler.Handle(ctx, queries.WeeklySummaryQuery{
		UserID:    t.app.CurrentUserID,
		Reference: reference,
	})
}

func (t *toolset) activityMatrix(ctx context.Context, _ struct{}) ([]queries.ActivityMatrixRow, error) {
	return t.app.ActivityMatrixHandler.Handle(ctx, queries.ActivityMatrixQuery{UserID: t.app.CurrentUserID})
}

func (t *toolset) contributions(ctx context.Context, input summaryContributionsInput) ([]queries.ContributionRow, error) {
	habitID, err := parseOptionalUUID(input.HabitID)
	if err != nil {
		return nil, err
	}
	return t.app.ContributionBreakdownHandler.Handle(ctx, queries.ContributionBreakdownQuery{
		UserID:  t.app.CurrentUserID,
		HabitID: habitID,
	})
}
