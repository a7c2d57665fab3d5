package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/cadence/internal/habits/application/queries"
	"github.com/felixgeelhaar/mcp-go"
)

// RegisterResources registers MCP resources that expose habit data.
func RegisterResources(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}
	if deps.App == nil {
		return fmt.Errorf("app is required")
	}
	app := deps.App

	srv.Resource("cadence://habits").
		Name("Habits").
		Description("All habits for the current user, including inactive ones, with metrics").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			habits, err := app.ListHabitsHandler.Handle(ctx, queries.ListHabitsQuery{
				UserID:          app.CurrentUserID,
				IncludeInactive: true,
			})
			if err != nil {
				return nil, err
			}
			return jsonResource(uri, habits)
		})

	srv.Resource("cadence://habits/active").
		Name("Active habits").
		Description("Habits currently accepting contributions").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			habits, err := app.ListHabitsHandler.Handle(ctx, queries.ListHabitsQuery{UserID: app.CurrentUserID})
			if err != nil {
				return nil, err
			}
			return jsonResource(uri, habits)
		})

	srv.Resource("cadence://summary/weekly").
		Name("This week").
		Description("Minutes per active habit for the current Monday-Sunday week").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			summary, err := app.WeeklySummaryHandler.Handle(ctx, queries.WeeklySummaryQuery{UserID: app.CurrentUserID})
			if err != nil {
				return nil, err
			}
			return jsonResource(uri, summary)
		})

	srv.Resource("cadence://activities/matrix").
		Name("Activity matrix").
		Description("Activities with the habits they feed, session counts and minutes").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			rows, err := app.ActivityMatrixHandler.Handle(ctx, queries.ActivityMatrixQuery{UserID: app.CurrentUserID})
			if err != nil {
				return nil, err
			}
			return jsonResource(uri, rows)
		})

	return nil
}

func jsonResource(uri string, v any) (*mcp.ResourceContent, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return &mcp.ResourceContent{
		URI:      uri,
		MimeType: "application/json",
		Text:     string(data),
	}, nil
}
