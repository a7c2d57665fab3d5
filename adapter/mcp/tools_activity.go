package mcp

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/cadence/internal/habits/application/commands"
	"github.com/felixgeelhaar/cadence/internal/habits/application/queries"
	"github.com/felixgeelhaar/mcp-go"
)

type activityCreateInput struct {
	Name        string `json:"name" jsonschema:"required"`
	Description string `json:"description,omitempty"`
}

type activityLinkInput struct {
	ActivityID string   `json:"activity_id" jsonschema:"required"`
	HabitID    string   `json:"habit_id" jsonschema:"required"`
	Weight     *float64 `json:"weight,omitempty"`
}

type activityUnlinkInput struct {
	ActivityID string `json:"activity_id" jsonschema:"required"`
	HabitID    string `json:"habit_id" jsonschema:"required"`
}

type activityLinksInput struct {
	ActivityID string `json:"activity_id" jsonschema:"required"`
}

type activityLinkOutput struct {
	Created bool    `json:"created"`
	Weight  float64 `json:"weight"`
}

func registerActivityTools(srv *mcp.Server, t *toolset) {
	srv.Tool("activity.create").
		Description("Create an activity that sessions can be logged against").
		Handler(t.createActivity)

	srv.Tool("activity.list").
		Description("List activities with their link counts").
		Handler(t.listActivities)

	srv.Tool("activity.link").
		Description("Link an activity to a habit with a weight between 0 and 1 (default 1); relinking updates the weight").
		Handler(t.linkActivity)

	srv.Tool("activity.unlink").
		Description("Remove an activity-habit link; contributions already recorded stay").
		Handler(t.unlinkActivity)

	srv.Tool("activity.links").
		Description("List the habits an activity feeds and their weights").
		Handler(t.activityLinks)
}

func (t *toolset) createActivity(ctx context.Context, input activityCreateInput) (map[string]string, error) {
	if input.Name == "" {
		return nil, errors.New("name is required")
	}
	result, err := t.app.CreateActivityHandler.Handle(ctx, commands.CreateActivityCommand{
		UserID:      t.app.CurrentUserID,
		Name:        input.Name,
		Description: input.Description,
	})
	if err != nil {
		return nil, err
	}
	return map[string]string{"activity_id": result.ActivityID.String()}, nil
}

func (t *toolset) listActivities(ctx context.Context, _ struct{}) ([]queries.ActivityDTO, error) {
	return t.app.ListActivitiesHandler.Handle(ctx, queries.ListActivitiesQuery{UserID: t.app.CurrentUserID})
}

func (t *toolset) linkActivity(ctx context.Context, input activityLinkInput) (*activityLinkOutput, error) {
	activityID, err := parseUUID(input.ActivityID)
	if err != nil {
		return nil, err
	}
	habitID, err := parseUUID(input.HabitID)
	if err != nil {
		return nil, err
	}
	weight := 1.0
	if input.Weight != nil {
		weight = *input.Weight
	}
	result, err := t.app.LinkActivityHandler.Handle(ctx, commands.LinkActivityCommand{
		UserID:     t.app.CurrentUserID,
		HabitID:    habitID,
		ActivityID: activityID,
		Weight:     weight,
	})
	if err != nil {
		return nil, err
	}
	return &activityLinkOutput{Created: result.Created, Weight: result.Weight}, nil
}

func (t *toolset) unlinkActivity(ctx context.Context, input activityUnlinkInput) (map[string]bool, error) {
	activityID, err := parseUUID(input.ActivityID)
	if err != nil {
		return nil, err
	}
	habitID, err := parseUUID(input.HabitID)
	if err != nil {
		return nil, err
	}
	if err := t.app.UnlinkActivityHandler.Handle(ctx, commands.UnlinkActivityCommand{
		UserID:     t.app.CurrentUserID,
		HabitID:    habitID,
		ActivityID: activityID,
	}); err != nil {
		return nil, err
	}
	return map[string]bool{"unlinked": true}, nil
}

func (t *toolset) activityLinks(ctx context.Context, input activityLinksInput) ([]queries.LinkDTO, error) {
	activityID, err := parseUUID(input.ActivityID)
	if err != nil {
		return nil, err
	}
	return t.app.ListActivityLinksHandler.Handle(ctx, queries.ListActivityLinksQuery{
		UserID:     t.app.CurrentUserID,
		ActivityID: activityID,
	})
}
