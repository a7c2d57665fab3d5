package mcp

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
)

// RegisterPrompts registers MCP prompts for habit tracking workflows.
func RegisterPrompts(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}

	srv.Prompt("weekly_review").
		Description("Review the week's invested time against each habit's weekly target and ceiling.").
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			return userPrompt("Weekly Habit Review", `Let's review my week. Please:

1. Read this week's totals from the cadence://summary/weekly resource
2. Read cadence://activities/matrix to see which activities fed which habits
3. Read cadence://habits/active for streaks and goal completion

Then tell me:
- Which habits met their weekly target and which fell behind
- Whether any habit went over its weekly maximum
- Which activities carried most of the time, and whether their weights still make sense
- Streaks at risk of breaking

Suggest concrete sessions for next week that I can log with session.log.`), nil
		})

	srv.Prompt("log_session").
		Description("Log a session and explain how its minutes were split across habits.").
		Argument("activity", "Name of the activity you worked on", true).
		Argument("minutes", "How long the session lasted", true).
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			activity := args["activity"]
			if activity == "" {
				activity = "[activity name]"
			}
			minutes := args["minutes"]
			if minutes == "" {
				minutes = "[minutes]"
			}
			return userPrompt("Log a Session", fmt.Sprintf(`I spent %s minutes on %s today.

1. Find the activity with activity.list; if it doesn't exist, ask before creating it
2. Log it with session.log
3. Show how the minutes were credited to each linked habit and the updated totals`, minutes, activity)), nil
		})

	srv.Prompt("design_habit").
		Description("Design a new habit with realistic weekly targets and the activities that feed it.").
		Argument("goal", "What you want to build up", true).
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			goal := args["goal"]
			if goal == "" {
				goal = "[describe the habit]"
			}
			return userPrompt("Habit Design", fmt.Sprintf(`Help me set up a habit for: %s

Propose a weekly target, a weekly maximum and a total hours goal. Then list the
activities that should count toward it with a weight for each: 1.0 when all the
time counts, less when only part of it does. Check cadence://activities/matrix for
activities I already track before suggesting new ones.

When I confirm, create it with habit.create and link the activities with activity.link.`, goal)), nil
		})

	return nil
}

func userPrompt(description, text string) *mcp.PromptResult {
	return &mcp.PromptResult{
		Description: description,
		Messages: []mcp.PromptMessage{
			{
				Role: string(mcp.RoleUser),
				Content: mcp.TextContent{
					Type: "text",
					Text: text,
				},
			},
		},
	}
}
