package cli

import (
	"github.com/felixgeelhaar/cadence/internal/app"
	habitCommands "github.com/felixgeelhaar/cadence/internal/habits/application/commands"
	habitQueries "github.com/felixgeelhaar/cadence/internal/habits/application/queries"
	"github.com/google/uuid"
)

// App holds the CLI application dependencies.
type App struct {
	// Habit Command Handlers
	CreateHabitHandler       *habitCommands.CreateHabitHandler
	UpdateHabitHandler       *habitCommands.UpdateHabitHandler
	ChangeHabitStatusHandler *habitCommands.ChangeHabitStatusHandler
	RecomputeMetricsHandler  *habitCommands.RecomputeMetricsHandler

	// Activity Command Handlers
	CreateActivityHandler *habitCommands.CreateActivityHandler
	UpdateActivityHandler *habitCommands.UpdateActivityHandler
	DeleteActivityHandler *habitCommands.DeleteActivityHandler
	LinkActivityHandler   *habitCommands.LinkActivityHandler
	UnlinkActivityHandler *habitCommands.UnlinkActivityHandler

	// Session Command Handlers
	RegisterSessionHandler *habitCommands.RegisterSessionHandler

	// Query Handlers
	ListHabitsHandler            *habitQueries.ListHabitsHandler
	GetHabitProgressHandler      *habitQueries.GetHabitProgressHandler
	WeeklySummaryHandler         *habitQueries.WeeklySummaryHandler
	ListActivitiesHandler        *habitQueries.ListActivitiesHandler
	ListActivityLinksHandler     *habitQueries.ListActivityLinksHandler
	ActivityMatrixHandler        *habitQueries.ActivityMatrixHandler
	ContributionBreakdownHandler *habitQueries.ContributionBreakdownHandler
	ListSessionsHandler          *habitQueries.ListSessionsHandler
	SessionTrendHandler          *habitQueries.SessionTrendHandler

	// Container backs the serve and migrate commands.
	Container *app.Container

	// Current user (configured per environment)
	CurrentUserID uuid.UUID
}

// NewApp creates a new CLI application backed by the container's handlers.
func NewApp(c *app.Container, currentUser uuid.UUID) *App {
	return &App{
		CreateHabitHandler:           c.CreateHabitHandler,
		UpdateHabitHandler:           c.UpdateHabitHandler,
		ChangeHabitStatusHandler:     c.ChangeHabitStatusHandler,
		RecomputeMetricsHandler:      c.RecomputeMetricsHandler,
		CreateActivityHandler:        c.CreateActivityHandler,
		UpdateActivityHandler:        c.UpdateActivityHandler,
		DeleteActivityHandler:        c.DeleteActivityHandler,
		LinkActivityHandler:          c.LinkActivityHandler,
		UnlinkActivityHandler:        c.UnlinkActivityHandler,
		RegisterSessionHandler:       c.RegisterSessionHandler,
		ListHabitsHandler:            c.ListHabitsHandler,
		GetHabitProgressHandler:      c.GetHabitProgressHandler,
		WeeklySummaryHandler:         c.WeeklySummaryHandler,
		ListActivitiesHandler:        c.ListActivitiesHandler,
		ListActivityLinksHandler:     c.ListActivityLinksHandler,
		ActivityMatrixHandler:        c.ActivityMatrixHandler,
		ContributionBreakdownHandler: c.ContributionBreakdownHandler,
		ListSessionsHandler:          c.ListSessionsHandler,
		SessionTrendHandler:          c.SessionTrendHandler,
		Container:                    c,
		CurrentUserID:                currentUser,
	}
}

// cliApp is the global CLI application instance.
var cliApp *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	cliApp = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return cliApp
}
