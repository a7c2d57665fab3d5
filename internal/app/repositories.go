package app

import (
	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	"github.com/felixgeelhaar/cadence/internal/habits/infrastructure/persistence"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/database"
)

// Repositories groups the habit repositories. The SQL implementations serve
// both drivers; the connection's Driver decides placeholders and list binding.
type Repositories struct {
	Habits        domain.HabitRepository
	Metrics       domain.MetricsRepository
	Activities    domain.ActivityRepository
	Links         domain.LinkRepository
	Sessions      domain.SessionRepository
	Contributions domain.ContributionRepository
}

func NewRepositories(conn database.Connection) Repositories {
	return Repositories{
		Habits:        persistence.NewHabitRepository(conn),
		Metrics:       persistence.NewMetricsRepository(conn),
		Activities:    persistence.NewActivityRepository(conn),
		Links:         persistence.NewLinkRepository(conn),
		Sessions:      persistence.NewSessionRepository(conn),
		Contributions: persistence.NewContributionRepository(conn),
	}
}
