package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	"github.com/google/uuid"
)

// MetricsAggregator keeps HabitMetrics in step with the contribution ledger.
// Apply is the incremental path used while registering a session; Recompute
// replays the ledger and replaces the stored snapshot.
type MetricsAggregator struct {
	habits        domain.HabitRepository
	metrics       domain.MetricsRepository
	contributions domain.ContributionRepository
	now           func() time.Time
	logger        *slog.Logger
}

func NewMetricsAggregator(
	habits domain.HabitRepository,
	metrics domain.MetricsRepository,
	contributions domain.ContributionRepository,
	logger *slog.Logger,
) *MetricsAggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &MetricsAggregator{
		habits:        habits,
		metrics:       metrics,
		contributions: contributions,
		now:           time.Now,
		logger:        logger,
	}
}

// WithClock replaces the reference time used for streaks.
func (a *MetricsAggregator) WithClock(now func() time.Time) *MetricsAggregator {
	a.now = now
	return a
}

// Apply adds one contribution to its habit's metrics. The contribution must
// already be stored so the session-date history includes it. Callers run
// Apply exactly once per contribution, inside the transaction that stored it.
func (a *MetricsAggregator) Apply(ctx context.Context, c domain.Contribution) (*domain.HabitMetrics, error) {
	habit, err := a.habits.FindByID(ctx, c.HabitID)
	if err != nil {
		return nil, fmt.Errorf("apply contribution: %w", err)
	}

	metrics, err := a.metrics.Load(ctx, c.HabitID)
	if err != nil {
		return nil, fmt.Errorf("apply contribution: %w", err)
	}

	dates, err := a.contributions.SessionDatesForHabit(ctx, c.HabitID)
	if err != nil {
		return nil, fmt.Errorf("load session dates: %w", err)
	}
	dates = append(dates, c.SessionDate)

	metrics.Apply(c.Minutes, habit.TotalHoursGoal(), dates, a.now())

	if err := a.metrics.Save(ctx, metrics); err != nil {
		return nil, fmt.Errorf("save metrics: %w", err)
	}

	a.logger.Debug("contribution applied",
		"habit_id", c.HabitID,
		"session_id", c.SessionID,
		"minutes", c.Minutes,
		"total_minutes", metrics.TotalMinutesInvested,
	)
	return metrics, nil
}

// Recompute rebuilds a habit's metrics from its full ledger. Running it
// again on an unchanged ledger stores the same numbers.
func (a *MetricsAggregator) Recompute(ctx context.Context, habitID uuid.UUID) (*domain.HabitMetrics, error) {
	habit, err := a.habits.FindByID(ctx, habitID)
	if err != nil {
		return nil, fmt.Errorf("recompute: %w", err)
	}

	ledger, err := a.contributions.FindByHabit(ctx, habitID)
	if err != nil {
		return nil, fmt.Errorf("load contributions: %w", err)
	}

	metrics := domain.RebuildMetrics(habitID, habit.TotalHoursGoal(), ledger, a.now())
	if err := a.metrics.Save(ctx, metrics); err != nil {
		return nil, fmt.Errorf("save metrics: %w", err)
	}

	a.logger.Info("metrics recomputed",
		"habit_id", habitID,
		"contributions", len(ledger),
		"total_minutes", metrics.TotalMinutesInvested,
	)
	return metrics, nil
}

// Refresh recomputes the completion percentage after the habit's goal changed.
func (a *MetricsAggregator) Refresh(ctx context.Context, habit *domain.Habit) (*domain.HabitMetrics, error) {
	metrics, err := a.metrics.Load(ctx, habit.ID())
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}
	metrics.Refresh(habit.TotalHoursGoal())
	if err := a.metrics.Save(ctx, metrics); err != nil {
		return nil, fmt.Errorf("save metrics: %w", err)
	}
	return metrics, nil
}
