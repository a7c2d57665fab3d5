package queries

import (
	"context"
	"errors"
	"time"

	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	"github.com/google/uuid"
)

// PaceWeeks is the window the weekly pace is averaged over.
const PaceWeeks = 4

// GetHabitProgressQuery asks for the full progress view of one habit.
type GetHabitProgressQuery struct {
	HabitID   uuid.UUID
	UserID    uuid.UUID
	Reference time.Time
}

// HabitProgressDTO combines metrics with the derived read-side figures.
type HabitProgressDTO struct {
	Habit          HabitDTO                  `json:"habit"`
	Completion     domain.CompletionCategory `json:"completion"`
	WeekStart      string                    `json:"week_start"`
	WeekMinutes    float64                   `json:"week_minutes"`
	Compliance     domain.Compliance         `json:"compliance"`
	MinutesPerWeek float64                   `json:"minutes_per_week"`
	Projection     domain.Projection         `json:"projection"`
	Activities     []LinkDTO                 `json:"activities"`
}

// GetHabitProgressHandler handles the GetHabitProgressQuery.
type GetHabitProgressHandler struct {
	habitRepo        domain.HabitRepository
	metrics          MetricsReader
	contributionRepo domain.ContributionRepository
	linkRepo         domain.LinkRepository
	activityRepo     domain.ActivityRepository
}

func NewGetHabitProgressHandler(
	habitRepo domain.HabitRepository,
	metrics MetricsReader,
	contributionRepo domain.ContributionRepository,
	linkRepo domain.LinkRepository,
	activityRepo domain.ActivityRepository,
) *GetHabitProgressHandler {
	return &GetHabitProgressHandler{
		habitRepo:        habitRepo,
		metrics:          metrics,
		contributionRepo: contributionRepo,
		linkRepo:         linkRepo,
		activityRepo:     activityRepo,
	}
}

// Handle hides habits of other users behind ErrHabitNotFound.
func (h *GetHabitProgressHandler) Handle(ctx context.Context, query GetHabitProgressQuery) (*HabitProgressDTO, error) {
	habit, err := h.habitRepo.FindByID(ctx, query.HabitID)
	if err != nil {
		return nil, err
	}
	if habit.OwnedBy(query.UserID) != nil {
		return nil, domain.ErrHabitNotFound
	}

	metrics, err := h.metrics.Load(ctx, habit.ID())
	if err != nil {
		return nil, err
	}

	reference := referenceOrNow(query.Reference)
	today := domain.CalendarDate(reference)
	weekStart, weekEnd := domain.WeekBounds(today)
	ids := []uuid.UUID{habit.ID()}

	week, err := h.contributionRepo.MinutesBetween(ctx, ids, weekStart, weekEnd)
	if err != nil {
		return nil, err
	}
	window, err := h.contributionRepo.MinutesBetween(ctx, ids, today.AddDate(0, 0, -7*PaceWeeks+1), today)
	if err != nil {
		return nil, err
	}
	pace := window[habit.ID()] / PaceWeeks

	activities, err := h.linkedActivities(ctx, habit.ID())
	if err != nil {
		return nil, err
	}

	return &HabitProgressDTO{
		Habit:          toHabitDTO(habit, metrics),
		Completion:     domain.CategorizeCompletion(metrics.CompletionPercentage),
		WeekStart:      weekStart.Format(time.DateOnly),
		WeekMinutes:    week[habit.ID()],
		Compliance:     domain.WeeklyCompliance(week[habit.ID()], habit.TargetMinutesPerWeek()),
		MinutesPerWeek: pace,
		Projection:     domain.ProjectGoal(metrics.TotalMinutesInvested, habit.TotalHoursGoal(), pace, today),
		Activities:     activities,
	}, nil
}

func (h *GetHabitProgressHandler) linkedActivities(ctx context.Context, habitID uuid.UUID) ([]LinkDTO, error) {
	links, err := h.linkRepo.FindByHabit(ctx, habitID)
	if err != nil {
		return nil, err
	}

	out := make([]LinkDTO, 0, len(links))
	for _, link := range links {
		dto := LinkDTO{HabitID: habitID, ActivityID: link.ActivityID(), Weight: link.Weight()}
		activity, err := h.activityRepo.FindByID(ctx, link.ActivityID())
		switch {
		case err == nil:
			dto.ActivityName = activity.Name()
		case !errors.Is(err, domain.ErrNotFound):
			return nil, err
		}
		out = append(out, dto)
	}
	return out, nil
}
