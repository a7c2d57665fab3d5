package queries

import (
	"context"

	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	"github.com/google/uuid"
)

// ListHabitsQuery contains the parameters for listing habits.
type ListHabitsQuery struct {
	UserID          uuid.UUID
	IncludeInactive bool
}

// ListHabitsHandler handles the ListHabitsQuery.
type ListHabitsHandler struct {
	habitRepo domain.HabitRepository
	metrics   MetricsReader
}

// NewListHabitsHandler creates a new ListHabitsHandler.
func NewListHabitsHandler(habitRepo domain.HabitRepository, metrics MetricsReader) *ListHabitsHandler {
	return &ListHabitsHandler{habitRepo: habitRepo, metrics: metrics}
}

// Handle returns the user's habits, oldest first, each with its metrics.
func (h *ListHabitsHandler) Handle(ctx context.Context, query ListHabitsQuery) ([]HabitDTO, error) {
	habits, err := h.habitRepo.FindByUserID(ctx, query.UserID, query.IncludeInactive)
	if err != nil {
		return nil, err
	}
	if len(habits) == 0 {
		return []HabitDTO{}, nil
	}

	metrics, err := h.metrics.LoadMany(ctx, habitIDs(habits))
	if err != nil {
		return nil, err
	}

	dtos := make([]HabitDTO, 0, len(habits))
	for _, habit := range habits {
		dtos = append(dtos, toHabitDTO(habit, metrics[habit.ID()]))
	}
	return dtos, nil
}
