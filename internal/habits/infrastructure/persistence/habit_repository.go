package persistence

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

const habitColumns = `id, user_id, name, description, target_minutes_per_week,
	max_minutes_per_week, total_hours_goal, is_active, created_at, updated_at`

// HabitRepository implements domain.HabitRepository.
type HabitRepository struct {
	sqlStore
}

func NewHabitRepository(conn database.Connection) *HabitRepository {
	return &HabitRepository{sqlStore{conn: conn}}
}

// Save inserts the habit or updates every mutable column.
func (r *HabitRepository) Save(ctx context.Context, habit *domain.Habit) error {
	t := habit.Targets()
	_, err := r.exec(ctx).Exec(ctx, r.q(`
		INSERT INTO habits (`+habitColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			target_minutes_per_week = excluded.target_minutes_per_week,
			max_minutes_per_week = excluded.max_minutes_per_week,
			total_hours_goal = excluded.total_hours_goal,
			is_active = excluded.is_active,
			updated_at = excluded.updated_at`),
		habit.ID().String(),
		habit.UserID().String(),
		habit.Name(),
		habit.Description(),
		t.TargetMinutesPerWeek,
		t.MaxMinutesPerWeek,
		t.TotalHoursGoal,
		habit.IsActive(),
		database.FormatTimestamp(habit.CreatedAt()),
		database.FormatTimestamp(habit.UpdatedAt()),
	)
	if err != nil {
		return fmt.Errorf("save habit %s: %w", habit.ID(), err)
	}
	return nil
}

func (r *HabitRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Habit, error) {
	row := r.exec(ctx).QueryRow(ctx, r.q(`SELECT `+habitColumns+` FROM habits WHERE id = ?`), id.String())
	habit, err := scanHabit(row)
	if err != nil {
		return nil, database.NoRowsAs(err, domain.ErrHabitNotFound)
	}
	return habit, nil
}

// FindByUserID returns habits oldest first.
func (r *HabitRepository) FindByUserID(ctx context.Context, userID uuid.UUID, includeInactive bool) ([]*domain.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits WHERE user_id = ?`
	args := []any{userID.String()}
	if !includeInactive {
		query += ` AND is_active = ?`
		args = append(args, true)
	}
	query += ` ORDER BY created_at, name`

	rows, err := r.exec(ctx).Query(ctx, r.q(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var habits []*domain.Habit
	for rows.Next() {
		habit, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, habit)
	}
	return habits, rows.Err()
}

func scanHabit(row database.Row) (*domain.Habit, error) {
	var (
		id, userID, name, description string
		target, max, goal             int
		active                        bool
		createdAt, updatedAt          string
	)
	if err := row.Scan(&id, &userID, &name, &description, &target, &max, &goal, &active, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	habitID, err := parseID(id, "habit")
	if err != nil {
		return nil, err
	}
	owner, err := parseID(userID, "user")
	if err != nil {
		return nil, err
	}
	created, updated, err := parseTimestamps(createdAt, updatedAt)
	if err != nil {
		return nil, err
	}

	targets := domain.Targets{TargetMinutesPerWeek: target, MaxMinutesPerWeek: max, TotalHoursGoal: goal}
	return domain.RehydrateHabit(habitID, owner, name, description, targets, active, created, updated), nil
}
