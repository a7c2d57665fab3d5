package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

// ContributionRepository implements the append-only contribution ledger on
// session_contributions.
type ContributionRepository struct {
	sqlStore
	now func() time.Time
}

func NewContributionRepository(conn database.Connection) *ContributionRepository {
	return &ContributionRepository{sqlStore: sqlStore{conn: conn}, now: time.Now}
}

func (r *ContributionRepository) SaveBatch(ctx context.Context, contributions []domain.Contribution) error {
	if len(contributions) == 0 {
		return nil
	}

	exec := r.exec(ctx)
	query := r.q(`
		INSERT INTO session_contributions
			(session_id, habit_id, activity_id, weight, minutes, session_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	createdAt := database.FormatTimestamp(r.now())
	for _, c := range contributions {
		if _, err := exec.Exec(ctx, query,
			c.SessionID.String(),
			c.HabitID.String(),
			idOrNull(c.ActivityID),
			c.Weight,
			c.Minutes,
			database.FormatDate(c.SessionDate),
			createdAt,
		); err != nil {
			return fmt.Errorf("save contribution %s/%s: %w", c.SessionID, c.HabitID, err)
		}
	}
	return nil
}

func (r *ContributionRepository) FindByHabit(ctx context.Context, habitID uuid.UUID) ([]domain.Contribution, error) {
	rows, err := r.exec(ctx).Query(ctx, r.q(`
		SELECT session_id, habit_id, activity_id, weight, minutes, session_date
		FROM session_contributions
		WHERE habit_id = ?
		ORDER BY session_date, created_at`), habitID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Contribution
	for rows.Next() {
		var (
			c                      domain.Contribution
			sessionID, habit, date string
			activityID             sql.NullString
		)
		if err := rows.Scan(&sessionID, &habit, &activityID, &c.Weight, &c.Minutes, &date); err != nil {
			return nil, err
		}
		if c.SessionID, err = parseID(sessionID, "session"); err != nil {
			return nil, err
		}
		if c.HabitID, err = parseID(habit, "habit"); err != nil {
			return nil, err
		}
		if c.ActivityID, err = nullableID(activityID); err != nil {
			return nil, err
		}
		if c.SessionDate, err = database.ParseDate(date); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *ContributionRepository) SessionDatesForHabit(ctx context.Context, habitID uuid.UUID) ([]time.Time, error) {
	rows, err := r.exec(ctx).Query(ctx, r.q(`
		SELECT DISTINCT session_date FROM session_contributions
		WHERE habit_id = ?
		ORDER BY session_date`), habitID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, err
		}
		d, err := database.ParseDate(value)
		if err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

// MinutesBetween compares on the stored date strings, which sort like dates.
func (r *ContributionRepository) MinutesBetween(ctx context.Context, habitIDs []uuid.UUID, from, to time.Time) (map[uuid.UUID]float64, error) {
	out := make(map[uuid.UUID]float64, len(habitIDs))
	if len(habitIDs) == 0 {
		return out, nil
	}

	predicate, args := r.in("habit_id", habitIDs)
	args = append(args, database.FormatDate(from), database.FormatDate(to))
	rows, err := r.exec(ctx).Query(ctx, r.q(`
		SELECT habit_id, COALESCE(SUM(minutes), 0)
		FROM session_contributions
		WHERE `+predicate+` AND session_date >= ? AND session_date <= ?
		GROUP BY habit_id`), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			habit   string
			minutes float64
		)
		if err := rows.Scan(&habit, &minutes); err != nil {
			return nil, err
		}
		id, err := parseID(habit, "habit")
		if err != nil {
			return nil, err
		}
		out[id] = minutes
	}
	return out, rows.Err()
}

// TotalsByHabit sums the ledger per (habit, activity). Contributions whose
// activity was deleted are grouped under uuid.Nil.
func (r *ContributionRepository) TotalsByHabit(ctx context.Context, habitIDs []uuid.UUID) ([]domain.ContributionTotal, error) {
	if len(habitIDs) == 0 {
		return nil, nil
	}

	predicate, args := r.in("c.habit_id", habitIDs)
	rows, err := r.exec(ctx).Query(ctx, r.q(`
		SELECT c.habit_id, a.id, COUNT(*), COALESCE(SUM(c.minutes), 0)
		FROM session_contributions c
		LEFT JOIN activities a ON a.id = c.activity_id
		WHERE `+predicate+`
		GROUP BY c.habit_id, a.id`), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ContributionTotal
	for rows.Next() {
		var (
			t          domain.ContributionTotal
			habit      string
			activityID sql.NullString
		)
		if err := rows.Scan(&habit, &activityID, &t.Sessions, &t.Minutes); err != nil {
			return nil, err
		}
		if t.HabitID, err = parseID(habit, "habit"); err != nil {
			return nil, err
		}
		if t.ActivityID, err = nullableID(activityID); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
