package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

const metricsColumns = `habit_id, total_minutes_invested, total_sessions, current_streak,
	longest_streak, completion_percentage, last_session_date, updated_at`

// MetricsRepository implements domain.MetricsRepository.
type MetricsRepository struct {
	sqlStore
}

func NewMetricsRepository(conn database.Connection) *MetricsRepository {
	return &MetricsRepository{sqlStore{conn: conn}}
}

func (r *MetricsRepository) Load(ctx context.Context, habitID uuid.UUID) (*domain.HabitMetrics, error) {
	row := r.exec(ctx).QueryRow(ctx, r.q(`SELECT `+metricsColumns+` FROM habit_metrics WHERE habit_id = ?`), habitID.String())
	m, err := scanMetrics(row)
	if err != nil {
		return nil, database.NoRowsAs(err, domain.ErrMetricsNotFound)
	}
	return m, nil
}

// LoadMany returns the metrics that exist; missing habits are absent from the map.
func (r *MetricsRepository) LoadMany(ctx context.Context, habitIDs []uuid.UUID) (map[uuid.UUID]*domain.HabitMetrics, error) {
	out := make(map[uuid.UUID]*domain.HabitMetrics, len(habitIDs))
	if len(habitIDs) == 0 {
		return out, nil
	}

	predicate, args := r.in("habit_id", habitIDs)
	rows, err := r.exec(ctx).Query(ctx, r.q(`SELECT `+metricsColumns+` FROM habit_metrics WHERE `+predicate), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		m, err := scanMetrics(rows)
		if err != nil {
			return nil, err
		}
		out[m.HabitID] = m
	}
	return out, rows.Err()
}

// Save replaces the habit's metrics row.
func (r *MetricsRepository) Save(ctx context.Context, m *domain.HabitMetrics) error {
	var last sql.NullString
	if m.LastSessionDate != nil {
		last = sql.NullString{String: database.FormatDate(*m.LastSessionDate), Valid: true}
	}

	_, err := r.exec(ctx).Exec(ctx, r.q(`
		INSERT INTO habit_metrics (`+metricsColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (habit_id) DO UPDATE SET
			total_minutes_invested = excluded.total_minutes_invested,
			total_sessions = excluded.total_sessions,
			current_streak = excluded.current_streak,
			longest_streak = excluded.longest_streak,
			completion_percentage = excluded.completion_percentage,
			last_session_date = excluded.last_session_date,
			updated_at = excluded.updated_at`),
		m.HabitID.String(),
		m.TotalMinutesInvested,
		m.TotalSessions,
		m.CurrentStreak,
		m.LongestStreak,
		m.CompletionPercentage,
		last,
		database.FormatTimestamp(m.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("save metrics for habit %s: %w", m.HabitID, err)
	}
	return nil
}

func scanMetrics(row database.Row) (*domain.HabitMetrics, error) {
	var (
		m         domain.HabitMetrics
		habitID   string
		last      sql.NullString
		updatedAt string
	)
	if err := row.Scan(
		&habitID, &m.TotalMinutesInvested, &m.TotalSessions, &m.CurrentStreak,
		&m.LongestStreak, &m.CompletionPercentage, &last, &updatedAt,
	); err != nil {
		return nil, err
	}

	var err error
	if m.HabitID, err = parseID(habitID, "habit"); err != nil {
		return nil, err
	}
	if m.UpdatedAt, err = database.ParseTimestamp(updatedAt); err != nil {
		return nil, err
	}
	if last.Valid {
		d, err := database.ParseDate(last.String)
		if err != nil {
			return nil, err
		}
		m.LastSessionDate = &d
	}
	return &m, nil
}
