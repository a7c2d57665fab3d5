package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

const sessionColumns = `id, user_id, activity_id, activity_name, duration_minutes, session_date,
	start_time, mood, productivity_level, notes, created_at`

// SessionRepository implements domain.SessionRepository. Sessions are
// written once and never updated.
type SessionRepository struct {
	sqlStore
}

func NewSessionRepository(conn database.Connection) *SessionRepository {
	return &SessionRepository{sqlStore{conn: conn}}
}

func (r *SessionRepository) Save(ctx context.Context, s *domain.Session) error {
	_, err := r.exec(ctx).Exec(ctx, r.q(`
		INSERT INTO sessions (`+sessionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		s.ID().String(),
		s.UserID().String(),
		idOrNull(s.ActivityID()),
		s.ActivityName(),
		s.DurationMinutes(),
		database.FormatDate(s.SessionDate()),
		nullString(s.StartTime()),
		nullInt(s.Mood()),
		nullInt(s.Productivity()),
		s.Notes(),
		database.FormatTimestamp(s.CreatedAt()),
	)
	if err != nil {
		return fmt.Errorf("save session %s: %w", s.ID(), err)
	}
	return nil
}

func (r *SessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	row := r.exec(ctx).QueryRow(ctx, r.q(`SELECT `+sessionColumns+` FROM sessions WHERE id = ?`), id.String())
	s, err := scanSession(row)
	if err != nil {
		return nil, database.NoRowsAs(err, domain.ErrSessionNotFound)
	}
	return s, nil
}

func (r *SessionRepository) List(ctx context.Context, filter domain.SessionFilter) ([]*domain.Session, error) {
	conds := []string{"user_id = ?"}
	args := []any{filter.UserID.String()}
	if filter.ActivityID != uuid.Nil {
		conds = append(conds, "activity_id = ?")
		args = append(args, filter.ActivityID.String())
	}
	if !filter.From.IsZero() {
		conds = append(conds, "session_date >= ?")
		args = append(args, database.FormatDate(filter.From))
	}
	if !filter.To.IsZero() {
		conds = append(conds, "session_date <= ?")
		args = append(args, database.FormatDate(filter.To))
	}

	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE ` + strings.Join(conds, " AND ") +
		` ORDER BY session_date DESC, created_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := r.exec(ctx).Query(ctx, r.q(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*domain.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// TotalsByActivity groups the user's sessions by activity. Sessions of
// deleted activities are not attributed to any activity.
func (r *SessionRepository) TotalsByActivity(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]domain.ActivityTotals, error) {
	rows, err := r.exec(ctx).Query(ctx, r.q(`
		SELECT activity_id, COUNT(*), COALESCE(SUM(duration_minutes), 0)
		FROM sessions
		WHERE user_id = ? AND activity_id IS NOT NULL
		GROUP BY activity_id`), userID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[uuid.UUID]domain.ActivityTotals)
	for rows.Next() {
		var (
			activityID string
			t          domain.ActivityTotals
		)
		if err := rows.Scan(&activityID, &t.Sessions, &t.Minutes); err != nil {
			return nil, err
		}
		if t.ActivityID, err = parseID(activityID, "activity"); err != nil {
			return nil, err
		}
		out[t.ActivityID] = t
	}
	return out, rows.Err()
}

func scanSession(row database.Row) (*domain.Session, error) {
	var (
		id, userID, activityName, sessionDate, notes, createdAt string
		activityID, startTime                                  sql.NullString
		mood, productivity                                     sql.NullInt64
		duration                                               int
	)
	if err := row.Scan(
		&id, &userID, &activityID, &activityName, &duration, &sessionDate,
		&startTime, &mood, &productivity, &notes, &createdAt,
	); err != nil {
		return nil, err
	}

	sessionID, err := parseID(id, "session")
	if err != nil {
		return nil, err
	}
	owner, err := parseID(userID, "user")
	if err != nil {
		return nil, err
	}
	activity, err := nullableID(activityID)
	if err != nil {
		return nil, err
	}
	date, err := database.ParseDate(sessionDate)
	if err != nil {
		return nil, err
	}
	created, err := database.ParseTimestamp(createdAt)
	if err != nil {
		return nil, err
	}

	var start *string
	if startTime.Valid {
		start = &startTime.String
	}
	return domain.RehydrateSession(
		sessionID, owner, activity, activityName, duration, date,
		start, intFromNull(mood), intFromNull(productivity), notes, created,
	), nil
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func intFromNull(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}
