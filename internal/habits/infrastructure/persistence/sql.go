// Package persistence implements the habit repositories on database.Connection.
// The same SQL runs on SQLite and PostgreSQL: placeholders are written as '?'
// and rebound per driver, ids are stored as text and timestamps use the
// fixed-width layout from the database package.
package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

type sqlStore struct {
	conn database.Connection
}

func (s sqlStore) q(query string) string {
	return s.conn.Driver().Rebind(query)
}

func (s sqlStore) exec(ctx context.Context) database.Executor {
	return database.ExecutorFromContext(ctx, s.conn)
}

// in builds "column IN (...)" for ids with the driver's list binding.
func (s sqlStore) in(column string, ids []uuid.UUID) (string, []any) {
	values := make([]string, len(ids))
	for i, id := range ids {
		values[i] = id.String()
	}
	return s.conn.Driver().In(column, values)
}

func parseID(value, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("bad %s id %q: %w", what, value, err)
	}
	return id, nil
}

func nullableID(s sql.NullString) (uuid.UUID, error) {
	if !s.Valid || s.String == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(s.String)
}

func idOrNull(id uuid.UUID) sql.NullString {
	if id == uuid.Nil {
		return sql.NullString{}
	}
	return sql.NullString{String: id.String(), Valid: true}
}

func parseTimestamps(created, updated string) (time.Time, time.Time, error) {
	c, err := database.ParseTimestamp(created)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	u, err := database.ParseTimestamp(updated)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return c, u, nil
}
