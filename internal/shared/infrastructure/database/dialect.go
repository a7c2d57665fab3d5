package database

import (
	"errors"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lib/pq"
)

// Driver names a database backend.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

func (d Driver) String() string {
	return string(d)
}

// ErrUnsupportedURL is returned by ParseURL for DATABASE_URL values that
// name neither PostgreSQL nor a SQLite file.
var ErrUnsupportedURL = errors.New("unsupported database URL: use postgres://, sqlite:// or a .db file")

// ParseURL selects the backend for DATABASE_URL. Empty means the local
// SQLite file. For SQLite URLs it also returns the file path with the
// sqlite:// or file: prefix and any query string removed.
func ParseURL(url string) (Driver, string, error) {
	switch {
	case url == "":
		return DriverSQLite, "", nil
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return DriverPostgres, "", nil
	case strings.HasPrefix(url, "sqlite://"):
		return DriverSQLite, stripQuery(strings.TrimPrefix(url, "sqlite://")), nil
	case strings.HasPrefix(url, "file:"):
		return DriverSQLite, stripQuery(strings.TrimPrefix(url, "file:")), nil
	}

	switch filepath.Ext(url) {
	case ".db", ".sqlite", ".sqlite3":
		return DriverSQLite, url, nil
	}
	return "", "", ErrUnsupportedURL
}

func stripQuery(path string) string {
	path, _, _ = strings.Cut(path, "?")
	return path
}

// Rebind rewrites '?' placeholders into the driver's native form.
// Queries are written once with '?' and rebound for PostgreSQL ($1, $2, ...).
func (d Driver) Rebind(query string) string {
	if d != DriverPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	inString := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			inString = !inString
			b.WriteByte(c)
		case c == '?' && !inString:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// In builds a membership predicate for column over values.
// PostgreSQL binds the whole list as one text array; SQLite expands placeholders.
func (d Driver) In(column string, values []string) (string, []any) {
	if len(values) == 0 {
		return "1 = 0", nil
	}
	if d == DriverPostgres {
		return column + " = ANY(?)", []any{pq.Array(values)}
	}

	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	return column + " IN (" + strings.TrimSuffix(strings.Repeat("?,", len(values)), ",") + ")", args
}
