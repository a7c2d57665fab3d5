package database

import "context"

// Row is the single-row result of QueryRow. *sql.Row and pgx.Row satisfy it.
type Row interface {
	Scan(dest ...any) error
}

// Rows iterates a multi-row result. *sql.Rows satisfies it; the postgres
// package adapts pgx.Rows, whose Close returns nothing.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Close() error
	Err() error
}

// Result reports how many rows a write touched. Ids are uuids generated in
// Go, so there is no LastInsertId. sql.Result satisfies it.
type Result interface {
	RowsAffected() (int64, error)
}

// Executor runs SQL written with '?' placeholders; callers pass queries
// through Driver.Rebind first.
type Executor interface {
	Exec(ctx context.Context, query string, args ...any) (Result, error)
	QueryRow(ctx context.Context, query string, args ...any) Row
	Query(ctx context.Context, query string, args ...any) (Rows, error)
}

type Transaction interface {
	Executor
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Connection is an open SQLite file or PostgreSQL pool.
type Connection interface {
	Executor
	BeginTx(ctx context.Context) (Transaction, error)
	Close() error
	Ping(ctx context.Context) error
	Driver() Driver
}
