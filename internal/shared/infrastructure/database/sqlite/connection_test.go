package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/database"
)

func TestNewConnection_File(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "cadence.db")

	conn, err := NewConnection(ctx, database.Config{Driver: database.DriverSQLite, SQLitePath: path})
	require.NoError(t, err)
	defer conn.Close()

	assert.NoError(t, conn.Ping(ctx))
	assert.Equal(t, database.DriverSQLite, conn.Driver())
}

func TestConnection_TransactionCommitAndRollback(t *testing.T) {
	ctx := context.Background()
	conn, err := OpenInMemory(ctx)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Exec(ctx, `CREATE TABLE notes (id TEXT PRIMARY KEY, body TEXT)`)
	require.NoError(t, err)

	tx, err := conn.BeginTx(ctx)
	require.NoError(t, err)
	_, err = tx.Exec(ctx, `INSERT INTO notes (id, body) VALUES (?, ?)`, "1", "kept")
	require.NoError(t, err)
	require.NoError(t, tx.Commit(ctx))

	tx, err = conn.BeginTx(ctx)
	require.NoError(t, err)
	_, err = tx.Exec(ctx, `INSERT INTO notes (id, body) VALUES (?, ?)`, "2", "dropped")
	require.NoError(t, err)
	require.NoError(t, tx.Rollback(ctx))

	var count int
	require.NoError(t, conn.QueryRow(ctx, `SELECT COUNT(*) FROM notes`).Scan(&count))
	assert.Equal(t, 1, count)
}

func newNotesDB(t *testing.T) (*Connection, *database.UnitOfWork) {
	t.Helper()
	ctx := context.Background()
	conn, err := OpenInMemory(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	_, err = conn.Exec(ctx, `CREATE TABLE notes (id TEXT PRIMARY KEY)`)
	require.NoError(t, err)
	return conn, database.NewUnitOfWork(conn)
}

func countNotes(t *testing.T, conn *Connection) int {
	t.Helper()
	var count int
	require.NoError(t, conn.QueryRow(context.Background(), `SELECT COUNT(*) FROM notes`).Scan(&count))
	return count
}

func insertNote(t *testing.T, ctx context.Context, conn *Connection, id string) {
	t.Helper()
	res, err := database.ExecutorFromContext(ctx, conn).Exec(ctx, `INSERT INTO notes (id) VALUES (?)`, id)
	require.NoError(t, err)
	n, err := res.RowsAffected()
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

func TestUnitOfWork_NestedBeginJoinsTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("inner commit waits for the outer unit", func(t *testing.T) {
		conn, uow := newNotesDB(t)
		outer, err := uow.Begin(ctx)
		require.NoError(t, err)
		inner, err := uow.Begin(outer)
		require.NoError(t, err)

		insertNote(t, inner, conn, "a")
		require.NoError(t, uow.Commit(inner))
		require.NoError(t, uow.Rollback(outer))

		assert.Zero(t, countNotes(t, conn))
	})

	t.Run("inner rollback makes the outer commit fail", func(t *testing.T) {
		conn, uow := newNotesDB(t)
		outer, err := uow.Begin(ctx)
		require.NoError(t, err)
		insertNote(t, outer, conn, "a")

		inner, err := uow.Begin(outer)
		require.NoError(t, err)
		insertNote(t, inner, conn, "b")
		require.NoError(t, uow.Rollback(inner))

		assert.ErrorIs(t, uow.Commit(outer), database.ErrRolledBack)
		assert.Zero(t, countNotes(t, conn))
	})

	t.Run("outer commit keeps both writes", func(t *testing.T) {
		conn, uow := newNotesDB(t)
		outer, err := uow.Begin(ctx)
		require.NoError(t, err)
		insertNote(t, outer, conn, "a")
		inner, err := uow.Begin(outer)
		require.NoError(t, err)
		insertNote(t, inner, conn, "b")

		require.NoError(t, uow.Commit(inner))
		require.NoError(t, uow.Commit(outer))
		assert.Equal(t, 2, countNotes(t, conn))

		_, err = uow.Begin(outer)
		assert.Error(t, err, "a finished transaction cannot be joined")
	})

	t.Run("commit without begin", func(t *testing.T) {
		_, uow := newNotesDB(t)
		assert.ErrorIs(t, uow.Commit(ctx), database.ErrNoTransaction)
		assert.ErrorIs(t, uow.Rollback(ctx), database.ErrNoTransaction)
	})
}

func TestNoRowsAs(t *testing.T) {
	conn, _ := newNotesDB(t)
	notFound := errors.New("note not found")

	var id string
	err := conn.QueryRow(context.Background(), `SELECT id FROM notes WHERE id = ?`, "missing").Scan(&id)
	assert.True(t, database.IsNoRows(err))
	assert.Equal(t, notFound, database.NoRowsAs(err, notFound))

	other := errors.New("disk full")
	assert.Equal(t, other, database.NoRowsAs(other, notFound))
}
