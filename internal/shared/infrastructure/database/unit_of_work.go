package database

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNoTransaction is returned by Commit and Rollback on a context that
	// did not come from Begin.
	ErrNoTransaction = errors.New("no transaction in context")
	// ErrRolledBack is returned by the outermost Commit when a nested unit
	// of work rolled back. Nothing from the transaction is kept.
	ErrRolledBack = errors.New("transaction rolled back by a nested unit of work")
)

type txKey struct{}

// txScope is one unit of work's handle on a transaction. Nested units share
// tx and state with the unit that began the transaction but do not own it.
type txScope struct {
	tx    Transaction
	state *txState
	owner bool
}

type txState struct {
	rollbackOnly bool
	finished     bool
}

func scopeFrom(ctx context.Context) (txScope, bool) {
	scope, ok := ctx.Value(txKey{}).(txScope)
	return scope, ok && scope.tx != nil
}

// ExecutorFromContext returns the transaction a unit of work stored in ctx,
// or conn outside of one. Repositories call it so the same code runs inside
// and outside transactions.
func ExecutorFromContext(ctx context.Context, conn Connection) Executor {
	if scope, ok := scopeFrom(ctx); ok {
		return scope.tx
	}
	return conn
}

// UnitOfWork implements application.UnitOfWork on a Connection.
//
// Begin on a context that already carries a transaction joins it. Only the
// outermost unit commits or rolls back. A nested Rollback marks the shared
// transaction rollback-only; the outermost Commit then rolls back and
// returns ErrRolledBack.
type UnitOfWork struct {
	conn Connection
}

func NewUnitOfWork(conn Connection) *UnitOfWork {
	return &UnitOfWork{conn: conn}
}

func (u *UnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	if outer, ok := scopeFrom(ctx); ok {
		if outer.state.finished {
			return nil, errors.New("transaction already finished")
		}
		return context.WithValue(ctx, txKey{}, txScope{tx: outer.tx, state: outer.state}), nil
	}

	tx, err := u.conn.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return context.WithValue(ctx, txKey{}, txScope{tx: tx, state: &txState{}, owner: true}), nil
}

func (u *UnitOfWork) Commit(ctx context.Context) error {
	scope, ok := scopeFrom(ctx)
	if !ok {
		return ErrNoTransaction
	}
	if !scope.owner || scope.state.finished {
		return nil
	}
	scope.state.finished = true

	if scope.state.rollbackOnly {
		if err := scope.tx.Rollback(ctx); err != nil {
			return errors.Join(ErrRolledBack, err)
		}
		return ErrRolledBack
	}
	return scope.tx.Commit(ctx)
}

func (u *UnitOfWork) Rollback(ctx context.Context) error {
	scope, ok := scopeFrom(ctx)
	if !ok {
		return ErrNoTransaction
	}
	if !scope.owner {
		scope.state.rollbackOnly = true
		return nil
	}
	if scope.state.finished {
		return nil
	}
	scope.state.finished = true
	return scope.tx.Rollback(ctx)
}
