package database

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
)

// IsNoRows reports whether a single-row lookup matched nothing on either
// driver.
func IsNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows)
}

// NoRowsAs replaces a no-rows error with notFound, typically a domain
// NotFound sentinel, and returns any other error unchanged.
func NoRowsAs(err, notFound error) error {
	if IsNoRows(err) {
		return notFound
	}
	return err
}
