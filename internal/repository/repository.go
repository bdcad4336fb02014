// Package repository implements Postgres persistence for the three ledger
// collections (users, forms, reviews). Repositories are bound to either a
// *sql.DB or, via WithTx, to an open transaction so that multi-entity
// mutations can run atomically.
package repository

import (
	"database/sql"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx
type DBTX interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// uniqueViolation is the Postgres error code for unique constraint violations
const uniqueViolation = "23505"
