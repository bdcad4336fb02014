package service

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// inTx runs fn inside a database transaction. The multi-entity ledger
// mutations are ordered sagas on paper; since Postgres gives us real
// multi-statement transactions we wrap each saga in one, which keeps the
// documented step ordering while closing the partial-failure window.
func inTx(db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	// Rollback only if not committed
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			slog.Error("Failed to rollback transaction", "error", err)
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}
