package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/autolist-api/internal/platform/logger"
)

// TxFn runs inside a transaction opened by RunInTransaction.
type TxFn func(ctx context.Context, tx *sql.Tx) error

// RunInTransaction opens a transaction on db, runs fn and commits when fn
// returns nil. An error from fn rolls the transaction back and is returned
// unchanged so callers can still match sentinel errors. A panic in fn rolls
// back and is re-raised.
//
// Publication writes (create, edit, reorder, delete) all go through here so the
// image set and the publication row change together or not at all.
func RunInTransaction(ctx context.Context, db *sql.DB, fn TxFn) error {
	log := logger.FromContext(ctx)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("could not open transaction", slog.String("error", err.Error()))
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		p := recover()
		if p == nil {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error("rollback after panic failed",
				slog.String("error", rbErr.Error()),
				slog.Any("panic", p))
		} else {
			log.Error("rolled back after panic", slog.Any("panic", p))
		}
		panic(p)
	}()

	if fnErr := fn(ctx, tx); fnErr != nil {
		return rollback(log, tx, fnErr)
	}

	if err := tx.Commit(); err != nil {
		log.Error("commit failed", slog.String("error", err.Error()))
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	log.Debug("transaction committed")
	return nil
}

func rollback(log *slog.Logger, tx *sql.Tx, cause error) error {
	if rbErr := tx.Rollback(); rbErr != nil {
		log.Error("rollback failed",
			slog.String("rollback_error", rbErr.Error()),
			slog.String("cause", cause.Error()))
		return fmt.Errorf("error rolling back transaction: %v (original error: %w)", rbErr, cause)
	}
	log.Debug("transaction rolled back", slog.String("cause", cause.Error()))
	return cause
}
