package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"

	"github.com/lib/pq"

	"campuseventhub/internal/domain"
)

type txKey struct{}

// withTx runs fn inside a transaction. If the context already carries a
// transaction, fn joins it and commit/rollback is left to the outer call.
// The transaction handle travels in the context so repository methods pick it
// up transparently via querierFrom.
func withTx(ctx context.Context, db *sql.DB, fn func(ctx context.Context) error) error {
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return mapStorageErr(err)
	}

	txCtx := context.WithValue(ctx, txKey{}, tx)
	if err := fn(txCtx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return mapStorageErr(err)
	}
	return nil
}

func txFromContext(ctx context.Context) *sql.Tx {
	tx, _ := ctx.Value(txKey{}).(*sql.Tx)
	return tx
}

// querier is the subset of *sql.DB and *sql.Tx the repositories use.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// querierFrom returns the transaction carried by ctx, or db when there is none.
func querierFrom(ctx context.Context, db *sql.DB) querier {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return db
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func isCheckViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23514"
}

// isRetryableConflict matches serialization failures and deadlocks, which are
// safe to retry as a whole transaction.
func isRetryableConflict(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == "40001" || pqErr.Code == "40P01"
}

// isConnectionFailure matches pq class 08 (connection exception) and the
// driver's bad-connection sentinel.
func isConnectionFailure(err error) bool {
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code.Class() == "08"
}

// mapStorageErr translates driver-level failures into domain errors; anything
// unrecognized passes through for the caller to wrap.
func mapStorageErr(err error) error {
	switch {
	case err == nil:
		return nil
	case isRetryableConflict(err):
		return domain.ErrConflictRetryable
	case isConnectionFailure(err):
		return domain.ErrStorageUnavailable
	default:
		return err
	}
}
