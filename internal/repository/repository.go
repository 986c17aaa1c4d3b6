// internal/repository/repository.go
package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Transaction interface for handling DB transactions.
type Transaction interface {
	Commit() error
	Rollback() error
}

// gormTransaction is a wrapper for a GORM DB transaction.
type gormTransaction struct {
	tx *gorm.DB
}

// Commit finalizes the transaction.
func (t *gormTransaction) Commit() error {
	return t.tx.Commit().Error
}

// Rollback reverts the transaction. Rolling back after a successful commit
// is a no-op error that callers deliberately ignore via defer.
func (t *gormTransaction) Rollback() error {
	return t.tx.Rollback().Error
}

// txDB unwraps the gorm handle from a Transaction so sibling repositories
// can participate in the same transaction. Falls back to the repository's
// own handle for non-gorm transactions (test fakes).
func txDB(tx Transaction, fallback *gorm.DB) *gorm.DB {
	if gt, ok := tx.(*gormTransaction); ok {
		return gt.tx
	}
	return fallback
}

// Postgres error classification. GORM surfaces driver errors as
// *pgconn.PgError; these map the SQLSTATEs the domain layer cares about.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isExclusionViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23P01"
}

func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "40001"
}
