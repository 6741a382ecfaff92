// Package gormerr converts GORM and driver errors to domain errors so
// infrastructure concerns stay inside the infrastructure layer.
package gormerr

import (
	"errors"

	"github.com/gobank/core/pkg/domain"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Postgres SQLSTATEs that signal a transient transaction conflict.
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// Map converts a GORM error to its domain counterpart. The error chain is
// traversed because GORM wraps the underlying driver errors.
func Map(err error) error {
	if err == nil {
		return nil
	}

	currentErr := err
	for currentErr != nil {
		switch {
		case errors.Is(currentErr, gorm.ErrDuplicatedKey):
			return domain.ErrAlreadyExists
		case errors.Is(currentErr, gorm.ErrRecordNotFound):
			return domain.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(currentErr, &pgErr) {
			if pgErr.Code == pgSerializationFailure || pgErr.Code == pgDeadlockDetected {
				return domain.ErrConflict
			}
		}
		currentErr = errors.Unwrap(currentErr)
	}

	return err
}
