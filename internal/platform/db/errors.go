package db

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/wellvision/wellvision/internal/shared"
)

const uniqueViolation = "23505"

// IsUniqueViolation reports whether err is a Postgres unique constraint failure.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// ConstraintName returns the violated constraint, or "" when err is not a PgError.
func ConstraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

// StorageError classifies a pgx failure into the shared sentinels.
func StorageError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, shared.ErrCorruptRecord):
		return fmt.Errorf("%s: %w", op, err)
	case errors.Is(err, pgx.ErrNoRows):
		return fmt.Errorf("%w: %s", shared.ErrNotFound, op)
	case IsUniqueViolation(err):
		return fmt.Errorf("%w: %s: %s", shared.ErrDuplicateKey, op, ConstraintName(err))
	default:
		return fmt.Errorf("%w: %s: %v", shared.ErrStorageUnavailable, op, err)
	}
}
