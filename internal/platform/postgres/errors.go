package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/daha-io/catalog-api/internal/store"
)

// PostgreSQL error codes
const (
	// uniqueViolationCode is the PostgreSQL error code for unique constraint
	// violations
	uniqueViolationCode = "23505"

	// foreignKeyViolationCode is the PostgreSQL error code for foreign key
	// violations
	foreignKeyViolationCode = "23503"

	// notNullViolationCode is the PostgreSQL error code for not null
	// violations
	notNullViolationCode = "23502"
)

// MapError maps a database error to an appropriate store error.
// It wraps the original error to preserve context and provide better
// debugging information. This function should be used in all database
// operations to ensure consistent error handling.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
		case foreignKeyViolationCode:
			return fmt.Errorf(
				"%w: foreign key violation (%s): %v",
				store.ErrInvalidEntity,
				pgErr.ConstraintName,
				err,
			)
		case notNullViolationCode:
			return fmt.Errorf(
				"%w: not null violation (%s): %v",
				store.ErrInvalidEntity,
				pgErr.ColumnName,
				err,
			)
		}
	}

	return err
}

// IsUniqueViolation checks if the given error is a PostgreSQL unique
// constraint violation. This is how get-or-create detects that a concurrent
// writer won the race for a natural key.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// IsForeignKeyViolation checks if the given error is a PostgreSQL foreign key
// constraint violation.
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolationCode
}

// MapUniqueViolation maps a PostgreSQL unique violation error to a more
// specific error. If the error is not a unique violation, it returns the
// original error.
func MapUniqueViolation(err error, specificError error) error {
	if !IsUniqueViolation(err) {
		return err
	}
	if specificError != nil {
		return fmt.Errorf("%w: %v", specificError, err)
	}
	return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
}

// CheckRowsAffected examines the number of rows affected by a database
// operation. If no rows were affected, it returns the provided not-found
// error. This is used for UPDATE and DELETE operations where the absence of
// affected rows indicates that the target record doesn't exist.
func CheckRowsAffected(result sql.Result, notFoundErr error) error {
	if result == nil {
		return fmt.Errorf("nil result provided to CheckRowsAffected")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		if notFoundErr == nil {
			return store.ErrNotFound
		}
		return notFoundErr
	}

	return nil
}
