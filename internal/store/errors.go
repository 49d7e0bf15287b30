package store

import (
	"errors"
	"fmt"
	"strings"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the
	// store. This is the generic version of the entity-specific not found
	// errors (e.g., ErrCourseNotFound, ErrSubjectNotFound).
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate of
	// a unique entity (e.g., two organizations with the same name).
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored, or when a write would violate a storage constraint other
	// than uniqueness. Check the wrapped error for details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrTransactionFailed is returned when a database transaction fails
	// to commit or when an operation within a transaction fails.
	ErrTransactionFailed = errors.New("transaction failed")

	// Entity-specific "not found" errors.

	// ErrOrganizationNotFound indicates that the requested organization does
	// not exist in the store.
	ErrOrganizationNotFound = fmt.Errorf("%w: organization", ErrNotFound)

	// ErrDifficultyNotFound indicates that the requested difficulty does not
	// exist in the store.
	ErrDifficultyNotFound = fmt.Errorf("%w: difficulty", ErrNotFound)

	// ErrSubjectNotFound indicates that the requested subject does not exist
	// in the store.
	ErrSubjectNotFound = fmt.Errorf("%w: subject", ErrNotFound)

	// ErrGradeNotFound indicates that the requested grade does not exist in
	// the store.
	ErrGradeNotFound = fmt.Errorf("%w: grade", ErrNotFound)

	// ErrCourseNotFound indicates that the requested course does not exist in
	// the store.
	ErrCourseNotFound = fmt.Errorf("%w: course", ErrNotFound)

	// Entity-specific "duplicate" errors.

	// ErrOrganizationNameExists indicates that an organization with the given
	// name already exists.
	ErrOrganizationNameExists = fmt.Errorf("%w: organization name", ErrDuplicate)

	// ErrDifficultyTypeExists indicates that a difficulty with the given type
	// already exists.
	ErrDifficultyTypeExists = fmt.Errorf("%w: difficulty type", ErrDuplicate)

	// ErrSubjectTypeExists indicates that a subject with the given type
	// already exists.
	ErrSubjectTypeExists = fmt.Errorf("%w: subject type", ErrDuplicate)

	// ErrGradeValueExists indicates that a grade with the given value already
	// exists.
	ErrGradeValueExists = fmt.Errorf("%w: grade value", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// SubjectsNotFoundError reports every referenced subject type that has no
// matching row. Subject resolution is all-or-nothing, so callers need the
// complete list of missing keys, not just the first.
type SubjectsNotFoundError struct {
	Types []string
}

// Error implements the error interface for SubjectsNotFoundError.
func (e *SubjectsNotFoundError) Error() string {
	return fmt.Sprintf("subjects not found: %s", strings.Join(e.Types, ", "))
}

// Unwrap makes the error match ErrSubjectNotFound (and ErrNotFound) via
// errors.Is.
func (e *SubjectsNotFoundError) Unwrap() error {
	return ErrSubjectNotFound
}

// StoreError is a custom error type for store-specific errors with additional
// context.
type StoreError struct {
	Entity    string // The entity type (e.g., "course", "subject")
	Operation string // The operation that failed (e.g., "create", "update")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf(
			"%s operation on %s failed: %s: %v",
			e.Operation,
			e.Entity,
			e.Message,
			e.Err,
		)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given entity, operation,
// message, and wrapped error.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
