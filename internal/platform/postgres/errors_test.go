package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daha-io/catalog-api/internal/store"
)

func TestMapError_NoRows(t *testing.T) {
	err := MapError(fmt.Errorf("scan: %w", sql.ErrNoRows))
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMapError_UniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "organizations_name_key"}
	err := MapError(pgErr)
	assert.ErrorIs(t, err, store.ErrDuplicate)
}

func TestMapError_ForeignKeyViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: foreignKeyViolationCode, ConstraintName: "courses_organization_id_fkey"}
	err := MapError(pgErr)
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
	assert.Contains(t, err.Error(), "courses_organization_id_fkey")
}

func TestMapError_PassesThroughUnknownErrors(t *testing.T) {
	original := errors.New("connection refused")
	assert.Equal(t, original, MapError(original))
	assert.NoError(t, MapError(nil))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: uniqueViolationCode}))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: foreignKeyViolationCode}))
	assert.False(t, IsUniqueViolation(errors.New("plain error")))

	wrapped := fmt.Errorf("insert: %w", &pgconn.PgError{Code: uniqueViolationCode})
	assert.True(t, IsUniqueViolation(wrapped))
}

func TestMapUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: uniqueViolationCode}

	err := MapUniqueViolation(pgErr, store.ErrOrganizationNameExists)
	assert.ErrorIs(t, err, store.ErrOrganizationNameExists)
	assert.ErrorIs(t, err, store.ErrDuplicate)

	// Without a specific error the generic duplicate is used
	err = MapUniqueViolation(pgErr, nil)
	assert.ErrorIs(t, err, store.ErrDuplicate)

	// Non-unique errors pass through unchanged
	other := errors.New("timeout")
	assert.Equal(t, other, MapUniqueViolation(other, store.ErrOrganizationNameExists))
}

func TestCheckRowsAffected(t *testing.T) {
	assert.NoError(t, CheckRowsAffected(sqlmock.NewResult(0, 1), store.ErrCourseNotFound))

	err := CheckRowsAffected(sqlmock.NewResult(0, 0), store.ErrCourseNotFound)
	assert.ErrorIs(t, err, store.ErrCourseNotFound)

	err = CheckRowsAffected(sqlmock.NewResult(0, 0), nil)
	assert.ErrorIs(t, err, store.ErrNotFound)

	err = CheckRowsAffected(nil, store.ErrCourseNotFound)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nil result")
}
