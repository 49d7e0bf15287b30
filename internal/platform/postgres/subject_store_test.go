package postgres

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daha-io/catalog-api/internal/store"
)

func TestSubjectGetByID_DecodesDescriptionArray(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresSubjectStore(db, nil)

	rows := sqlmock.NewRows([]string{"id", "type", "label", "icon", "color", "additional_description"}).
		AddRow(int64(3), "programming", "Programming", "laptop", "#333", []byte(`["Algorithms","Data structures"]`))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, type, label, icon, color, additional_description")).
		WithArgs(int64(3)).
		WillReturnRows(rows)

	subject, err := s.GetByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "programming", subject.Type)
	assert.Equal(t, []string{"Algorithms", "Data structures"}, subject.AdditionalDescription)
}

func TestSubjectGetByID_EmptyDescriptionBecomesEmptySlice(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresSubjectStore(db, nil)

	rows := sqlmock.NewRows([]string{"id", "type", "label", "icon", "color", "additional_description"}).
		AddRow(int64(3), "math", "Mathematics", "", "", []byte(`[]`))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, type, label, icon, color, additional_description")).
		WithArgs(int64(3)).
		WillReturnRows(rows)

	subject, err := s.GetByID(context.Background(), 3)
	require.NoError(t, err)
	assert.NotNil(t, subject.AdditionalDescription)
	assert.Empty(t, subject.AdditionalDescription)
}

func TestSubjectGetByType_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresSubjectStore(db, nil)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, type, label, icon, color, additional_description")).
		WithArgs("alchemy").
		WillReturnError(sql.ErrNoRows)

	_, err := s.GetByType(context.Background(), "alchemy")
	assert.ErrorIs(t, err, store.ErrSubjectNotFound)
}

func TestSubjectGetByTypes_EmptyInputSkipsQuery(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresSubjectStore(db, nil)

	subjects, err := s.GetByTypes(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, subjects)
	assert.NoError(t, mock.ExpectationsWereMet())
}
