package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/daha-io/catalog-api/internal/domain"
)

// CourseFilter describes the supported course list filters. Zero values mean
// "no filter". All set filters are combined conjunctively.
type CourseFilter struct {
	// Subjects matches courses associated with at least one subject whose
	// type is in the set.
	Subjects []string

	// Difficulty matches courses whose difficulty type equals the value.
	Difficulty string

	// Organization matches courses whose organization name equals the value.
	Organization string

	// Grade matches courses associated with the given grade value.
	Grade *int

	// StartAfter matches courses with start_date >= the value (inclusive).
	StartAfter *time.Time

	// EndBefore matches courses with end_date <= the value (inclusive).
	EndBefore *time.Time

	// Search matches courses whose title or description contains the value,
	// case-insensitively.
	Search string
}

// CourseStore defines the interface for course persistence, including the
// junction tables that record subject and grade associations. Association
// writes are explicit link-row operations; there is no implicit cascade.
type CourseStore interface {
	// List retrieves the courses matching the filter, ordered by ID, with
	// all associations populated. Each matching course appears exactly once
	// regardless of how many of its associations match.
	List(ctx context.Context, filter CourseFilter) ([]*domain.Course, error)

	// GetByID retrieves a course by its unique ID with all associations
	// populated. Returns ErrCourseNotFound if the course does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Course, error)

	// Create inserts the course row only and fills in its ID. Link rows are
	// installed separately via ReplaceSubjectLinks/ReplaceGradeLinks so that
	// the synchronizer controls association writes explicitly.
	Create(ctx context.Context, course *domain.Course) error

	// Update overwrites the core columns of an existing course row.
	// Returns ErrCourseNotFound if the course does not exist.
	Update(ctx context.Context, course *domain.Course) error

	// Delete removes the course row together with all of its subject and
	// grade link rows. Returns ErrCourseNotFound if the course does not
	// exist.
	Delete(ctx context.Context, id int64) error

	// ReplaceSubjectLinks deletes all subject link rows for the course and
	// inserts one row per given subject ID. An empty slice clears the set.
	ReplaceSubjectLinks(ctx context.Context, courseID int64, subjectIDs []int64) error

	// ReplaceGradeLinks deletes all grade link rows for the course and
	// inserts one row per given grade ID. An empty slice clears the set.
	ReplaceGradeLinks(ctx context.Context, courseID int64, gradeIDs []int64) error

	// WithTx returns a new CourseStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) CourseStore
}
