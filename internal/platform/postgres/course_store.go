package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/daha-io/catalog-api/internal/domain"
	"github.com/daha-io/catalog-api/internal/platform/logger"
	"github.com/daha-io/catalog-api/internal/store"
)

// PostgresCourseStore implements the store.CourseStore interface using a
// PostgreSQL database as the storage backend. Subject and grade membership
// lives exclusively in the course_subject_links and course_grade_links
// junction tables; every association read and write here is an explicit
// query against them.
type PostgresCourseStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCourseStore creates a new PostgreSQL implementation of the
// CourseStore interface. If logger is nil, a default logger will be used.
func NewPostgresCourseStore(db store.DBTX, logger *slog.Logger) *PostgresCourseStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCourseStore{
		db:     db,
		logger: logger.With(slog.String("component", "course_store")),
	}
}

// Ensure PostgresCourseStore implements store.CourseStore
var _ store.CourseStore = (*PostgresCourseStore)(nil)

// WithTx implements store.CourseStore.WithTx
func (s *PostgresCourseStore) WithTx(tx *sql.Tx) store.CourseStore {
	return &PostgresCourseStore{
		db:     tx,
		logger: s.logger,
	}
}

// courseSelectColumns is the shared column list for course reads: the course
// row joined to its organization and difficulty.
const courseSelectColumns = `
	c.id, c.title, c.description, c.start_date, c.end_date, c.url, c.image_url,
	c.organization_id, c.difficulty_id,
	o.name,
	d.type, d.label, d.icon, d.color
`

const courseFromClause = `
	FROM courses c
	JOIN organizations o ON o.id = c.organization_id
	JOIN difficulties d ON d.id = c.difficulty_id
`

// buildListQuery composes the filtered course list query. Subject and grade
// filters are EXISTS subqueries against the junction tables, so a course
// matching several associations still yields exactly one row.
func buildListQuery(filter store.CourseFilter) (string, []any) {
	var sb strings.Builder
	sb.WriteString("SELECT")
	sb.WriteString(courseSelectColumns)
	sb.WriteString(courseFromClause)

	conditions := []string{}
	args := []any{}

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if len(filter.Subjects) > 0 {
		conditions = append(conditions, fmt.Sprintf(
			`EXISTS (
				SELECT 1 FROM course_subject_links l
				JOIN subjects s ON s.id = l.subject_id
				WHERE l.course_id = c.id AND s.type = ANY(%s)
			)`, arg(filter.Subjects)))
	}
	if filter.Difficulty != "" {
		conditions = append(conditions, fmt.Sprintf("d.type = %s", arg(filter.Difficulty)))
	}
	if filter.Organization != "" {
		conditions = append(conditions, fmt.Sprintf("o.name = %s", arg(filter.Organization)))
	}
	if filter.Grade != nil {
		conditions = append(conditions, fmt.Sprintf(
			`EXISTS (
				SELECT 1 FROM course_grade_links l
				JOIN grades g ON g.id = l.grade_id
				WHERE l.course_id = c.id AND g.value = %s
			)`, arg(*filter.Grade)))
	}
	if filter.StartAfter != nil {
		conditions = append(conditions, fmt.Sprintf("c.start_date >= %s", arg(*filter.StartAfter)))
	}
	if filter.EndBefore != nil {
		conditions = append(conditions, fmt.Sprintf("c.end_date <= %s", arg(*filter.EndBefore)))
	}
	if filter.Search != "" {
		pattern := arg("%" + filter.Search + "%")
		conditions = append(conditions, fmt.Sprintf(
			"(c.title ILIKE %s OR c.description ILIKE %s)", pattern, pattern))
	}

	if len(conditions) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conditions, " AND "))
	}
	sb.WriteString(" ORDER BY c.id")

	return sb.String(), args
}

// scanCourse scans one joined course row.
func scanCourse(scan func(dest ...any) error) (*domain.Course, error) {
	var course domain.Course
	if err := scan(
		&course.ID,
		&course.Title,
		&course.Description,
		&course.StartDate,
		&course.EndDate,
		&course.URL,
		&course.ImageURL,
		&course.OrganizationID,
		&course.DifficultyID,
		&course.Organization.Name,
		&course.Difficulty.Type,
		&course.Difficulty.Label,
		&course.Difficulty.Icon,
		&course.Difficulty.Color,
	); err != nil {
		return nil, err
	}
	course.Organization.ID = course.OrganizationID
	course.Difficulty.ID = course.DifficultyID
	course.Subjects = []domain.Subject{}
	course.Grades = []domain.Grade{}
	return &course, nil
}

// List implements store.CourseStore.List
func (s *PostgresCourseStore) List(
	ctx context.Context,
	filter store.CourseFilter,
) ([]*domain.Course, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args := buildListQuery(filter)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query courses", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	courses := []*domain.Course{}
	for rows.Next() {
		course, err := scanCourse(rows.Scan)
		if err != nil {
			log.Error("failed to scan course row", slog.String("error", err.Error()))
			return nil, err
		}
		courses = append(courses, course)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	if err := s.loadAssociations(ctx, courses); err != nil {
		return nil, err
	}

	log.Debug("courses listed", slog.Int("count", len(courses)))
	return courses, nil
}

// GetByID implements store.CourseStore.GetByID
// Returns store.ErrCourseNotFound if the course does not exist.
func (s *PostgresCourseStore) GetByID(ctx context.Context, id int64) (*domain.Course, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := "SELECT" + courseSelectColumns + courseFromClause + "WHERE c.id = $1"

	course, err := scanCourse(s.db.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("course not found", slog.Int64("course_id", id))
			return nil, fmt.Errorf("%w: id %d", store.ErrCourseNotFound, id)
		}
		log.Error("failed to get course by ID",
			slog.String("error", err.Error()),
			slog.Int64("course_id", id))
		return nil, err
	}

	if err := s.loadAssociations(ctx, []*domain.Course{course}); err != nil {
		return nil, err
	}

	return course, nil
}

// loadAssociations attaches the subject and grade sets to the given courses
// with two batch queries over the junction tables.
func (s *PostgresCourseStore) loadAssociations(ctx context.Context, courses []*domain.Course) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(courses) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(courses))
	byID := make(map[int64]*domain.Course, len(courses))
	for _, course := range courses {
		ids = append(ids, course.ID)
		byID[course.ID] = course
	}

	subjectQuery := `
		SELECT l.course_id, s.id, s.type, s.label, s.icon, s.color, s.additional_description
		FROM course_subject_links l
		JOIN subjects s ON s.id = l.subject_id
		WHERE l.course_id = ANY($1)
		ORDER BY l.course_id, s.id
	`

	rows, err := s.db.QueryContext(ctx, subjectQuery, ids)
	if err != nil {
		log.Error("failed to query course subjects", slog.String("error", err.Error()))
		return err
	}
	for rows.Next() {
		var courseID int64
		subject, err := scanSubject(func(dest ...any) error {
			return rows.Scan(append([]any{&courseID}, dest...)...)
		})
		if err != nil {
			_ = rows.Close()
			log.Error("failed to scan course subject row", slog.String("error", err.Error()))
			return err
		}
		if course, ok := byID[courseID]; ok {
			course.Subjects = append(course.Subjects, *subject)
		}
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return err
	}
	if err := rows.Close(); err != nil {
		log.Error("failed to close rows", slog.String("error", err.Error()))
	}

	gradeQuery := `
		SELECT l.course_id, g.id, g.value
		FROM course_grade_links l
		JOIN grades g ON g.id = l.grade_id
		WHERE l.course_id = ANY($1)
		ORDER BY l.course_id, g.value
	`

	rows, err = s.db.QueryContext(ctx, gradeQuery, ids)
	if err != nil {
		log.Error("failed to query course grades", slog.String("error", err.Error()))
		return err
	}
	for rows.Next() {
		var courseID int64
		var grade domain.Grade
		if err := rows.Scan(&courseID, &grade.ID, &grade.Value); err != nil {
			_ = rows.Close()
			log.Error("failed to scan course grade row", slog.String("error", err.Error()))
			return err
		}
		if course, ok := byID[courseID]; ok {
			course.Grades = append(course.Grades, grade)
		}
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return err
	}
	if err := rows.Close(); err != nil {
		log.Error("failed to close rows", slog.String("error", err.Error()))
	}

	return nil
}

// Create implements store.CourseStore.Create
// It inserts the course row only; link rows are written by the Replace
// methods so the caller controls the full association write set.
func (s *PostgresCourseStore) Create(ctx context.Context, course *domain.Course) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := course.Validate(); err != nil {
		log.Warn("course validation failed during create",
			slog.String("error", err.Error()))
		return err
	}

	query := `
		INSERT INTO courses (title, description, start_date, end_date, url, image_url,
			organization_id, difficulty_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	err := s.db.QueryRowContext(
		ctx,
		query,
		course.Title,
		course.Description,
		course.StartDate,
		course.EndDate,
		course.URL,
		course.ImageURL,
		course.OrganizationID,
		course.DifficultyID,
	).Scan(&course.ID)
	if err != nil {
		log.Error("failed to create course",
			slog.String("error", err.Error()),
			slog.String("title", course.Title))
		return MapError(err)
	}

	log.Info("course created",
		slog.Int64("course_id", course.ID),
		slog.String("title", course.Title))
	return nil
}

// Update implements store.CourseStore.Update
// Returns store.ErrCourseNotFound if the course does not exist.
func (s *PostgresCourseStore) Update(ctx context.Context, course *domain.Course) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := course.Validate(); err != nil {
		log.Warn("course validation failed during update",
			slog.String("error", err.Error()),
			slog.Int64("course_id", course.ID))
		return err
	}

	query := `
		UPDATE courses
		SET title = $1, description = $2, start_date = $3, end_date = $4,
			url = $5, image_url = $6, organization_id = $7, difficulty_id = $8
		WHERE id = $9
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		course.Title,
		course.Description,
		course.StartDate,
		course.EndDate,
		course.URL,
		course.ImageURL,
		course.OrganizationID,
		course.DifficultyID,
		course.ID,
	)
	if err != nil {
		log.Error("failed to update course",
			slog.String("error", err.Error()),
			slog.Int64("course_id", course.ID))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrCourseNotFound); err != nil {
		return err
	}

	log.Info("course updated", slog.Int64("course_id", course.ID))
	return nil
}

// Delete implements store.CourseStore.Delete
// Junction rows are removed in the same call so no orphan links survive; the
// caller wraps this in a transaction.
func (s *PostgresCourseStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.db.ExecContext(
		ctx, `DELETE FROM course_subject_links WHERE course_id = $1`, id,
	); err != nil {
		log.Error("failed to delete course subject links",
			slog.String("error", err.Error()),
			slog.Int64("course_id", id))
		return err
	}

	if _, err := s.db.ExecContext(
		ctx, `DELETE FROM course_grade_links WHERE course_id = $1`, id,
	); err != nil {
		log.Error("failed to delete course grade links",
			slog.String("error", err.Error()),
			slog.Int64("course_id", id))
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete course",
			slog.String("error", err.Error()),
			slog.Int64("course_id", id))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrCourseNotFound); err != nil {
		return err
	}

	log.Info("course deleted", slog.Int64("course_id", id))
	return nil
}

// ReplaceSubjectLinks implements store.CourseStore.ReplaceSubjectLinks
// Full-replace semantics: the prior set is discarded entirely and exactly the
// new set is installed.
func (s *PostgresCourseStore) ReplaceSubjectLinks(
	ctx context.Context,
	courseID int64,
	subjectIDs []int64,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.db.ExecContext(
		ctx, `DELETE FROM course_subject_links WHERE course_id = $1`, courseID,
	); err != nil {
		log.Error("failed to clear course subject links",
			slog.String("error", err.Error()),
			slog.Int64("course_id", courseID))
		return err
	}

	for _, subjectID := range subjectIDs {
		if _, err := s.db.ExecContext(
			ctx,
			`INSERT INTO course_subject_links (course_id, subject_id) VALUES ($1, $2)`,
			courseID, subjectID,
		); err != nil {
			log.Error("failed to insert course subject link",
				slog.String("error", err.Error()),
				slog.Int64("course_id", courseID),
				slog.Int64("subject_id", subjectID))
			return MapError(err)
		}
	}

	log.Debug("course subject links replaced",
		slog.Int64("course_id", courseID),
		slog.Int("count", len(subjectIDs)))
	return nil
}

// ReplaceGradeLinks implements store.CourseStore.ReplaceGradeLinks
// Full-replace semantics, same as ReplaceSubjectLinks.
func (s *PostgresCourseStore) ReplaceGradeLinks(
	ctx context.Context,
	courseID int64,
	gradeIDs []int64,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.db.ExecContext(
		ctx, `DELETE FROM course_grade_links WHERE course_id = $1`, courseID,
	); err != nil {
		log.Error("failed to clear course grade links",
			slog.String("error", err.Error()),
			slog.Int64("course_id", courseID))
		return err
	}

	for _, gradeID := range gradeIDs {
		if _, err := s.db.ExecContext(
			ctx,
			`INSERT INTO course_grade_links (course_id, grade_id) VALUES ($1, $2)`,
			courseID, gradeID,
		); err != nil {
			log.Error("failed to insert course grade link",
				slog.String("error", err.Error()),
				slog.Int64("course_id", courseID),
				slog.Int64("grade_id", gradeID))
			return MapError(err)
		}
	}

	log.Debug("course grade links replaced",
		slog.Int64("course_id", courseID),
		slog.Int("count", len(gradeIDs)))
	return nil
}
