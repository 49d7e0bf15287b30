package service

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/daha-io/catalog-api/internal/domain"
	"github.com/daha-io/catalog-api/internal/events"
	"github.com/daha-io/catalog-api/internal/platform/logger"
	"github.com/daha-io/catalog-api/internal/store"
)

// CreateCourseInput carries the flattened course creation request: taxonomy
// entities are referenced by natural key, never by surrogate ID.
type CreateCourseInput struct {
	Title        string
	Description  string
	StartDate    time.Time
	EndDate      time.Time
	URL          string
	ImageURL     string
	Organization string
	Difficulty   string
	Subjects     []string
	Grades       []int
}

// UpdateCoursePatch describes a partial course update. Nil fields are left
// untouched. A non-nil Subjects or Grades field replaces the entire
// association set; an empty slice clears it.
type UpdateCoursePatch struct {
	Title        *string
	Description  *string
	StartDate    *time.Time
	EndDate      *time.Time
	URL          *string
	ImageURL     *string
	Organization *string
	Difficulty   *string
	Subjects     *[]string
	Grades       *[]int
}

// CourseService provides course operations with relationship
// synchronization. Each mutation runs in one transaction: reference
// resolution, the course row write, and all link-row writes commit or roll
// back together, including any taxonomy rows created by get-or-create along
// the way.
type CourseService interface {
	// ListCourses retrieves the courses matching the filter, associations
	// populated, each course exactly once.
	ListCourses(ctx context.Context, filter store.CourseFilter) ([]*domain.Course, error)

	// GetCourse retrieves a course by ID with associations populated.
	// Returns store.ErrCourseNotFound if the course does not exist.
	GetCourse(ctx context.Context, id int64) (*domain.Course, error)

	// CreateCourse creates a course with all its associations.
	// Difficulty and subjects must pre-exist (store.ErrDifficultyNotFound,
	// store.SubjectsNotFoundError naming every missing type); organization
	// and grades are get-or-created. At least one subject is required
	// (domain.ValidationError). On success a course-created event is emitted
	// best-effort.
	CreateCourse(ctx context.Context, input CreateCourseInput) (*domain.Course, error)

	// UpdateCourse applies the patch to an existing course. Present relation
	// fields replace the entire association set. Returns
	// store.ErrCourseNotFound if the course does not exist.
	UpdateCourse(ctx context.Context, id int64, patch UpdateCoursePatch) (*domain.Course, error)

	// DeleteCourse removes a course and all of its link rows atomically.
	// Returns store.ErrCourseNotFound if the course does not exist.
	DeleteCourse(ctx context.Context, id int64) error
}

// courseServiceImpl implements the CourseService interface.
type courseServiceImpl struct {
	db            *sql.DB
	courses       store.CourseStore
	organizations store.OrganizationStore
	difficulties  store.DifficultyStore
	subjects      store.SubjectStore
	grades        store.GradeStore
	emitter       events.EventEmitter
	logger        *slog.Logger
}

// NewCourseService creates a new CourseService.
// The emitter may be nil, in which case no course-created events are
// dispatched. It returns an error if any other dependency is nil.
func NewCourseService(
	db *sql.DB,
	courses store.CourseStore,
	organizations store.OrganizationStore,
	difficulties store.DifficultyStore,
	subjects store.SubjectStore,
	grades store.GradeStore,
	emitter events.EventEmitter,
	log *slog.Logger,
) (CourseService, error) {
	if db == nil {
		return nil, domain.NewValidationError("db", "cannot be nil", domain.ErrValidation)
	}
	if courses == nil {
		return nil, domain.NewValidationError("courses", "cannot be nil", domain.ErrValidation)
	}
	if organizations == nil {
		return nil, domain.NewValidationError("organizations", "cannot be nil", domain.ErrValidation)
	}
	if difficulties == nil {
		return nil, domain.NewValidationError("difficulties", "cannot be nil", domain.ErrValidation)
	}
	if subjects == nil {
		return nil, domain.NewValidationError("subjects", "cannot be nil", domain.ErrValidation)
	}
	if grades == nil {
		return nil, domain.NewValidationError("grades", "cannot be nil", domain.ErrValidation)
	}
	if log == nil {
		log = slog.Default()
	}

	return &courseServiceImpl{
		db:            db,
		courses:       courses,
		organizations: organizations,
		difficulties:  difficulties,
		subjects:      subjects,
		grades:        grades,
		emitter:       emitter,
		logger:        log.With(slog.String("component", "course_service")),
	}, nil
}

// ListCourses implements CourseService.ListCourses
func (s *courseServiceImpl) ListCourses(
	ctx context.Context,
	filter store.CourseFilter,
) ([]*domain.Course, error) {
	return s.courses.List(ctx, filter)
}

// GetCourse implements CourseService.GetCourse
func (s *courseServiceImpl) GetCourse(ctx context.Context, id int64) (*domain.Course, error) {
	return s.courses.GetByID(ctx, id)
}

// CreateCourse implements CourseService.CreateCourse
func (s *courseServiceImpl) CreateCourse(
	ctx context.Context,
	input CreateCourseInput,
) (*domain.Course, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// Checked before any row is written: the minimum is a business rule, not
	// a storage constraint, because subjects resolve in the same request.
	if len(input.Subjects) == 0 {
		return nil, domain.NewValidationError(
			"subjects", "course must have at least one subject", nil)
	}

	var created *domain.Course
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txCourses := s.courses.WithTx(tx)
		txOrganizations := s.organizations.WithTx(tx)
		txDifficulties := s.difficulties.WithTx(tx)
		txSubjects := s.subjects.WithTx(tx)
		txGrades := s.grades.WithTx(tx)

		// Difficulty is curated: absence is fatal.
		difficulty, err := txDifficulties.GetByType(ctx, input.Difficulty)
		if err != nil {
			return err
		}

		// Organization is an open taxonomy: get-or-create, never fatal.
		org, err := txOrganizations.GetOrCreate(ctx, input.Organization)
		if err != nil {
			return err
		}

		subjectIDs, err := resolveSubjects(ctx, txSubjects, input.Subjects)
		if err != nil {
			return err
		}

		gradeIDs, err := resolveGrades(ctx, txGrades, input.Grades)
		if err != nil {
			return err
		}

		course := &domain.Course{
			Title:          input.Title,
			Description:    input.Description,
			StartDate:      input.StartDate,
			EndDate:        input.EndDate,
			URL:            input.URL,
			ImageURL:       input.ImageURL,
			OrganizationID: org.ID,
			DifficultyID:   difficulty.ID,
		}
		if err := txCourses.Create(ctx, course); err != nil {
			return NewCourseServiceError("create", "failed to insert course row", err)
		}

		if err := txCourses.ReplaceSubjectLinks(ctx, course.ID, subjectIDs); err != nil {
			return NewCourseServiceError("create", "failed to install subject links", err)
		}
		if err := txCourses.ReplaceGradeLinks(ctx, course.ID, gradeIDs); err != nil {
			return NewCourseServiceError("create", "failed to install grade links", err)
		}

		created, err = txCourses.GetByID(ctx, course.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info("course created with relations",
		slog.Int64("course_id", created.ID),
		slog.Int("subject_count", len(created.Subjects)),
		slog.Int("grade_count", len(created.Grades)))

	s.emitCourseCreated(ctx, created)

	return created, nil
}

// UpdateCourse implements CourseService.UpdateCourse
func (s *courseServiceImpl) UpdateCourse(
	ctx context.Context,
	id int64,
	patch UpdateCoursePatch,
) (*domain.Course, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var updated *domain.Course
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txCourses := s.courses.WithTx(tx)
		txOrganizations := s.organizations.WithTx(tx)
		txDifficulties := s.difficulties.WithTx(tx)
		txSubjects := s.subjects.WithTx(tx)
		txGrades := s.grades.WithTx(tx)

		course, err := txCourses.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if patch.Title != nil {
			course.Title = *patch.Title
		}
		if patch.Description != nil {
			course.Description = *patch.Description
		}
		if patch.StartDate != nil {
			course.StartDate = *patch.StartDate
		}
		if patch.EndDate != nil {
			course.EndDate = *patch.EndDate
		}
		if patch.URL != nil {
			course.URL = *patch.URL
		}
		if patch.ImageURL != nil {
			course.ImageURL = *patch.ImageURL
		}

		if patch.Difficulty != nil {
			difficulty, err := txDifficulties.GetByType(ctx, *patch.Difficulty)
			if err != nil {
				return err
			}
			course.DifficultyID = difficulty.ID
		}
		if patch.Organization != nil {
			org, err := txOrganizations.GetOrCreate(ctx, *patch.Organization)
			if err != nil {
				return err
			}
			course.OrganizationID = org.ID
		}

		if err := txCourses.Update(ctx, course); err != nil {
			return NewCourseServiceError("update", "failed to update course row", err)
		}

		// Present relation fields replace the whole set. An empty subject
		// list is accepted here (clearing all associations) even though
		// creation rejects it; the asymmetry is deliberate.
		if patch.Subjects != nil {
			subjectIDs, err := resolveSubjects(ctx, txSubjects, *patch.Subjects)
			if err != nil {
				return err
			}
			if err := txCourses.ReplaceSubjectLinks(ctx, id, subjectIDs); err != nil {
				return NewCourseServiceError("update", "failed to replace subject links", err)
			}
		}
		if patch.Grades != nil {
			gradeIDs, err := resolveGrades(ctx, txGrades, *patch.Grades)
			if err != nil {
				return err
			}
			if err := txCourses.ReplaceGradeLinks(ctx, id, gradeIDs); err != nil {
				return NewCourseServiceError("update", "failed to replace grade links", err)
			}
		}

		updated, err = txCourses.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info("course updated with relations", slog.Int64("course_id", id))
	return updated, nil
}

// DeleteCourse implements CourseService.DeleteCourse
func (s *courseServiceImpl) DeleteCourse(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.courses.WithTx(tx).Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	log.Info("course deleted", slog.Int64("course_id", id))
	return nil
}

// resolveSubjects resolves subject types to IDs, all-or-nothing. The
// returned IDs follow the requested order with duplicates removed. If any
// type has no match, every missing type is reported together.
func resolveSubjects(
	ctx context.Context,
	subjects store.SubjectStore,
	types []string,
) ([]int64, error) {
	if len(types) == 0 {
		return []int64{}, nil
	}

	found, err := subjects.GetByTypes(ctx, types)
	if err != nil {
		return nil, err
	}

	byType := make(map[string]int64, len(found))
	for _, subject := range found {
		byType[subject.Type] = subject.ID
	}

	ids := make([]int64, 0, len(types))
	missing := []string{}
	seen := make(map[string]bool, len(types))
	for _, t := range types {
		if seen[t] {
			continue
		}
		seen[t] = true
		id, ok := byType[t]
		if !ok {
			missing = append(missing, t)
			continue
		}
		ids = append(ids, id)
	}

	if len(missing) > 0 {
		return nil, &store.SubjectsNotFoundError{Types: missing}
	}
	return ids, nil
}

// resolveGrades get-or-creates a grade per value. Unknown values are
// silently materialized. The returned IDs follow the requested order with
// duplicates removed.
func resolveGrades(ctx context.Context, grades store.GradeStore, values []int) ([]int64, error) {
	ids := make([]int64, 0, len(values))
	seen := make(map[int]bool, len(values))
	for _, value := range values {
		if seen[value] {
			continue
		}
		seen[value] = true
		grade, err := grades.GetOrCreate(ctx, value)
		if err != nil {
			return nil, err
		}
		ids = append(ids, grade.ID)
	}
	return ids, nil
}

// emitCourseCreated dispatches the course-created event. Delivery is
// advisory: failures are logged and swallowed, they never affect the
// committed write.
func (s *courseServiceImpl) emitCourseCreated(ctx context.Context, course *domain.Course) {
	if s.emitter == nil {
		return
	}

	log := logger.FromContextOrDefault(ctx, s.logger)

	event := events.NewCourseCreatedEvent(events.CourseCreatedPayload{
		ID:           course.ID,
		Title:        course.Title,
		Description:  course.Description,
		StartDate:    course.StartDate.Format("2006-01-02"),
		URL:          course.URL,
		ImageURL:     course.ImageURL,
		Grades:       course.GradeValues(),
		Difficulty:   course.Difficulty.Type,
		Subjects:     course.SubjectTypes(),
		Organization: course.Organization.Name,
	})

	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		log.Warn("failed to emit course-created event",
			slog.Int64("course_id", course.ID),
			slog.String("error", err.Error()))
	}
}
