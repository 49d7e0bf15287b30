package store

import (
	"context"
	"database/sql"

	"github.com/daha-io/catalog-api/internal/domain"
)

// OrganizationPatch describes a partial update to an organization. Nil fields
// are left untouched.
type OrganizationPatch struct {
	Name *string
}

// DifficultyPatch describes a partial update to a difficulty. Nil fields are
// left untouched.
type DifficultyPatch struct {
	Type  *string
	Label *string
	Icon  *string
	Color *string
}

// SubjectPatch describes a partial update to a subject. Nil fields are left
// untouched.
type SubjectPatch struct {
	Type                  *string
	Label                 *string
	Icon                  *string
	Color                 *string
	AdditionalDescription *[]string
}

// GradePatch describes a partial update to a grade. Nil fields are left
// untouched.
type GradePatch struct {
	Value *int
}

// OrganizationStore defines the interface for organization persistence.
type OrganizationStore interface {
	// GetAll retrieves all organizations ordered by ID.
	GetAll(ctx context.Context) ([]domain.Organization, error)

	// GetByID retrieves an organization by its unique ID.
	// Returns ErrOrganizationNotFound if the organization does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Organization, error)

	// GetByName retrieves an organization by its unique name.
	// Returns ErrOrganizationNotFound if no organization has that name;
	// callers decide whether absence is fatal.
	GetByName(ctx context.Context, name string) (*domain.Organization, error)

	// Create saves a new organization and fills in its ID.
	// Returns ErrOrganizationNameExists if the name is already taken.
	Create(ctx context.Context, org *domain.Organization) error

	// Update applies the non-nil fields of the patch to an existing
	// organization and returns the updated row.
	// Returns ErrOrganizationNotFound if the organization does not exist.
	Update(ctx context.Context, id int64, patch OrganizationPatch) (*domain.Organization, error)

	// Delete removes an organization.
	// Returns ErrOrganizationNotFound if the organization does not exist.
	Delete(ctx context.Context, id int64) error

	// GetOrCreate resolves an organization by name, creating it if absent.
	// The operation is race-safe: if a concurrent writer creates the same
	// name first, the existing row is returned instead of an error.
	GetOrCreate(ctx context.Context, name string) (*domain.Organization, error)

	// WithTx returns a new OrganizationStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) OrganizationStore
}

// DifficultyStore defines the interface for difficulty persistence.
// Difficulties are a curated taxonomy: there is no get-or-create, referencing
// an unknown type is an error.
type DifficultyStore interface {
	// GetAll retrieves all difficulties ordered by ID.
	GetAll(ctx context.Context) ([]domain.Difficulty, error)

	// GetByID retrieves a difficulty by its unique ID.
	// Returns ErrDifficultyNotFound if the difficulty does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Difficulty, error)

	// GetByType retrieves a difficulty by its unique type string.
	// Returns ErrDifficultyNotFound if no difficulty has that type.
	GetByType(ctx context.Context, difficultyType string) (*domain.Difficulty, error)

	// Create saves a new difficulty and fills in its ID.
	// Returns ErrDifficultyTypeExists if the type is already taken.
	Create(ctx context.Context, difficulty *domain.Difficulty) error

	// Update applies the non-nil fields of the patch to an existing
	// difficulty and returns the updated row.
	// Returns ErrDifficultyNotFound if the difficulty does not exist.
	Update(ctx context.Context, id int64, patch DifficultyPatch) (*domain.Difficulty, error)

	// Delete removes a difficulty.
	// Returns ErrDifficultyNotFound if the difficulty does not exist.
	Delete(ctx context.Context, id int64) error

	// WithTx returns a new DifficultyStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) DifficultyStore
}

// SubjectStore defines the interface for subject persistence.
// Subjects are a curated taxonomy: there is no get-or-create, referencing an
// unknown type is an error.
type SubjectStore interface {
	// GetAll retrieves all subjects ordered by ID.
	GetAll(ctx context.Context) ([]domain.Subject, error)

	// GetByID retrieves a subject by its unique ID.
	// Returns ErrSubjectNotFound if the subject does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Subject, error)

	// GetByType retrieves a subject by its unique type string.
	// Returns ErrSubjectNotFound if no subject has that type.
	GetByType(ctx context.Context, subjectType string) (*domain.Subject, error)

	// GetByTypes retrieves the subjects matching the given type strings.
	// Missing types are not an error at this level: the result simply omits
	// them, and callers compare lengths to detect partial resolution.
	GetByTypes(ctx context.Context, subjectTypes []string) ([]domain.Subject, error)

	// Create saves a new subject and fills in its ID.
	// Returns ErrSubjectTypeExists if the type is already taken.
	Create(ctx context.Context, subject *domain.Subject) error

	// Update applies the non-nil fields of the patch to an existing subject
	// and returns the updated row.
	// Returns ErrSubjectNotFound if the subject does not exist.
	Update(ctx context.Context, id int64, patch SubjectPatch) (*domain.Subject, error)

	// Delete removes a subject.
	// Returns ErrSubjectNotFound if the subject does not exist.
	Delete(ctx context.Context, id int64) error

	// WithTx returns a new SubjectStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) SubjectStore
}

// GradeStore defines the interface for grade persistence.
type GradeStore interface {
	// GetAll retrieves all grades ordered by ID.
	GetAll(ctx context.Context) ([]domain.Grade, error)

	// GetByID retrieves a grade by its unique ID.
	// Returns ErrGradeNotFound if the grade does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Grade, error)

	// GetByValue retrieves a grade by its unique integer value.
	// Returns ErrGradeNotFound if no grade has that value.
	GetByValue(ctx context.Context, value int) (*domain.Grade, error)

	// Create saves a new grade and fills in its ID.
	// Returns ErrGradeValueExists if the value is already taken.
	Create(ctx context.Context, grade *domain.Grade) error

	// Update applies the non-nil fields of the patch to an existing grade and
	// returns the updated row.
	// Returns ErrGradeNotFound if the grade does not exist.
	Update(ctx context.Context, id int64, patch GradePatch) (*domain.Grade, error)

	// Delete removes a grade.
	// Returns ErrGradeNotFound if the grade does not exist.
	Delete(ctx context.Context, id int64) error

	// GetOrCreate resolves a grade by value, creating it if absent.
	// The operation is race-safe: if a concurrent writer creates the same
	// value first, the existing row is returned instead of an error.
	GetOrCreate(ctx context.Context, value int) (*domain.Grade, error)

	// WithTx returns a new GradeStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) GradeStore
}
