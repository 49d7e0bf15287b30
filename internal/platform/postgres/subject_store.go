package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/daha-io/catalog-api/internal/domain"
	"github.com/daha-io/catalog-api/internal/platform/logger"
	"github.com/daha-io/catalog-api/internal/store"
)

// PostgresSubjectStore implements the store.SubjectStore interface using a
// PostgreSQL database as the storage backend. The additional_description
// column is JSONB holding an ordered array of strings.
type PostgresSubjectStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSubjectStore creates a new PostgreSQL implementation of the
// SubjectStore interface. If logger is nil, a default logger will be used.
func NewPostgresSubjectStore(db store.DBTX, logger *slog.Logger) *PostgresSubjectStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSubjectStore{
		db:     db,
		logger: logger.With(slog.String("component", "subject_store")),
	}
}

// Ensure PostgresSubjectStore implements store.SubjectStore
var _ store.SubjectStore = (*PostgresSubjectStore)(nil)

// WithTx implements store.SubjectStore.WithTx
func (s *PostgresSubjectStore) WithTx(tx *sql.Tx) store.SubjectStore {
	return &PostgresSubjectStore{
		db:     tx,
		logger: s.logger,
	}
}

// scanSubject scans one subject row, decoding the JSONB description array.
func scanSubject(scan func(dest ...any) error) (*domain.Subject, error) {
	var subject domain.Subject
	var descJSON []byte

	if err := scan(
		&subject.ID,
		&subject.Type,
		&subject.Label,
		&subject.Icon,
		&subject.Color,
		&descJSON,
	); err != nil {
		return nil, err
	}

	if len(descJSON) > 0 {
		if err := json.Unmarshal(descJSON, &subject.AdditionalDescription); err != nil {
			return nil, fmt.Errorf("failed to decode additional_description: %w", err)
		}
	}
	if subject.AdditionalDescription == nil {
		subject.AdditionalDescription = []string{}
	}

	return &subject, nil
}

// GetAll implements store.SubjectStore.GetAll
func (s *PostgresSubjectStore) GetAll(ctx context.Context) ([]domain.Subject, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, type, label, icon, color, additional_description
		FROM subjects
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to query subjects", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	subjects := []domain.Subject{}
	for rows.Next() {
		subject, err := scanSubject(rows.Scan)
		if err != nil {
			log.Error("failed to scan subject row", slog.String("error", err.Error()))
			return nil, err
		}
		subjects = append(subjects, *subject)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return subjects, nil
}

// GetByID implements store.SubjectStore.GetByID
// Returns store.ErrSubjectNotFound if the subject does not exist.
func (s *PostgresSubjectStore) GetByID(ctx context.Context, id int64) (*domain.Subject, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, type, label, icon, color, additional_description
		FROM subjects
		WHERE id = $1
	`

	subject, err := scanSubject(s.db.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("subject not found", slog.Int64("subject_id", id))
			return nil, fmt.Errorf("%w: id %d", store.ErrSubjectNotFound, id)
		}
		log.Error("failed to get subject by ID",
			slog.String("error", err.Error()),
			slog.Int64("subject_id", id))
		return nil, err
	}

	return subject, nil
}

// GetByType implements store.SubjectStore.GetByType
// Returns store.ErrSubjectNotFound if no subject has that type.
func (s *PostgresSubjectStore) GetByType(ctx context.Context, subjectType string) (*domain.Subject, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, type, label, icon, color, additional_description
		FROM subjects
		WHERE type = $1
	`

	subject, err := scanSubject(s.db.QueryRowContext(ctx, query, subjectType).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("subject not found by type", slog.String("type", subjectType))
			return nil, fmt.Errorf("%w: type %q", store.ErrSubjectNotFound, subjectType)
		}
		log.Error("failed to get subject by type",
			slog.String("error", err.Error()),
			slog.String("type", subjectType))
		return nil, err
	}

	return subject, nil
}

// GetByTypes implements store.SubjectStore.GetByTypes
// Missing types are omitted from the result rather than reported as errors;
// the synchronizer compares lengths to build its all-or-nothing report.
func (s *PostgresSubjectStore) GetByTypes(
	ctx context.Context,
	subjectTypes []string,
) ([]domain.Subject, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(subjectTypes) == 0 {
		return []domain.Subject{}, nil
	}

	query := `
		SELECT id, type, label, icon, color, additional_description
		FROM subjects
		WHERE type = ANY($1)
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query, subjectTypes)
	if err != nil {
		log.Error("failed to query subjects by types", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	subjects := []domain.Subject{}
	for rows.Next() {
		subject, err := scanSubject(rows.Scan)
		if err != nil {
			log.Error("failed to scan subject row", slog.String("error", err.Error()))
			return nil, err
		}
		subjects = append(subjects, *subject)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return subjects, nil
}

// Create implements store.SubjectStore.Create
// Returns store.ErrSubjectTypeExists if the type is already taken.
func (s *PostgresSubjectStore) Create(ctx context.Context, subject *domain.Subject) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := subject.Validate(); err != nil {
		log.Warn("subject validation failed during create",
			slog.String("error", err.Error()))
		return err
	}

	if subject.AdditionalDescription == nil {
		subject.AdditionalDescription = []string{}
	}
	descJSON, err := json.Marshal(subject.AdditionalDescription)
	if err != nil {
		return fmt.Errorf("failed to encode additional_description: %w", err)
	}

	query := `
		INSERT INTO subjects (type, label, icon, color, additional_description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err = s.db.QueryRowContext(
		ctx,
		query,
		subject.Type,
		subject.Label,
		subject.Icon,
		subject.Color,
		descJSON,
	).Scan(&subject.ID)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("duplicate subject type", slog.String("type", subject.Type))
			return fmt.Errorf("%w: %q", store.ErrSubjectTypeExists, subject.Type)
		}
		log.Error("failed to create subject",
			slog.String("error", err.Error()),
			slog.String("type", subject.Type))
		return err
	}

	log.Info("subject created",
		slog.Int64("subject_id", subject.ID),
		slog.String("type", subject.Type))
	return nil
}

// Update implements store.SubjectStore.Update
// Returns store.ErrSubjectNotFound if the subject does not exist.
func (s *PostgresSubjectStore) Update(
	ctx context.Context,
	id int64,
	patch store.SubjectPatch,
) (*domain.Subject, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	subject, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Type != nil {
		subject.Type = *patch.Type
	}
	if patch.Label != nil {
		subject.Label = *patch.Label
	}
	if patch.Icon != nil {
		subject.Icon = *patch.Icon
	}
	if patch.Color != nil {
		subject.Color = *patch.Color
	}
	if patch.AdditionalDescription != nil {
		subject.AdditionalDescription = *patch.AdditionalDescription
	}

	if err := subject.Validate(); err != nil {
		log.Warn("subject validation failed during update",
			slog.String("error", err.Error()),
			slog.Int64("subject_id", id))
		return nil, err
	}

	if subject.AdditionalDescription == nil {
		subject.AdditionalDescription = []string{}
	}
	descJSON, err := json.Marshal(subject.AdditionalDescription)
	if err != nil {
		return nil, fmt.Errorf("failed to encode additional_description: %w", err)
	}

	query := `
		UPDATE subjects
		SET type = $1, label = $2, icon = $3, color = $4, additional_description = $5
		WHERE id = $6
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		subject.Type,
		subject.Label,
		subject.Icon,
		subject.Color,
		descJSON,
		id,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %q", store.ErrSubjectTypeExists, subject.Type)
		}
		log.Error("failed to update subject",
			slog.String("error", err.Error()),
			slog.Int64("subject_id", id))
		return nil, err
	}

	if err := CheckRowsAffected(result, store.ErrSubjectNotFound); err != nil {
		return nil, err
	}

	log.Info("subject updated", slog.Int64("subject_id", id))
	return subject, nil
}

// Delete implements store.SubjectStore.Delete
// Returns store.ErrSubjectNotFound if the subject does not exist.
func (s *PostgresSubjectStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		DELETE FROM subjects
		WHERE id = $1
	`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Error("failed to delete subject",
			slog.String("error", err.Error()),
			slog.Int64("subject_id", id))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrSubjectNotFound); err != nil {
		return err
	}

	log.Info("subject deleted", slog.Int64("subject_id", id))
	return nil
}
