package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/daha-io/catalog-api/internal/domain"
	"github.com/daha-io/catalog-api/internal/platform/logger"
	"github.com/daha-io/catalog-api/internal/store"
)

// PostgresGradeStore implements the store.GradeStore interface using a
// PostgreSQL database as the storage backend.
type PostgresGradeStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresGradeStore creates a new PostgreSQL implementation of the
// GradeStore interface. If logger is nil, a default logger will be used.
func NewPostgresGradeStore(db store.DBTX, logger *slog.Logger) *PostgresGradeStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresGradeStore{
		db:     db,
		logger: logger.With(slog.String("component", "grade_store")),
	}
}

// Ensure PostgresGradeStore implements store.GradeStore
var _ store.GradeStore = (*PostgresGradeStore)(nil)

// WithTx implements store.GradeStore.WithTx
func (s *PostgresGradeStore) WithTx(tx *sql.Tx) store.GradeStore {
	return &PostgresGradeStore{
		db:     tx,
		logger: s.logger,
	}
}

// GetAll implements store.GradeStore.GetAll
func (s *PostgresGradeStore) GetAll(ctx context.Context) ([]domain.Grade, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, value
		FROM grades
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to query grades", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	grades := []domain.Grade{}
	for rows.Next() {
		var g domain.Grade
		if err := rows.Scan(&g.ID, &g.Value); err != nil {
			log.Error("failed to scan grade row", slog.String("error", err.Error()))
			return nil, err
		}
		grades = append(grades, g)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return grades, nil
}

// GetByID implements store.GradeStore.GetByID
// Returns store.ErrGradeNotFound if the grade does not exist.
func (s *PostgresGradeStore) GetByID(ctx context.Context, id int64) (*domain.Grade, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, value
		FROM grades
		WHERE id = $1
	`

	var g domain.Grade
	err := s.db.QueryRowContext(ctx, query, id).Scan(&g.ID, &g.Value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("grade not found", slog.Int64("grade_id", id))
			return nil, fmt.Errorf("%w: id %d", store.ErrGradeNotFound, id)
		}
		log.Error("failed to get grade by ID",
			slog.String("error", err.Error()),
			slog.Int64("grade_id", id))
		return nil, err
	}

	return &g, nil
}

// GetByValue implements store.GradeStore.GetByValue
// Returns store.ErrGradeNotFound if no grade has that value.
func (s *PostgresGradeStore) GetByValue(ctx context.Context, value int) (*domain.Grade, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, value
		FROM grades
		WHERE value = $1
	`

	var g domain.Grade
	err := s.db.QueryRowContext(ctx, query, value).Scan(&g.ID, &g.Value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("grade not found by value", slog.Int("value", value))
			return nil, fmt.Errorf("%w: value %d", store.ErrGradeNotFound, value)
		}
		log.Error("failed to get grade by value",
			slog.String("error", err.Error()),
			slog.Int("value", value))
		return nil, err
	}

	return &g, nil
}

// Create implements store.GradeStore.Create
// Returns store.ErrGradeValueExists if the value is already taken.
func (s *PostgresGradeStore) Create(ctx context.Context, grade *domain.Grade) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := grade.Validate(); err != nil {
		log.Warn("grade validation failed during create",
			slog.String("error", err.Error()))
		return err
	}

	query := `
		INSERT INTO grades (value)
		VALUES ($1)
		RETURNING id
	`

	err := s.db.QueryRowContext(ctx, query, grade.Value).Scan(&grade.ID)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("duplicate grade value", slog.Int("value", grade.Value))
			return fmt.Errorf("%w: %d", store.ErrGradeValueExists, grade.Value)
		}
		log.Error("failed to create grade",
			slog.String("error", err.Error()),
			slog.Int("value", grade.Value))
		return err
	}

	log.Info("grade created",
		slog.Int64("grade_id", grade.ID),
		slog.Int("value", grade.Value))
	return nil
}

// Update implements store.GradeStore.Update
// Returns store.ErrGradeNotFound if the grade does not exist.
func (s *PostgresGradeStore) Update(
	ctx context.Context,
	id int64,
	patch store.GradePatch,
) (*domain.Grade, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	g, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Value != nil {
		g.Value = *patch.Value
	}

	if err := g.Validate(); err != nil {
		log.Warn("grade validation failed during update",
			slog.String("error", err.Error()),
			slog.Int64("grade_id", id))
		return nil, err
	}

	query := `
		UPDATE grades
		SET value = $1
		WHERE id = $2
	`

	result, err := s.db.ExecContext(ctx, query, g.Value, id)
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %d", store.ErrGradeValueExists, g.Value)
		}
		log.Error("failed to update grade",
			slog.String("error", err.Error()),
			slog.Int64("grade_id", id))
		return nil, err
	}

	if err := CheckRowsAffected(result, store.ErrGradeNotFound); err != nil {
		return nil, err
	}

	log.Info("grade updated", slog.Int64("grade_id", id))
	return g, nil
}

// Delete implements store.GradeStore.Delete
// Returns store.ErrGradeNotFound if the grade does not exist.
func (s *PostgresGradeStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		DELETE FROM grades
		WHERE id = $1
	`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Error("failed to delete grade",
			slog.String("error", err.Error()),
			slog.Int64("grade_id", id))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrGradeNotFound); err != nil {
		return err
	}

	log.Info("grade deleted", slog.Int64("grade_id", id))
	return nil
}

// GetOrCreate implements store.GradeStore.GetOrCreate
// Unknown grade values are silently materialized. The insert uses ON CONFLICT
// DO NOTHING so a lost race never aborts the surrounding transaction; the
// loser re-reads the winner's row.
func (s *PostgresGradeStore) GetOrCreate(ctx context.Context, value int) (*domain.Grade, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO grades (value)
		VALUES ($1)
		ON CONFLICT (value) DO NOTHING
		RETURNING id
	`

	var id int64
	err := s.db.QueryRowContext(ctx, query, value).Scan(&id)
	if err == nil {
		log.Info("grade created via get-or-create",
			slog.Int64("grade_id", id),
			slog.Int("value", value))
		return &domain.Grade{ID: id, Value: value}, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		log.Error("failed to get-or-create grade",
			slog.String("error", err.Error()),
			slog.Int("value", value))
		return nil, err
	}

	// No row returned means the value already exists; read it back.
	return s.GetByValue(ctx, value)
}
