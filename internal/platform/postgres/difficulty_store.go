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

// PostgresDifficultyStore implements the store.DifficultyStore interface
// using a PostgreSQL database as the storage backend. Difficulties are a
// curated taxonomy, so unlike organizations and grades there is no
// get-or-create path.
type PostgresDifficultyStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresDifficultyStore creates a new PostgreSQL implementation of the
// DifficultyStore interface. If logger is nil, a default logger will be used.
func NewPostgresDifficultyStore(db store.DBTX, logger *slog.Logger) *PostgresDifficultyStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresDifficultyStore{
		db:     db,
		logger: logger.With(slog.String("component", "difficulty_store")),
	}
}

// Ensure PostgresDifficultyStore implements store.DifficultyStore
var _ store.DifficultyStore = (*PostgresDifficultyStore)(nil)

// WithTx implements store.DifficultyStore.WithTx
func (s *PostgresDifficultyStore) WithTx(tx *sql.Tx) store.DifficultyStore {
	return &PostgresDifficultyStore{
		db:     tx,
		logger: s.logger,
	}
}

// GetAll implements store.DifficultyStore.GetAll
func (s *PostgresDifficultyStore) GetAll(ctx context.Context) ([]domain.Difficulty, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, type, label, icon, color
		FROM difficulties
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to query difficulties", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	difficulties := []domain.Difficulty{}
	for rows.Next() {
		var d domain.Difficulty
		if err := rows.Scan(&d.ID, &d.Type, &d.Label, &d.Icon, &d.Color); err != nil {
			log.Error("failed to scan difficulty row", slog.String("error", err.Error()))
			return nil, err
		}
		difficulties = append(difficulties, d)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return difficulties, nil
}

// GetByID implements store.DifficultyStore.GetByID
// Returns store.ErrDifficultyNotFound if the difficulty does not exist.
func (s *PostgresDifficultyStore) GetByID(ctx context.Context, id int64) (*domain.Difficulty, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, type, label, icon, color
		FROM difficulties
		WHERE id = $1
	`

	var d domain.Difficulty
	err := s.db.QueryRowContext(ctx, query, id).Scan(&d.ID, &d.Type, &d.Label, &d.Icon, &d.Color)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("difficulty not found", slog.Int64("difficulty_id", id))
			return nil, fmt.Errorf("%w: id %d", store.ErrDifficultyNotFound, id)
		}
		log.Error("failed to get difficulty by ID",
			slog.String("error", err.Error()),
			slog.Int64("difficulty_id", id))
		return nil, err
	}

	return &d, nil
}

// GetByType implements store.DifficultyStore.GetByType
// Returns store.ErrDifficultyNotFound if no difficulty has that type.
func (s *PostgresDifficultyStore) GetByType(
	ctx context.Context,
	difficultyType string,
) (*domain.Difficulty, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, type, label, icon, color
		FROM difficulties
		WHERE type = $1
	`

	var d domain.Difficulty
	err := s.db.QueryRowContext(ctx, query, difficultyType).
		Scan(&d.ID, &d.Type, &d.Label, &d.Icon, &d.Color)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("difficulty not found by type", slog.String("type", difficultyType))
			return nil, fmt.Errorf("%w: type %q", store.ErrDifficultyNotFound, difficultyType)
		}
		log.Error("failed to get difficulty by type",
			slog.String("error", err.Error()),
			slog.String("type", difficultyType))
		return nil, err
	}

	return &d, nil
}

// Create implements store.DifficultyStore.Create
// Returns store.ErrDifficultyTypeExists if the type is already taken.
func (s *PostgresDifficultyStore) Create(ctx context.Context, difficulty *domain.Difficulty) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := difficulty.Validate(); err != nil {
		log.Warn("difficulty validation failed during create",
			slog.String("error", err.Error()))
		return err
	}

	query := `
		INSERT INTO difficulties (type, label, icon, color)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := s.db.QueryRowContext(
		ctx,
		query,
		difficulty.Type,
		difficulty.Label,
		difficulty.Icon,
		difficulty.Color,
	).Scan(&difficulty.ID)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("duplicate difficulty type", slog.String("type", difficulty.Type))
			return fmt.Errorf("%w: %q", store.ErrDifficultyTypeExists, difficulty.Type)
		}
		log.Error("failed to create difficulty",
			slog.String("error", err.Error()),
			slog.String("type", difficulty.Type))
		return err
	}

	log.Info("difficulty created",
		slog.Int64("difficulty_id", difficulty.ID),
		slog.String("type", difficulty.Type))
	return nil
}

// Update implements store.DifficultyStore.Update
// Returns store.ErrDifficultyNotFound if the difficulty does not exist.
func (s *PostgresDifficultyStore) Update(
	ctx context.Context,
	id int64,
	patch store.DifficultyPatch,
) (*domain.Difficulty, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	d, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Type != nil {
		d.Type = *patch.Type
	}
	if patch.Label != nil {
		d.Label = *patch.Label
	}
	if patch.Icon != nil {
		d.Icon = *patch.Icon
	}
	if patch.Color != nil {
		d.Color = *patch.Color
	}

	if err := d.Validate(); err != nil {
		log.Warn("difficulty validation failed during update",
			slog.String("error", err.Error()),
			slog.Int64("difficulty_id", id))
		return nil, err
	}

	query := `
		UPDATE difficulties
		SET type = $1, label = $2, icon = $3, color = $4
		WHERE id = $5
	`

	result, err := s.db.ExecContext(ctx, query, d.Type, d.Label, d.Icon, d.Color, id)
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %q", store.ErrDifficultyTypeExists, d.Type)
		}
		log.Error("failed to update difficulty",
			slog.String("error", err.Error()),
			slog.Int64("difficulty_id", id))
		return nil, err
	}

	if err := CheckRowsAffected(result, store.ErrDifficultyNotFound); err != nil {
		return nil, err
	}

	log.Info("difficulty updated", slog.Int64("difficulty_id", id))
	return d, nil
}

// Delete implements store.DifficultyStore.Delete
// Returns store.ErrDifficultyNotFound if the difficulty does not exist.
func (s *PostgresDifficultyStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		DELETE FROM difficulties
		WHERE id = $1
	`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Error("failed to delete difficulty",
			slog.String("error", err.Error()),
			slog.Int64("difficulty_id", id))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrDifficultyNotFound); err != nil {
		return err
	}

	log.Info("difficulty deleted", slog.Int64("difficulty_id", id))
	return nil
}
