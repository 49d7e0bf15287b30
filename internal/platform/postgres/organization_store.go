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

// PostgresOrganizationStore implements the store.OrganizationStore interface
// using a PostgreSQL database as the storage backend.
type PostgresOrganizationStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresOrganizationStore creates a new PostgreSQL implementation of the
// OrganizationStore interface. It accepts a database connection or
// transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresOrganizationStore(db store.DBTX, logger *slog.Logger) *PostgresOrganizationStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresOrganizationStore{
		db:     db,
		logger: logger.With(slog.String("component", "organization_store")),
	}
}

// Ensure PostgresOrganizationStore implements store.OrganizationStore
var _ store.OrganizationStore = (*PostgresOrganizationStore)(nil)

// WithTx implements store.OrganizationStore.WithTx
func (s *PostgresOrganizationStore) WithTx(tx *sql.Tx) store.OrganizationStore {
	return &PostgresOrganizationStore{
		db:     tx,
		logger: s.logger,
	}
}

// GetAll implements store.OrganizationStore.GetAll
func (s *PostgresOrganizationStore) GetAll(ctx context.Context) ([]domain.Organization, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name
		FROM organizations
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to query organizations", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	orgs := []domain.Organization{}
	for rows.Next() {
		var org domain.Organization
		if err := rows.Scan(&org.ID, &org.Name); err != nil {
			log.Error("failed to scan organization row", slog.String("error", err.Error()))
			return nil, err
		}
		orgs = append(orgs, org)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return orgs, nil
}

// GetByID implements store.OrganizationStore.GetByID
// Returns store.ErrOrganizationNotFound if the organization does not exist.
func (s *PostgresOrganizationStore) GetByID(ctx context.Context, id int64) (*domain.Organization, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name
		FROM organizations
		WHERE id = $1
	`

	var org domain.Organization
	err := s.db.QueryRowContext(ctx, query, id).Scan(&org.ID, &org.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("organization not found", slog.Int64("organization_id", id))
			return nil, fmt.Errorf("%w: id %d", store.ErrOrganizationNotFound, id)
		}
		log.Error("failed to get organization by ID",
			slog.String("error", err.Error()),
			slog.Int64("organization_id", id))
		return nil, err
	}

	return &org, nil
}

// GetByName implements store.OrganizationStore.GetByName
// Returns store.ErrOrganizationNotFound if no organization has that name.
func (s *PostgresOrganizationStore) GetByName(ctx context.Context, name string) (*domain.Organization, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name
		FROM organizations
		WHERE name = $1
	`

	var org domain.Organization
	err := s.db.QueryRowContext(ctx, query, name).Scan(&org.ID, &org.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("organization not found by name", slog.String("name", name))
			return nil, fmt.Errorf("%w: name %q", store.ErrOrganizationNotFound, name)
		}
		log.Error("failed to get organization by name",
			slog.String("error", err.Error()),
			slog.String("name", name))
		return nil, err
	}

	return &org, nil
}

// Create implements store.OrganizationStore.Create
// Returns store.ErrOrganizationNameExists if the name is already taken.
func (s *PostgresOrganizationStore) Create(ctx context.Context, org *domain.Organization) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := org.Validate(); err != nil {
		log.Warn("organization validation failed during create",
			slog.String("error", err.Error()))
		return err
	}

	query := `
		INSERT INTO organizations (name)
		VALUES ($1)
		RETURNING id
	`

	err := s.db.QueryRowContext(ctx, query, org.Name).Scan(&org.ID)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("duplicate organization name",
				slog.String("name", org.Name))
			return fmt.Errorf("%w: %q", store.ErrOrganizationNameExists, org.Name)
		}
		log.Error("failed to create organization",
			slog.String("error", err.Error()),
			slog.String("name", org.Name))
		return err
	}

	log.Info("organization created",
		slog.Int64("organization_id", org.ID),
		slog.String("name", org.Name))
	return nil
}

// Update implements store.OrganizationStore.Update
// Returns store.ErrOrganizationNotFound if the organization does not exist.
func (s *PostgresOrganizationStore) Update(
	ctx context.Context,
	id int64,
	patch store.OrganizationPatch,
) (*domain.Organization, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	org, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		org.Name = *patch.Name
	}

	if err := org.Validate(); err != nil {
		log.Warn("organization validation failed during update",
			slog.String("error", err.Error()),
			slog.Int64("organization_id", id))
		return nil, err
	}

	query := `
		UPDATE organizations
		SET name = $1
		WHERE id = $2
	`

	result, err := s.db.ExecContext(ctx, query, org.Name, id)
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %q", store.ErrOrganizationNameExists, org.Name)
		}
		log.Error("failed to update organization",
			slog.String("error", err.Error()),
			slog.Int64("organization_id", id))
		return nil, err
	}

	if err := CheckRowsAffected(result, store.ErrOrganizationNotFound); err != nil {
		return nil, err
	}

	log.Info("organization updated", slog.Int64("organization_id", id))
	return org, nil
}

// Delete implements store.OrganizationStore.Delete
// Returns store.ErrOrganizationNotFound if the organization does not exist.
func (s *PostgresOrganizationStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		DELETE FROM organizations
		WHERE id = $1
	`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Error("failed to delete organization",
			slog.String("error", err.Error()),
			slog.Int64("organization_id", id))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrOrganizationNotFound); err != nil {
		return err
	}

	log.Info("organization deleted", slog.Int64("organization_id", id))
	return nil
}

// GetOrCreate implements store.OrganizationStore.GetOrCreate
// The insert uses ON CONFLICT DO NOTHING so a lost race never aborts the
// surrounding transaction; the loser re-reads the winner's row.
func (s *PostgresOrganizationStore) GetOrCreate(ctx context.Context, name string) (*domain.Organization, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO organizations (name)
		VALUES ($1)
		ON CONFLICT (name) DO NOTHING
		RETURNING id
	`

	var id int64
	err := s.db.QueryRowContext(ctx, query, name).Scan(&id)
	if err == nil {
		log.Info("organization created via get-or-create",
			slog.Int64("organization_id", id),
			slog.String("name", name))
		return &domain.Organization{ID: id, Name: name}, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		log.Error("failed to get-or-create organization",
			slog.String("error", err.Error()),
			slog.String("name", name))
		return nil, err
	}

	// No row returned means the name already exists; read it back.
	return s.GetByName(ctx, name)
}
