package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver

	"github.com/daha-io/catalog-api/internal/config"
	"github.com/daha-io/catalog-api/internal/events"
	"github.com/daha-io/catalog-api/internal/platform/postgres"
	"github.com/daha-io/catalog-api/internal/service"
	"github.com/daha-io/catalog-api/internal/store"
	"github.com/daha-io/catalog-api/internal/task"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	courseStore       store.CourseStore
	organizationStore store.OrganizationStore
	difficultyStore   store.DifficultyStore
	subjectStore      store.SubjectStore
	gradeStore        store.GradeStore

	courseService service.CourseService

	// Event system and background notification delivery
	eventEmitter events.EventEmitter
	taskRunner   *task.Runner
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger, and
// database connection that must be established before application
// initialization.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	app.courseStore = postgres.NewPostgresCourseStore(db, logger)
	app.organizationStore = postgres.NewPostgresOrganizationStore(db, logger)
	app.difficultyStore = postgres.NewPostgresDifficultyStore(db, logger)
	app.subjectStore = postgres.NewPostgresSubjectStore(db, logger)
	app.gradeStore = postgres.NewPostgresGradeStore(db, logger)

	// The notifier is optional: without a webhook URL no emitter is wired and
	// course writes skip event dispatch entirely.
	if cfg.Notifier.WebhookURL != "" {
		emitter := events.NewInMemoryEventEmitter(logger)

		app.taskRunner = task.NewRunner(task.RunnerConfig{
			WorkerCount: cfg.Notifier.WorkerCount,
			QueueSize:   cfg.Notifier.QueueSize,
		}, logger)
		app.taskRunner.Start()

		handler := task.NewNotifierEventHandler(app.taskRunner, task.NotificationTaskConfig{
			WebhookURL:  cfg.Notifier.WebhookURL,
			MaxAttempts: cfg.Notifier.MaxAttempts,
		}, nil, logger)
		emitter.RegisterHandler(handler)

		app.eventEmitter = emitter
		logger.Info("course-created notifier initialized",
			slog.Int("worker_count", cfg.Notifier.WorkerCount),
			slog.Int("queue_size", cfg.Notifier.QueueSize))
	}

	var err error
	app.courseService, err = service.NewCourseService(
		db,
		app.courseStore,
		app.organizationStore,
		app.difficultyStore,
		app.subjectStore,
		app.gradeStore,
		app.eventEmitter,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create course service: %w", err)
	}

	logger.Info("application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources. The task
// runner is stopped first so in-flight notification deliveries drain before
// the database connection closes.
func (app *application) cleanup() {
	if app.taskRunner != nil {
		app.taskRunner.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}

// setupDatabase establishes a connection to the database and configures
// connection pools. Returns the database connection if successful, or an
// error if the connection fails.
func setupDatabase(cfg *config.Config, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established")
	return db, nil
}
