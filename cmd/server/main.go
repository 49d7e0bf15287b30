// Package main implements the entry point for the catalog API server, which
// manages educational courses and the taxonomy entities they reference.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/daha-io/catalog-api/internal/config"
	"github.com/daha-io/catalog-api/internal/platform/logger"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("catalog-api failed: %v", err)
	}
}

// run wires configuration, logging, the database, and the application, then
// serves until a shutdown signal arrives.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	appLogger.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.Bool("notifier_enabled", cfg.Notifier.WebhookURL != ""))

	db, err := setupDatabase(cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}

	if err := runMigrations(db, appLogger); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	app, err := newApplication(cfg, appLogger, db)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	ctx := context.Background()
	if err := app.Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}
