package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/daha-io/catalog-api/internal/api/shared"
)

// Pinger reports whether a dependency is reachable. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// healthCheckTimeout bounds the dependency probe so a wedged database cannot
// hang the health endpoint.
const healthCheckTimeout = 2 * time.Second

// HealthResponse is the response body for the health endpoint.
type HealthResponse struct {
	Status string `json:"status"`
}

// HealthHandler handles GET /healthz requests.
type HealthHandler struct {
	db     Pinger
	logger *slog.Logger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db Pinger, logger *slog.Logger) *HealthHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for HealthHandler")
	}

	return &HealthHandler{
		db:     db,
		logger: logger.With(slog.String("component", "health_handler")),
	}
}

// Check reports liveness and database reachability.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		if err := h.db.PingContext(ctx); err != nil {
			h.logger.Error("health check failed", slog.String("error", err.Error()))
			shared.RespondWithJSON(w, r, http.StatusServiceUnavailable,
				HealthResponse{Status: "unavailable"})
			return
		}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{Status: "ok"})
}
