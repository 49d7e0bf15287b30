package api

import (
	"log/slog"
	"net/http"

	"github.com/daha-io/catalog-api/internal/api/shared"
	"github.com/daha-io/catalog-api/internal/domain"
	"github.com/daha-io/catalog-api/internal/platform/logger"
	"github.com/daha-io/catalog-api/internal/store"
)

// GradeHandler handles grade-related HTTP requests.
type GradeHandler struct {
	grades store.GradeStore
	logger *slog.Logger
}

// NewGradeHandler creates a new GradeHandler.
func NewGradeHandler(grades store.GradeStore, logger *slog.Logger) *GradeHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for GradeHandler")
	}

	return &GradeHandler{
		grades: grades,
		logger: logger.With(slog.String("component", "grade_handler")),
	}
}

// List handles GET /grades requests.
func (h *GradeHandler) List(w http.ResponseWriter, r *http.Request) {
	grades, err := h.grades.GetAll(r.Context())
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, grades)
}

// Get handles GET /grades/{id} requests.
func (h *GradeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	grade, err := h.grades.GetByID(r.Context(), id)
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, grade)
}

// Create handles POST /grades requests.
func (h *GradeHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateGradeRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	grade := &domain.Grade{Value: req.Value}
	if err := h.grades.Create(r.Context(), grade); err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	log.Debug("grade created", slog.Int64("grade_id", grade.ID))
	shared.RespondWithJSON(w, r, http.StatusCreated, grade)
}

// Update handles PUT /grades/{id} requests.
func (h *GradeHandler) Update(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := getPathID(r, "id")
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	var req UpdateGradeRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	grade, err := h.grades.Update(r.Context(), id, store.GradePatch{
		Value: req.Value,
	})
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, grade)
}

// Delete handles DELETE /grades/{id} requests. Link rows referencing the
// grade block deletion.
func (h *GradeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	if err := h.grades.Delete(r.Context(), id); err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
