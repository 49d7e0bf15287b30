package api

import (
	"log/slog"
	"net/http"

	"github.com/daha-io/catalog-api/internal/api/shared"
	"github.com/daha-io/catalog-api/internal/domain"
	"github.com/daha-io/catalog-api/internal/platform/logger"
	"github.com/daha-io/catalog-api/internal/store"
)

// SubjectHandler handles subject-related HTTP requests. Subjects are a
// curated taxonomy: rows are managed here, never created implicitly by course
// writes.
type SubjectHandler struct {
	subjects store.SubjectStore
	logger   *slog.Logger
}

// NewSubjectHandler creates a new SubjectHandler.
func NewSubjectHandler(subjects store.SubjectStore, logger *slog.Logger) *SubjectHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for SubjectHandler")
	}

	return &SubjectHandler{
		subjects: subjects,
		logger:   logger.With(slog.String("component", "subject_handler")),
	}
}

// List handles GET /subjects requests.
func (h *SubjectHandler) List(w http.ResponseWriter, r *http.Request) {
	subjects, err := h.subjects.GetAll(r.Context())
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, subjects)
}

// Get handles GET /subjects/{id} requests.
func (h *SubjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	subject, err := h.subjects.GetByID(r.Context(), id)
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, subject)
}

// Create handles POST /subjects requests.
func (h *SubjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateSubjectRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	subject := &domain.Subject{
		Type:                  req.Type,
		Label:                 req.Label,
		Icon:                  req.Icon,
		Color:                 req.Color,
		AdditionalDescription: req.AdditionalDescription,
	}
	if err := h.subjects.Create(r.Context(), subject); err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	log.Debug("subject created", slog.Int64("subject_id", subject.ID))
	shared.RespondWithJSON(w, r, http.StatusCreated, subject)
}

// Update handles PUT /subjects/{id} requests.
func (h *SubjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := getPathID(r, "id")
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	var req UpdateSubjectRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	subject, err := h.subjects.Update(r.Context(), id, store.SubjectPatch{
		Type:                  req.Type,
		Label:                 req.Label,
		Icon:                  req.Icon,
		Color:                 req.Color,
		AdditionalDescription: req.AdditionalDescription,
	})
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, subject)
}

// Delete handles DELETE /subjects/{id} requests. Link rows referencing the
// subject block deletion; courses must drop the subject first.
func (h *SubjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	if err := h.subjects.Delete(r.Context(), id); err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
