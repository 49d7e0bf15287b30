package api

import (
	"log/slog"
	"net/http"

	"github.com/daha-io/catalog-api/internal/api/shared"
	"github.com/daha-io/catalog-api/internal/domain"
	"github.com/daha-io/catalog-api/internal/platform/logger"
	"github.com/daha-io/catalog-api/internal/store"
)

// DifficultyHandler handles difficulty-related HTTP requests. Difficulties
// are a curated taxonomy: rows are managed here, never created implicitly by
// course writes.
type DifficultyHandler struct {
	difficulties store.DifficultyStore
	logger       *slog.Logger
}

// NewDifficultyHandler creates a new DifficultyHandler.
func NewDifficultyHandler(
	difficulties store.DifficultyStore,
	logger *slog.Logger,
) *DifficultyHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for DifficultyHandler")
	}

	return &DifficultyHandler{
		difficulties: difficulties,
		logger:       logger.With(slog.String("component", "difficulty_handler")),
	}
}

// List handles GET /difficulties requests.
func (h *DifficultyHandler) List(w http.ResponseWriter, r *http.Request) {
	difficulties, err := h.difficulties.GetAll(r.Context())
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, difficulties)
}

// Get handles GET /difficulties/{id} requests.
func (h *DifficultyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	difficulty, err := h.difficulties.GetByID(r.Context(), id)
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, difficulty)
}

// Create handles POST /difficulties requests.
func (h *DifficultyHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateDifficultyRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	difficulty := &domain.Difficulty{
		Type:  req.Type,
		Label: req.Label,
		Icon:  req.Icon,
		Color: req.Color,
	}
	if err := h.difficulties.Create(r.Context(), difficulty); err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	log.Debug("difficulty created", slog.Int64("difficulty_id", difficulty.ID))
	shared.RespondWithJSON(w, r, http.StatusCreated, difficulty)
}

// Update handles PUT /difficulties/{id} requests.
func (h *DifficultyHandler) Update(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := getPathID(r, "id")
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	var req UpdateDifficultyRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	difficulty, err := h.difficulties.Update(r.Context(), id, store.DifficultyPatch{
		Type:  req.Type,
		Label: req.Label,
		Icon:  req.Icon,
		Color: req.Color,
	})
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, difficulty)
}

// Delete handles DELETE /difficulties/{id} requests. Deleting a difficulty
// still referenced by a course is rejected.
func (h *DifficultyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	if err := h.difficulties.Delete(r.Context(), id); err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
