package api

import (
	"log/slog"
	"net/http"

	"github.com/daha-io/catalog-api/internal/api/shared"
	"github.com/daha-io/catalog-api/internal/domain"
	"github.com/daha-io/catalog-api/internal/platform/logger"
	"github.com/daha-io/catalog-api/internal/store"
)

// OrganizationHandler handles organization-related HTTP requests.
type OrganizationHandler struct {
	organizations store.OrganizationStore
	logger        *slog.Logger
}

// NewOrganizationHandler creates a new OrganizationHandler.
func NewOrganizationHandler(
	organizations store.OrganizationStore,
	logger *slog.Logger,
) *OrganizationHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for OrganizationHandler")
	}

	return &OrganizationHandler{
		organizations: organizations,
		logger:        logger.With(slog.String("component", "organization_handler")),
	}
}

// List handles GET /organizations requests.
func (h *OrganizationHandler) List(w http.ResponseWriter, r *http.Request) {
	orgs, err := h.organizations.GetAll(r.Context())
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, orgs)
}

// Get handles GET /organizations/{id} requests.
func (h *OrganizationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	org, err := h.organizations.GetByID(r.Context(), id)
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, org)
}

// Create handles POST /organizations requests.
func (h *OrganizationHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateOrganizationRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	org := &domain.Organization{Name: req.Name}
	if err := h.organizations.Create(r.Context(), org); err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	log.Debug("organization created", slog.Int64("organization_id", org.ID))
	shared.RespondWithJSON(w, r, http.StatusCreated, org)
}

// Update handles PUT /organizations/{id} requests.
func (h *OrganizationHandler) Update(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := getPathID(r, "id")
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	var req UpdateOrganizationRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	org, err := h.organizations.Update(r.Context(), id, store.OrganizationPatch{
		Name: req.Name,
	})
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, org)
}

// Delete handles DELETE /organizations/{id} requests. Deleting an
// organization still referenced by a course is rejected.
func (h *OrganizationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	if err := h.organizations.Delete(r.Context(), id); err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
