package api

import (
	"errors"
	"net/http"

	"github.com/daha-io/catalog-api/internal/api/shared"
	"github.com/daha-io/catalog-api/internal/domain"
	"github.com/daha-io/catalog-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message based
// on the error type. Not-found and validation errors carry the offending
// keys, so their own messages are already safe to expose; everything else is
// collapsed to a generic message.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	// The complete list of missing subject types must reach the caller.
	var subjectsErr *store.SubjectsNotFoundError
	if errors.As(err, &subjectsErr) {
		return subjectsErr.Error()
	}

	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Error()
	}

	switch {
	case errors.Is(err, store.ErrCourseNotFound):
		return "Course not found"
	case errors.Is(err, store.ErrOrganizationNotFound):
		return "Organization not found"
	case errors.Is(err, store.ErrDifficultyNotFound):
		return "Difficulty not found"
	case errors.Is(err, store.ErrSubjectNotFound):
		return "Subject not found"
	case errors.Is(err, store.ErrGradeNotFound):
		return "Grade not found"
	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"
	case errors.Is(err, store.ErrDuplicate):
		return "Resource already exists"
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid request"
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidID):
		return "Invalid request"
	default:
		return "An unexpected error occurred"
	}
}

// respondWithMappedError writes the standard error response for an internal
// error: mapped status code, safe message, full error in the logs.
func respondWithMappedError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)
	shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
}
