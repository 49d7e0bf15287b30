package middleware

import (
	"log/slog"
	"net/http"

	"github.com/daha-io/catalog-api/internal/api/shared"
)

// Authorizer decides whether a request may perform catalog mutations.
// The default deployment runs behind a trusted gateway, so the shipped
// implementation allows everything; installations that need their own checks
// plug in a real Authorizer here.
type Authorizer interface {
	// Authorize returns true if the request is allowed to proceed.
	Authorize(r *http.Request) bool
}

// AllowAllAuthorizer permits every request.
type AllowAllAuthorizer struct{}

// Authorize implements Authorizer.
func (AllowAllAuthorizer) Authorize(*http.Request) bool { return true }

// RequireEditor gates mutating routes behind the given Authorizer. Denied
// requests receive 403 with no detail about the rule that rejected them.
func RequireEditor(authorizer Authorizer, logger *slog.Logger) func(http.Handler) http.Handler {
	if authorizer == nil {
		authorizer = AllowAllAuthorizer{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With(slog.String("component", "auth_middleware"))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !authorizer.Authorize(r) {
				log.Warn("request rejected by authorizer",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path))
				shared.RespondWithError(w, r, http.StatusForbidden, "Forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
