package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type denyAllAuthorizer struct{}

func (denyAllAuthorizer) Authorize(*http.Request) bool { return false }

func TestRequireEditor_AllowsByDefault(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	RequireEditor(nil, nil)(next).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/courses", nil))

	assert.True(t, called)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRequireEditor_DeniedRequestsGetForbidden(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run for denied requests")
	})

	rec := httptest.NewRecorder()
	RequireEditor(denyAllAuthorizer{}, nil)(next).
		ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/courses/1", nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Forbidden")
}
