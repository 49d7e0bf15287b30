package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/daha-io/catalog-api/internal/domain"
	"github.com/daha-io/catalog-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"course not found", store.ErrCourseNotFound, http.StatusNotFound},
		{"difficulty not found", store.ErrDifficultyNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("ctx: %w", store.ErrNotFound), http.StatusNotFound},
		{"subjects not found", &store.SubjectsNotFoundError{Types: []string{"x"}}, http.StatusNotFound},
		{"duplicate", store.ErrOrganizationNameExists, http.StatusConflict},
		{"validation", domain.NewValidationError("subjects", "required", domain.ErrValidation), http.StatusBadRequest},
		{"invalid id", domain.ErrInvalidID, http.StatusBadRequest},
		{"invalid entity", store.ErrInvalidEntity, http.StatusBadRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
		{"nil", nil, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	// The missing subject list is part of the contract and must survive
	// sanitization
	err := &store.SubjectsNotFoundError{Types: []string{"alchemy", "divination"}}
	assert.Equal(t, "subjects not found: alchemy, divination", GetSafeErrorMessage(err))

	validationErr := domain.NewValidationError("subjects",
		"course must have at least one subject", nil)
	assert.Contains(t, GetSafeErrorMessage(validationErr), "at least one subject")

	assert.Equal(t, "Course not found", GetSafeErrorMessage(store.ErrCourseNotFound))
	assert.Equal(t, "Difficulty not found", GetSafeErrorMessage(store.ErrDifficultyNotFound))

	// Internal details never leak
	internal := errors.New("pq: connection refused host=10.0.0.5")
	msg := GetSafeErrorMessage(internal)
	assert.Equal(t, "An unexpected error occurred", msg)
	assert.NotContains(t, msg, "10.0.0.5")
}
