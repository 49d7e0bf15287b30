package api

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daha-io/catalog-api/internal/domain"
)

func TestDate_MarshalJSON(t *testing.T) {
	d := NewDate(time.Date(2026, 9, 1, 15, 30, 0, 0, time.UTC))
	out, err := json.Marshal(d)
	require.NoError(t, err)

	// Time-of-day is dropped on the wire
	assert.Equal(t, `"2026-09-01"`, string(out))
}

func TestDate_UnmarshalJSON(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2026-09-01"`), &d))
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), d.Time)
}

func TestDate_UnmarshalJSON_InvalidFormat(t *testing.T) {
	var d Date
	err := json.Unmarshal([]byte(`"01/09/2026"`), &d)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "YYYY-MM-DD")
}

func TestCourseToResponse_EmptyAssociations(t *testing.T) {
	course := &domain.Course{
		ID:       9,
		Title:    "Bare Course",
		Subjects: []domain.Subject{},
		Grades:   []domain.Grade{},
	}

	resp := courseToResponse(course)
	out, err := json.Marshal(resp)
	require.NoError(t, err)

	// Associations serialize as [] rather than null
	assert.Contains(t, string(out), `"subjects":[]`)
	assert.Contains(t, string(out), `"grades":[]`)
}
