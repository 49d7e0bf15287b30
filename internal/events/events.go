package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CourseCreatedPayload is the flattened course representation delivered to
// interested subscribers: natural keys instead of surrogate IDs, so the
// receiver needs no access to this system's tables.
type CourseCreatedPayload struct {
	ID           int64    `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	StartDate    string   `json:"start_date"` // ISO date, YYYY-MM-DD
	URL          string   `json:"url"`
	ImageURL     string   `json:"image_url"`
	Grades       []int    `json:"grades"`
	Difficulty   string   `json:"difficulty"`
	Subjects     []string `json:"subjects"`
	Organization string   `json:"organization"`
}

// CourseCreatedEvent wraps the payload with an event identity for logging
// and correlation.
type CourseCreatedEvent struct {
	ID        uuid.UUID            `json:"id"`
	Payload   CourseCreatedPayload `json:"payload"`
	CreatedAt time.Time            `json:"created_at"`
}

// NewCourseCreatedEvent creates a new CourseCreatedEvent for the payload.
func NewCourseCreatedEvent(payload CourseCreatedPayload) *CourseCreatedEvent {
	return &CourseCreatedEvent{
		ID:        uuid.New(),
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}
}

// EventHandler defines an interface for components that can handle
// course-created events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *CourseCreatedEvent) error
}

// EventEmitter defines an interface for components that can emit
// course-created events. This allows the synchronizer to publish events
// without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *CourseCreatedEvent) error
}
