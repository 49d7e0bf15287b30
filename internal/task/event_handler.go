package task

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/daha-io/catalog-api/internal/events"
)

// NotifierEventHandler bridges course-created events onto the task runner:
// each event becomes one NotificationTask. Submission errors (full queue)
// are returned to the emitter, which logs and swallows them.
type NotifierEventHandler struct {
	runner *Runner
	config NotificationTaskConfig
	client *http.Client
	logger *slog.Logger
}

// NewNotifierEventHandler creates a new NotifierEventHandler.
// If client is nil, each task builds its own with the configured timeout.
func NewNotifierEventHandler(
	runner *Runner,
	config NotificationTaskConfig,
	client *http.Client,
	logger *slog.Logger,
) *NotifierEventHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &NotifierEventHandler{
		runner: runner,
		config: config,
		client: client,
		logger: logger.With(slog.String("component", "notifier_event_handler")),
	}
}

// Ensure NotifierEventHandler implements events.EventHandler
var _ events.EventHandler = (*NotifierEventHandler)(nil)

// HandleEvent implements events.EventHandler.HandleEvent
func (h *NotifierEventHandler) HandleEvent(ctx context.Context, event *events.CourseCreatedEvent) error {
	t := NewNotificationTask(event.Payload, h.config, h.client, h.logger)

	if err := h.runner.Submit(t); err != nil {
		h.logger.Warn("failed to queue notification task",
			slog.String("event_id", event.ID.String()),
			slog.Int64("course_id", event.Payload.ID),
			slog.String("error", err.Error()))
		return err
	}

	h.logger.Debug("notification task queued",
		slog.String("event_id", event.ID.String()),
		slog.String("task_id", t.ID().String()),
		slog.Int64("course_id", event.Payload.ID))
	return nil
}
