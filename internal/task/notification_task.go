package task

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/daha-io/catalog-api/internal/events"
)

// NotificationTaskConfig holds delivery settings for notification tasks.
type NotificationTaskConfig struct {
	// WebhookURL is the notifier endpoint receiving course-created payloads.
	WebhookURL string

	// MaxAttempts bounds delivery retries. Defaults to 3.
	MaxAttempts int

	// RequestTimeout bounds each individual delivery attempt. Defaults to 10s.
	RequestTimeout time.Duration

	// RetryDelay is the pause between attempts. Defaults to 1s.
	RetryDelay time.Duration
}

// applyDefaults fills in the zero-valued settings.
func (c *NotificationTaskConfig) applyDefaults() {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 10 * time.Second
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = time.Second
	}
}

// NotificationTask delivers one course-created payload to the external
// notifier webhook. Delivery is independently retried; terminal failure is
// reported to the runner, which logs and drops it.
type NotificationTask struct {
	id      uuid.UUID
	payload events.CourseCreatedPayload
	config  NotificationTaskConfig
	client  *http.Client
	logger  *slog.Logger
}

// NewNotificationTask creates a task that posts the payload to the
// configured webhook. If client is nil, a client with the configured request
// timeout is used.
func NewNotificationTask(
	payload events.CourseCreatedPayload,
	config NotificationTaskConfig,
	client *http.Client,
	logger *slog.Logger,
) *NotificationTask {
	config.applyDefaults()
	if client == nil {
		client = &http.Client{Timeout: config.RequestTimeout}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &NotificationTask{
		id:      uuid.New(),
		payload: payload,
		config:  config,
		client:  client,
		logger:  logger.With(slog.String("component", "notification_task")),
	}
}

// Ensure NotificationTask implements Task
var _ Task = (*NotificationTask)(nil)

// ID implements Task.ID
func (t *NotificationTask) ID() uuid.UUID {
	return t.id
}

// Type implements Task.Type
func (t *NotificationTask) Type() string {
	return TaskTypeCourseNotification
}

// Execute implements Task.Execute
// It posts the payload as JSON, retrying on any error or non-2xx response up
// to MaxAttempts times.
func (t *NotificationTask) Execute(ctx context.Context) error {
	body, err := json.Marshal(t.payload)
	if err != nil {
		return fmt.Errorf("failed to encode notification payload: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= t.config.MaxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(t.config.RetryDelay):
			}
		}

		lastErr = t.deliver(ctx, body)
		if lastErr == nil {
			t.logger.Info("notification delivered",
				slog.Int64("course_id", t.payload.ID),
				slog.Int("attempt", attempt))
			return nil
		}

		t.logger.Warn("notification delivery attempt failed",
			slog.Int64("course_id", t.payload.ID),
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", t.config.MaxAttempts),
			slog.String("error", lastErr.Error()))
	}

	return fmt.Errorf("notification delivery failed after %d attempts: %w",
		t.config.MaxAttempts, lastErr)
}

// deliver performs a single POST attempt.
func (t *NotificationTask) deliver(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, t.config.WebhookURL, bytes.NewReader(body),
	)
	if err != nil {
		return fmt.Errorf("failed to build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("notifier responded with status %d", resp.StatusCode)
	}
	return nil
}
