package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Notifier NotifierConfig `mapstructure:"notifier"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// NotifierConfig contains the settings for the course-created notifier.
// Delivery is best-effort: when WebhookURL is empty the notifier is disabled
// and course writes proceed without dispatching anything.
type NotifierConfig struct {
	WebhookURL  string `mapstructure:"webhook_url" validate:"omitempty,url"`
	WorkerCount int    `mapstructure:"worker_count" validate:"gte=0"`
	QueueSize   int    `mapstructure:"queue_size" validate:"gte=0"`
	MaxAttempts int    `mapstructure:"max_attempts" validate:"gte=0"`
}
