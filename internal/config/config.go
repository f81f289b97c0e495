package config

// Config holds all application configuration. It is constructed once at
// process start and injected into each component's constructor; no package
// keeps ambient global settings.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Queue    QueueConfig    `mapstructure:"queue"`
	Mail     MailConfig     `mapstructure:"mail"`
}

// ServerConfig contains all HTTP-server-related settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	Debug    bool   `mapstructure:"debug"`
}

// DatabaseConfig contains all database-related settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains authentication and authorization settings.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`

	// TokenLifetimeSeconds is the access token lifetime. The default of
	// 5000 seconds matches the deployed configuration.
	TokenLifetimeSeconds int `mapstructure:"token_lifetime_seconds" validate:"required,gt=0"`
}

// QueueConfig contains the notification queue settings. An empty BrokerURL
// selects the in-memory broker with an in-process worker, which is the
// single-binary development mode.
type QueueConfig struct {
	// BrokerURL is the Redis URL the ready/delayed job queues live on.
	BrokerURL string `mapstructure:"broker_url" validate:"omitempty,url"`

	// ResultBackendURL is the Redis URL terminal job states are written to.
	// Defaults to BrokerURL when empty.
	ResultBackendURL string `mapstructure:"result_backend_url" validate:"omitempty,url"`

	// WorkerCount determines how many concurrent workers deliver jobs.
	WorkerCount int `mapstructure:"worker_count" validate:"gte=0"`
}

// MailConfig contains the mail relay account settings.
type MailConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"     validate:"omitempty,gt=0,lt=65536"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"     validate:"omitempty,email"`
}
