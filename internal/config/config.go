package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel               string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"gt=0"`
	// GreetingDelayMS is the simulated latency of the /HolaMundo demo endpoint.
	GreetingDelayMS int `mapstructure:"greeting_delay_ms" validate:"gte=0,lte=60000"`
}

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

// DatabaseConfig selects and configures the storage backend.
// URL is only required for the postgres driver.
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver" validate:"required,oneof=memory postgres"`
	URL             string `mapstructure:"url" validate:"required_if=Driver postgres"`
	MaxOpenConns    int    `mapstructure:"max_open_conns" validate:"gt=0"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns" validate:"gte=0"`
	ConnectAttempts int    `mapstructure:"connect_attempts" validate:"gt=0,lte=20"`
}

// UsesPostgres reports whether the postgres storage backend is selected.
func (c DatabaseConfig) UsesPostgres() bool {
	return c.Driver == DriverPostgres
}
