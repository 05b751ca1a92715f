// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
	_ "time/tzdata"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Rate      RateLimitConfig
	Security  SecurityConfig
	Logging   LoggingConfig
	Reports   ReportsConfig
	Geocoding GeocodingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing a response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 30s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"30s"`
}

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	// Driver is "memory" or "postgres" (default: memory)
	Driver string `env:"STORE_DRIVER" default:"memory"`

	// SeedFile overrides the embedded seed data with a YAML file on disk
	SeedFile string `env:"STORE_SEED_FILE"`

	// SeedOnStart seeds an empty postgres database at startup (default: true)
	SeedOnStart bool `env:"STORE_SEED_ON_START" default:"true"`
}

// DatabaseConfig holds database connection settings.
// Only used when Store.Driver is "postgres".
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of connections in the pool (default: 10)
	MaxConns int `env:"DB_MAX_CONNS" default:"10"`

	// MinConns is the minimum number of connections to keep open (default: 2)
	MinConns int `env:"DB_MIN_CONNS" default:"2"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// AuthConfig holds access token and password hashing settings.
type AuthConfig struct {
	// JWTSecret signs access tokens (required, at least 16 bytes)
	JWTSecret string `env:"AUTH_JWT_SECRET" required:"true"`

	// TokenTTL is the lifetime of an access token (default: 12h)
	TokenTTL time.Duration `env:"AUTH_TOKEN_TTL" default:"12h"`

	// BcryptCost is the bcrypt work factor for stored passwords (default: 10)
	BcryptCost int `env:"AUTH_BCRYPT_COST" default:"10"`

	// DefaultPassword is assigned to new users created without one (default: password)
	DefaultPassword string `env:"AUTH_DEFAULT_PASSWORD" default:"password"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 120)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"120"`

	// LoginLimit is requests per minute for the login endpoint (default: 10)
	LoginLimit int `env:"RATE_LIMIT_LOGIN" default:"10"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// ReportsConfig holds settings for attendance and dashboard reports.
type ReportsConfig struct {
	// TimeZone is the IANA zone used for calendar days (default: Africa/Cairo)
	TimeZone string `env:"REPORTS_TIME_ZONE" default:"Africa/Cairo"`

	// OnTimeCutoff is the latest first-login time counted as on time, HH:MM (default: 09:00)
	OnTimeCutoff string `env:"REPORTS_ON_TIME_CUTOFF" default:"09:00"`
}

// GeocodingConfig holds reverse geocoding settings for login locations.
type GeocodingConfig struct {
	// Enabled turns on reverse geocoding of login coordinates (default: false)
	Enabled bool `env:"GEOCODING_ENABLED" default:"false"`

	// BaseURL is the Nominatim-compatible endpoint (default: public OSM instance)
	BaseURL string `env:"GEOCODING_BASE_URL" default:"https://nominatim.openstreetmap.org"`

	// Timeout bounds a single lookup (default: 5s)
	Timeout time.Duration `env:"GEOCODING_TIMEOUT" default:"5s"`

	// UserAgent identifies this service to the geocoder
	UserAgent string `env:"GEOCODING_USER_AGENT" default:"field-inspect/1.0"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// Location resolves the configured report time zone.
func (c *ReportsConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.TimeZone)
}

// Cutoff parses OnTimeCutoff into hour and minute.
func (c *ReportsConfig) Cutoff() (hour, minute int, err error) {
	t, err := time.Parse("15:04", c.OnTimeCutoff)
	if err != nil {
		return 0, 0, err
	}
	return t.Hour(), t.Minute(), nil
}
