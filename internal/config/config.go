package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jrjohn/arcana-onboarding-go/internal/client/auth"
	"github.com/jrjohn/arcana-onboarding-go/internal/notification"
	"github.com/jrjohn/arcana-onboarding-go/internal/observability"
)

// SessionStore selects where form sessions live
type SessionStore string

const (
	StoreMemory SessionStore = "memory"
	StoreRedis  SessionStore = "redis"
)

// Config holds all application configuration
type Config struct {
	App          AppConfig                   `mapstructure:"app"`
	Log          LogConfig                   `mapstructure:"log"`
	Server       ServerConfig                `mapstructure:"server"`
	Auth         auth.Config                 `mapstructure:"auth"`
	Session      SessionConfig               `mapstructure:"session"`
	Redis        RedisConfig                 `mapstructure:"redis"`
	Registration RegistrationConfig          `mapstructure:"registration"`
	I18n         I18nConfig                  `mapstructure:"i18n"`
	WebSocket    notification.Config         `mapstructure:"websocket"`
	CORS         CORSConfig                  `mapstructure:"cors"`
	RateLimit    RateLimitConfig             `mapstructure:"rate_limit"`
	Metrics      observability.MetricsConfig `mapstructure:"metrics"`
	Tracing      observability.TracingConfig `mapstructure:"tracing"`
	Sweeper      SweeperConfig               `mapstructure:"sweeper"`
}

// AppConfig holds application-level settings
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"` // json or console
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// SessionConfig holds form session store settings
type SessionConfig struct {
	Store   SessionStore  `mapstructure:"store"`
	TTL     time.Duration `mapstructure:"ttl"`
	BusyTTL time.Duration `mapstructure:"busy_ttl"`
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns host:port
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RegistrationConfig holds registration flow settings
type RegistrationConfig struct {
	SuccessRedirect string `mapstructure:"success_redirect"`
	SignInURL       string `mapstructure:"sign_in_url"`
}

// I18nConfig holds localization settings
type I18nConfig struct {
	DefaultLocale string `mapstructure:"default_locale"`
	LocalesDir    string `mapstructure:"locales_dir"` // overrides the embedded catalogs when set
	Watch         bool   `mapstructure:"watch"`
}

// CORSConfig holds cross-origin settings
type CORSConfig struct {
	AllowedOrigins   []string      `mapstructure:"allowed_origins"`
	AllowedMethods   []string      `mapstructure:"allowed_methods"`
	AllowedHeaders   []string      `mapstructure:"allowed_headers"`
	ExposedHeaders   []string      `mapstructure:"exposed_headers"`
	AllowCredentials bool          `mapstructure:"allow_credentials"`
	MaxAge           time.Duration `mapstructure:"max_age"`
}

// RateLimitConfig holds submit rate limiting settings
type RateLimitConfig struct {
	Enabled bool         `mapstructure:"enabled"`
	Rate    string       `mapstructure:"rate"` // limiter format, e.g. 10-M
	Store   SessionStore `mapstructure:"store"`
}

// SweeperConfig holds abandoned session purge settings
type SweeperConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// Load reads configuration from file and environment variables
func Load() (*Config, error) {
	v := viper.New()

	// Set config file details
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/arcana-onboarding/")

	// Set environment variable prefix
	v.SetEnvPrefix("ONBOARDING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults
	setDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate required settings
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "arcana-onboarding-go")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.debug", true)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")

	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 0)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	// Auth service defaults; no timeout, the submit waits for the service
	v.SetDefault("auth.base_url", "http://localhost:8080")
	v.SetDefault("auth.register_path", auth.DefaultRegisterPath)
	v.SetDefault("auth.timeout", 0)

	// Session defaults
	v.SetDefault("session.store", StoreMemory)
	v.SetDefault("session.ttl", 30*time.Minute)
	v.SetDefault("session.busy_ttl", 5*time.Minute)

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Registration defaults
	v.SetDefault("registration.success_redirect", notification.DefaultDestination)
	v.SetDefault("registration.sign_in_url", "/login")

	// I18n defaults
	v.SetDefault("i18n.default_locale", "en")
	v.SetDefault("i18n.locales_dir", "")
	v.SetDefault("i18n.watch", false)

	// WebSocket defaults
	v.SetDefault("websocket.allowed_origins", []string{"*"})
	v.SetDefault("websocket.read_buffer_size", 1024)
	v.SetDefault("websocket.write_buffer_size", 1024)
	v.SetDefault("websocket.handshake_timeout", 10*time.Second)
	v.SetDefault("websocket.enable_compression", true)

	// CORS defaults
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Origin", "Content-Type", "Accept", "Accept-Language", "X-Request-ID"})
	v.SetDefault("cors.exposed_headers", []string{"X-Request-ID"})
	v.SetDefault("cors.allow_credentials", false)
	v.SetDefault("cors.max_age", 12*time.Hour)

	// Rate limit defaults
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.rate", "10-M")
	v.SetDefault("rate_limit.store", StoreMemory)

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.service_name", "arcana-onboarding-go")
	v.SetDefault("metrics.prometheus_path", "/metrics")

	// Tracing defaults
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", "arcana-onboarding-go")
	v.SetDefault("tracing.service_version", "1.0.0")
	v.SetDefault("tracing.environment", "development")
	v.SetDefault("tracing.exporter_type", "stdout")
	v.SetDefault("tracing.otlp_endpoint", "localhost:4317")
	v.SetDefault("tracing.otlp_insecure", true)
	v.SetDefault("tracing.sampling_rate", 1.0)

	// Sweeper defaults
	v.SetDefault("sweeper.enabled", true)
	v.SetDefault("sweeper.schedule", "@every 1m")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Auth.BaseURL == "" {
		return fmt.Errorf("auth base URL is required")
	}
	if c.Auth.Timeout < 0 {
		return fmt.Errorf("auth timeout cannot be negative")
	}
	if c.Session.Store != StoreMemory && c.Session.Store != StoreRedis {
		return fmt.Errorf("unknown session store %q", c.Session.Store)
	}
	if c.RateLimit.Enabled && c.RateLimit.Store != StoreMemory && c.RateLimit.Store != StoreRedis {
		return fmt.Errorf("unknown rate limit store %q", c.RateLimit.Store)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session TTL must be positive")
	}
	if c.I18n.DefaultLocale == "" {
		return fmt.Errorf("default locale is required")
	}
	return nil
}

// UsesRedis reports whether any component needs a Redis client
func (c *Config) UsesRedis() bool {
	return c.Session.Store == StoreRedis || (c.RateLimit.Enabled && c.RateLimit.Store == StoreRedis)
}
