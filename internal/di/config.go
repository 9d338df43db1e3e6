package di

import (
	"go.uber.org/fx"

	"github.com/jrjohn/arcana-onboarding-go/internal/client/auth"
	"github.com/jrjohn/arcana-onboarding-go/internal/config"
	"github.com/jrjohn/arcana-onboarding-go/internal/notification"
	"github.com/jrjohn/arcana-onboarding-go/internal/observability"
)

// ConfigModule splits the loaded *config.Config into per-component sections.
// The root config is supplied by the caller.
var ConfigModule = fx.Module("config",
	fx.Provide(
		provideAppConfig,
		provideServerConfig,
		provideAuthConfig,
		provideSessionConfig,
		provideRedisConfig,
		provideRegistrationConfig,
		provideI18nConfig,
		provideWebSocketConfig,
		provideCORSConfig,
		provideRateLimitConfig,
		provideMetricsConfig,
		provideTracingConfig,
		provideSweeperConfig,
	),
)

func provideAppConfig(cfg *config.Config) *config.AppConfig {
	return &cfg.App
}

func provideServerConfig(cfg *config.Config) *config.ServerConfig {
	return &cfg.Server
}

func provideAuthConfig(cfg *config.Config) *auth.Config {
	return &cfg.Auth
}

func provideSessionConfig(cfg *config.Config) *config.SessionConfig {
	return &cfg.Session
}

func provideRedisConfig(cfg *config.Config) *config.RedisConfig {
	return &cfg.Redis
}

func provideRegistrationConfig(cfg *config.Config) *config.RegistrationConfig {
	return &cfg.Registration
}

func provideI18nConfig(cfg *config.Config) *config.I18nConfig {
	return &cfg.I18n
}

func provideWebSocketConfig(cfg *config.Config) *notification.Config {
	return &cfg.WebSocket
}

func provideCORSConfig(cfg *config.Config) *config.CORSConfig {
	return &cfg.CORS
}

func provideRateLimitConfig(cfg *config.Config) *config.RateLimitConfig {
	return &cfg.RateLimit
}

func provideMetricsConfig(cfg *config.Config) *observability.MetricsConfig {
	return &cfg.Metrics
}

func provideTracingConfig(cfg *config.Config) *observability.TracingConfig {
	return &cfg.Tracing
}

func provideSweeperConfig(cfg *config.Config) *config.SweeperConfig {
	return &cfg.Sweeper
}
