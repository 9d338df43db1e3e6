package di

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/jrjohn/arcana-onboarding-go/internal/config"
)

// AppModule aggregates all application modules
var AppModule = fx.Options(
	ConfigModule,
	LoggerModule,
	ObservabilityModule,
	RedisModule,
	I18nModule,
	RepositoryModule,
	ClientModule,
	NotificationModule,
	ServiceModule,
	MiddlewareModule,
	ControllerModule,
	SchedulerModule,
	HTTPServerModule,
)

// PrintBanner prints the application startup banner
func PrintBanner(cfg *config.Config, logger *zap.Logger) {
	logger.Info("===========================================")
	logger.Info("      Arcana Onboarding - Registration     ")
	logger.Info("===========================================")
	logger.Info("Application Info",
		zap.String("name", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)
	logger.Info("Registration Config",
		zap.String("auth_service", cfg.Auth.BaseURL),
		zap.String("session_store", string(cfg.Session.Store)),
		zap.Duration("session_ttl", cfg.Session.TTL),
		zap.String("default_locale", cfg.I18n.DefaultLocale),
	)
	logger.Info("===========================================")
}
