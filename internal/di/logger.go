package di

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/jrjohn/arcana-onboarding-go/internal/config"
	"github.com/jrjohn/arcana-onboarding-go/pkg/logger"
)

// LoggerModule provides logging dependencies
var LoggerModule = fx.Module("logger",
	fx.Provide(provideLogger),
)

func provideLogger(cfg *config.Config) (*zap.Logger, error) {
	return logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.App.Debug,
		Encoding:    cfg.Log.Encoding,
		Service:     cfg.App.Name,
		Version:     cfg.App.Version,
	})
}
