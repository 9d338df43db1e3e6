package di

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/jrjohn/arcana-onboarding-go/internal/config"
	"github.com/jrjohn/arcana-onboarding-go/internal/domain/validation"
	"github.com/jrjohn/arcana-onboarding-go/internal/i18n"
)

// I18nModule provides catalogs and the localized validator
var I18nModule = fx.Module("i18n",
	fx.Provide(
		provideBundle,
		provideValidator,
	),
	fx.Invoke(watchCatalogs),
)

func provideBundle(cfg *config.I18nConfig, logger *zap.Logger) (*i18n.Bundle, error) {
	bundle, err := i18n.NewBundle(cfg.DefaultLocale, logger)
	if err != nil {
		return nil, err
	}

	if cfg.LocalesDir != "" {
		if err := bundle.LoadDir(cfg.LocalesDir); err != nil {
			return nil, fmt.Errorf("failed to load catalogs from %s: %w", cfg.LocalesDir, err)
		}
	}
	return bundle, nil
}

func provideValidator() *validation.Validator {
	return validation.NewValidator(nil)
}

func watchCatalogs(lc fx.Lifecycle, cfg *config.I18nConfig, bundle *i18n.Bundle, logger *zap.Logger) {
	if !cfg.Watch || cfg.LocalesDir == "" {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				if err := bundle.Watch(ctx, cfg.LocalesDir); err != nil {
					logger.Error("Catalog watcher stopped", zap.Error(err))
				}
			}()
			logger.Info("Watching catalogs", zap.String("dir", cfg.LocalesDir))
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}
