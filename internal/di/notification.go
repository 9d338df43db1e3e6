package di

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/jrjohn/arcana-onboarding-go/internal/config"
	"github.com/jrjohn/arcana-onboarding-go/internal/domain/service"
	"github.com/jrjohn/arcana-onboarding-go/internal/notification"
	"github.com/jrjohn/arcana-onboarding-go/internal/observability"
)

// NotificationModule provides the form event hub and its notifier and navigator
var NotificationModule = fx.Module("notification",
	fx.Provide(
		provideHub,
		provideNotifier,
		provideNavigator,
		provideEventHandler,
	),
)

func provideHub(lc fx.Lifecycle, logger *zap.Logger, metrics *observability.MetricsProvider) *notification.Hub {
	hub := notification.NewHub(logger, metrics)

	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go hub.Run(ctx)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
	return hub
}

func provideNotifier(hub *notification.Hub, logger *zap.Logger) service.Notifier {
	return notification.NewNotifier(hub, logger)
}

func provideNavigator(hub *notification.Hub, cfg *config.RegistrationConfig) service.Navigator {
	return notification.NewRedirector(hub, cfg.SuccessRedirect)
}

func provideEventHandler(cfg *notification.Config, hub *notification.Hub, logger *zap.Logger) *notification.Handler {
	return notification.NewHandler(cfg, hub, logger)
}
