package di

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/jrjohn/arcana-onboarding-go/internal/client/auth"
	"github.com/jrjohn/arcana-onboarding-go/internal/domain/service"
)

// ClientModule provides clients of external services
var ClientModule = fx.Module("client",
	fx.Provide(provideRegistrar),
)

func provideRegistrar(cfg *auth.Config, logger *zap.Logger) service.Registrar {
	return auth.NewClient(cfg, logger)
}
