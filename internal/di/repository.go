package di

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/jrjohn/arcana-onboarding-go/internal/config"
	"github.com/jrjohn/arcana-onboarding-go/internal/domain/repository"
	"github.com/jrjohn/arcana-onboarding-go/internal/domain/repository/impl"
)

// RepositoryModule provides the form session store
var RepositoryModule = fx.Module("repository",
	fx.Provide(provideFormSessionRepository),
)

func provideFormSessionRepository(cfg *config.SessionConfig, client redis.UniversalClient, logger *zap.Logger) repository.FormSessionRepository {
	if cfg.Store == config.StoreRedis {
		logger.Info("Using Redis form session store")
		return impl.NewRedisFormSessionRepository(client, cfg.TTL, cfg.BusyTTL)
	}
	logger.Info("Using in-memory form session store")
	return impl.NewMemoryFormSessionRepository()
}
