package di

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/jrjohn/arcana-onboarding-go/internal/config"
	"github.com/jrjohn/arcana-onboarding-go/internal/middleware"
)

// MiddlewareModule provides middleware dependencies
var MiddlewareModule = fx.Module("middleware",
	fx.Provide(provideRateLimiter),
)

func provideRateLimiter(cfg *config.RateLimitConfig, client redis.UniversalClient) (*middleware.RateLimiter, error) {
	return middleware.NewSubmitRateLimiter(cfg, client)
}
