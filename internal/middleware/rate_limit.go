package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"

	"github.com/jrjohn/arcana-onboarding-go/internal/config"
	"github.com/jrjohn/arcana-onboarding-go/internal/dto/response"
	apperrors "github.com/jrjohn/arcana-onboarding-go/pkg/errors"
)

const rateLimitPrefix = "onboarding:limiter"

// RateLimiter guards the submit endpoints per client IP
type RateLimiter struct {
	handler gin.HandlerFunc
}

// Handler returns the gin middleware
func (r *RateLimiter) Handler() gin.HandlerFunc {
	return r.handler
}

// NewSubmitRateLimiter builds the limiter from configuration.
// A disabled limiter passes every request through.
// client may be nil unless the limiter store is redis.
func NewSubmitRateLimiter(cfg *config.RateLimitConfig, client redis.UniversalClient) (*RateLimiter, error) {
	if !cfg.Enabled {
		return &RateLimiter{handler: func(c *gin.Context) { c.Next() }}, nil
	}

	rate, err := limiter.NewRateFromFormatted(cfg.Rate)
	if err != nil {
		return nil, fmt.Errorf("invalid rate %q: %w", cfg.Rate, err)
	}

	var store limiter.Store
	switch cfg.Store {
	case config.StoreRedis:
		if client == nil {
			return nil, fmt.Errorf("redis rate limit store needs a redis client")
		}
		store, err = sredis.NewStoreWithOptions(client, limiter.StoreOptions{Prefix: rateLimitPrefix})
		if err != nil {
			return nil, fmt.Errorf("failed to create redis limiter store: %w", err)
		}
	default:
		store = memory.NewStoreWithOptions(limiter.StoreOptions{Prefix: rateLimitPrefix})
	}

	handler := mgin.NewMiddleware(limiter.New(store, rate),
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			appErr := apperrors.ErrTooManyRequests.WithMessage("too many registration attempts, try again later")
			c.AbortWithStatusJSON(appErr.Status, response.NewError[any](appErr).WithRequestID(GetRequestID(c)))
		}),
	)
	return &RateLimiter{handler: handler}, nil
}
