package di

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/jrjohn/arcana-onboarding-go/internal/config"
	httpctrl "github.com/jrjohn/arcana-onboarding-go/internal/controller/http"
	"github.com/jrjohn/arcana-onboarding-go/internal/i18n"
	"github.com/jrjohn/arcana-onboarding-go/internal/middleware"
	"github.com/jrjohn/arcana-onboarding-go/internal/observability"
)

// HTTPServerModule provides HTTP server dependencies
var HTTPServerModule = fx.Module("http_server",
	fx.Provide(provideGinEngine),
	fx.Provide(provideHTTPServer),
	fx.Invoke(registerHTTPRoutes),
	fx.Invoke(startHTTPServer),
)

func provideGinEngine(
	cfg *config.Config,
	logger *zap.Logger,
	bundle *i18n.Bundle,
	metrics *observability.MetricsProvider,
) (*gin.Engine, error) {
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.AccessLog(logger, "/health", "/ready", metrics.Path()))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS(&cfg.CORS))
	router.Use(observability.TracingMiddleware(cfg.Tracing.ServiceName))
	router.Use(observability.MetricsMiddleware(metrics))
	router.Use(middleware.Locale(bundle))

	templates, err := httpctrl.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	router.SetHTMLTemplate(templates)

	return router, nil
}

func provideHTTPServer(cfg *config.ServerConfig, router *gin.Engine) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}

// Controllers is a struct that holds all HTTP controllers for fx to inject
type Controllers struct {
	fx.In

	Registration     *httpctrl.RegistrationController
	RegistrationPage *httpctrl.RegistrationPageController
}

func registerHTTPRoutes(
	router *gin.Engine,
	controllers Controllers,
	metrics *observability.MetricsProvider,
	client redis.UniversalClient,
) {
	// Health endpoints
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	router.GET("/ready", func(c *gin.Context) {
		if client != nil {
			if err := client.Ping(c.Request.Context()).Err(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "redis": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	if metrics.Enabled() {
		router.GET(metrics.Path(), gin.WrapH(metrics.Handler()))
	}

	// API routes
	api := router.Group("/api/v1")
	controllers.Registration.RegisterRoutes(api)

	// Server-rendered form
	controllers.RegistrationPage.RegisterRoutes(router)
}

func startHTTPServer(lc fx.Lifecycle, server *http.Server, cfg *config.ServerConfig, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("Starting HTTP server", zap.String("address", server.Addr))
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Stopping HTTP server")
			if cfg.ShutdownTimeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, cfg.ShutdownTimeout)
				defer cancel()
			}
			return server.Shutdown(ctx)
		},
	})
}
