package di

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/jrjohn/arcana-onboarding-go/internal/config"
	httpctrl "github.com/jrjohn/arcana-onboarding-go/internal/controller/http"
	"github.com/jrjohn/arcana-onboarding-go/internal/domain/service"
	"github.com/jrjohn/arcana-onboarding-go/internal/i18n"
	"github.com/jrjohn/arcana-onboarding-go/internal/middleware"
	"github.com/jrjohn/arcana-onboarding-go/internal/notification"
)

// ControllerModule provides HTTP controller dependencies
var ControllerModule = fx.Module("controller",
	fx.Provide(
		provideRegistrationController,
		provideRegistrationPageController,
	),
)

func provideRegistrationController(
	registrationService service.RegistrationService,
	events *notification.Handler,
	rateLimiter *middleware.RateLimiter,
	logger *zap.Logger,
) *httpctrl.RegistrationController {
	return httpctrl.NewRegistrationController(registrationService, events, rateLimiter, logger)
}

func provideRegistrationPageController(
	registrationService service.RegistrationService,
	bundle *i18n.Bundle,
	cfg *config.RegistrationConfig,
	rateLimiter *middleware.RateLimiter,
	logger *zap.Logger,
) *httpctrl.RegistrationPageController {
	return httpctrl.NewRegistrationPageController(registrationService, bundle, cfg, rateLimiter, logger)
}
