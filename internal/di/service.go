package di

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/jrjohn/arcana-onboarding-go/internal/domain/repository"
	"github.com/jrjohn/arcana-onboarding-go/internal/domain/service"
	serviceimpl "github.com/jrjohn/arcana-onboarding-go/internal/domain/service/impl"
	"github.com/jrjohn/arcana-onboarding-go/internal/domain/validation"
	"github.com/jrjohn/arcana-onboarding-go/internal/i18n"
	"github.com/jrjohn/arcana-onboarding-go/internal/observability"
)

// ServiceModule provides service layer dependencies
var ServiceModule = fx.Module("service",
	fx.Provide(provideRegistrationService),
)

func provideRegistrationService(
	repo repository.FormSessionRepository,
	registrar service.Registrar,
	notifier service.Notifier,
	navigator service.Navigator,
	validator *validation.Validator,
	bundle *i18n.Bundle,
	metrics *observability.MetricsProvider,
	logger *zap.Logger,
) service.RegistrationService {
	return serviceimpl.NewRegistrationService(repo, registrar, notifier, navigator, validator, bundle, metrics, logger)
}
