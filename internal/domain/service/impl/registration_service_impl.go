package impl

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/jrjohn/arcana-onboarding-go/internal/domain/entity"
	"github.com/jrjohn/arcana-onboarding-go/internal/domain/repository"
	"github.com/jrjohn/arcana-onboarding-go/internal/domain/service"
	"github.com/jrjohn/arcana-onboarding-go/internal/domain/validation"
	"github.com/jrjohn/arcana-onboarding-go/internal/i18n"
	"github.com/jrjohn/arcana-onboarding-go/internal/observability"
	"github.com/jrjohn/arcana-onboarding-go/pkg/logger"
)

const (
	keyRegisterSuccess = "auth.register.success"
	keyRegisterFailed  = "auth.register.failed"
)

// registrationService implements service.RegistrationService
type registrationService struct {
	repo      repository.FormSessionRepository
	registrar service.Registrar
	notifier  service.Notifier
	navigator service.Navigator
	validator *validation.Validator
	bundle    *i18n.Bundle
	metrics   *observability.MetricsProvider
	logger    *zap.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

// NewRegistrationService creates a new RegistrationService instance
func NewRegistrationService(
	repo repository.FormSessionRepository,
	registrar service.Registrar,
	notifier service.Notifier,
	navigator service.Navigator,
	validator *validation.Validator,
	bundle *i18n.Bundle,
	metrics *observability.MetricsProvider,
	logger *zap.Logger,
) service.RegistrationService {
	return &registrationService{
		repo:      repo,
		registrar: registrar,
		notifier:  notifier,
		navigator: navigator,
		validator: validator,
		bundle:    bundle,
		metrics:   metrics,
		logger:    logger,
		tracer:    otel.Tracer("registration"),
		now:       time.Now,
	}
}

func (s *registrationService) OpenForm(ctx context.Context, locale string) (*entity.FormSession, error) {
	if !s.bundle.Supported(locale) {
		locale = s.bundle.DefaultLocale()
	}

	session := entity.NewFormSession(uuid.New().String(), locale, s.now())
	if err := s.repo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create form: %w", err)
	}

	s.metrics.RecordFormOpened(ctx, locale)
	s.logger.Debug("Registration form opened",
		zap.String("form_id", session.ID),
		zap.String("locale", locale),
	)
	return session, nil
}

func (s *registrationService) GetForm(ctx context.Context, id string) (*entity.FormSession, error) {
	return s.load(ctx, id)
}

func (s *registrationService) UpdateFields(ctx context.Context, id string, fields map[string]string) (*entity.FormSession, error) {
	for name := range fields {
		if !entity.IsField(name) {
			return nil, fmt.Errorf("%w: %s", service.ErrUnknownField, name)
		}
	}

	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Busy {
		return nil, service.ErrSubmissionInProgress
	}

	for name, value := range fields {
		session.Input.SetField(name, value)
	}
	s.revalidate(session)

	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *registrationService) Validate(ctx context.Context, id string) (*entity.FormSession, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	s.revalidate(session)

	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *registrationService) ToggleVisibility(ctx context.Context, id string, field string) (*entity.FormSession, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	switch field {
	case entity.FieldPassword:
		session.ShowPassword = !session.ShowPassword
	case entity.FieldConfirmPassword:
		session.ShowConfirmPassword = !session.ShowConfirmPassword
	default:
		return nil, fmt.Errorf("%w: %s", service.ErrUnknownField, field)
	}

	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *registrationService) DiscardForm(ctx context.Context, id string) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *registrationService) Submit(ctx context.Context, id string) (*service.SubmitResult, error) {
	ctx, span := s.tracer.Start(ctx, "registration.submit",
		trace.WithAttributes(observability.AttrFormID.String(id)),
	)
	defer span.End()

	// held from before the read until the outcome is stored; Save rejects edits in between
	acquired, err := s.repo.TryAcquireBusy(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err)
	}
	if !acquired {
		s.metrics.RecordSubmission(ctx, observability.OutcomeBusy, 0)
		return nil, service.ErrSubmissionInProgress
	}

	session, err := s.load(ctx, id)
	if err != nil {
		s.releaseBusy(ctx, id)
		return nil, err
	}

	s.revalidate(session)
	if len(session.Errors) > 0 {
		for _, field := range session.Errors.Fields() {
			s.metrics.RecordValidationFailure(ctx, field)
		}
		s.metrics.RecordSubmission(ctx, observability.OutcomeInvalid, 0)
		session.Busy = false
		if err := s.repo.SaveAndReleaseBusy(ctx, session); err != nil {
			s.releaseBusy(ctx, id)
			return nil, s.mapRepoError(err)
		}
		return &service.SubmitResult{Form: session}, service.ErrValidationFailed
	}

	result, err := s.submit(ctx, session)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}
	return result, err
}

// submit performs the single registrar call for a validated form that holds the busy flag.
// The flag is released on every path, including a panicking registrar.
func (s *registrationService) submit(ctx context.Context, session *entity.FormSession) (*service.SubmitResult, error) {
	// the call runs to completion even if the caller goes away
	ctx = context.WithoutCancel(ctx)
	log := logger.ForForm(s.logger, session.ID)

	defer s.releaseBusy(ctx, session.ID)

	loc := s.bundle.Localizer(session.Locale)

	start := s.now()
	callErr := s.callRegistrar(ctx, session.Input.ToPayload())
	elapsed := s.now().Sub(start)

	session.Busy = false

	if callErr != nil {
		log.Warn("Registration rejected",
			zap.Duration("elapsed", elapsed),
			zap.Error(callErr),
		)
		s.metrics.RecordSubmission(ctx, observability.OutcomeFailed, elapsed)

		notification := entity.Notification{
			Level:   entity.NotificationError,
			Key:     keyRegisterFailed,
			Message: loc.T(keyRegisterFailed),
		}
		s.notifier.Notify(ctx, session.ID, notification)

		return &service.SubmitResult{
			Registered:   false,
			Notification: notification,
			Form:         session,
		}, service.ErrRegistrationFailed
	}

	s.metrics.RecordSubmission(ctx, observability.OutcomeRegistered, elapsed)
	log.Info("Registration submitted",
		zap.String("role", string(session.Input.Role)),
		zap.Duration("elapsed", elapsed),
	)

	notification := entity.Notification{
		Level:   entity.NotificationSuccess,
		Key:     keyRegisterSuccess,
		Message: loc.T(keyRegisterSuccess),
	}
	s.notifier.Notify(ctx, session.ID, notification)
	destination := s.navigator.Navigate(ctx, session.ID)

	if err := s.repo.Delete(ctx, session.ID); err != nil {
		log.Warn("Failed to discard submitted form", zap.Error(err))
	}

	return &service.SubmitResult{
		Registered:   true,
		Notification: notification,
		RedirectTo:   destination,
		Form:         session,
	}, nil
}

func (s *registrationService) callRegistrar(ctx context.Context, payload *entity.RegistrationPayload) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("registrar panicked: %v", r)
		}
	}()
	return s.registrar.Register(ctx, payload)
}

func (s *registrationService) Register(ctx context.Context, locale string, input *entity.RegistrationInput) (*service.SubmitResult, error) {
	session, err := s.OpenForm(ctx, locale)
	if err != nil {
		return nil, err
	}
	defer func() {
		// a one-shot form never outlives its request
		_ = s.repo.Delete(context.WithoutCancel(ctx), session.ID)
	}()

	session.Input = *input
	session.UpdatedAt = s.now()
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}

	return s.Submit(ctx, session.ID)
}

func (s *registrationService) releaseBusy(ctx context.Context, id string) {
	if err := s.repo.ReleaseBusy(context.WithoutCancel(ctx), id); err != nil {
		logger.ForForm(s.logger, id).Error("Failed to release busy flag", zap.Error(err))
	}
}

func (s *registrationService) revalidate(session *entity.FormSession) {
	loc := s.bundle.Localizer(session.Locale)
	session.Errors = s.validator.ValidateLocalized(&session.Input, loc)
	session.Validated = true
	session.UpdatedAt = s.now()
}

func (s *registrationService) load(ctx context.Context, id string) (*entity.FormSession, error) {
	session, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err)
	}
	return session, nil
}

func (s *registrationService) save(ctx context.Context, session *entity.FormSession) error {
	if err := s.repo.Save(ctx, session); err != nil {
		return s.mapRepoError(err)
	}
	return nil
}

func (s *registrationService) mapRepoError(err error) error {
	switch {
	case errors.Is(err, repository.ErrSessionNotFound):
		return service.ErrFormNotFound
	case errors.Is(err, repository.ErrSessionBusy):
		return service.ErrSubmissionInProgress
	}
	return err
}
