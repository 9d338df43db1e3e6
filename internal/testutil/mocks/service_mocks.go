package mocks

import (
	"context"
	"time"

	"github.com/jrjohn/arcana-onboarding-go/internal/domain/entity"
	"github.com/jrjohn/arcana-onboarding-go/internal/domain/service"
)

var timeZero = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// MockRegistrationService is a mock implementation of service.RegistrationService
type MockRegistrationService struct {
	OpenFormFunc         func(ctx context.Context, locale string) (*entity.FormSession, error)
	GetFormFunc          func(ctx context.Context, id string) (*entity.FormSession, error)
	UpdateFieldsFunc     func(ctx context.Context, id string, fields map[string]string) (*entity.FormSession, error)
	ValidateFunc         func(ctx context.Context, id string) (*entity.FormSession, error)
	ToggleVisibilityFunc func(ctx context.Context, id string, field string) (*entity.FormSession, error)
	SubmitFunc           func(ctx context.Context, id string) (*service.SubmitResult, error)
	DiscardFormFunc      func(ctx context.Context, id string) error
	RegisterFunc         func(ctx context.Context, locale string, input *entity.RegistrationInput) (*service.SubmitResult, error)
}

func NewMockRegistrationService() *MockRegistrationService {
	return &MockRegistrationService{}
}

func (m *MockRegistrationService) OpenForm(ctx context.Context, locale string) (*entity.FormSession, error) {
	if m.OpenFormFunc != nil {
		return m.OpenFormFunc(ctx, locale)
	}
	return entity.NewFormSession("form-1", locale, timeZero), nil
}

func (m *MockRegistrationService) GetForm(ctx context.Context, id string) (*entity.FormSession, error) {
	if m.GetFormFunc != nil {
		return m.GetFormFunc(ctx, id)
	}
	return nil, service.ErrFormNotFound
}

func (m *MockRegistrationService) UpdateFields(ctx context.Context, id string, fields map[string]string) (*entity.FormSession, error) {
	if m.UpdateFieldsFunc != nil {
		return m.UpdateFieldsFunc(ctx, id, fields)
	}
	return nil, service.ErrFormNotFound
}

func (m *MockRegistrationService) Validate(ctx context.Context, id string) (*entity.FormSession, error) {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(ctx, id)
	}
	return nil, service.ErrFormNotFound
}

func (m *MockRegistrationService) ToggleVisibility(ctx context.Context, id string, field string) (*entity.FormSession, error) {
	if m.ToggleVisibilityFunc != nil {
		return m.ToggleVisibilityFunc(ctx, id, field)
	}
	return nil, service.ErrFormNotFound
}

func (m *MockRegistrationService) Submit(ctx context.Context, id string) (*service.SubmitResult, error) {
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, id)
	}
	return nil, service.ErrFormNotFound
}

func (m *MockRegistrationService) DiscardForm(ctx context.Context, id string) error {
	if m.DiscardFormFunc != nil {
		return m.DiscardFormFunc(ctx, id)
	}
	return nil
}

func (m *MockRegistrationService) Register(ctx context.Context, locale string, input *entity.RegistrationInput) (*service.SubmitResult, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, locale, input)
	}
	return nil, service.ErrRegistrationFailed
}
