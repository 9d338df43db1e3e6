package mocks

import (
	"context"
	"sync"

	"github.com/jrjohn/arcana-onboarding-go/internal/domain/entity"
)

// MockRegistrar is a mock implementation of service.Registrar
type MockRegistrar struct {
	RegisterFunc func(ctx context.Context, payload *entity.RegistrationPayload) error

	mu       sync.Mutex
	payloads []*entity.RegistrationPayload
}

func NewMockRegistrar() *MockRegistrar {
	return &MockRegistrar{}
}

func (m *MockRegistrar) Register(ctx context.Context, payload *entity.RegistrationPayload) error {
	m.mu.Lock()
	m.payloads = append(m.payloads, payload)
	m.mu.Unlock()

	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, payload)
	}
	return nil
}

// Calls returns how many times Register was invoked
func (m *MockRegistrar) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.payloads)
}

// LastPayload returns the most recent payload, or nil
func (m *MockRegistrar) LastPayload() *entity.RegistrationPayload {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.payloads) == 0 {
		return nil
	}
	return m.payloads[len(m.payloads)-1]
}

// SentNotification records one Notify call
type SentNotification struct {
	FormID       string
	Notification entity.Notification
}

// MockNotifier is a mock implementation of service.Notifier
type MockNotifier struct {
	NotifyFunc func(ctx context.Context, formID string, notification entity.Notification)

	mu   sync.Mutex
	sent []SentNotification
}

func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) Notify(ctx context.Context, formID string, notification entity.Notification) {
	m.mu.Lock()
	m.sent = append(m.sent, SentNotification{FormID: formID, Notification: notification})
	m.mu.Unlock()

	if m.NotifyFunc != nil {
		m.NotifyFunc(ctx, formID, notification)
	}
}

// Sent returns every recorded notification
func (m *MockNotifier) Sent() []SentNotification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SentNotification(nil), m.sent...)
}

// MockNavigator is a mock implementation of service.Navigator
type MockNavigator struct {
	Destination  string
	NavigateFunc func(ctx context.Context, formID string) string

	mu     sync.Mutex
	formID []string
}

func NewMockNavigator(destination string) *MockNavigator {
	return &MockNavigator{Destination: destination}
}

func (m *MockNavigator) Navigate(ctx context.Context, formID string) string {
	m.mu.Lock()
	m.formID = append(m.formID, formID)
	m.mu.Unlock()

	if m.NavigateFunc != nil {
		return m.NavigateFunc(ctx, formID)
	}
	return m.Destination
}

// Navigations returns the form IDs navigated away from
func (m *MockNavigator) Navigations() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.formID...)
}
