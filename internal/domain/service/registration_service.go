package service

import (
	"context"
	"errors"

	"github.com/jrjohn/arcana-onboarding-go/internal/domain/entity"
)

var (
	ErrFormNotFound         = errors.New("registration form not found")
	ErrValidationFailed     = errors.New("registration form is invalid")
	ErrSubmissionInProgress = errors.New("a submission is already in progress")
	ErrUnknownField         = errors.New("unknown form field")
	ErrRegistrationFailed   = errors.New("registration failed")
)

// Registrar is the external registration capability.
// It fails by returning an error whose reason callers must not rely on.
type Registrar interface {
	Register(ctx context.Context, payload *entity.RegistrationPayload) error
}

// Notifier displays transient messages to the user owning a form
type Notifier interface {
	Notify(ctx context.Context, formID string, notification entity.Notification)
}

// Navigator moves the user owning a form to the post-registration destination
type Navigator interface {
	// Navigate announces the move and returns the destination
	Navigate(ctx context.Context, formID string) string
}

// SubmitResult describes the outcome of a submission that reached the registrar
type SubmitResult struct {
	Registered   bool
	Notification entity.Notification
	RedirectTo   string
	Form         *entity.FormSession
}

// RegistrationService defines the registration form operations
type RegistrationService interface {
	// OpenForm creates a form holding the default values
	OpenForm(ctx context.Context, locale string) (*entity.FormSession, error)

	// GetForm returns the current state of a form
	GetForm(ctx context.Context, id string) (*entity.FormSession, error)

	// UpdateFields applies field edits and re-validates the form
	UpdateFields(ctx context.Context, id string, fields map[string]string) (*entity.FormSession, error)

	// Validate re-runs validation without changing any value
	Validate(ctx context.Context, id string) (*entity.FormSession, error)

	// ToggleVisibility flips clear-text display of a password field
	ToggleVisibility(ctx context.Context, id string, field string) (*entity.FormSession, error)

	// Submit validates the form and hands its payload to the registrar once.
	// Writes to the form fail with ErrSubmissionInProgress until it returns.
	Submit(ctx context.Context, id string) (*SubmitResult, error)

	// DiscardForm drops a form without submitting it
	DiscardForm(ctx context.Context, id string) error

	// Register runs the submit flow for a complete input posted in one request
	Register(ctx context.Context, locale string, input *entity.RegistrationInput) (*SubmitResult, error)
}
