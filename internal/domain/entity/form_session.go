package entity

import (
	"time"
)

// FormSession is the server-owned state of one open registration form
type FormSession struct {
	ID                  string            `json:"id"`
	Locale              string            `json:"locale"`
	Input               RegistrationInput `json:"input"`
	Errors              FieldErrors       `json:"errors,omitempty"`
	Validated           bool              `json:"validated"`
	ShowPassword        bool              `json:"showPassword"`
	ShowConfirmPassword bool              `json:"showConfirmPassword"`
	Busy                bool              `json:"busy"`
	CreatedAt           time.Time         `json:"createdAt"`
	UpdatedAt           time.Time         `json:"updatedAt"`
}

// NewFormSession creates a session holding a fresh input with defaults
func NewFormSession(id, locale string, now time.Time) *FormSession {
	return &FormSession{
		ID:        id,
		Locale:    locale,
		Input:     NewRegistrationInput(),
		Errors:    FieldErrors{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone returns a deep copy of the session
func (s *FormSession) Clone() *FormSession {
	c := *s
	c.Errors = make(FieldErrors, len(s.Errors))
	for k, v := range s.Errors {
		c.Errors[k] = v
	}
	return &c
}

// Visible reports whether a password-type field is currently shown in clear text
func (s *FormSession) Visible(field string) bool {
	switch field {
	case FieldPassword:
		return s.ShowPassword
	case FieldConfirmPassword:
		return s.ShowConfirmPassword
	default:
		return true
	}
}

// IsExpired checks whether the session was idle for longer than ttl
func (s *FormSession) IsExpired(ttl time.Duration, now time.Time) bool {
	return ttl > 0 && now.Sub(s.UpdatedAt) > ttl
}

// NotificationLevel is the severity of a transient notification
type NotificationLevel string

const (
	NotificationSuccess NotificationLevel = "success"
	NotificationError   NotificationLevel = "error"
)

// Notification is a transient message shown to the user, keyed by a translation key
type Notification struct {
	Level   NotificationLevel `json:"level"`
	Key     string            `json:"key"`
	Message string            `json:"message"`
}
