package response

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrjohn/arcana-onboarding-go/internal/domain/entity"
	"github.com/jrjohn/arcana-onboarding-go/internal/domain/service"
)

func newSession() *entity.FormSession {
	s := entity.NewFormSession("f-1", "en", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	s.Input.FirstName = "Jane"
	s.Input.Password = "secret1"
	s.Input.ConfirmPassword = "sécret"
	return s
}

func TestMask(t *testing.T) {
	assert.Equal(t, "", Mask(""))
	assert.Equal(t, "•••", Mask("abc"))
	assert.Equal(t, "••••••", Mask("sécret"))
}

func TestNewFormResponse_MasksHiddenPasswords(t *testing.T) {
	resp := NewFormResponse(newSession())

	assert.Equal(t, "f-1", resp.ID)
	assert.Equal(t, "Jane", resp.Values[entity.FieldFirstName])
	assert.Equal(t, "•••••••", resp.Values[entity.FieldPassword])
	assert.Equal(t, "••••••", resp.Values[entity.FieldConfirmPassword])
	assert.Equal(t, "KWD", resp.Values[entity.FieldPreferredCurrency])
	assert.NotNil(t, resp.Errors)
}

func TestNewFormResponse_ValidOnlyAfterValidation(t *testing.T) {
	s := entity.NewFormSession("f-1", "en", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.False(t, NewFormResponse(s).Valid, "a blank form was never checked")

	s.Validated = true
	assert.True(t, NewFormResponse(s).Valid)

	s.Errors[entity.FieldFirstName] = "First name is required"
	assert.False(t, NewFormResponse(s).Valid)
}

func TestNewFormResponse_ShowsVisiblePassword(t *testing.T) {
	s := newSession()
	s.ShowPassword = true

	resp := NewFormResponse(s)
	assert.Equal(t, "secret1", resp.Values[entity.FieldPassword])
	assert.Equal(t, "••••••", resp.Values[entity.FieldConfirmPassword])
	assert.True(t, resp.ShowPassword)
}

func TestNewFormResponse_ErrorsAreCopied(t *testing.T) {
	s := newSession()
	s.Errors["email"] = "Please enter a valid email address"
	s.Validated = true
	s.Busy = true

	resp := NewFormResponse(s)
	assert.False(t, resp.Valid)
	assert.True(t, resp.Busy)

	resp.Errors["email"] = "changed"
	assert.Equal(t, "Please enter a valid email address", s.Errors["email"])
}

func TestNewSubmitResponse(t *testing.T) {
	notification := entity.Notification{Level: entity.NotificationSuccess, Key: "auth.register.success", Message: "Account created successfully"}

	registered := NewSubmitResponse(&service.SubmitResult{
		Registered:   true,
		Notification: notification,
		RedirectTo:   "/dashboard",
		Form:         newSession(),
	})
	assert.True(t, registered.Registered)
	assert.Equal(t, "/dashboard", registered.RedirectTo)
	assert.Nil(t, registered.Form)

	failed := NewSubmitResponse(&service.SubmitResult{
		Notification: entity.Notification{Level: entity.NotificationError},
		Form:         newSession(),
	})
	assert.False(t, failed.Registered)
	require.NotNil(t, failed.Form)
	assert.Equal(t, "Jane", failed.Form.Values[entity.FieldFirstName])
}
