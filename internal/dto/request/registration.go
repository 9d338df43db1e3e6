package request

import (
	"fmt"

	"github.com/jrjohn/arcana-onboarding-go/internal/domain/entity"
)

// OpenFormRequest represents a request to open a registration form
type OpenFormRequest struct {
	Locale string `json:"locale,omitempty" binding:"omitempty,min=2,max=16"`
}

// UpdateFieldsRequest represents a batch of field edits
type UpdateFieldsRequest struct {
	Fields map[string]string `json:"fields" binding:"required,min=1"`
}

// RegisterRequest is a complete form posted in one request, keyed by field name.
// Omitted fields keep their initial values.
type RegisterRequest map[string]string

// ToInput applies the posted values over a fresh input
func (r RegisterRequest) ToInput() (*entity.RegistrationInput, error) {
	input := entity.NewRegistrationInput()
	for name, value := range r {
		if !input.SetField(name, value) {
			return nil, fmt.Errorf("unknown field %q", name)
		}
	}
	return &input, nil
}

// FormAction is the button pressed on the HTML form
type FormAction string

const (
	ActionSubmit                FormAction = "submit"
	ActionTogglePassword        FormAction = "toggle-password"
	ActionToggleConfirmPassword FormAction = "toggle-confirmPassword"
)

// FormPost is the urlencoded body of the HTML form. An empty action submits.
type FormPost struct {
	FormID string     `form:"formId" binding:"required"`
	Action FormAction `form:"action" binding:"omitempty,oneof=submit toggle-password toggle-confirmPassword"`
}
