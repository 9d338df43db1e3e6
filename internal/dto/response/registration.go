package response

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jrjohn/arcana-onboarding-go/internal/domain/entity"
	"github.com/jrjohn/arcana-onboarding-go/internal/domain/service"
)

const maskRune = "•"

// FormResponse is the client view of a form session.
// Valid stays false until the form has been validated at least once.
type FormResponse struct {
	ID                  string            `json:"id"`
	Locale              string            `json:"locale"`
	Values              map[string]string `json:"values"`
	Errors              map[string]string `json:"errors"`
	Valid               bool              `json:"valid"`
	ShowPassword        bool              `json:"showPassword"`
	ShowConfirmPassword bool              `json:"showConfirmPassword"`
	Busy                bool              `json:"busy"`
	UpdatedAt           time.Time         `json:"updatedAt"`
}

// NewFormResponse builds the client view, masking hidden password values
func NewFormResponse(session *entity.FormSession) *FormResponse {
	values := session.Input.Values()
	for _, field := range []string{entity.FieldPassword, entity.FieldConfirmPassword} {
		if !session.Visible(field) {
			values[field] = Mask(values[field])
		}
	}

	errs := make(map[string]string, len(session.Errors))
	for k, v := range session.Errors {
		errs[k] = v
	}

	return &FormResponse{
		ID:                  session.ID,
		Locale:              session.Locale,
		Values:              values,
		Errors:              errs,
		Valid:               session.Validated && len(errs) == 0,
		ShowPassword:        session.ShowPassword,
		ShowConfirmPassword: session.ShowConfirmPassword,
		Busy:                session.Busy,
		UpdatedAt:           session.UpdatedAt,
	}
}

// Mask replaces every character of value with a bullet
func Mask(value string) string {
	return strings.Repeat(maskRune, utf8.RuneCountInString(value))
}

// SubmitResponse describes a submission that reached the registration service
type SubmitResponse struct {
	Registered   bool                `json:"registered"`
	Notification entity.Notification `json:"notification"`
	RedirectTo   string              `json:"redirectTo,omitempty"`
	Form         *FormResponse       `json:"form,omitempty"`
}

// NewSubmitResponse builds the response for result. The form is omitted once consumed.
func NewSubmitResponse(result *service.SubmitResult) *SubmitResponse {
	resp := &SubmitResponse{
		Registered:   result.Registered,
		Notification: result.Notification,
		RedirectTo:   result.RedirectTo,
	}
	if !result.Registered && result.Form != nil {
		resp.Form = NewFormResponse(result.Form)
	}
	return resp
}
