package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jrjohn/arcana-onboarding-go/internal/domain/entity"
	"github.com/jrjohn/arcana-onboarding-go/internal/i18n"
)

// Custom rule tags used on entity.RegistrationInput
const (
	TagCountryCode = "dial_code"
	TagPhoneNumber = "phone_number"
	TagPinCode     = "pin_code"
	TagPastDate    = "past_date"
	TagAadhaar     = "aadhaar"
	TagPAN         = "pan"

	// TagPasswordMatch is reported on confirmPassword when it differs from password
	TagPasswordMatch = "match"
)

var (
	countryCodePattern = regexp.MustCompile(`^\+[0-9]{1,4}$`)
	phoneNumberPattern = regexp.MustCompile(`^[0-9]{7,15}$`)
	pinCodePattern     = regexp.MustCompile(`^[0-9]{4,10}$`)
	aadhaarPattern     = regexp.MustCompile(`^\d{12}$`)
	panPattern         = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]{1}$`)
)

// dateLayouts are tried in order when parsing a date of birth
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// Clock returns the current time
type Clock func() time.Time

// Validator checks registration input against the field rule table
type Validator struct {
	validate *validator.Validate
	now      Clock
}

// NewValidator creates a validator. A nil clock means time.Now.
func NewValidator(now Clock) *Validator {
	if now == nil {
		now = time.Now
	}

	v := &Validator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		now:      now,
	}

	v.validate.RegisterTagNameFunc(jsonFieldName)
	v.registerCustomValidators()

	return v
}

func (v *Validator) registerCustomValidators() {
	v.mustRegister(TagCountryCode, matches(countryCodePattern))
	v.mustRegister(TagPhoneNumber, matches(phoneNumberPattern))
	v.mustRegister(TagPinCode, matches(pinCodePattern))
	v.mustRegister(TagAadhaar, matches(aadhaarPattern))
	v.mustRegister(TagPAN, matches(panPattern))
	v.mustRegister(TagPastDate, func(fl validator.FieldLevel) bool {
		return IsPastDate(fl.Field().String(), v.now())
	})
}

func (v *Validator) mustRegister(tag string, fn validator.Func) {
	if err := v.validate.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// Validate runs every field rule and then the password match check.
// The returned errors carry message keys; use Localize to turn them into text.
func (v *Validator) Validate(input *entity.RegistrationInput) []FieldError {
	var result []FieldError

	err := v.validate.Struct(input)
	if err != nil {
		var validationErrs validator.ValidationErrors
		if !errors.As(err, &validationErrs) {
			return []FieldError{{Field: "", Rule: "invalid"}}
		}
		for _, fe := range validationErrs {
			result = append(result, FieldError{Field: fe.Field(), Rule: fe.Tag()})
		}
		return result
	}

	if input.Password != input.ConfirmPassword {
		result = append(result, FieldError{Field: entity.FieldConfirmPassword, Rule: TagPasswordMatch})
	}
	return result
}

// ValidateLocalized validates input and resolves every message through loc
func (v *Validator) ValidateLocalized(input *entity.RegistrationInput, loc i18n.Localizer) entity.FieldErrors {
	return Localize(v.Validate(input), loc)
}

// FieldError is one failing rule on one field
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// MessageKey returns the catalog key describing the failure
func (fe FieldError) MessageKey() string {
	return "validation." + fe.Field + "." + fe.Rule
}

// Localize converts field errors into a field to message map.
// Validator reports at most one failing rule per field, so the first rule wins.
func Localize(errs []FieldError, loc i18n.Localizer) entity.FieldErrors {
	out := make(entity.FieldErrors, len(errs))
	for _, fe := range errs {
		if _, seen := out[fe.Field]; seen {
			continue
		}
		key := fe.MessageKey()
		msg := loc.T(key)
		if msg == key {
			msg = loc.T("validation.default")
		}
		out[fe.Field] = msg
	}
	return out
}

// IsPastDate reports whether value parses to an instant strictly before now.
// Date-only values are read as midnight UTC.
func IsPastDate(value string, now time.Time) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Before(now)
		}
	}
	return false
}

func matches(pattern *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return pattern.MatchString(fl.Field().String())
	}
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return field.Name
	}
	return name
}
