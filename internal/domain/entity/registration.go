package entity

import (
	"sort"
)

// Role represents the role requested for a new account
type Role string

const (
	RoleCustomer    Role = "CUSTOMER"
	RoleBankOfficer Role = "BANKOFFICER"
	RoleAdmin       Role = "ADMIN"
)

// Roles lists every role a registration may request
var Roles = []Role{RoleCustomer, RoleBankOfficer, RoleAdmin}

const (
	// DefaultPreferredCurrency is preselected on every new form
	DefaultPreferredCurrency = "KWD"
	// DefaultRole is preselected on every new form
	DefaultRole = RoleCustomer
)

// Field names as they appear on the wire and in field error maps
const (
	FieldFirstName         = "firstName"
	FieldMiddleName        = "middleName"
	FieldLastName          = "lastName"
	FieldEmail             = "email"
	FieldPassword          = "password"
	FieldConfirmPassword   = "confirmPassword"
	FieldCountryCode       = "countryCode"
	FieldPhoneNumber       = "phoneNumber"
	FieldAddressLine1      = "addressLine1"
	FieldAddressLine2      = "addressLine2"
	FieldStreet            = "street"
	FieldCity              = "city"
	FieldState             = "state"
	FieldPinCode           = "pinCode"
	FieldCountry           = "country"
	FieldDateOfBirth       = "dateOfBirth"
	FieldAadhaarNumber     = "aadhaarNumber"
	FieldPanNumber         = "panNumber"
	FieldPreferredCurrency = "preferredCurrency"
	FieldRole              = "role"
)

// FieldOrder is the order fields are rendered in the form view
var FieldOrder = []string{
	FieldFirstName,
	FieldMiddleName,
	FieldLastName,
	FieldEmail,
	FieldPassword,
	FieldConfirmPassword,
	FieldCountryCode,
	FieldPhoneNumber,
	FieldAddressLine1,
	FieldAddressLine2,
	FieldStreet,
	FieldCity,
	FieldState,
	FieldPinCode,
	FieldCountry,
	FieldDateOfBirth,
	FieldAadhaarNumber,
	FieldPanNumber,
	FieldPreferredCurrency,
	FieldRole,
}

// RegistrationInput is the mutable record behind a registration form.
// Validation rules live on the struct tags and are enforced by the validation package.
type RegistrationInput struct {
	FirstName         string `json:"firstName" validate:"min=2"`
	MiddleName        string `json:"middleName"`
	LastName          string `json:"lastName" validate:"min=2"`
	Email             string `json:"email" validate:"email"`
	Password          string `json:"password" validate:"min=6"`
	ConfirmPassword   string `json:"confirmPassword"`
	CountryCode       string `json:"countryCode" validate:"dial_code"`
	PhoneNumber       string `json:"phoneNumber" validate:"phone_number"`
	AddressLine1      string `json:"addressLine1" validate:"min=1,max=100"`
	AddressLine2      string `json:"addressLine2" validate:"max=100"`
	Street            string `json:"street" validate:"min=1,max=100"`
	City              string `json:"city" validate:"min=1,max=50"`
	State             string `json:"state" validate:"min=1,max=50"`
	PinCode           string `json:"pinCode" validate:"min=1,pin_code"`
	Country           string `json:"country" validate:"min=1,max=50"`
	DateOfBirth       string `json:"dateOfBirth" validate:"past_date"`
	AadhaarNumber     string `json:"aadhaarNumber" validate:"aadhaar"`
	PanNumber         string `json:"panNumber" validate:"pan"`
	PreferredCurrency string `json:"preferredCurrency" validate:"len=3"`
	Role              Role   `json:"role" validate:"oneof=CUSTOMER BANKOFFICER ADMIN"`
}

// NewRegistrationInput returns a blank input carrying the form defaults
func NewRegistrationInput() RegistrationInput {
	return RegistrationInput{
		PreferredCurrency: DefaultPreferredCurrency,
		Role:              DefaultRole,
	}
}

func (in *RegistrationInput) fieldRefs() map[string]*string {
	return map[string]*string{
		FieldFirstName:         &in.FirstName,
		FieldMiddleName:        &in.MiddleName,
		FieldLastName:          &in.LastName,
		FieldEmail:             &in.Email,
		FieldPassword:          &in.Password,
		FieldConfirmPassword:   &in.ConfirmPassword,
		FieldCountryCode:       &in.CountryCode,
		FieldPhoneNumber:       &in.PhoneNumber,
		FieldAddressLine1:      &in.AddressLine1,
		FieldAddressLine2:      &in.AddressLine2,
		FieldStreet:            &in.Street,
		FieldCity:              &in.City,
		FieldState:             &in.State,
		FieldPinCode:           &in.PinCode,
		FieldCountry:           &in.Country,
		FieldDateOfBirth:       &in.DateOfBirth,
		FieldAadhaarNumber:     &in.AadhaarNumber,
		FieldPanNumber:         &in.PanNumber,
		FieldPreferredCurrency: &in.PreferredCurrency,
	}
}

// IsField reports whether name is a known form field
func IsField(name string) bool {
	for _, f := range FieldOrder {
		if f == name {
			return true
		}
	}
	return false
}

// SetField assigns value to the named field. It returns false for unknown names.
func (in *RegistrationInput) SetField(name, value string) bool {
	if name == FieldRole {
		in.Role = Role(value)
		return true
	}
	ref, ok := in.fieldRefs()[name]
	if !ok {
		return false
	}
	*ref = value
	return true
}

// Field returns the current value of the named field
func (in *RegistrationInput) Field(name string) (string, bool) {
	if name == FieldRole {
		return string(in.Role), true
	}
	ref, ok := in.fieldRefs()[name]
	if !ok {
		return "", false
	}
	return *ref, true
}

// Values returns every field as a name to value map
func (in *RegistrationInput) Values() map[string]string {
	values := make(map[string]string, len(FieldOrder))
	for _, name := range FieldOrder {
		values[name], _ = in.Field(name)
	}
	return values
}

// ToPayload normalizes the input into the record handed to the registration capability.
// The address lines are renamed; everything else passes through untouched.
func (in *RegistrationInput) ToPayload() *RegistrationPayload {
	return &RegistrationPayload{
		FirstName:         in.FirstName,
		MiddleName:        in.MiddleName,
		LastName:          in.LastName,
		Email:             in.Email,
		Password:          in.Password,
		CountryCode:       in.CountryCode,
		PhoneNumber:       in.PhoneNumber,
		Line1:             in.AddressLine1,
		Line2:             in.AddressLine2,
		Street:            in.Street,
		City:              in.City,
		State:             in.State,
		PinCode:           in.PinCode,
		Country:           in.Country,
		DateOfBirth:       in.DateOfBirth,
		AadhaarNumber:     in.AadhaarNumber,
		PanNumber:         in.PanNumber,
		PreferredCurrency: in.PreferredCurrency,
		Role:              in.Role,
	}
}

// RegistrationPayload is the normalized record sent to the registration capability
type RegistrationPayload struct {
	FirstName         string `json:"firstName"`
	MiddleName        string `json:"middleName,omitempty"`
	LastName          string `json:"lastName"`
	Email             string `json:"email"`
	Password          string `json:"password"`
	CountryCode       string `json:"countryCode"`
	PhoneNumber       string `json:"phoneNumber"`
	Line1             string `json:"line1"`
	Line2             string `json:"line2,omitempty"`
	Street            string `json:"street"`
	City              string `json:"city"`
	State             string `json:"state"`
	PinCode           string `json:"pinCode"`
	Country           string `json:"country"`
	DateOfBirth       string `json:"dateOfBirth"`
	AadhaarNumber     string `json:"aadhaarNumber"`
	PanNumber         string `json:"panNumber"`
	PreferredCurrency string `json:"preferredCurrency"`
	Role              Role   `json:"role"`
}

// FieldErrors maps a field name to the message of its first failing rule
type FieldErrors map[string]string

// Fields returns the failing field names in a stable order
func (fe FieldErrors) Fields() []string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}
