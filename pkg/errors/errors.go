package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is an error that knows how it is reported over HTTP
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Error codes reported in the response envelope
const (
	CodeNotFound           = "NOT_FOUND"
	CodeBadRequest         = "BAD_REQUEST"
	CodeValidationError    = "VALIDATION_ERROR"
	CodeConflict           = "CONFLICT"
	CodeUnprocessable      = "UNPROCESSABLE_ENTITY"
	CodeTooManyRequests    = "TOO_MANY_REQUESTS"
	CodeInternalError      = "INTERNAL_ERROR"
	CodeBadGateway         = "BAD_GATEWAY"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// Shared errors. Derive variants with WithMessage or Wrap; never mutate these.
var (
	ErrNotFound           = &AppError{Code: CodeNotFound, Message: "resource not found", Status: http.StatusNotFound}
	ErrBadRequest         = &AppError{Code: CodeBadRequest, Message: "bad request", Status: http.StatusBadRequest}
	ErrValidation         = &AppError{Code: CodeValidationError, Message: "validation failed", Status: http.StatusBadRequest}
	ErrConflict           = &AppError{Code: CodeConflict, Message: "resource conflict", Status: http.StatusConflict}
	ErrUnprocessable      = &AppError{Code: CodeUnprocessable, Message: "unprocessable entity", Status: http.StatusUnprocessableEntity}
	ErrTooManyRequests    = &AppError{Code: CodeTooManyRequests, Message: "too many requests", Status: http.StatusTooManyRequests}
	ErrInternalError      = &AppError{Code: CodeInternalError, Message: "internal server error", Status: http.StatusInternalServerError}
	ErrBadGateway         = &AppError{Code: CodeBadGateway, Message: "upstream service failed", Status: http.StatusBadGateway}
	ErrServiceUnavailable = &AppError{Code: CodeServiceUnavailable, Message: "service unavailable", Status: http.StatusServiceUnavailable}
)

// New creates an AppError without a cause
func New(code string, message string, status int) *AppError {
	return &AppError{Code: code, Message: message, Status: status}
}

// Wrap attaches err as the cause of a copy of appErr
func Wrap(err error, appErr *AppError) *AppError {
	return &AppError{
		Code:    appErr.Code,
		Message: appErr.Message,
		Status:  appErr.Status,
		Err:     err,
	}
}

// WithMessage copies e with a different client-facing message
func (e *AppError) WithMessage(message string) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: message,
		Status:  e.Status,
		Err:     e.Err,
	}
}

// From returns the first AppError in err's chain, or err wrapped as an internal error
func From(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, ErrInternalError)
}

// Is reports whether err carries an AppError with target's code
func Is(err error, target *AppError) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == target.Code
	}
	return false
}

// GetStatus returns the HTTP status carried by err, 500 for plain errors
func GetStatus(err error) int {
	return From(err).Status
}
