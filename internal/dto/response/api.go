package response

import (
	"time"

	apperrors "github.com/jrjohn/arcana-onboarding-go/pkg/errors"
)

// ApiResponse is the envelope of every JSON answer
type ApiResponse[T any] struct {
	Success   bool      `json:"success"`
	Code      string    `json:"code,omitempty"`
	Message   string    `json:"message,omitempty"`
	Data      T         `json:"data,omitempty"`
	Errors    any       `json:"errors,omitempty"`
	RequestID string    `json:"requestId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewSuccess creates a successful response
func NewSuccess[T any](data T, message string) ApiResponse[T] {
	return ApiResponse[T]{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// NewSuccessWithData creates a successful response without a message
func NewSuccessWithData[T any](data T) ApiResponse[T] {
	return NewSuccess(data, "")
}

// NewError creates a failed response reporting err's code and message.
// The cause of err is never exposed.
func NewError[T any](err *apperrors.AppError) ApiResponse[T] {
	return ApiResponse[T]{
		Success:   false,
		Code:      err.Code,
		Message:   err.Message,
		Timestamp: time.Now(),
	}
}

// NewErrorWithDetails creates a failed response carrying details, e.g. field errors
func NewErrorWithDetails[T any](err *apperrors.AppError, details any) ApiResponse[T] {
	resp := NewError[T](err)
	resp.Errors = details
	return resp
}

// WithData returns a copy of r carrying data
func (r ApiResponse[T]) WithData(data T) ApiResponse[T] {
	r.Data = data
	return r
}

// WithRequestID returns a copy of r tagged with the request ID
func (r ApiResponse[T]) WithRequestID(id string) ApiResponse[T] {
	r.RequestID = id
	return r
}
