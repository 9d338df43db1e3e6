package response

import (
	"encoding/json"
	"errors"
	"testing"

	apperrors "github.com/jrjohn/arcana-onboarding-go/pkg/errors"
)

func TestNewSuccess(t *testing.T) {
	resp := NewSuccess(map[string]string{"id": "f-1"}, "registration form opened")

	if !resp.Success {
		t.Error("NewSuccess should set Success to true")
	}
	if resp.Message != "registration form opened" {
		t.Errorf("Message = %v", resp.Message)
	}
	if resp.Data["id"] != "f-1" {
		t.Errorf("Data = %v", resp.Data)
	}
	if resp.Code != "" {
		t.Errorf("Code = %v, want empty", resp.Code)
	}
	if resp.Timestamp.IsZero() {
		t.Error("NewSuccess should set Timestamp")
	}
}

func TestNewSuccessWithData(t *testing.T) {
	resp := NewSuccessWithData([]int{1, 2, 3})

	if !resp.Success || resp.Message != "" || len(resp.Data) != 3 {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestNewError(t *testing.T) {
	cause := errors.New("dial tcp 10.0.0.7:8080: connection refused")
	resp := NewError[any](apperrors.Wrap(cause, apperrors.ErrBadGateway.WithMessage("registration failed")))

	if resp.Success {
		t.Error("NewError should set Success to false")
	}
	if resp.Code != apperrors.CodeBadGateway {
		t.Errorf("Code = %v", resp.Code)
	}
	if resp.Message != "registration failed" {
		t.Errorf("Message = %v, the cause must not leak", resp.Message)
	}
	if resp.Data != nil || resp.Errors != nil {
		t.Errorf("unexpected payload %+v", resp)
	}
}

func TestNewErrorWithDetails(t *testing.T) {
	details := map[string]string{"email": "Please enter a valid email address"}
	resp := NewErrorWithDetails[*FormResponse](apperrors.ErrValidation, details).
		WithData(&FormResponse{ID: "f-1"}).
		WithRequestID("req-1")

	if resp.Success || resp.Code != apperrors.CodeValidationError {
		t.Errorf("unexpected response %+v", resp)
	}
	if resp.Errors == nil {
		t.Error("NewErrorWithDetails should set Errors")
	}
	if resp.Data == nil || resp.Data.ID != "f-1" {
		t.Errorf("Data = %+v", resp.Data)
	}
	if resp.RequestID != "req-1" {
		t.Errorf("RequestID = %v", resp.RequestID)
	}
}

func TestApiResponse_JSONOmitsEmpty(t *testing.T) {
	body, err := json.Marshal(NewError[any](apperrors.ErrNotFound))
	if err != nil {
		t.Fatal(err)
	}

	var wire map[string]any
	if err := json.Unmarshal(body, &wire); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"data", "errors", "requestId"} {
		if _, ok := wire[key]; ok {
			t.Errorf("%s should be omitted", key)
		}
	}
	if wire["success"] != false || wire["code"] != apperrors.CodeNotFound || wire["message"] != "resource not found" {
		t.Errorf("wire = %v", wire)
	}
}

func BenchmarkNewSuccess(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = NewSuccess("data", "message")
	}
}
