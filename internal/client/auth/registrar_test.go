package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jrjohn/arcana-onboarding-go/internal/testutil"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "http://localhost:8080", cfg.BaseURL)
	assert.Equal(t, "/api/auth/register", cfg.RegisterPath)
	assert.Zero(t, cfg.Timeout)
}

func TestNewRegisterRequest_Shape(t *testing.T) {
	input := testutil.ValidRegistrationInput()
	input.AddressLine2 = "Flat 2"

	body, err := json.Marshal(NewRegisterRequest(input.ToPayload()))
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(body, &wire))

	name := wire["name"].(map[string]any)
	assert.Equal(t, "Jane", name["firstName"])
	assert.Equal(t, "Doe", name["lastName"])
	assert.NotContains(t, name, "middleName")

	mobile := wire["mobileNumber"].(map[string]any)
	assert.Equal(t, "+91", mobile["countryCode"])
	assert.Equal(t, "9876543210", mobile["number"])

	address := wire["address"].(map[string]any)
	assert.Equal(t, "1 Main St", address["line1"])
	assert.Equal(t, "Flat 2", address["line2"])
	assert.Equal(t, "411001", address["pinCode"])

	assert.Equal(t, "CUSTOMER", wire["role"])
	assert.Equal(t, "INR", wire["preferredCurrency"])
	assert.Equal(t, "ABCDE1234F", wire["panNumber"])
	assert.NotContains(t, wire, "confirmPassword")
}

func TestClient_Register_Success(t *testing.T) {
	var got RegisterRequest
	var path, contentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		contentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"u-1"}`))
	}))
	defer server.Close()

	client := NewClient(&Config{BaseURL: server.URL + "/", RegisterPath: "api/auth/register"}, zap.NewNop())
	input := testutil.ValidRegistrationInput()

	err := client.Register(context.Background(), input.ToPayload())
	require.NoError(t, err)

	assert.Equal(t, "/api/auth/register", path)
	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, "jane@x.com", got.Email)
	assert.Equal(t, "1 Main St", got.Address.Line1)
}

func TestClient_Register_DefaultPath(t *testing.T) {
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(&Config{BaseURL: server.URL}, zap.NewNop())
	input := testutil.ValidRegistrationInput()
	require.NoError(t, client.Register(context.Background(), input.ToPayload()))
	assert.Equal(t, DefaultRegisterPath, path)
}

func TestClient_Register_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"conflict", http.StatusConflict, `{"error":"email already registered"}`},
		{"bad request", http.StatusBadRequest, `{"error":"invalid pan"}`},
		{"server error", http.StatusInternalServerError, "oops"},
		{"redirect is not success", http.StatusMultipleChoices, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(&Config{BaseURL: server.URL}, zap.NewNop())
			input := testutil.ValidRegistrationInput()

			err := client.Register(context.Background(), input.ToPayload())
			require.Error(t, err)
			assert.Contains(t, err.Error(), strconv.Itoa(tt.status))
		})
	}
}

func TestClient_Register_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewClient(&Config{BaseURL: url}, zap.NewNop())
	input := testutil.ValidRegistrationInput()

	err := client.Register(context.Background(), input.ToPayload())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unreachable")
}

func TestClient_Register_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	client := NewClient(&Config{BaseURL: server.URL, Timeout: 50 * time.Millisecond}, zap.NewNop())
	input := testutil.ValidRegistrationInput()

	err := client.Register(context.Background(), input.ToPayload())
	assert.Error(t, err)
}
