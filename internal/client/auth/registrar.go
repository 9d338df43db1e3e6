package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jrjohn/arcana-onboarding-go/internal/domain/entity"
	"github.com/jrjohn/arcana-onboarding-go/internal/observability"
)

// DefaultRegisterPath is the auth service's registration endpoint
const DefaultRegisterPath = "/api/auth/register"

// Config holds auth service client settings
type Config struct {
	BaseURL      string        `mapstructure:"base_url"`
	RegisterPath string        `mapstructure:"register_path"`
	Timeout      time.Duration `mapstructure:"timeout"` // 0 waits for the service indefinitely
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		BaseURL:      "http://localhost:8080",
		RegisterPath: DefaultRegisterPath,
	}
}

type personName struct {
	FirstName  string `json:"firstName"`
	MiddleName string `json:"middleName,omitempty"`
	LastName   string `json:"lastName"`
}

type mobileNumber struct {
	CountryCode string `json:"countryCode"`
	Number      string `json:"number"`
}

type address struct {
	Line1   string `json:"line1"`
	Line2   string `json:"line2,omitempty"`
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	PinCode string `json:"pinCode"`
	Country string `json:"country"`
}

// RegisterRequest is the body the auth service expects
type RegisterRequest struct {
	Name              personName   `json:"name"`
	Email             string       `json:"email"`
	Password          string       `json:"password"`
	MobileNumber      mobileNumber `json:"mobileNumber"`
	Address           address      `json:"address"`
	DateOfBirth       string       `json:"dateOfBirth"`
	AadhaarNumber     string       `json:"aadhaarNumber"`
	PanNumber         string       `json:"panNumber"`
	PreferredCurrency string       `json:"preferredCurrency"`
	Role              entity.Role  `json:"role"`
}

// NewRegisterRequest shapes a normalized payload for the wire
func NewRegisterRequest(p *entity.RegistrationPayload) *RegisterRequest {
	return &RegisterRequest{
		Name: personName{
			FirstName:  p.FirstName,
			MiddleName: p.MiddleName,
			LastName:   p.LastName,
		},
		Email:    p.Email,
		Password: p.Password,
		MobileNumber: mobileNumber{
			CountryCode: p.CountryCode,
			Number:      p.PhoneNumber,
		},
		Address: address{
			Line1:   p.Line1,
			Line2:   p.Line2,
			Street:  p.Street,
			City:    p.City,
			State:   p.State,
			PinCode: p.PinCode,
			Country: p.Country,
		},
		DateOfBirth:       p.DateOfBirth,
		AadhaarNumber:     p.AadhaarNumber,
		PanNumber:         p.PanNumber,
		PreferredCurrency: p.PreferredCurrency,
		Role:              p.Role,
	}
}

// Client calls the external authentication service
type Client struct {
	config     *Config
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new auth service client
func NewClient(config *Config, logger *zap.Logger) *Client {
	path := config.RegisterPath
	if path == "" {
		path = DefaultRegisterPath
	}

	return &Client{
		config:   config,
		endpoint: strings.TrimRight(config.BaseURL, "/") + "/" + strings.TrimLeft(path, "/"),
		httpClient: &http.Client{
			Timeout:   config.Timeout,
			Transport: &observability.TracingTransport{ServiceName: "auth-client"},
		},
		logger: logger,
	}
}

// Register submits payload once. Any transport error or non-2xx answer is a rejection.
func (c *Client) Register(ctx context.Context, payload *entity.RegistrationPayload) error {
	body, err := json.Marshal(NewRegisterRequest(payload))
	if err != nil {
		return fmt.Errorf("failed to encode registration: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build registration request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("auth service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("auth service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	c.logger.Debug("Auth service accepted registration", zap.Int("status", resp.StatusCode))
	return nil
}
