package testutil

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/jrjohn/arcana-onboarding-go/internal/domain/entity"
)

// testIDCounter is used to generate unique test IDs
var testIDCounter uint64

// TestConfig holds test configuration
type TestConfig struct {
	RedisAddr string
}

// DefaultTestConfig returns default test configuration
func DefaultTestConfig() TestConfig {
	redisAddr := os.Getenv("TEST_REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6380"
	}
	return TestConfig{RedisAddr: redisAddr}
}

// NewTestLogger creates a test logger
func NewTestLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t)
}

// NewNopLogger creates a no-op logger for benchmarks
func NewNopLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestRedisClient connects to the test Redis or skips the test
func NewTestRedisClient(t *testing.T, config TestConfig) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{Addr: config.RedisAddr})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		t.Skipf("Redis not available: %v", err)
	}

	t.Cleanup(func() {
		_ = client.Close()
	})
	return client
}

// CleanupRedisKeys removes every key matching pattern
func CleanupRedisKeys(ctx context.Context, client *redis.Client, pattern string) error {
	iter := client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// WaitForCondition polls condition until it holds or fails the test after timeout
func WaitForCondition(t *testing.T, timeout time.Duration, condition func() bool, message string) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("condition not met within %v: %s", timeout, message)
}

// GenerateTestID returns a unique ID for test fixtures
func GenerateTestID() string {
	return fmt.Sprintf("test-%d-%d", time.Now().UnixNano(), atomic.AddUint64(&testIDCounter, 1))
}

// SkipIfShort skips the test if running in short mode
func SkipIfShort(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping in short mode")
	}
}

// FixedClock returns a clock that always reports now
func FixedClock(now time.Time) func() time.Time {
	return func() time.Time { return now }
}

// ValidRegistrationInput returns an input that passes every rule
func ValidRegistrationInput() entity.RegistrationInput {
	return entity.RegistrationInput{
		FirstName:         "Jane",
		LastName:          "Doe",
		Email:             "jane@x.com",
		Password:          "secret1",
		ConfirmPassword:   "secret1",
		CountryCode:       "+91",
		PhoneNumber:       "9876543210",
		AddressLine1:      "1 Main St",
		Street:            "Main",
		City:              "Pune",
		State:             "MH",
		PinCode:           "411001",
		Country:           "India",
		DateOfBirth:       "1990-01-01",
		AadhaarNumber:     "123456789012",
		PanNumber:         "ABCDE1234F",
		PreferredCurrency: "INR",
		Role:              entity.RoleCustomer,
	}
}
