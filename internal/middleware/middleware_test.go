package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jrjohn/arcana-onboarding-go/internal/config"
	"github.com/jrjohn/arcana-onboarding-go/internal/i18n"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter() *gin.Engine {
	return gin.New()
}

// RequestID Tests
func TestRequestID(t *testing.T) {
	router := newTestRouter()
	router.Use(RequestID())
	router.GET("/test", func(c *gin.Context) {
		if RequestIDFromContext(c.Request.Context()) != GetRequestID(c) {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, GetRequestID(c))
	})

	t.Run("generates new request ID", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		if w.Code != http.StatusOK {
			t.Errorf("Status = %v, want %v", w.Code, http.StatusOK)
		}
		headerID := w.Header().Get(RequestIDHeader)
		if headerID == "" {
			t.Error("RequestID header not set")
		}
		if w.Body.String() != headerID {
			t.Errorf("Body = %v, header = %v", w.Body.String(), headerID)
		}
	})

	t.Run("uses provided request ID", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(RequestIDHeader, "custom-request-id")
		router.ServeHTTP(w, req)

		if got := w.Header().Get(RequestIDHeader); got != "custom-request-id" {
			t.Errorf("RequestID = %v, want custom-request-id", got)
		}
	})
}

func TestGetRequestID_Missing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	assert.Empty(t, GetRequestID(c))
	assert.Empty(t, RequestIDFromContext(c.Request.Context()))

	c.Set(RequestIDKey, 42)
	assert.Empty(t, GetRequestID(c))
}

// AccessLog Tests
func TestAccessLog(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	router := newTestRouter()
	router.Use(RequestID(), AccessLog(logger, "/health"))
	router.GET("/forms/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/forms/f-1", nil)
	req.Header.Set(RequestIDHeader, "rid-1")
	router.ServeHTTP(httptest.NewRecorder(), req)
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	entries := logs.All()
	require.Len(t, entries, 1)

	fields := entries[0].ContextMap()
	assert.Equal(t, "rid-1", fields["request_id"])
	assert.Equal(t, "f-1", fields["form_id"])
	assert.EqualValues(t, http.StatusOK, fields["status"])
}

// Recovery Tests
func TestRecovery(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	router := newTestRouter()
	router.Use(RequestID())
	router.Use(Recovery(zap.New(core)))
	router.GET("/panic", func(c *gin.Context) {
		panic("test panic")
	})
	router.GET("/ok", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	t.Run("recovers from panic", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/panic", nil)
		req.Header.Set(RequestIDHeader, "req-panic")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "INTERNAL_ERROR", body["code"])
		assert.Equal(t, "req-panic", body["requestId"])
		assert.NotContains(t, w.Body.String(), "test panic")

		entries := logs.FilterMessage("Panic recovered").All()
		require.Len(t, entries, 1)
		assert.Equal(t, "req-panic", entries[0].ContextMap()["request_id"])
	})

	t.Run("normal request", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

// CORS Tests
func TestCORS_Wildcard(t *testing.T) {
	router := newTestRouter()
	router.Use(CORS(&config.CORSConfig{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
		MaxAge:           time.Hour,
	}))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Origin", "https://anywhere.example.com")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORS_SpecificOrigins(t *testing.T) {
	router := newTestRouter()
	router.Use(CORS(&config.CORSConfig{
		AllowedOrigins:   []string{"https://onboarding.example.com"},
		AllowedMethods:   []string{"GET", "POST"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	}))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("allowed origin", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Origin", "https://onboarding.example.com")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "https://onboarding.example.com", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("foreign origin", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("preflight", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodOptions, "/test", nil)
		req.Header.Set("Origin", "https://onboarding.example.com")
		req.Header.Set("Access-Control-Request-Method", "POST")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

// Locale Tests
func TestLocale(t *testing.T) {
	bundle, err := i18n.NewBundle("en", zap.NewNop())
	require.NoError(t, err)

	router := newTestRouter()
	router.Use(Locale(bundle))
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, GetLocale(c))
	})

	tests := []struct {
		name   string
		url    string
		accept string
		want   string
	}{
		{"default", "/test", "", "en"},
		{"accept-language", "/test", "fr-FR,fr;q=0.9", "fr"},
		{"query overrides header", "/test?lang=en", "fr", "en"},
		{"unsupported query falls back to header", "/test?lang=de", "fr", "fr"},
		{"unsupported header", "/test", "ja", "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			if tt.accept != "" {
				req.Header.Set("Accept-Language", tt.accept)
			}
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Body.String())
			assert.Equal(t, tt.want, w.Header().Get("Content-Language"))
		})
	}
}

func TestGetLocale_Missing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Empty(t, GetLocale(c))
}

// Rate limit Tests
func TestSubmitRateLimiter(t *testing.T) {
	limiter, err := NewSubmitRateLimiter(&config.RateLimitConfig{
		Enabled: true,
		Rate:    "2-M",
		Store:   config.StoreMemory,
	}, nil)
	require.NoError(t, err)

	router := newTestRouter()
	router.POST("/submit", limiter.Handler(), func(c *gin.Context) { c.Status(http.StatusCreated) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/submit", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)

		if w.Code == http.StatusTooManyRequests {
			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, false, body["success"])
			assert.Equal(t, "TOO_MANY_REQUESTS", body["code"])
		}
	}
	assert.Equal(t, []int{http.StatusCreated, http.StatusCreated, http.StatusTooManyRequests}, codes)

	// another client has its own budget
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/submit", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestSubmitRateLimiter_Disabled(t *testing.T) {
	limiter, err := NewSubmitRateLimiter(&config.RateLimitConfig{Enabled: false, Rate: "garbage"}, nil)
	require.NoError(t, err)

	router := newTestRouter()
	router.POST("/submit", limiter.Handler(), func(c *gin.Context) { c.Status(http.StatusCreated) })

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/submit", nil))
		assert.Equal(t, http.StatusCreated, w.Code)
	}
}

func TestSubmitRateLimiter_InvalidConfig(t *testing.T) {
	_, err := NewSubmitRateLimiter(&config.RateLimitConfig{Enabled: true, Rate: "ten per minute"}, nil)
	assert.Error(t, err)

	_, err = NewSubmitRateLimiter(&config.RateLimitConfig{Enabled: true, Rate: "10-M", Store: config.StoreRedis}, nil)
	assert.Error(t, err)
}

func BenchmarkRequestID(b *testing.B) {
	router := newTestRouter()
	router.Use(RequestID())
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
	}
}
