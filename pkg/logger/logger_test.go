package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"production json", Config{Level: "info", Encoding: "json"}},
		{"development console", Config{Level: "debug", Development: true, Encoding: "console"}},
		{"invalid level falls back to info", Config{Level: "loud"}},
		{"service fields", Config{Level: "warn", Service: "arcana-onboarding-go", Version: "1.0.0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			require.NoError(t, err)
			require.NotNil(t, logger)
			logger.Info("registration form opened")
			_ = logger.Sync()
		})
	}
}

func TestNew_LogLevels(t *testing.T) {
	logger, err := New(Config{Level: "warn"})
	require.NoError(t, err)

	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	logger, err = New(Config{Level: "nonsense"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestNew_InvalidEncoding(t *testing.T) {
	_, err := New(Config{Level: "info", Encoding: "xml"})
	assert.Error(t, err)
}

func TestForForm(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	ForForm(base, "f-1", zap.String("locale", "fr")).Info("Registration submitted")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "f-1", fields["form_id"])
	assert.Equal(t, "fr", fields["locale"])
}

func BenchmarkForForm(b *testing.B) {
	base := zap.NewNop()
	for i := 0; i < b.N; i++ {
		ForForm(base, "f-1").Info("event")
	}
}
