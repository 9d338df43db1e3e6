package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds logger configuration
type Config struct {
	Level       string
	Development bool
	Encoding    string // "json" or "console"
	Service     string
	Version     string
}

// New creates a new zap logger. Service and Version, when set, are attached to every entry.
func New(cfg Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	var zapConfig zap.Config
	if cfg.Development {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zapConfig = zap.NewProductionConfig()
	}

	if cfg.Encoding != "" {
		zapConfig.Encoding = cfg.Encoding
	}
	if zapConfig.Encoding == "json" {
		zapConfig.EncoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
	}

	zapConfig.Level = zap.NewAtomicLevelAt(level)
	zapConfig.OutputPaths = []string{"stdout"}
	zapConfig.ErrorOutputPaths = []string{"stderr"}

	initial := map[string]interface{}{}
	if cfg.Service != "" {
		initial["service"] = cfg.Service
	}
	if cfg.Version != "" {
		initial["version"] = cfg.Version
	}
	if len(initial) > 0 {
		zapConfig.InitialFields = initial
	}

	return zapConfig.Build()
}

// ForForm returns a logger scoped to one registration form
func ForForm(logger *zap.Logger, formID string, fields ...zap.Field) *zap.Logger {
	return logger.With(append([]zap.Field{zap.String("form_id", formID)}, fields...)...)
}
