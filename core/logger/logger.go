package logger

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const defaultService = "commerce-sync"

// New creates a new zap logger based on the configuration. Every entry
// carries a "service" field so logs from both sync directions can be told
// apart from other processes sharing a sink.
func New(cfg *Config) (*zap.Logger, error) {
	return zapConfig(cfg).Build()
}

func zapConfig(cfg *Config) zap.Config {
	var config zap.Config

	if cfg.Level == "debug" {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
		if lvl, err := zap.ParseAtomicLevel(cfg.Level); err == nil && cfg.Level != "" {
			config.Level = lvl
		}
		// A sync run logs one line per entity; sampling would drop most of them.
		config.Sampling = nil
	}

	if cfg.Format == "console" {
		config.Encoding = "console"
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		config.DisableStacktrace = true
	} else {
		config.Encoding = "json"
	}

	config.EncoderConfig.LevelKey = "level"
	config.EncoderConfig.TimeKey = "time"
	config.EncoderConfig.MessageKey = "message"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder

	service := cfg.Service
	if service == "" {
		service = defaultService
	}
	config.InitialFields = map[string]any{"service": service}
	return config
}

// WithRayID returns a logger with the ray_id field set from the Fiber context.
func WithRayID(l *zap.Logger, c *fiber.Ctx) *zap.Logger {
	rid := c.Locals("ray_id")
	if str, ok := rid.(string); ok && str != "" {
		return l.With(zap.String("ray_id", str))
	}
	return l
}

// WithRun tags a logger with the sync run id.
func WithRun(l *zap.Logger, runID string) *zap.Logger {
	return l.With(zap.String("run_id", runID))
}
