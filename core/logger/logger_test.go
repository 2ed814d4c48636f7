package logger

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		wantDebug bool
	}{
		{"ProductionJSON", Config{Level: "info", Format: "json"}, false},
		{"DevelopmentConsole", Config{Level: "debug", Format: "console"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(&tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.wantDebug, l.Core().Enabled(zapcore.DebugLevel))
		})
	}
}

func TestWithRayID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		WithRayID(base, c).Info("without id")
		c.Locals("ray_id", "r-1")
		WithRayID(base, c).Info("with id")
		return nil
	})
	_, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Empty(t, entries[0].ContextMap())
	assert.Equal(t, "r-1", entries[1].ContextMap()["ray_id"])
}

func TestNew_WarnLevel(t *testing.T) {
	l, err := New(&Config{Level: "warn"})
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))
}

func TestZapConfig_ServiceField(t *testing.T) {
	assert.Equal(t, "commerce-sync", zapConfig(&Config{}).InitialFields["service"])
	assert.Equal(t, "sync-worker", zapConfig(&Config{Service: "sync-worker"}).InitialFields["service"])
	assert.Nil(t, zapConfig(&Config{Level: "info"}).Sampling)
}

func TestWithRun(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	WithRun(zap.New(core), "run-7").Info("started")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "run-7", logs.All()[0].ContextMap()["run_id"])
}
