package config

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadFrom(map[string]string{})
	require.NoError(t, err)

	assert.False(t, cfg.Logging.JSON)
	assert.Equal(t, slog.LevelInfo, cfg.Logging.Level)
	assert.Equal(t, "stderr", cfg.Logging.Output)
	assert.False(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "fsmtable", cfg.Telemetry.ServiceName)
	assert.Equal(t, 5*time.Second, cfg.Telemetry.Timeout)
	assert.Empty(t, cfg.Telemetry.Endpoint)
	assert.Equal(t, Tool{Machine: "lock", Mode: "both"}, cfg.Tool)
}

func TestLoadFromOverrides(t *testing.T) {
	t.Parallel()

	cfg, err := LoadFrom(map[string]string{
		"LOG_JSON":                           "true",
		"LOG_LEVEL":                          "debug",
		"LOG_OUTPUT":                         "stdout",
		"OTEL_ENABLED":                       "true",
		"OTEL_EXPORTER_OTLP_TRACES_ENDPOINT": "http://collector:4318",
		"OTEL_EXPORTER_OTLP_TRACES_TIMEOUT":  "250ms",
		"FSM_MACHINE":                        "door",
		"FSM_TABLE_MODE":                     "mermaid",
	})
	require.NoError(t, err)

	assert.True(t, cfg.Logging.JSON)
	assert.Equal(t, slog.LevelDebug, cfg.Logging.Level)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "http://collector:4318", cfg.Telemetry.Endpoint)
	assert.Equal(t, 250*time.Millisecond, cfg.Telemetry.Timeout)
	assert.Equal(t, Tool{Machine: "door", Mode: "mermaid"}, cfg.Tool)

	w, err := cfg.Logging.Writer()
	require.NoError(t, err)
	assert.Equal(t, os.Stdout, w)
}

func TestLoadFromRejectsBadValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		env     map[string]string
		wantErr error
	}{
		{"log output", map[string]string{"LOG_OUTPUT": "syslog"}, ErrInvalidLogOutput},
		{"mode", map[string]string{"FSM_TABLE_MODE": "html"}, ErrInvalidMode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := LoadFrom(tt.env)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := LoadFrom(map[string]string{"OTEL_EXPORTER_OTLP_TRACES_TIMEOUT": "soon"})
	require.Error(t, err)
}
