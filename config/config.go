// Package config loads tool configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"
)

var (
	// ErrInvalidLogOutput is returned when LOG_OUTPUT names neither stdout nor stderr.
	ErrInvalidLogOutput = errors.New("invalid log output")
	// ErrInvalidMode is returned when FSM_TABLE_MODE is not a known output mode.
	ErrInvalidMode = errors.New("invalid table mode")
)

// Modes lists the output modes the table tool understands.
var Modes = []string{"plain", "pretty", "both", "mermaid", "yaml", "json"} //nolint:gochecknoglobals

// Logging configures the process logger.
type Logging struct {
	JSON   bool       `env:"LOG_JSON"   envDefault:"false"`
	Level  slog.Level `env:"LOG_LEVEL"  envDefault:"info"`
	Output string     `env:"LOG_OUTPUT" envDefault:"stderr"`
}

// Telemetry configures OpenTelemetry tracing.
type Telemetry struct {
	Enabled        bool          `env:"OTEL_ENABLED"                      envDefault:"false"`
	ServiceName    string        `env:"OTEL_SERVICE_NAME"                 envDefault:"fsmtable"`
	ServiceVersion string        `env:"OTEL_SERVICE_VERSION"              envDefault:"1.0.0"`
	Environment    string        `env:"OTEL_ENVIRONMENT"                  envDefault:"local"`
	Endpoint       string        `env:"OTEL_EXPORTER_OTLP_TRACES_ENDPOINT"`
	Timeout        time.Duration `env:"OTEL_EXPORTER_OTLP_TRACES_TIMEOUT" envDefault:"5s"`
}

// Tool holds the table tool's defaults; flags override them.
type Tool struct {
	Machine string `env:"FSM_MACHINE"    envDefault:"lock"`
	Mode    string `env:"FSM_TABLE_MODE" envDefault:"both"`
}

// Config is the whole configuration.
type Config struct {
	Logging   Logging
	Telemetry Telemetry
	Tool      Tool
}

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}

	return cfg, cfg.Validate()
}

// LoadFrom reads the configuration from the given variables instead of the
// process environment.
func LoadFrom(environment map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environment}); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}

	return cfg, cfg.Validate()
}

// Validate checks values the parser cannot.
func (c Config) Validate() error {
	if _, err := c.Logging.Writer(); err != nil {
		return err
	}

	return ValidateMode(c.Tool.Mode)
}

// ValidateMode checks mode against Modes.
func ValidateMode(mode string) error {
	if !slices.Contains(Modes, mode) {
		return fmt.Errorf("%w: %q (want one of %v)", ErrInvalidMode, mode, Modes)
	}

	return nil
}

// Writer resolves Output to a stream.
func (l Logging) Writer() (io.Writer, error) {
	switch l.Output {
	case "stdout":
		return os.Stdout, nil
	case "stderr", "":
		return os.Stderr, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidLogOutput, l.Output)
	}
}
