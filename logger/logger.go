// Package logger configures the process-wide slog logger and carries
// logging attributes through contexts.
package logger

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"

	"github.com/amp-labs/amp-fsm/config"
)

// Name of the running program, attached to every record as "subsystem".
var subsystem atomic.Value //nolint:gochecknoglobals

// configMutex serializes changes to the global loggers.
var configMutex sync.Mutex //nolint:gochecknoglobals

type contextKey string

// Options is used to configure logging.
type Options struct {
	Subsystem   string
	JSON        bool
	MinLevel    slog.Level
	LegacyLevel slog.Level
	Output      io.Writer
}

// Option is a functional option for configuring logging via ConfigureLogging.
type Option func(*Options)

// ConfigureLoggingWithOptions configures logging for the application and
// returns the new default logger. It modifies global state; concurrent
// calls are serialized.
func ConfigureLoggingWithOptions(opts Options) *slog.Logger {
	configMutex.Lock()
	defer configMutex.Unlock()

	if opts.Output == nil {
		opts.Output = os.Stderr
	}

	handlerOpts := &slog.HandlerOptions{Level: opts.MinLevel}

	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(opts.Output, handlerOpts)
	} else {
		handler = slog.NewTextHandler(opts.Output, handlerOpts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	// Packages still on the log package go through the same handler.
	def := log.Default()
	*def = *slog.NewLogLogger(handler, opts.LegacyLevel)

	subsystem.Store(opts.Subsystem)

	return logger
}

// ConfigureLogging configures logging for app from cfg. opts are applied
// last and win.
func ConfigureLogging(app string, cfg config.Logging, opts ...Option) (*slog.Logger, error) {
	output, err := cfg.Writer()
	if err != nil {
		return nil, err
	}

	options := Options{
		Subsystem:   app,
		JSON:        cfg.JSON,
		MinLevel:    cfg.Level,
		LegacyLevel: slog.LevelInfo,
		Output:      output,
	}

	for _, o := range opts {
		o(&options)
	}

	return ConfigureLoggingWithOptions(options), nil
}

// WithSubsystem overrides the subsystem for loggers obtained from ctx.
func WithSubsystem(ctx context.Context, name string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	return context.WithValue(ctx, contextKey("subsystem"), name)
}

// GetSubsystem returns the subsystem from ctx, falling back to the
// configured one.
func GetSubsystem(ctx context.Context) string { //nolint:contextcheck
	if ctx != nil {
		if name, ok := ctx.Value(contextKey("subsystem")).(string); ok && name != "" {
			return name
		}
	}

	name, _ := subsystem.Load().(string)

	return name
}

// With returns a context whose loggers carry the extra key/value pairs.
func With(ctx context.Context, values ...any) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	all := append(append([]any(nil), getValues(ctx)...), values...)

	return context.WithValue(ctx, contextKey("values"), all)
}

func getValues(ctx context.Context) []any {
	values, _ := ctx.Value(contextKey("values")).([]any)

	return values
}

// Get returns the default logger decorated with the subsystem and any
// values attached to ctx.
func Get(ctx context.Context) *slog.Logger { //nolint:contextcheck
	if ctx == nil {
		ctx = context.Background()
	}

	logger := slog.Default()

	if name := GetSubsystem(ctx); name != "" {
		logger = logger.With("subsystem", name)
	}

	if values := getValues(ctx); len(values) > 0 {
		logger = logger.With(values...)
	}

	return logger
}
