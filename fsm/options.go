package fsm

import (
	"go.opentelemetry.io/otel/trace"
)

// Option configures a Machine.
type Option func(*options)

type options struct {
	id             string
	states         []any
	statesGiven    bool
	logger         Logger
	tracerProvider trace.TracerProvider
}

// WithID sets the machine's instance id. Defaults to a random UUID.
func WithID(id string) Option {
	return func(o *options) {
		o.id = id
	}
}

// WithStates supplies the state instances, one per declared state kind, in
// declaration order. Values and pointers are both accepted; the machine
// keeps its own copy either way. Without it every state starts as its zero
// value.
func WithStates(states ...any) Option {
	return func(o *options) {
		o.states = states
		o.statesGiven = true
	}
}

// WithLogger sets the logger hooks. Defaults to a slog logger on slog.Default().
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithTracerProvider sets where spans go. Defaults to the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		o.tracerProvider = tp
	}
}
