package fsm

import (
	"context"
	"log/slog"

	"github.com/rs/zerolog"
)

// EventRecord describes one handled (or rejected) event.
type EventRecord struct {
	MachineID string
	Machine   string
	State     string
	Event     string
	Action    string
}

// TransitionRecord describes one executed transition.
type TransitionRecord struct {
	MachineID string
	Machine   string
	From      string
	To        string
	Event     string
}

// Logger provides logging hooks for machine execution.
type Logger interface {
	EventHandled(ctx context.Context, rec EventRecord)
	TransitionExecuted(ctx context.Context, rec TransitionRecord)
	HandleFailed(ctx context.Context, rec EventRecord, err error)
}

// DefaultLogger implements Logger using slog. Handled events are logged at
// debug level, transitions at info, failures at error.
type DefaultLogger struct {
	logger *slog.Logger
}

// NewDefaultLogger creates a logger writing to slog.Default().
func NewDefaultLogger() *DefaultLogger {
	return NewSlogLogger(nil)
}

// NewSlogLogger creates a logger writing to logger, or to slog.Default()
// when logger is nil.
func NewSlogLogger(logger *slog.Logger) *DefaultLogger {
	if logger == nil {
		logger = slog.Default()
	}

	return &DefaultLogger{
		logger: logger,
	}
}

func (l *DefaultLogger) EventHandled(ctx context.Context, rec EventRecord) {
	l.logger.DebugContext(ctx, "Event handled",
		"machine", rec.Machine,
		"machine_id", rec.MachineID,
		"state", rec.State,
		"event", rec.Event,
		"action", rec.Action,
	)
}

func (l *DefaultLogger) TransitionExecuted(ctx context.Context, rec TransitionRecord) {
	l.logger.InfoContext(ctx, "Transition executed",
		"machine", rec.Machine,
		"machine_id", rec.MachineID,
		"from", rec.From,
		"to", rec.To,
		"event", rec.Event,
	)
}

func (l *DefaultLogger) HandleFailed(ctx context.Context, rec EventRecord, err error) {
	l.logger.ErrorContext(ctx, "Event rejected",
		"machine", rec.Machine,
		"machine_id", rec.MachineID,
		"state", rec.State,
		"event", rec.Event,
		"error", err,
	)
}

// ZerologLogger implements Logger on top of zerolog.
type ZerologLogger struct {
	logger zerolog.Logger
}

// NewZerologLogger wraps a zerolog logger.
func NewZerologLogger(logger zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{logger: logger}
}

func (l *ZerologLogger) EventHandled(ctx context.Context, rec EventRecord) {
	l.logger.Debug().
		Ctx(ctx).
		Str("machine", rec.Machine).
		Str("machine_id", rec.MachineID).
		Str("state", rec.State).
		Str("event", rec.Event).
		Str("action", rec.Action).
		Msg("Event handled")
}

func (l *ZerologLogger) TransitionExecuted(ctx context.Context, rec TransitionRecord) {
	l.logger.Info().
		Ctx(ctx).
		Str("machine", rec.Machine).
		Str("machine_id", rec.MachineID).
		Str("from", rec.From).
		Str("to", rec.To).
		Str("event", rec.Event).
		Msg("Transition executed")
}

func (l *ZerologLogger) HandleFailed(ctx context.Context, rec EventRecord, err error) {
	l.logger.Error().
		Ctx(ctx).
		Err(err).
		Str("machine", rec.Machine).
		Str("machine_id", rec.MachineID).
		Str("state", rec.State).
		Str("event", rec.Event).
		Msg("Event rejected")
}

type nopLogger struct{}

// NopLogger discards everything.
func NopLogger() Logger { //nolint:ireturn
	return nopLogger{}
}

func (nopLogger) EventHandled(context.Context, EventRecord) {}

func (nopLogger) TransitionExecuted(context.Context, TransitionRecord) {}

func (nopLogger) HandleFailed(context.Context, EventRecord, error) {}
