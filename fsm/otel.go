package fsm

import (
	"context"

	"github.com/amp-labs/amp-fsm/kinds"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "fsm"

// startHandleSpan opens the span covering one Handle call.
// The caller is responsible for ending it with endHandleSpan.
//
//nolint:spancheck // Span lifecycle managed by caller
func startHandleSpan(ctx context.Context, tracer trace.Tracer, m *Machine, state kinds.Kind) (context.Context, trace.Span) {
	ctx, span := tracer.Start(ctx, "fsm.handle")
	span.SetAttributes(
		attribute.String("fsm.machine", m.def.name),
		attribute.String("fsm.machine_id", m.id),
		attribute.String("fsm.state", state.Name()),
	)

	return ctx, span
}

func eventAttribute(event kinds.Kind) attribute.KeyValue {
	return attribute.String("fsm.event", event.Name())
}

func actionAttribute(action ActionKind) attribute.KeyValue {
	return attribute.String("fsm.action", action.String())
}

func endHandleSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}

	span.End()
}
