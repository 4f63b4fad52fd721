// Package telemetry wires OpenTelemetry tracing to an OTLP/HTTP collector.
package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/amp-labs/amp-fsm/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
)

var (
	providerMu     sync.Mutex               //nolint:gochecknoglobals
	tracerProvider *sdktrace.TracerProvider //nolint:gochecknoglobals
)

// Initialize sets up OpenTelemetry tracing with the given configuration.
// It does nothing when tracing is disabled or no endpoint is configured.
func Initialize(ctx context.Context, cfg config.Telemetry) error {
	if !cfg.Enabled {
		slog.DebugContext(ctx, "OpenTelemetry tracing is disabled")

		return nil
	}

	if cfg.Endpoint == "" {
		slog.WarnContext(ctx, "OpenTelemetry endpoint not configured, tracing will be disabled")

		return nil
	}

	provider, err := NewProvider(ctx, cfg)
	if err != nil {
		return err
	}

	providerMu.Lock()
	tracerProvider = provider
	providerMu.Unlock()

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	slog.InfoContext(ctx, "OpenTelemetry tracing initialized",
		"service", cfg.ServiceName,
		"version", cfg.ServiceVersion,
		"environment", cfg.Environment,
		"endpoint", cfg.Endpoint,
	)

	return nil
}

// NewProvider builds a batching tracer provider exporting to cfg.Endpoint,
// without installing it globally.
func NewProvider(ctx context.Context, cfg config.Telemetry) (*sdktrace.TracerProvider, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(cfg.ServiceName),
			semconv.ServiceVersionKey.String(cfg.ServiceVersion),
			semconv.DeploymentEnvironmentKey.String(cfg.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(cfg.Endpoint),
		otlptracehttp.WithTimeout(cfg.Timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	), nil
}

// Shutdown flushes and stops the provider installed by Initialize, if any.
func Shutdown(ctx context.Context) error {
	providerMu.Lock()
	provider := tracerProvider
	tracerProvider = nil
	providerMu.Unlock()

	if provider == nil {
		return nil
	}

	slog.DebugContext(ctx, "Shutting down OpenTelemetry tracer provider")

	return provider.Shutdown(ctx)
}
