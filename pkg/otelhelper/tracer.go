// Package otelhelper provides distributed tracing for PrivacyFlow calls.
package otelhelper

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otlptracehttp "go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	// Common attribute keys.
	OperationKey  = "privacyflow.operation"
	ResourceKey   = "privacyflow.resource"
	ErrorKindKey  = "privacyflow.error.kind"
	SourceIDKey   = "privacyflow.source.id"
	NodeIDKey     = "privacyflow.node.id"
	RequestIDKey  = "privacyflow.request.id"
	HTTPMethodKey = "http.method"
	HTTPStatusKey = "http.status_code"
)

// TracerName is the instrumentation scope used by this module.
const TracerName = "github.com/dukex/operion-privacyflow"

// NewTracerProvider installs a global OTLP/HTTP tracer provider. Callers own Shutdown.
func NewTracerProvider(ctx context.Context, serviceName string) (*sdktrace.TracerProvider, error) {
	r, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return nil, err
	}

	exporter, err := otlptracehttp.New(ctx)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(r),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}))

	return tp, nil
}

// Tracer returns the module tracer from the global provider (no-op until one is installed).
// nolint:ireturn // Returning interface is intentional for OpenTelemetry tracing
func Tracer() trace.Tracer {
	return otel.Tracer(TracerName)
}

// nolint:ireturn,spancheck // Returning interface is intentional for OpenTelemetry tracing
func StartSpan(ctx context.Context, tracer trace.Tracer, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...), trace.WithSpanKind(trace.SpanKindClient))
}

// StartInternalSpan starts a span for work that stays inside the process.
// nolint:ireturn,spancheck // Returning interface is intentional for OpenTelemetry tracing
func StartInternalSpan(ctx context.Context, tracer trace.Tracer, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...), trace.WithSpanKind(trace.SpanKindInternal))
}
