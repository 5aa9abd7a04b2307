package otelhelper

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// SetError marks the span failed and tags it with the error kind.
func SetError(span trace.Span, err error, kind string, attrs ...attribute.KeyValue) {
	attrs = append(attrs, attribute.String(ErrorKindKey, kind))

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.SetAttributes(attrs...)
	span.AddEvent("error_occurred", trace.WithAttributes(attrs...))
}

// SetStatusCode records the HTTP status of the response on the span.
func SetStatusCode(span trace.Span, statusCode int) {
	span.SetAttributes(attribute.Int(HTTPStatusKey, statusCode))

	if statusCode < 400 {
		span.SetStatus(codes.Ok, "")
	}
}
