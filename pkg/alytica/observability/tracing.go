package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracer uses the global OTel tracer provider.
var tracer = otel.Tracer("alytica")

// SpanManager handles trace span lifecycle.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartSendSpan starts a client span around one envelope delivery.
	StartSendSpan(ctx context.Context, eventType, sendID string) (context.Context, trace.Span)

	// StartFlushSpan starts a span covering a whole flush.
	StartFlushSpan(ctx context.Context, count int) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)
}

type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// Configure the global tracer provider before sending events:
//
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

func (m *otelSpanManager) StartSendSpan(ctx context.Context, eventType, sendID string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "alytica.send",
		trace.WithAttributes(
			attribute.String("alytica.event_type", eventType),
			attribute.String("alytica.send_id", sendID),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func (m *otelSpanManager) StartFlushSpan(ctx context.Context, count int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "alytica.flush",
		trace.WithAttributes(
			attribute.Int("alytica.pending", count),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
