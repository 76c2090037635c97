package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records alytica client metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordSend records one transport call with its duration and error status.
	RecordSend(ctx context.Context, eventType string, duration time.Duration, err error)

	// RecordSkipped records an event that was dropped before the transport.
	RecordSkipped(ctx context.Context, eventType, reason string)

	// RecordFlush records how many queued envelopes a flush dispatched.
	RecordFlush(ctx context.Context, count int)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	eventsSent    metric.Int64Counter
	eventsSkipped metric.Int64Counter
	eventErrors   metric.Int64Counter
	sendLatency   metric.Float64Histogram
	flushSize     metric.Int64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("alytica")

	eventsSent, err := meter.Int64Counter("alytica.events.sent",
		metric.WithDescription("Number of events handed to the transport"),
	)
	if err != nil {
		return nil, err
	}

	eventsSkipped, err := meter.Int64Counter("alytica.events.skipped",
		metric.WithDescription("Number of events dropped before the transport"),
	)
	if err != nil {
		return nil, err
	}

	eventErrors, err := meter.Int64Counter("alytica.events.errors",
		metric.WithDescription("Number of transport failures"),
	)
	if err != nil {
		return nil, err
	}

	sendLatency, err := meter.Float64Histogram("alytica.send.latency_ms",
		metric.WithDescription("Transport call latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	flushSize, err := meter.Int64Histogram("alytica.flush.size",
		metric.WithDescription("Envelopes dispatched per flush"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		eventsSent:    eventsSent,
		eventsSkipped: eventsSkipped,
		eventErrors:   eventErrors,
		sendLatency:   sendLatency,
		flushSize:     flushSize,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordSend records a transport call.
func (m *otelMetrics) RecordSend(ctx context.Context, eventType string, duration time.Duration, err error) {
	attrs := metric.WithAttributes(attribute.String("event_type", eventType))

	m.eventsSent.Add(ctx, 1, attrs)
	m.sendLatency.Record(ctx, Milliseconds(duration), attrs)
	if err != nil {
		m.eventErrors.Add(ctx, 1, attrs)
	}
}

// RecordSkipped records a dropped event.
func (m *otelMetrics) RecordSkipped(ctx context.Context, eventType, reason string) {
	m.eventsSkipped.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event_type", eventType),
		attribute.String("reason", reason),
	))
}

// RecordFlush records a flush.
func (m *otelMetrics) RecordFlush(ctx context.Context, count int) {
	m.flushSize.Record(ctx, int64(count))
}
