package alytica

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/randalmurphal/alytica/pkg/alytica/observability"
)

// clientOptions holds optional collaborators for a Client.
type clientOptions struct {
	transport  Transport
	httpClient *http.Client
	timeout    time.Duration
	logger     *slog.Logger
	metrics    observability.MetricsRecorder
	spans      observability.SpanManager
	global     Properties
}

func defaultClientOptions() clientOptions {
	return clientOptions{
		metrics: observability.NoopMetrics{},
		spans:   observability.NoopSpanManager{},
	}
}

// Option configures a Client.
type Option func(*clientOptions)

// WithTransport replaces the HTTP transport.
// The HTTP-specific options are ignored when a transport is supplied.
func WithTransport(t Transport) Option {
	return func(o *clientOptions) {
		o.transport = t
	}
}

// WithHTTPClient sets the *http.Client used by the default transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = hc
	}
}

// WithTimeout bounds each request made by the default transport.
// Overrides ClientConfig.Timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *clientOptions) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithLogger sets the destination of the debug trace.
// Nothing is logged unless ClientConfig.Debug is set.
//
// Example:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
//	client, err := alytica.New(cfg, alytica.WithLogger(logger))
func WithLogger(logger *slog.Logger) Option {
	return func(o *clientOptions) {
		o.logger = logger
	}
}

// WithMetrics enables OpenTelemetry metrics on the global meter provider.
func WithMetrics(enabled bool) Option {
	return func(o *clientOptions) {
		if enabled {
			o.metrics = observability.NewMetricsRecorder()
		} else {
			o.metrics = observability.NoopMetrics{}
		}
	}
}

// WithMetricsRecorder sets a custom metrics recorder.
func WithMetricsRecorder(m observability.MetricsRecorder) Option {
	return func(o *clientOptions) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithTracing enables OpenTelemetry spans on the global tracer provider.
func WithTracing(enabled bool) Option {
	return func(o *clientOptions) {
		if enabled {
			o.spans = observability.NewSpanManager()
		} else {
			o.spans = observability.NoopSpanManager{}
		}
	}
}

// WithGlobalProperties seeds the global properties merged into every event.
func WithGlobalProperties(props Properties) Option {
	return func(o *clientOptions) {
		o.global = mergeProperties(o.global, props)
	}
}
