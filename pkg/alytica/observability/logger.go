// Package observability provides logging, metrics, and tracing hooks for
// the alytica client.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"encoding/json"
	"log/slog"
	"time"
)

// EnrichLogger adds send context to a logger.
// Returns a new logger with send_id and event_type fields.
func EnrichLogger(logger *slog.Logger, sendID, eventType string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("send_id", sendID),
		slog.String("event_type", eventType),
	)
}

// LogEventSent traces an outgoing envelope before it is handed to the transport.
// The envelope is rendered as JSON; if that fails the Go representation is used.
func LogEventSent(logger *slog.Logger, path string, envelope any) {
	if logger == nil {
		return
	}
	logger.Debug("event sent to alytica api",
		slog.String("path", path),
		slog.String("envelope", renderEnvelope(envelope)),
	)
}

// LogEventSkipped logs an event that never reached the transport.
func LogEventSkipped(logger *slog.Logger, eventType, reason string) {
	if logger == nil {
		return
	}
	logger.Debug("event skipped",
		slog.String("event_type", eventType),
		slog.String("reason", reason),
	)
}

// LogSendError logs a transport failure.
func LogSendError(logger *slog.Logger, eventType string, err error, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Warn("event send failed",
		slog.String("event_type", eventType),
		slog.String("error", err.Error()),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogFlush logs the result of draining the pending queue.
func LogFlush(logger *slog.Logger, count, failed int) {
	if logger == nil {
		return
	}
	logger.Debug("pending events flushed",
		slog.Int("count", count),
		slog.Int("failed", failed),
	)
}

func renderEnvelope(envelope any) string {
	b, err := json.Marshal(envelope)
	if err != nil {
		return slog.AnyValue(envelope).String()
	}
	return string(b)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	elapsed := done()
func TimedOperation() func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		return time.Since(start)
	}
}

// Milliseconds converts d to fractional milliseconds for log fields.
func Milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
