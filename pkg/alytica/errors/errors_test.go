package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
)

func TestCategoryString(t *testing.T) {
	tests := []struct {
		category Category
		expected string
	}{
		{CategoryTransient, "transient"},
		{CategoryPermanent, "permanent"},
		{Category(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.category.String(); got != tt.expected {
				t.Errorf("Category(%d).String() = %s, want %s", tt.category, got, tt.expected)
			}
		})
	}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Category
	}{
		{"nil error", nil, CategoryPermanent},
		{"HTTP 408", &HTTPError{StatusCode: 408}, CategoryTransient},
		{"HTTP 429", &HTTPError{StatusCode: 429}, CategoryTransient},
		{"HTTP 500", &HTTPError{StatusCode: 500}, CategoryTransient},
		{"HTTP 503", &HTTPError{StatusCode: 503}, CategoryTransient},
		{"HTTP 400", &HTTPError{StatusCode: 400}, CategoryPermanent},
		{"HTTP 401", &HTTPError{StatusCode: 401}, CategoryPermanent},
		{"HTTP 403", &HTTPError{StatusCode: 403}, CategoryPermanent},
		{"HTTP 404", &HTTPError{StatusCode: 404}, CategoryPermanent},
		{"wrapped HTTP 502", fmt.Errorf("send: %w", &HTTPError{StatusCode: 502}), CategoryTransient},
		{"Timeout error", &TimeoutError{Operation: "POST /track", Duration: "30s"}, CategoryTransient},
		{"Encode error", &EncodeError{Path: "/track", Err: errors.New("bad value")}, CategoryPermanent},
		{"Categorized error", &CategorizedError{Category: CategoryTransient}, CategoryTransient},
		{"context canceled", context.Canceled, CategoryPermanent},
		{"deadline exceeded", fmt.Errorf("post: %w", context.DeadlineExceeded), CategoryTransient},
		{"net error", &net.OpError{Op: "dial", Err: errors.New("connection refused")}, CategoryTransient},
		{"Unknown error", errors.New("unknown"), CategoryPermanent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Categorize(tt.err); got != tt.expected {
				t.Errorf("Categorize() = %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestCategorizedError(t *testing.T) {
	t.Run("error message with context", func(t *testing.T) {
		err := NewCategorized(errors.New("failed"), CategoryTransient, "send track")
		expected := "send track: failed (category: transient)"
		if got := err.Error(); got != expected {
			t.Errorf("Error() = %q, want %q", got, expected)
		}
	})

	t.Run("error message without context", func(t *testing.T) {
		err := &CategorizedError{Err: errors.New("failed"), Category: CategoryPermanent}
		if got := err.Error(); got != "failed (category: permanent)" {
			t.Errorf("Error() = %q", got)
		}
	})

	t.Run("unwrap", func(t *testing.T) {
		inner := errors.New("inner error")
		err := Permanent(inner, "test")
		if !errors.Is(err, inner) {
			t.Error("Unwrap should return inner error")
		}
	})

	t.Run("constructors set category", func(t *testing.T) {
		if Transient(errors.New("x"), "").Category != CategoryTransient {
			t.Error("Transient should set CategoryTransient")
		}
		if Permanent(errors.New("x"), "").Category != CategoryPermanent {
			t.Error("Permanent should set CategoryPermanent")
		}
	})
}

func TestHTTPError(t *testing.T) {
	t.Run("with endpoint", func(t *testing.T) {
		err := &HTTPError{StatusCode: 500, Message: "internal error", Endpoint: "/track"}
		expected := "HTTP 500 at /track: internal error"
		if got := err.Error(); got != expected {
			t.Errorf("Error() = %q, want %q", got, expected)
		}
	})

	t.Run("without endpoint", func(t *testing.T) {
		err := &HTTPError{StatusCode: 404, Message: "not found"}
		expected := "HTTP 404: not found"
		if got := err.Error(); got != expected {
			t.Errorf("Error() = %q, want %q", got, expected)
		}
	})
}

func TestTimeoutError(t *testing.T) {
	inner := context.DeadlineExceeded
	err := &TimeoutError{Operation: "POST /track", Duration: "5s", Err: inner}

	if got := err.Error(); got != "timeout after 5s: POST /track" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, inner) {
		t.Error("Unwrap should return inner error")
	}
}

func TestIsRetryable(t *testing.T) {
	if !IsRetryable(&HTTPError{StatusCode: 429}) {
		t.Error("429 should be retryable")
	}
	if IsRetryable(&HTTPError{StatusCode: 401}) {
		t.Error("401 should not be retryable")
	}
	if IsRetryable(nil) {
		t.Error("nil should not be retryable")
	}
}
