// Package transport is the HTTP collaborator that delivers envelopes to the
// alytica collection endpoint.
//
// The client posts JSON bodies to baseURL+path with a fixed set of default
// headers. It does not retry; failures are returned as typed errors from
// pkg/alytica/errors so callers can categorize them.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	alyerrors "github.com/randalmurphal/alytica/pkg/alytica/errors"
)

// DefaultTimeout bounds a single Fetch when no other timeout is configured.
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of an error response body ends up in HTTPError.Message.
const maxErrorBody = 512

// HTTPClient posts JSON payloads to the collection API.
type HTTPClient struct {
	baseURL        string
	defaultHeaders map[string]string
	httpClient     *http.Client
}

// Option configures the client.
type Option func(*HTTPClient)

// WithDefaultHeaders sets headers attached to every request.
// The map is copied.
func WithDefaultHeaders(headers map[string]string) Option {
	return func(c *HTTPClient) {
		for k, v := range headers {
			c.defaultHeaders[k] = v
		}
	}
}

// WithHTTPClient uses a copy of hc for requests. The copy shares hc's
// Transport, so connection pooling is preserved, while later options such as
// WithTimeout never touch the caller's client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) {
		if hc != nil {
			cp := *hc
			c.httpClient = &cp
		}
	}
}

// WithTimeout sets the HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// New creates a client bound to baseURL. A trailing slash on baseURL is ignored.
func New(baseURL string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL:        strings.TrimRight(baseURL, "/"),
		defaultHeaders: make(map[string]string),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// BaseURL returns the URL requests are resolved against.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// DefaultHeaders returns a copy of the headers attached to every request.
func (c *HTTPClient) DefaultHeaders() map[string]string {
	out := make(map[string]string, len(c.defaultHeaders))
	for k, v := range c.defaultHeaders {
		out[k] = v
	}
	return out
}

// Fetch POSTs body as JSON to baseURL+path.
//
// A nil error means the endpoint answered with a status below 400. The
// response body is drained and discarded.
func (c *HTTPClient) Fetch(ctx context.Context, path string, body any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return &alyerrors.EncodeError{Path: path, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range c.defaultHeaders {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Timeout() {
			return &alyerrors.TimeoutError{
				Operation: "POST " + path,
				Duration:  c.httpClient.Timeout.String(),
				Err:       err,
			}
		}
		return fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		message := strings.TrimSpace(string(msg))
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		return &alyerrors.HTTPError{
			StatusCode: resp.StatusCode,
			Message:    message,
			Endpoint:   path,
		}
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
