package alytica

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/randalmurphal/alytica/pkg/alytica/observability"
	"github.com/randalmurphal/alytica/pkg/alytica/transport"
)

// DefaultAPIURL is used when ClientConfig.APIURL is empty.
const DefaultAPIURL = "http://localhost:3002"

// TrackPath is the endpoint every envelope is posted to.
const TrackPath = "/track"

// Header names carrying the client credentials.
const (
	HeaderClientID     = "alytica-client-id"
	HeaderClientSecret = "alytica-client-secret"
)

// Reasons recorded when an event never reaches the transport.
const (
	skipDisabled          = "disabled"
	skipMissingDistinctID = "missing_distinct_id"
	skipSelfAlias         = "self_alias"
)

// Transport delivers an envelope to path on the collection API.
// *transport.HTTPClient is the default implementation.
type Transport interface {
	Fetch(ctx context.Context, path string, body any) error
}

// ClientConfig is fixed when the client is built.
type ClientConfig struct {
	ClientID     string
	ClientSecret string

	// APIURL defaults to DefaultAPIURL.
	APIURL string

	// Debug traces every outgoing envelope through the logger.
	Debug bool

	// Disabled turns every send into a successful no-op.
	Disabled bool

	// ProcessProfile is reported as the processProfiles property on track events.
	ProcessProfile bool

	// Timeout bounds each request of the default transport. Zero keeps
	// transport.DefaultTimeout.
	Timeout time.Duration
}

// DefaultHeaders returns the credential headers for cfg. The secret header is
// present only when a secret is configured.
func DefaultHeaders(cfg ClientConfig) map[string]string {
	headers := map[string]string{
		HeaderClientID: cfg.ClientID,
	}
	if cfg.ClientSecret != "" {
		headers[HeaderClientSecret] = cfg.ClientSecret
	}
	return headers
}

// Client shapes track, identify and alias calls into envelopes and hands
// them to a Transport. It is safe for concurrent use.
type Client struct {
	cfg       ClientConfig
	transport Transport
	logger    *slog.Logger
	metrics   observability.MetricsRecorder
	spans     observability.SpanManager

	mu         sync.Mutex
	distinctID string
	global     Properties
	queue      []Envelope
}

// New builds a client from cfg.
func New(cfg ClientConfig, opts ...Option) (*Client, error) {
	if cfg.ClientID == "" {
		return nil, ErrMissingClientID
	}
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if u, err := url.Parse(cfg.APIURL); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAPIURL, cfg.APIURL)
	}

	o := defaultClientOptions()
	for _, opt := range opts {
		opt(&o)
	}

	c := &Client{
		cfg:       cfg,
		transport: o.transport,
		metrics:   o.metrics,
		spans:     o.spans,
		global:    o.global.Clone(),
	}

	if c.transport == nil {
		topts := []transport.Option{transport.WithDefaultHeaders(DefaultHeaders(cfg))}
		if o.httpClient != nil {
			topts = append(topts, transport.WithHTTPClient(o.httpClient))
		}
		timeout := cfg.Timeout
		if o.timeout > 0 {
			timeout = o.timeout
		}
		if timeout > 0 {
			topts = append(topts, transport.WithTimeout(timeout))
		}
		c.transport = transport.New(cfg.APIURL, topts...)
	}

	// The logger only exists while debugging so every log helper stays a
	// no-op otherwise.
	if cfg.Debug {
		c.logger = o.logger
		if c.logger == nil {
			c.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		}
	}

	return c, nil
}

// Config returns the configuration the client was built with.
func (c *Client) Config() ClientConfig {
	return c.cfg
}

// Init is reserved for future use.
func (c *Client) Init() {}

// Ready flushes any envelopes queued before the host was ready.
func (c *Client) Ready(ctx context.Context) error {
	return c.Flush(ctx)
}

// SetGlobalProperties merges props into the global properties. Keys in props
// replace existing keys of the same name.
func (c *Client) SetGlobalProperties(props Properties) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.global = mergeProperties(c.global, props)
}

// GlobalProperties returns a copy of the global properties.
func (c *Client) GlobalProperties() Properties {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.global.Clone()
}

// SetDistinctID sets the id reported on track events that don't carry one.
// An empty id clears it.
func (c *Client) SetDistinctID(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.distinctID = id
}

// DistinctID returns the current distinct id, if any.
func (c *Client) DistinctID() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.distinctID, c.distinctID != ""
}

// Clear forgets the distinct id. Global properties are kept.
func (c *Client) Clear() {
	c.SetDistinctID("")
}

// Track sends a named event.
//
// Properties are layered as: distinctId and processProfiles, then the global
// properties, then props. A distinctId in props takes precedence over the
// client's; when neither is set the key is left out. A nil distinctId in
// props is still merged last and goes out as null.
func (c *Client) Track(ctx context.Context, name string, props Properties) error {
	c.mu.Lock()
	base := Properties{PropertyProcessProfiles: c.cfg.ProcessProfile}
	if id, ok := props[PropertyDistinctID]; ok && id != nil {
		base[PropertyDistinctID] = id
	} else if c.distinctID != "" {
		base[PropertyDistinctID] = c.distinctID
	}
	merged := mergeProperties(base, c.global, props)
	c.mu.Unlock()

	return c.Send(ctx, NewTrackEnvelope(TrackPayload{
		Name:       name,
		Properties: merged,
	}))
}

// Identify sends user properties. Properties in p win over global ones.
func (c *Client) Identify(ctx context.Context, p IdentifyPayload) error {
	c.mu.Lock()
	merged := mergeProperties(c.global, p.Properties)
	c.mu.Unlock()

	return c.Send(ctx, NewIdentifyEnvelope(IdentifyPayload{
		UserID:     p.UserID,
		Properties: merged,
	}))
}

// Alias links p.DistinctID to p.Alias. It does nothing when DistinctID is
// empty or equal to Alias.
func (c *Client) Alias(ctx context.Context, p AliasPayload) error {
	switch {
	case p.DistinctID == "":
		c.skip(ctx, EventAlias, skipMissingDistinctID)
		return nil
	case p.Alias == p.DistinctID:
		c.skip(ctx, EventAlias, skipSelfAlias)
		return nil
	}
	return c.Send(ctx, NewAliasEnvelope(p))
}

// Send posts env to TrackPath. A disabled client returns nil without
// contacting the transport. Transport errors are returned unchanged.
func (c *Client) Send(ctx context.Context, env Envelope) error {
	eventType := string(env.Type)
	if c.cfg.Disabled {
		c.skip(ctx, env.Type, skipDisabled)
		return nil
	}

	sendID := uuid.NewString()
	ctx, span := c.spans.StartSendSpan(ctx, eventType, sendID)
	logger := observability.EnrichLogger(c.logger, sendID, eventType)
	observability.LogEventSent(logger, TrackPath, env)

	done := observability.TimedOperation()
	err := c.transport.Fetch(ctx, TrackPath, env)
	elapsed := done()

	c.metrics.RecordSend(ctx, eventType, elapsed, err)
	if err != nil {
		observability.LogSendError(logger, eventType, err, observability.Milliseconds(elapsed))
	}
	c.spans.EndSpanWithError(span, err)
	return err
}

func (c *Client) skip(ctx context.Context, eventType EventType, reason string) {
	c.metrics.RecordSkipped(ctx, string(eventType), reason)
	observability.LogEventSkipped(c.logger, string(eventType), reason)
}

// Enqueue holds env until the next Flush. Nothing else adds to the queue;
// Track, Identify and Alias send immediately.
func (c *Client) Enqueue(env Envelope) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queue = append(c.queue, env)
}

// Pending returns the number of queued envelopes.
func (c *Client) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

// Flush sends every queued envelope in order.
//
// The queue is taken and emptied before anything is sent, so envelopes
// enqueued during a flush wait for the next one and concurrent flushes never
// send the same envelope twice. Send failures do not stop the flush; they are
// joined into the returned error. If ctx is done before an envelope is sent,
// that envelope and the rest are put back at the front of the queue.
func (c *Client) Flush(ctx context.Context) error {
	c.mu.Lock()
	pending := c.queue
	c.queue = nil
	c.mu.Unlock()

	if len(pending) == 0 {
		return nil
	}

	ctx, span := c.spans.StartFlushSpan(ctx, len(pending))

	var errs []error
	sent := 0
	for i, env := range pending {
		if err := ctx.Err(); err != nil {
			c.requeue(pending[i:])
			errs = append(errs, err)
			break
		}
		if err := c.Send(ctx, env); err != nil {
			errs = append(errs, err)
		}
		sent++
	}

	c.metrics.RecordFlush(ctx, sent)
	observability.LogFlush(c.logger, sent, len(errs))

	err := errors.Join(errs...)
	c.spans.EndSpanWithError(span, err)
	return err
}

func (c *Client) requeue(envs []Envelope) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queue = append(append(make([]Envelope, 0, len(envs)+len(c.queue)), envs...), c.queue...)
}
