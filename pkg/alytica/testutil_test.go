package alytica

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type fetchCall struct {
	path     string
	envelope Envelope
}

// recordingTransport captures every Fetch and answers with err.
type recordingTransport struct {
	mu    sync.Mutex
	calls []fetchCall
	err   error
	hook  func(Envelope)
}

func (r *recordingTransport) Fetch(_ context.Context, path string, body any) error {
	env, _ := body.(Envelope)
	if r.hook != nil {
		r.hook(env)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, fetchCall{path: path, envelope: env})
	return r.err
}

func (r *recordingTransport) Calls() []fetchCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]fetchCall(nil), r.calls...)
}

// newTestClient builds a client wired to a recording transport.
func newTestClient(t *testing.T, cfg ClientConfig, opts ...Option) (*Client, *recordingTransport) {
	t.Helper()
	if cfg.ClientID == "" {
		cfg.ClientID = "test-client"
	}
	rt := &recordingTransport{}
	c, err := New(cfg, append([]Option{WithTransport(rt)}, opts...)...)
	require.NoError(t, err)
	return c, rt
}

// trackProps returns the properties of the only track call made.
func trackProps(t *testing.T, rt *recordingTransport) Properties {
	t.Helper()
	calls := rt.Calls()
	require.Len(t, calls, 1)
	p, ok := calls[0].envelope.Track()
	require.True(t, ok, "expected track envelope, got %s", calls[0].envelope.Type)
	return p.Properties
}

// bufferLogger returns a debug-level text logger writing into the returned buffer.
func bufferLogger() (*slog.Logger, *syncBuffer) {
	buf := &syncBuffer{}
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), buf
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
