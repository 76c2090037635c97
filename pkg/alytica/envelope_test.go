package alytica

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeJSON(t *testing.T) {
	tests := []struct {
		name string
		env  Envelope
		want string
	}{
		{
			name: "track",
			env:  NewTrackEnvelope(TrackPayload{Name: "x", Properties: Properties{"distinctId": "u1"}}),
			want: `{"type":"track","payload":{"name":"x","properties":{"distinctId":"u1"}}}`,
		},
		{
			name: "track without properties",
			env:  NewTrackEnvelope(TrackPayload{Name: "x"}),
			want: `{"type":"track","payload":{"name":"x"}}`,
		},
		{
			name: "identify",
			env:  NewIdentifyEnvelope(IdentifyPayload{UserID: "u1", Properties: Properties{"plan": "pro"}}),
			want: `{"type":"identify","payload":{"userId":"u1","properties":{"plan":"pro"}}}`,
		},
		{
			name: "alias",
			env:  NewAliasEnvelope(AliasPayload{DistinctID: "u1", Alias: "u2"}),
			want: `{"type":"alias","payload":{"distinctId":"u1","alias":"u2"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(tt.env)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(b))
		})
	}
}

func TestEnvelopeUnmarshal(t *testing.T) {
	t.Run("decodes payload by type", func(t *testing.T) {
		var env Envelope
		require.NoError(t, json.Unmarshal([]byte(`{"type":"alias","payload":{"distinctId":"u1","alias":"u2"}}`), &env))

		p, ok := env.Alias()
		require.True(t, ok)
		assert.Equal(t, AliasPayload{DistinctID: "u1", Alias: "u2"}, p)

		_, ok = env.Track()
		assert.False(t, ok)
	})

	t.Run("identify properties", func(t *testing.T) {
		var env Envelope
		require.NoError(t, json.Unmarshal([]byte(`{"type":"identify","payload":{"userId":"u1","properties":{"n":1}}}`), &env))

		p, ok := env.Identify()
		require.True(t, ok)
		assert.Equal(t, "u1", p.UserID)
		assert.Equal(t, Properties{"n": float64(1)}, p.Properties)
	})

	t.Run("unknown type", func(t *testing.T) {
		var env Envelope
		err := json.Unmarshal([]byte(`{"type":"page","payload":{}}`), &env)
		assert.ErrorIs(t, err, ErrUnknownEventType)
	})

	t.Run("bad payload", func(t *testing.T) {
		var env Envelope
		err := json.Unmarshal([]byte(`{"type":"track","payload":{"name":5}}`), &env)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode track payload")
	})
}

func TestEnvelopeAccessors_MismatchedType(t *testing.T) {
	env := Envelope{Type: EventIdentify, Payload: TrackPayload{Name: "x"}}

	_, ok := env.Track()
	assert.False(t, ok, "payload type alone is not enough")
	_, ok = env.Identify()
	assert.False(t, ok)
}

func TestProperties(t *testing.T) {
	t.Run("clone of nil is empty", func(t *testing.T) {
		var p Properties
		c := p.Clone()
		assert.NotNil(t, c)
		assert.Empty(t, c)
	})

	t.Run("clone is shallow", func(t *testing.T) {
		nested := map[string]any{"x": 1}
		p := Properties{"nested": nested, "k": "v"}
		c := p.Clone()
		c["k"] = "changed"

		assert.Equal(t, "v", p["k"])
		assert.Equal(t, nested, c["nested"])
	})

	t.Run("merge rightmost wins", func(t *testing.T) {
		got := mergeProperties(Properties{"a": 1, "b": 1}, nil, Properties{"b": 2, "c": 2}, Properties{"c": 3})
		assert.Equal(t, Properties{"a": 1, "b": 2, "c": 3}, got)
	})
}
