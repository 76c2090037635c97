package alytica

import (
	"encoding/json"
	"fmt"
)

// EventType discriminates the payload carried by an Envelope.
type EventType string

const (
	EventTrack    EventType = "track"
	EventIdentify EventType = "identify"
	EventAlias    EventType = "alias"
)

// Well-known property keys the client fills in on track events.
const (
	PropertyDistinctID      = "distinctId"
	PropertyProcessProfiles = "processProfiles"
)

// Properties is free-form event context.
type Properties map[string]any

// Clone returns a shallow copy. A nil receiver yields an empty map.
func (p Properties) Clone() Properties {
	out := make(Properties, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// mergeProperties overlays layers left to right; later layers win per key.
func mergeProperties(layers ...Properties) Properties {
	size := 0
	for _, l := range layers {
		size += len(l)
	}
	out := make(Properties, size)
	for _, l := range layers {
		for k, v := range l {
			out[k] = v
		}
	}
	return out
}

// TrackPayload records a named user action.
type TrackPayload struct {
	Name       string     `json:"name"`
	Properties Properties `json:"properties,omitempty"`
}

// IdentifyPayload attaches properties to a known user.
type IdentifyPayload struct {
	UserID     string     `json:"userId"`
	Properties Properties `json:"properties,omitempty"`
}

// AliasPayload links a distinct id to another identifier.
type AliasPayload struct {
	DistinctID string `json:"distinctId"`
	Alias      string `json:"alias"`
}

// Envelope is the body posted to the collection endpoint.
// Payload always holds the value type matching Type; use the New*Envelope
// constructors rather than building one by hand.
type Envelope struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload"`
}

// NewTrackEnvelope wraps a track payload.
func NewTrackEnvelope(p TrackPayload) Envelope {
	return Envelope{Type: EventTrack, Payload: p}
}

// NewIdentifyEnvelope wraps an identify payload.
func NewIdentifyEnvelope(p IdentifyPayload) Envelope {
	return Envelope{Type: EventIdentify, Payload: p}
}

// NewAliasEnvelope wraps an alias payload.
func NewAliasEnvelope(p AliasPayload) Envelope {
	return Envelope{Type: EventAlias, Payload: p}
}

// Track returns the payload if this is a track envelope.
func (e Envelope) Track() (TrackPayload, bool) {
	p, ok := e.Payload.(TrackPayload)
	return p, ok && e.Type == EventTrack
}

// Identify returns the payload if this is an identify envelope.
func (e Envelope) Identify() (IdentifyPayload, bool) {
	p, ok := e.Payload.(IdentifyPayload)
	return p, ok && e.Type == EventIdentify
}

// Alias returns the payload if this is an alias envelope.
func (e Envelope) Alias() (AliasPayload, bool) {
	p, ok := e.Payload.(AliasPayload)
	return p, ok && e.Type == EventAlias
}

// UnmarshalJSON decodes the payload into the struct matching type.
func (e *Envelope) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type    EventType       `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var payload any
	var err error
	switch raw.Type {
	case EventTrack:
		var p TrackPayload
		err = json.Unmarshal(raw.Payload, &p)
		payload = p
	case EventIdentify:
		var p IdentifyPayload
		err = json.Unmarshal(raw.Payload, &p)
		payload = p
	case EventAlias:
		var p AliasPayload
		err = json.Unmarshal(raw.Payload, &p)
		payload = p
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEventType, raw.Type)
	}
	if err != nil {
		return fmt.Errorf("decode %s payload: %w", raw.Type, err)
	}

	e.Type = raw.Type
	e.Payload = payload
	return nil
}
