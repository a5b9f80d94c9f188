package command

import (
	"encoding/json"
	"fmt"
)

// Envelope is one wire-level command. The compiler constructs envelopes as
// immutable values; once emitted they are handed to the transport and never
// mutated again.
//
// Payload holds the typed variant matching Type (NotePlay, ChordPlay, ...)
// or, for kinds without a declared shape, a plain map. Quantize is a pointer
// so a JSON null survives a round trip.
type Envelope struct {
	V         int         `json:"v"`
	Type      Type        `json:"type"`
	ID        string      `json:"id"`
	Origin    string      `json:"origin"`
	At        string      `json:"at"`
	Quantize  *Grid       `json:"quantize"`
	Target    string      `json:"target"`
	Payload   any         `json:"payload"`
	Transform []Transform `json:"transform"`
	Meta      *Meta       `json:"meta,omitempty"`
}

// GridPtr is a convenience for filling Envelope.Quantize.
func GridPtr(g Grid) *Grid {
	return &g
}

type envelopeWire struct {
	V         int             `json:"v"`
	Type      Type            `json:"type"`
	ID        string          `json:"id"`
	Origin    string          `json:"origin"`
	At        string          `json:"at"`
	Quantize  *Grid           `json:"quantize"`
	Target    string          `json:"target"`
	Payload   json.RawMessage `json:"payload"`
	Transform []Transform     `json:"transform"`
	Meta      *Meta           `json:"meta,omitempty"`
}

// UnmarshalJSON decodes an envelope from the wire, resolving the payload into
// its typed variant by the type discriminant. Decoding is the boundary where
// untyped data becomes typed; structural validation is a separate, non-failing
// pass (Validate).
func (e *Envelope) UnmarshalJSON(data []byte) error {
	var wire envelopeWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("decode envelope: %w", err)
	}
	e.V = wire.V
	e.Type = wire.Type
	e.ID = wire.ID
	e.Origin = wire.Origin
	e.At = wire.At
	e.Quantize = wire.Quantize
	e.Target = wire.Target
	e.Transform = wire.Transform
	e.Meta = wire.Meta
	e.Payload = nil
	if len(wire.Payload) > 0 && string(wire.Payload) != "null" {
		payload, err := decodePayload(wire.Type, wire.Payload)
		if err != nil {
			return fmt.Errorf("decode envelope %s: %w", wire.ID, err)
		}
		e.Payload = payload
	}
	return nil
}
