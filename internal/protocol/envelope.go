// Package protocol defines the JSON wire format exchanged with clients:
// envelopes of the form {type, data, id}, the payload shapes for every
// command and response, and per-command shape validation.
package protocol

import (
	"encoding/json"
	"fmt"
)

// Envelope is the outer frame of every message in both directions. The
// reference client double-encodes payloads: outbound data is a JSON
// string that itself contains JSON, and inbound data may arrive either
// way. Data therefore stays raw until DecodeData is called.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
	ID   int             `json:"id"`
}

// DecodeData unmarshals the envelope payload into v. If the payload is
// a JSON string wrapping JSON, the inner document is decoded; an empty
// payload (absent, "" or null) leaves v untouched.
func (e *Envelope) DecodeData(v interface{}) error {
	raw := []byte(e.Data)
	if len(raw) == 0 {
		return nil
	}
	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return fmt.Errorf("unwrap string payload: %w", err)
		}
		if inner == "" {
			return nil
		}
		raw = []byte(inner)
	}
	if string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %s payload: %w", e.Type, err)
	}
	return nil
}

// NewEnvelope builds an outbound envelope, string-encoding the payload
// the way the reference client expects.
func NewEnvelope(msgType string, payload interface{}) (Envelope, error) {
	inner, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode %s payload: %w", msgType, err)
	}
	wrapped, err := json.Marshal(string(inner))
	if err != nil {
		return Envelope{}, fmt.Errorf("wrap %s payload: %w", msgType, err)
	}
	return Envelope{Type: msgType, Data: wrapped, ID: 0}, nil
}
