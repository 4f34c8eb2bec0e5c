package protocol

import (
	"encoding/json"
	"fmt"
)

// Envelope is the minimal decoded view of an inbound frame. Raw keeps the
// original bytes so routing forwards payloads verbatim.
type Envelope struct {
	Type      string
	RequestID string
	Kind      Kind
	Raw       []byte
}

type wireEnvelope struct {
	Type      string `json:"type"`
	RequestID string `json:"request_id"`
}

// DecodeEnvelope parses the type and request_id tags out of one frame.
func DecodeEnvelope(data []byte) (Envelope, error) {
	var wire wireEnvelope
	if err := json.Unmarshal(data, &wire); err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	raw := make([]byte, len(data))
	copy(raw, data)
	return Envelope{
		Type:      wire.Type,
		RequestID: wire.RequestID,
		Kind:      Classify(wire.Type),
		Raw:       raw,
	}, nil
}
