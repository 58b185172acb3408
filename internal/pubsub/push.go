package pubsub

import (
	"encoding/json"
	"fmt"
)

// PushEnvelope is the delivery wrapper a push subscription POSTs to the
// worker. Message data arrives base64-encoded; encoding/json handles the
// decode via the []byte field.
type PushEnvelope struct {
	Message struct {
		Data       []byte            `json:"data"`
		MessageID  string            `json:"messageId"`
		Attributes map[string]string `json:"attributes"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// DecodePush parses a push delivery body and returns the envelope.
func DecodePush(body []byte) (*PushEnvelope, error) {
	var envelope PushEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode push envelope: %w", err)
	}
	if len(envelope.Message.Data) == 0 {
		return nil, fmt.Errorf("push envelope has no message data")
	}
	return &envelope, nil
}
