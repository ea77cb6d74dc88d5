package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// FlexibleID holds an identifier that may be sent as a JSON number or string.
type FlexibleID string

func (id *FlexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = FlexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = FlexibleID(n.String())
	return nil
}

func (id *FlexibleID) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("id must be a scalar, got yaml kind %d", node.Kind)
	}
	if node.Tag == "!!null" {
		*id = ""
		return nil
	}
	*id = FlexibleID(node.Value)
	return nil
}

func (id FlexibleID) String() string {
	return string(id)
}

type WebhookEvent struct {
	PulseID   FlexibleID `json:"pulseId"`
	PulseName string     `json:"pulseName,omitempty"`
	BoardID   FlexibleID `json:"boardId"`
	ColumnID  string     `json:"columnId,omitempty"`
	Type      string     `json:"type,omitempty"`
}

// WebhookPayload is the subset of a platform webhook body the service reads.
// Challenge is kept raw so the verification handshake can echo it verbatim.
type WebhookPayload struct {
	Challenge json.RawMessage `json:"challenge,omitempty"`
	Event     WebhookEvent    `json:"event"`
}

func (p WebhookPayload) HasChallenge() bool {
	return len(p.Challenge) > 0
}

// ParseWebhookPayload decodes a webhook body. A top-level challenge is
// returned on its own without looking at the event, so a verification
// handshake succeeds whatever else the body carries.
func ParseWebhookPayload(raw []byte) (WebhookPayload, error) {
	var payload WebhookPayload
	if len(bytes.TrimSpace(raw)) == 0 {
		return payload, nil
	}

	var handshake struct {
		Challenge json.RawMessage `json:"challenge"`
	}
	if err := json.Unmarshal(raw, &handshake); err != nil {
		return WebhookPayload{}, fmt.Errorf("parse webhook payload: %w", err)
	}
	if len(handshake.Challenge) > 0 {
		return WebhookPayload{Challenge: handshake.Challenge}, nil
	}

	if err := json.Unmarshal(raw, &payload); err != nil {
		return WebhookPayload{}, fmt.Errorf("parse webhook payload: %w", err)
	}
	return payload, nil
}
