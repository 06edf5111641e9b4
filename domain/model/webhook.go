package model

import (
	"encoding/json"
	"time"
)

// WebhookEvent is a raw upstream event landed unprocessed for later
// asynchronous handling. The webhook handler performs no synchronous side
// effects beyond this insert.
type WebhookEvent struct {
	ID         string          `json:"id" bson:"_id,omitempty"`
	RepoName   string          `json:"repo_name" bson:"repo_name"` // owner/repo
	EventType  string          `json:"event_type" bson:"event_type"`
	DeliveryID string          `json:"delivery_id" bson:"delivery_id"`
	Payload    json.RawMessage `json:"payload" bson:"payload"`
	ReceivedAt time.Time       `json:"received_at" bson:"received_at"`
}
