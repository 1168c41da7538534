package model

import (
	"encoding/json"
	"time"
)

// Event is a persisted record of a mutation, keyed to the entity it touched.
type Event struct {
	ID        int64           `json:"id"`
	Topic     string          `json:"topic"`
	EntityID  string          `json:"entity_id"`
	Actor     string          `json:"actor,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}
