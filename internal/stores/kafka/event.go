package kafka

import (
	"encoding/json"
	"time"
)

// DefaultTopic receives every storefront change notification.
const DefaultTopic = `storefront.events`

// Representation of event that we put in kafka

type StructureOfEvent struct {
	ID        string          `json:"id"`         // UUIDv7 of this record
	Name      string          `json:"name"`       // itemsUpdate, newOrder, ...
	Data      json.RawMessage `json:"data"`       // same payload the websocket clients get
	CreatedAt time.Time       `json:"created_at"` // Timestamp of publication
}
