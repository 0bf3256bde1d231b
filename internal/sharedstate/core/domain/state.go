package domain

import (
	"encoding/json"
	"time"
)

// State is a saved UI filter state behind a short link.
type State struct {
	ID        string
	Payload   json.RawMessage // always a JSON object
	CreatedAt time.Time
}
