package domain

import (
	"encoding/json"
	"time"
)

// OrderImportedEvent is published after a marketplace order is persisted
// locally. Consumers use it to re-run status synchronization.
type OrderImportedEvent struct {
	OrderID    string    `json:"order_id"`
	Code       string    `json:"code"`
	Channel    string    `json:"channel"`
	StatusType string    `json:"status_type"`
	StoreID    int64     `json:"store_id"`
	Timestamp  time.Time `json:"timestamp"`
}

// OrderImportFailedEvent carries the failure and the original payload so a
// bad reference can be diagnosed and replayed.
type OrderImportFailedEvent struct {
	Code      string          `json:"code"`
	StoreID   int64           `json:"store_id"`
	Error     string          `json:"error"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}
