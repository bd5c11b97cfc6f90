package models

import "time"

// event types published to the broadcast channels
const (
	EventOrderStatusChanged = "order.status.updated"
)

// OrderStatusChangedEvent is the immutable record published once per successful
// non-no-op transition. Consumers must tolerate duplicate delivery; the event
// carries full snapshots and nothing a double apply could corrupt.
type OrderStatusChangedEvent struct {
	EventID        string      `json:"event_id"`
	Type           string      `json:"type"`
	OrderID        uint64      `json:"order_id"`
	OrderNumber    string      `json:"order_number"`
	UserID         uint64      `json:"user_id"`
	PreviousStatus OrderStatus `json:"previous_status"`
	CurrentStatus  OrderStatus `json:"current_status"`
	ChangedBy      string      `json:"changed_by,omitempty"`
	Total          int64       `json:"total"`
	ItemsCount     int         `json:"items_count"`
	OccurredAt     time.Time   `json:"occurred_at"`
}
