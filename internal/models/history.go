package models

import "time"

// StatusHistory is immutable record of one order status transition.
// FromStatus is nil for the initial entry, ChangedBy is nil for system changes.
type StatusHistory struct {
	ID         uint64
	OrderID    uint64
	FromStatus *OrderStatus
	ToStatus   OrderStatus
	ChangedBy  *uint64
	Note       string
	CreatedAt  time.Time
}
