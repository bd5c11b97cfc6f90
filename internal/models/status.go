package models

import "fmt"

// OrderStatus is order lifecycle status
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"    // order created, awaiting payment
	OrderStatusPaid       OrderStatus = "paid"       // payment received
	OrderStatusProcessing OrderStatus = "processing" // preparing the order
	OrderStatusShipped    OrderStatus = "shipped"    // order sent to delivery
	OrderStatusDelivered  OrderStatus = "delivered"  // order received by customer
	OrderStatusCancelled  OrderStatus = "cancelled"  // order cancelled
)

// allowedTransitions is the transition table for order statuses.
// Missing key or empty set means the status is terminal.
var allowedTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusPaid, OrderStatusCancelled},
	OrderStatusPaid:       {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
	OrderStatusDelivered:  {},
	OrderStatusCancelled:  {},
}

// AllowedTransitions returns statuses the given status may transition to
func AllowedTransitions(s OrderStatus) []OrderStatus {
	next := allowedTransitions[s]
	out := make([]OrderStatus, len(next))
	copy(out, next)
	return out
}

// CanTransition reports whether from may transition to
func CanTransition(from, to OrderStatus) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// OrderStatusValues returns all order statuses
func OrderStatusValues() []OrderStatus {
	return []OrderStatus{
		OrderStatusPending,
		OrderStatusPaid,
		OrderStatusProcessing,
		OrderStatusShipped,
		OrderStatusDelivered,
		OrderStatusCancelled,
	}
}

// ParseOrderStatus converts string to OrderStatus
func ParseOrderStatus(s string) (OrderStatus, error) {
	for _, st := range OrderStatusValues() {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownOrderStatus, s)
}

// Label returns human-readable label of the status
func (s OrderStatus) Label() string {
	switch s {
	case OrderStatusPending:
		return "Pending Payment"
	case OrderStatusPaid:
		return "Payment Confirmed"
	case OrderStatusProcessing:
		return "Being Prepared"
	case OrderStatusShipped:
		return "Shipped"
	case OrderStatusDelivered:
		return "Delivered"
	case OrderStatusCancelled:
		return "Cancelled"
	}
	return string(s)
}
