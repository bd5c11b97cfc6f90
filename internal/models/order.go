package models

import (
	"crypto/rand"
	"fmt"
	"time"
)

// PaymentStatus tracks order payment independently of order status
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// Order is order entity. Monetary fields are minor units (cents).
type Order struct {
	ID              uint64
	UserID          uint64
	OrderNumber     string
	Status          OrderStatus
	PaymentStatus   PaymentStatus
	PaymentMethod   string
	TransactionID   string
	ShippingName    string
	ShippingAddress string
	ShippingCity    string
	ShippingState   string
	ShippingZipcode string
	ShippingCountry string
	ShippingPhone   string
	Subtotal        int64
	Tax             int64
	ShippingCost    int64
	Total           int64
	Notes           string
	PaidAt          *time.Time
	CreatedAt       time.Time
	Items           []OrderItem
}

// OrderItem is immutable line item snapshot taken at checkout
type OrderItem struct {
	ID          uint64
	OrderID     uint64
	ProductID   uint64
	ProductName string
	ProductSKU  string
	Quantity    int32
	UnitPrice   int64
	Subtotal    int64
}

const orderNumberAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateOrderNumber returns a new order number ORD-<year>-<6 uppercase alphanumerics>.
// Uniqueness is probabilistic, the orders table enforces it with a unique index.
func GenerateOrderNumber() string {
	buf := make([]byte, 6)
	_, _ = rand.Read(buf)
	for i, b := range buf {
		buf[i] = orderNumberAlphabet[int(b)%len(orderNumberAlphabet)]
	}
	return fmt.Sprintf("ORD-%d-%s", time.Now().Year(), buf)
}

// AvailableTransitions returns statuses this order may transition to
func (o *Order) AvailableTransitions() []OrderStatus {
	return AllowedTransitions(o.Status)
}

// CanBeCancelled reports whether the order may be cancelled by an operator.
// Deliberately narrower than the transition table: processing orders are
// policy-cancellable but denied here.
func (o *Order) CanBeCancelled() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusPaid
}
