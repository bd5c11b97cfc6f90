package models

import (
	"errors"
	"fmt"
)

var (
	ErrConflictData       = errors.New("data conflicts with existing data")
	ErrDataNotFound       = errors.New("data not found")
	ErrInvalidCredentials = errors.New("invalid login or password")
	ErrInternalError      = errors.New("internal error")

	ErrEmptyCart            = errors.New("cart is empty")
	ErrCannotCancel         = errors.New("order cannot be cancelled in its current status")
	ErrUnknownOrderStatus   = errors.New("unknown order status")
	ErrUnsupportedProvider  = errors.New("payment provider not supported")
	ErrPaymentAlreadyFinal  = errors.New("payment is already in a final state")
	ErrInvalidSignature     = errors.New("invalid webhook signature")
	ErrInvalidPayload       = errors.New("invalid webhook payload")
	ErrGatewayUnavailable   = errors.New("payment gateway unavailable")
	ErrCaptureFailed        = errors.New("payment capture failed")
	ErrReconciliationNeeded = errors.New("payment completed but order transition did not apply")
)

// InvalidTransitionError is returned when the status policy forbids a transition
type InvalidTransitionError struct {
	From        OrderStatus
	To          OrderStatus
	OrderNumber string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition order %s from %s to %s", e.OrderNumber, e.From, e.To)
}

// ProductUnavailableError is returned when a checkout names an inactive product
type ProductUnavailableError struct {
	Name string
}

func (e *ProductUnavailableError) Error() string {
	return fmt.Sprintf("product %q is no longer available", e.Name)
}

// InsufficientStockError is returned when requested quantity exceeds available stock
type InsufficientStockError struct {
	Name string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("product %q is out of stock", e.Name)
}
