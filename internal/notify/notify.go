// Package notify formats and sends customer messages for order outcomes.
package notify

import (
	"context"
	"fmt"

	"github.com/shopmart/storefront/internal/logger"
	"github.com/shopmart/storefront/internal/models"
	"go.uber.org/zap"
)

// Sender delivers one message to one user
type Sender interface {
	Send(ctx context.Context, userID uint64, subject, body string) error
}

// Dispatcher maps confirmed status changes to templated messages.
// Fire-and-forget: send failures are logged, never propagated.
type Dispatcher struct {
	sender Sender
}

// NewDispatcher creates new Dispatcher instance
func NewDispatcher(sender Sender) *Dispatcher {
	return &Dispatcher{sender: sender}
}

// OrderStatusChanged sends the message matching the order's new status.
// Pending and processing changes produce no message.
func (d *Dispatcher) OrderStatusChanged(ctx context.Context, order *models.Order) {
	var subject, body string

	switch order.Status {
	case models.OrderStatusPaid:
		subject = fmt.Sprintf("Order %s confirmed", order.OrderNumber)
		body = fmt.Sprintf("We received your payment for order %s. We will let you know when it ships.", order.OrderNumber)
	case models.OrderStatusShipped:
		subject = fmt.Sprintf("Order %s has been shipped", order.OrderNumber)
		body = fmt.Sprintf("Your order %s is on its way to %s.", order.OrderNumber, order.ShippingAddress)
	case models.OrderStatusDelivered:
		subject = fmt.Sprintf("Order %s delivered", order.OrderNumber)
		body = fmt.Sprintf("Your order %s has been delivered. Thank you for shopping with us.", order.OrderNumber)
	case models.OrderStatusCancelled:
		subject = fmt.Sprintf("Order %s cancelled", order.OrderNumber)
		body = fmt.Sprintf("Your order %s has been cancelled. If you were charged, the payment will be refunded.", order.OrderNumber)
	default:
		return
	}

	if err := d.sender.Send(ctx, order.UserID, subject, body); err != nil {
		logger.Log.Error("send notification",
			zap.String("order", order.OrderNumber),
			zap.Uint64("user_id", order.UserID),
			zap.Error(err))
	}
}

// LogSender writes messages to the application log. It stands in for a mail
// backend in environments without one.
type LogSender struct{}

func (LogSender) Send(_ context.Context, userID uint64, subject, body string) error {
	logger.Log.Info("notification",
		zap.Uint64("user_id", userID),
		zap.String("subject", subject),
		zap.String("body", body))
	return nil
}
