package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopmart/storefront/internal/logger"
	"github.com/shopmart/storefront/internal/models"
	"go.uber.org/zap"
)

// OrderRepository is interface for interacting with order-related data
type OrderRepository interface {
	// GetOrderByID returns order by id
	GetOrderByID(ctx context.Context, id uint64) (*models.Order, error)
	// ListOrdersByUserID returns user orders, newest first
	ListOrdersByUserID(ctx context.Context, userID uint64) ([]models.Order, error)
	// ListOrders returns all orders, optionally filtered by status
	ListOrders(ctx context.Context, status models.OrderStatus) ([]models.Order, error)
	// TransitionOrder updates order status and appends history entry atomically
	TransitionOrder(ctx context.Context, orderID uint64, from, to models.OrderStatus, changedBy *uint64, note string) error
	// ListStatusHistory returns order status history, newest first
	ListStatusHistory(ctx context.Context, orderID uint64) ([]models.StatusHistory, error)
	// MarkOrderPaid sets payment status completed with transaction reference
	MarkOrderPaid(ctx context.Context, orderID uint64, transactionID string) error
	// MarkOrderPaymentFailed sets payment status failed
	MarkOrderPaymentFailed(ctx context.Context, orderID uint64) error
}

// Broadcaster publishes status change events to subscribers
type Broadcaster interface {
	Publish(ctx context.Context, event models.OrderStatusChangedEvent) error
}

// Notifier dispatches customer notifications for confirmed status changes
type Notifier interface {
	OrderStatusChanged(ctx context.Context, order *models.Order)
}

// OrderService implements OrderService interface
type OrderService struct {
	repo        OrderRepository
	broadcaster Broadcaster
	notifier    Notifier
}

// NewOrderService creates new OrderService instance
func NewOrderService(repo OrderRepository, broadcaster Broadcaster, notifier Notifier) *OrderService {
	return &OrderService{
		repo:        repo,
		broadcaster: broadcaster,
		notifier:    notifier,
	}
}

// TransitionTo moves the order to newStatus on behalf of actor.
//
// Transition to the current status is a no-op success: no history entry, no
// event. An illegal transition fails with InvalidTransitionError and leaves
// the order unchanged. A legal transition writes the status and the history
// entry in one transaction, then publishes the status change event and fires
// the notification; both are fire-and-forget.
func (os *OrderService) TransitionTo(ctx context.Context, order *models.Order, newStatus models.OrderStatus, actor *models.TokenPayload, note string) error {
	if order.Status == newStatus {
		return nil
	}

	if !models.CanTransition(order.Status, newStatus) {
		return &models.InvalidTransitionError{
			From:        order.Status,
			To:          newStatus,
			OrderNumber: order.OrderNumber,
		}
	}

	var changedBy *uint64
	actorName := ""
	if actor != nil {
		changedBy = &actor.UserID
		actorName = actor.Name
	}

	if err := os.repo.TransitionOrder(ctx, order.ID, order.Status, newStatus, changedBy, note); err != nil {
		if errors.Is(err, models.ErrConflictData) {
			// someone else moved the order first, re-read before retrying
			return &models.InvalidTransitionError{
				From:        order.Status,
				To:          newStatus,
				OrderNumber: order.OrderNumber,
			}
		}
		return err
	}

	oldStatus := order.Status
	order.Status = newStatus

	os.publishStatusChange(ctx, order, oldStatus, actorName)
	os.notifier.OrderStatusChanged(ctx, order)

	return nil
}

func (os *OrderService) publishStatusChange(ctx context.Context, order *models.Order, oldStatus models.OrderStatus, actorName string) {
	event := models.OrderStatusChangedEvent{
		EventID:        uuid.NewString(),
		Type:           models.EventOrderStatusChanged,
		OrderID:        order.ID,
		OrderNumber:    order.OrderNumber,
		UserID:         order.UserID,
		PreviousStatus: oldStatus,
		CurrentStatus:  order.Status,
		ChangedBy:      actorName,
		Total:          order.Total,
		ItemsCount:     len(order.Items),
		OccurredAt:     time.Now(),
	}

	if err := os.broadcaster.Publish(ctx, event); err != nil {
		logger.Log.Error("publish status change event",
			zap.String("order", order.OrderNumber),
			zap.String("event_id", event.EventID),
			zap.Error(err))
	}
}

// Cancel transitions the order to cancelled with the operator's reason.
// It applies the narrow cancellation rule, not the full transition table.
func (os *OrderService) Cancel(ctx context.Context, order *models.Order, actor *models.TokenPayload, reason string) error {
	if !order.CanBeCancelled() {
		return models.ErrCannotCancel
	}

	return os.TransitionTo(ctx, order, models.OrderStatusCancelled, actor, "Cancelled: "+reason)
}

// MarkAsPaid records completed payment against the order. It does not
// transition the order status, callers do that as a separate step.
func (os *OrderService) MarkAsPaid(ctx context.Context, order *models.Order, transactionID string) error {
	if err := os.repo.MarkOrderPaid(ctx, order.ID, transactionID); err != nil {
		return err
	}

	now := time.Now()
	order.PaymentStatus = models.PaymentStatusCompleted
	order.TransactionID = transactionID
	order.PaidAt = &now

	return nil
}

// MarkPaymentFailed records failed payment, order status is left untouched
func (os *OrderService) MarkPaymentFailed(ctx context.Context, order *models.Order) error {
	if err := os.repo.MarkOrderPaymentFailed(ctx, order.ID); err != nil {
		return err
	}

	order.PaymentStatus = models.PaymentStatusFailed
	return nil
}

// GetOrder returns order by id
func (os *OrderService) GetOrder(ctx context.Context, id uint64) (*models.Order, error) {
	return os.repo.GetOrderByID(ctx, id)
}

// GetUserOrder returns order by id when it belongs to user
func (os *OrderService) GetUserOrder(ctx context.Context, userID, orderID uint64) (*models.Order, error) {
	order, err := os.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, models.ErrDataNotFound
	}
	return order, nil
}

// ListUserOrders returns list of user orders
func (os *OrderService) ListUserOrders(ctx context.Context, userID uint64) ([]models.Order, error) {
	return os.repo.ListOrdersByUserID(ctx, userID)
}

// ListOrders returns all orders, optionally filtered by status
func (os *OrderService) ListOrders(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	return os.repo.ListOrders(ctx, status)
}

// StatusHistory returns order status history, newest first
func (os *OrderService) StatusHistory(ctx context.Context, orderID uint64) ([]models.StatusHistory, error) {
	return os.repo.ListStatusHistory(ctx, orderID)
}
