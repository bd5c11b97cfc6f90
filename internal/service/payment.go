package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopmart/storefront/internal/gateway/paypal"
	stripegw "github.com/shopmart/storefront/internal/gateway/stripe"
	"github.com/shopmart/storefront/internal/logger"
	"github.com/shopmart/storefront/internal/models"
	"go.uber.org/zap"
)

const paymentCurrency = "USD"

// PaymentRepository is interface for interacting with payment-related data
type PaymentRepository interface {
	// CreatePayment inserts new pending payment
	CreatePayment(ctx context.Context, payment *models.Payment) (*models.Payment, error)
	// GetPaymentByID returns payment by id
	GetPaymentByID(ctx context.Context, id string) (*models.Payment, error)
	// GetPaymentByIntentID returns payment by stripe payment intent id
	GetPaymentByIntentID(ctx context.Context, intentID string) (*models.Payment, error)
	// SetStripeRefs stores stripe correlation ids, merging metadata
	SetStripeRefs(ctx context.Context, id, sessionID, intentID string, metadata map[string]any) error
	// SetPayPalOrderID stores paypal order id, merging metadata
	SetPayPalOrderID(ctx context.Context, id, paypalOrderID string, metadata map[string]any) error
	// CompletePayment marks payment completed, reports false when already final
	CompletePayment(ctx context.Context, payment *models.Payment, gatewayRef string, metadata map[string]any) (bool, error)
	// FailPayment marks payment failed, reports false when already final
	FailPayment(ctx context.Context, payment *models.Payment, metadata map[string]any) (bool, error)
	// ListUnreconciled returns completed payments with lagging order writes
	ListUnreconciled(ctx context.Context) ([]models.Payment, error)
}

// PaymentOrderService is the order aggregate surface the payment
// orchestrator drives on completion and failure
type PaymentOrderService interface {
	GetOrder(ctx context.Context, id uint64) (*models.Order, error)
	MarkAsPaid(ctx context.Context, order *models.Order, transactionID string) error
	MarkPaymentFailed(ctx context.Context, order *models.Order) error
	TransitionTo(ctx context.Context, order *models.Order, newStatus models.OrderStatus, actor *models.TokenPayload, note string) error
}

// StripeGateway is card network client
type StripeGateway interface {
	CreateCheckoutSession(ctx context.Context, req stripegw.SessionRequest) (*stripegw.Session, error)
	VerifyWebhook(payload []byte, sigHeader string) (*stripegw.Event, error)
}

// PayPalGateway is wallet network client
type PayPalGateway interface {
	CreateOrder(ctx context.Context, req paypal.OrderRequest) (*paypal.Order, error)
	CaptureOrder(ctx context.Context, orderID string) (*paypal.Order, error)
}

// CreatePaymentResult is returned to the caller to continue the payment flow
type CreatePaymentResult struct {
	PaymentID       string
	Provider        models.PaymentProvider
	SessionID       string
	ProviderOrderID string
	RedirectURL     string
}

// PaymentService implements PaymentService interface
type PaymentService struct {
	repo           PaymentRepository
	orders         PaymentOrderService
	stripe         StripeGateway
	paypal         PayPalGateway
	baseURL        string
	gatewayTimeout time.Duration
}

// NewPaymentService creates new PaymentService instance
func NewPaymentService(repo PaymentRepository, orders PaymentOrderService, stripe StripeGateway, paypal PayPalGateway, baseURL string, gatewayTimeout time.Duration) *PaymentService {
	return &PaymentService{
		repo:           repo,
		orders:         orders,
		stripe:         stripe,
		paypal:         paypal,
		baseURL:        baseURL,
		gatewayTimeout: gatewayTimeout,
	}
}

// CreatePayment opens a payment attempt for the order with the chosen
// provider and returns the redirect/approval target
func (ps *PaymentService) CreatePayment(ctx context.Context, userID, orderID uint64, providerTag string) (*CreatePaymentResult, error) {
	provider, err := models.ParsePaymentProvider(providerTag)
	if err != nil {
		return nil, err
	}

	order, err := ps.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, models.ErrDataNotFound
	}

	switch provider {
	case models.PaymentProviderStripe:
		return ps.createStripePayment(ctx, order)
	case models.PaymentProviderPayPal:
		return ps.createPayPalPayment(ctx, order)
	}
	return nil, models.ErrUnsupportedProvider
}

func (ps *PaymentService) newPayment(order *models.Order, provider models.PaymentProvider) *models.Payment {
	return &models.Payment{
		ID:       uuid.NewString(),
		OrderID:  order.ID,
		UserID:   order.UserID,
		Provider: provider,
		Amount:   order.Total,
		Currency: paymentCurrency,
		Status:   models.PaymentStatusPending,
		Metadata: map[string]any{
			"order_number": order.OrderNumber,
		},
	}
}

func (ps *PaymentService) createStripePayment(ctx context.Context, order *models.Order) (*CreatePaymentResult, error) {
	payment, err := ps.repo.CreatePayment(ctx, ps.newPayment(order, models.PaymentProviderStripe))
	if err != nil {
		return nil, err
	}

	gwCtx, cancel := context.WithTimeout(ctx, ps.gatewayTimeout)
	defer cancel()

	session, err := ps.stripe.CreateCheckoutSession(gwCtx, stripegw.SessionRequest{
		Amount:     order.Total,
		Currency:   paymentCurrency,
		SuccessURL: ps.baseURL + "/payment/success",
		CancelURL:  ps.baseURL + "/payment/cancel",
		Metadata: map[string]string{
			"payment_id":   payment.ID,
			"order_number": order.OrderNumber,
		},
		Items: order.Items,
	})
	if err != nil {
		ps.failAfterGatewayError(ctx, payment, err)
		return nil, fmt.Errorf("%w: %v", models.ErrGatewayUnavailable, err)
	}

	err = ps.repo.SetStripeRefs(ctx, payment.ID, session.ID, session.IntentID, map[string]any{
		"checkout_session": session.Raw,
	})
	if err != nil {
		return nil, err
	}

	return &CreatePaymentResult{
		PaymentID:   payment.ID,
		Provider:    models.PaymentProviderStripe,
		SessionID:   session.ID,
		RedirectURL: session.RedirectURL,
	}, nil
}

func (ps *PaymentService) createPayPalPayment(ctx context.Context, order *models.Order) (*CreatePaymentResult, error) {
	payment, err := ps.repo.CreatePayment(ctx, ps.newPayment(order, models.PaymentProviderPayPal))
	if err != nil {
		return nil, err
	}

	gwCtx, cancel := context.WithTimeout(ctx, ps.gatewayTimeout)
	defer cancel()

	gwOrder, err := ps.paypal.CreateOrder(gwCtx, paypal.OrderRequest{
		Amount:      order.Total,
		Currency:    paymentCurrency,
		Description: fmt.Sprintf("Payment for Order #%s", order.OrderNumber),
		Reference:   order.OrderNumber,
		ReturnURL:   fmt.Sprintf("%s/api/payments/paypal/success?payment_id=%s", ps.baseURL, payment.ID),
		CancelURL:   fmt.Sprintf("%s/api/payments/paypal/cancel?payment_id=%s", ps.baseURL, payment.ID),
	})
	if err != nil {
		ps.failAfterGatewayError(ctx, payment, err)
		return nil, fmt.Errorf("%w: %v", models.ErrGatewayUnavailable, err)
	}

	err = ps.repo.SetPayPalOrderID(ctx, payment.ID, gwOrder.ID, map[string]any{
		"paypal_order": gwOrder.Raw,
	})
	if err != nil {
		return nil, err
	}

	return &CreatePaymentResult{
		PaymentID:       payment.ID,
		Provider:        models.PaymentProviderPayPal,
		ProviderOrderID: gwOrder.ID,
		RedirectURL:     gwOrder.ApprovalURL,
	}, nil
}

// failAfterGatewayError marks the open payment failed after the gateway
// rejected or never answered the creation call
func (ps *PaymentService) failAfterGatewayError(ctx context.Context, payment *models.Payment, gatewayErr error) {
	ps.fail(ctx, payment, map[string]any{
		"gateway_error": gatewayErr.Error(),
	})
}

// ConfirmPayPal handles the synchronous redirect-back after the customer
// approved the payment. Completing an already-completed payment returns
// success without recontacting the gateway.
func (ps *PaymentService) ConfirmPayPal(ctx context.Context, paymentID, paypalOrderID string) (*models.Payment, error) {
	payment, err := ps.repo.GetPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	if payment.Status == models.PaymentStatusCompleted {
		return payment, nil
	}

	gwCtx, cancel := context.WithTimeout(ctx, ps.gatewayTimeout)
	defer cancel()

	capture, err := ps.paypal.CaptureOrder(gwCtx, paypalOrderID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrGatewayUnavailable, err)
	}

	if capture.Status != paypal.StatusCompleted {
		ps.fail(ctx, payment, map[string]any{
			"paypal_error":    "capture failed",
			"paypal_response": capture.Raw,
		})
		return payment, models.ErrCaptureFailed
	}

	ps.complete(ctx, payment, capture.CaptureID, map[string]any{
		"paypal_capture": capture.Raw,
	})

	return payment, nil
}

// CancelPayPal marks the payment failed after the customer backed out.
// The gateway is never contacted.
func (ps *PaymentService) CancelPayPal(ctx context.Context, paymentID string) (*models.Payment, error) {
	payment, err := ps.repo.GetPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	ps.fail(ctx, payment, map[string]any{
		"reason":       "user cancelled payment",
		"cancelled_at": time.Now().Format(time.RFC3339),
	})

	return payment, nil
}

// HandleStripeWebhook processes an asynchronous card network event.
//
// Signature and payload verification fail closed. Every recognised outcome
// after that is acknowledged, including an unknown payment record, so the
// gateway does not retry events that cannot succeed.
func (ps *PaymentService) HandleStripeWebhook(ctx context.Context, payload []byte, sigHeader string) error {
	event, err := ps.stripe.VerifyWebhook(payload, sigHeader)
	if err != nil {
		return err
	}

	switch event.Type {
	case stripegw.EventPaymentSucceeded:
		payment := ps.resolveWebhookPayment(ctx, event)
		if payment == nil {
			return nil
		}
		if payment.Status == models.PaymentStatusCompleted {
			return nil
		}
		ps.complete(ctx, payment, event.IntentID, map[string]any{
			"stripe_data": map[string]any{
				"amount":         event.Amount,
				"currency":       event.Currency,
				"payment_method": event.PaymentMethod,
				"status":         event.Status,
			},
		})
	case stripegw.EventPaymentFailed:
		payment := ps.resolveWebhookPayment(ctx, event)
		if payment == nil {
			return nil
		}
		ps.fail(ctx, payment, map[string]any{
			"stripe_failure": map[string]any{
				"status": event.Status,
			},
		})
	default:
		logger.Log.Debug("ignoring webhook event", zap.String("type", event.Type))
	}

	return nil
}

// resolveWebhookPayment finds the payment by intent id, falling back to the
// payment id embedded in the event metadata. A missing record is logged and
// treated as accepted-but-ignored.
func (ps *PaymentService) resolveWebhookPayment(ctx context.Context, event *stripegw.Event) *models.Payment {
	payment, err := ps.repo.GetPaymentByIntentID(ctx, event.IntentID)
	if err == nil {
		return payment
	}

	if errors.Is(err, models.ErrDataNotFound) {
		if id := event.Metadata["payment_id"]; id != "" {
			if payment, err := ps.repo.GetPaymentByID(ctx, id); err == nil {
				return payment
			}
		}
	}

	logger.Log.Warn("payment not found for webhook event",
		zap.String("intent_id", event.IntentID),
		zap.String("type", event.Type))
	return nil
}

// complete finalises the payment and drives the order writes. The payment
// update is the idempotency gate: when it reports the record was already
// final nothing else runs. The order writes are a distinct second step; if
// they fail after the payment committed, the inconsistency is logged for the
// reconciliation sweep rather than dropped.
func (ps *PaymentService) complete(ctx context.Context, payment *models.Payment, gatewayRef string, metadata map[string]any) {
	completed, err := ps.repo.CompletePayment(ctx, payment, gatewayRef, metadata)
	if err != nil {
		logger.Log.Error("complete payment", zap.String("payment_id", payment.ID), zap.Error(err))
		return
	}
	if !completed {
		logger.Log.Debug("payment already final", zap.String("payment_id", payment.ID))
		return
	}

	payment.Status = models.PaymentStatusCompleted

	if err := ps.applyOrderPaid(ctx, payment.OrderID, gatewayRef); err != nil {
		logger.Log.Error("payment completed but order transition did not apply, reconciliation needed",
			zap.String("payment_id", payment.ID),
			zap.Uint64("order_id", payment.OrderID),
			zap.Error(err))
	}
}

// applyOrderPaid performs the two order writes that accompany payment
// completion: payment fields, then the PAID status transition
func (ps *PaymentService) applyOrderPaid(ctx context.Context, orderID uint64, gatewayRef string) error {
	order, err := ps.orders.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}

	if order.PaymentStatus != models.PaymentStatusCompleted {
		if err := ps.orders.MarkAsPaid(ctx, order, gatewayRef); err != nil {
			return err
		}
	}

	return ps.orders.TransitionTo(ctx, order, models.OrderStatusPaid, nil, "Payment received")
}

// fail finalises the payment as failed and records the failure against the
// order. No-op when the payment is already final.
func (ps *PaymentService) fail(ctx context.Context, payment *models.Payment, metadata map[string]any) {
	failed, err := ps.repo.FailPayment(ctx, payment, metadata)
	if err != nil {
		logger.Log.Error("fail payment", zap.String("payment_id", payment.ID), zap.Error(err))
		return
	}
	if !failed {
		logger.Log.Debug("payment already final", zap.String("payment_id", payment.ID))
		return
	}

	payment.Status = models.PaymentStatusFailed

	order, err := ps.orders.GetOrder(ctx, payment.OrderID)
	if err != nil {
		logger.Log.Error("load order for failed payment", zap.Uint64("order_id", payment.OrderID), zap.Error(err))
		return
	}

	if err := ps.orders.MarkPaymentFailed(ctx, order); err != nil {
		logger.Log.Error("mark order payment failed", zap.Uint64("order_id", order.ID), zap.Error(err))
	}
}

// Reconcile repairs orders that missed their writes after a payment
// completed: the crash window between the payment update and the order
// update leaves a completed payment with a pending order.
func (ps *PaymentService) Reconcile(ctx context.Context) error {
	payments, err := ps.repo.ListUnreconciled(ctx)
	if err != nil {
		return err
	}

	for _, payment := range payments {
		ref := payment.PaymentIntentID
		if payment.Provider == models.PaymentProviderPayPal {
			ref = payment.PayPalCaptureID
		}

		logger.Log.Warn("repairing order for completed payment",
			zap.String("payment_id", payment.ID),
			zap.Uint64("order_id", payment.OrderID))

		if err := ps.applyOrderPaid(ctx, payment.OrderID, ref); err != nil {
			logger.Log.Error("reconcile payment",
				zap.String("payment_id", payment.ID),
				zap.Uint64("order_id", payment.OrderID),
				zap.Error(err))
		}
	}

	return nil
}
