package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopmart/storefront/internal/models"
	"github.com/shopmart/storefront/internal/service"
)

// a truncated body fails signature verification, so the cap must stay
// above the largest event stripe sends
const maxWebhookBody = 1 << 20

type PaymentService interface {
	// CreatePayment opens a payment attempt for the order with the chosen provider
	CreatePayment(ctx context.Context, userID, orderID uint64, providerTag string) (*service.CreatePaymentResult, error)
	// ConfirmPayPal captures an approved PayPal payment
	ConfirmPayPal(ctx context.Context, paymentID, paypalOrderID string) (*models.Payment, error)
	// CancelPayPal records a buyer-cancelled PayPal payment
	CancelPayPal(ctx context.Context, paymentID string) (*models.Payment, error)
	// HandleStripeWebhook verifies and applies a Stripe webhook delivery
	HandleStripeWebhook(ctx context.Context, payload []byte, sigHeader string) error
}

// PaymentHandler represents HTTP handler for payment requests
type PaymentHandler struct {
	svc PaymentService
}

// NewPaymentHandler creates new PaymentHandler instance
func NewPaymentHandler(svc PaymentService) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

type createPaymentRequest struct {
	Provider string `json:"provider"`
}

type createPaymentResponse struct {
	PaymentID       string `json:"payment_id"`
	Provider        string `json:"provider"`
	SessionID       string `json:"session_id,omitempty"`
	ProviderOrderID string `json:"provider_order_id,omitempty"`
	RedirectURL     string `json:"redirect_url"`
}

// CreatePayment opens a payment attempt for the user's order
// 201 — payment created, response carries the redirect target.
// 400 — bad request format.
// 401 — user not authenticated.
// 404 — order not found or belongs to another user.
// 501 — unsupported payment provider.
// 502 — payment gateway unavailable.
// 500 — internal server error.
func (ph *PaymentHandler) CreatePayment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		orderID, err := strconv.ParseUint(chi.URLParam(r, "orderID"), 10, 64)
		if err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		var req createPaymentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		result, err := ph.svc.CreatePayment(r.Context(), payload.UserID, orderID, req.Provider)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrUnsupportedProvider):
				http.Error(w, "unsupported payment provider", http.StatusNotImplemented)
			case errors.Is(err, models.ErrDataNotFound):
				http.Error(w, "order not found", http.StatusNotFound)
			case errors.Is(err, models.ErrGatewayUnavailable):
				http.Error(w, "payment gateway unavailable", http.StatusBadGateway)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, createPaymentResponse{
			PaymentID:       result.PaymentID,
			Provider:        string(result.Provider),
			SessionID:       result.SessionID,
			ProviderOrderID: result.ProviderOrderID,
			RedirectURL:     result.RedirectURL,
		})
	}
}

type paymentResultResponse struct {
	PaymentID string `json:"payment_id"`
	Status    string `json:"status"`
	OrderID   uint64 `json:"order_id"`
}

// PayPalSuccess captures an approved PayPal payment after buyer redirect.
// PayPal appends the provider order id as the token query parameter.
// 200 — payment captured (idempotent on redelivery).
// 400 — missing payment_id or token.
// 404 — payment not found.
// 502 — gateway unavailable or capture rejected.
// 500 — internal server error.
func (ph *PaymentHandler) PayPalSuccess() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		paymentID := r.URL.Query().Get("payment_id")
		token := r.URL.Query().Get("token")
		if paymentID == "" || token == "" {
			http.Error(w, "payment_id and token are required", http.StatusBadRequest)
			return
		}

		payment, err := ph.svc.ConfirmPayPal(r.Context(), paymentID, token)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrDataNotFound):
				http.Error(w, "payment not found", http.StatusNotFound)
			case errors.Is(err, models.ErrGatewayUnavailable), errors.Is(err, models.ErrCaptureFailed):
				http.Error(w, "payment capture failed", http.StatusBadGateway)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, paymentResultResponse{
			PaymentID: payment.ID,
			Status:    string(payment.Status),
			OrderID:   payment.OrderID,
		})
	}
}

// PayPalCancel records a buyer-cancelled PayPal payment
// 200 — cancellation recorded.
// 400 — missing payment_id.
// 404 — payment not found.
// 500 — internal server error.
func (ph *PaymentHandler) PayPalCancel() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		paymentID := r.URL.Query().Get("payment_id")
		if paymentID == "" {
			http.Error(w, "payment_id is required", http.StatusBadRequest)
			return
		}

		payment, err := ph.svc.CancelPayPal(r.Context(), paymentID)
		if err != nil {
			if errors.Is(err, models.ErrDataNotFound) {
				http.Error(w, "payment not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, paymentResultResponse{
			PaymentID: payment.ID,
			Status:    string(payment.Status),
			OrderID:   payment.OrderID,
		})
	}
}

// StripeWebhook receives Stripe event deliveries.
// Rejects with 400 only when the signature or payload is invalid so that
// Stripe retries nothing it should not; everything else is acknowledged.
// 200 — event acknowledged.
// 400 — invalid signature or payload.
func (ph *PaymentHandler) StripeWebhook() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
		if err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		err = ph.svc.HandleStripeWebhook(r.Context(), body, r.Header.Get("Stripe-Signature"))
		if err != nil {
			if errors.Is(err, models.ErrInvalidSignature) || errors.Is(err, models.ErrInvalidPayload) {
				http.Error(w, "invalid webhook", http.StatusBadRequest)
				return
			}
			// processing failures are logged downstream and swept by the
			// reconciliation worker, the delivery itself is acknowledged
		}

		w.WriteHeader(http.StatusOK)
	}
}
