package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopmart/storefront/internal/models"
)

type AdminOrderService interface {
	// GetOrder returns order by id
	GetOrder(ctx context.Context, id uint64) (*models.Order, error)
	// ListOrders returns all orders, optionally filtered by status
	ListOrders(ctx context.Context, status models.OrderStatus) ([]models.Order, error)
	// TransitionTo moves the order to newStatus on behalf of actor
	TransitionTo(ctx context.Context, order *models.Order, newStatus models.OrderStatus, actor *models.TokenPayload, note string) error
	// Cancel cancels the order recording the reason
	Cancel(ctx context.Context, order *models.Order, actor *models.TokenPayload, reason string) error
	// StatusHistory returns order status history, newest first
	StatusHistory(ctx context.Context, orderID uint64) ([]models.StatusHistory, error)
}

// AdminOrderHandler represents HTTP handler for order management requests
type AdminOrderHandler struct {
	svc AdminOrderService
}

// NewAdminOrderHandler creates new AdminOrderHandler instance
func NewAdminOrderHandler(svc AdminOrderService) *AdminOrderHandler {
	return &AdminOrderHandler{svc: svc}
}

// ListOrders returns all orders, optionally filtered by ?status=
// 200 — successful request.
// 400 — unknown status value.
// 401 — user not authenticated.
// 403 — user is not an admin.
// 500 — internal server error.
func (ah *AdminOrderHandler) ListOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var status models.OrderStatus
		if raw := r.URL.Query().Get("status"); raw != "" {
			parsed, err := models.ParseOrderStatus(raw)
			if err != nil {
				http.Error(w, "unknown status", http.StatusBadRequest)
				return
			}
			status = parsed
		}

		orders, err := ah.svc.ListOrders(r.Context(), status)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		resp := make([]orderResponse, 0, len(orders))
		for i := range orders {
			resp = append(resp, newOrderResponse(&orders[i]))
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

type adminOrderDetailResponse struct {
	orderResponse
	History              []statusHistoryResponse `json:"history"`
	AvailableTransitions []models.OrderStatus    `json:"available_transitions"`
	CanBeCancelled       bool                    `json:"can_be_cancelled"`
}

// GetOrder returns order with history and the transitions it may take next
// 200 — successful request.
// 400 — bad order id.
// 404 — order not found.
// 500 — internal server error.
func (ah *AdminOrderHandler) GetOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := strconv.ParseUint(chi.URLParam(r, "orderID"), 10, 64)
		if err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		order, err := ah.svc.GetOrder(r.Context(), orderID)
		if err != nil {
			if errors.Is(err, models.ErrDataNotFound) {
				http.Error(w, "order not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		history, err := ah.svc.StatusHistory(r.Context(), order.ID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, adminOrderDetailResponse{
			orderResponse:        newOrderResponse(order),
			History:              newStatusHistoryResponse(history),
			AvailableTransitions: order.AvailableTransitions(),
			CanBeCancelled:       order.CanBeCancelled(),
		})
	}
}

type updateStatusRequest struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

type updateStatusResponse struct {
	OrderNumber string             `json:"order_number"`
	Status      models.OrderStatus `json:"status"`
	StatusLabel string             `json:"status_label"`
	Message     string             `json:"message"`
}

// UpdateStatus moves the order to the requested status
// 200 — status updated (or already at the requested status).
// 400 — bad request format, unknown status or transition not allowed.
// 404 — order not found.
// 500 — internal server error.
func (ah *AdminOrderHandler) UpdateStatus() http.HandlerFunc {
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

		var req updateStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		newStatus, err := models.ParseOrderStatus(req.Status)
		if err != nil {
			http.Error(w, "unknown status", http.StatusBadRequest)
			return
		}

		order, err := ah.svc.GetOrder(r.Context(), orderID)
		if err != nil {
			if errors.Is(err, models.ErrDataNotFound) {
				http.Error(w, "order not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		if err := ah.svc.TransitionTo(r.Context(), order, newStatus, payload, req.Note); err != nil {
			var invalid *models.InvalidTransitionError
			if errors.As(err, &invalid) {
				http.Error(w, invalid.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, updateStatusResponse{
			OrderNumber: order.OrderNumber,
			Status:      newStatus,
			StatusLabel: newStatus.Label(),
			Message:     "Order status updated to " + newStatus.Label(),
		})
	}
}

type cancelOrderRequest struct {
	Reason string `json:"reason"`
}

// Cancel cancels the order with a mandatory reason
// 200 — order cancelled.
// 400 — missing reason or order cannot be cancelled.
// 404 — order not found.
// 500 — internal server error.
func (ah *AdminOrderHandler) Cancel() http.HandlerFunc {
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

		var req cancelOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Reason == "" {
			http.Error(w, "cancellation reason is required", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		order, err := ah.svc.GetOrder(r.Context(), orderID)
		if err != nil {
			if errors.Is(err, models.ErrDataNotFound) {
				http.Error(w, "order not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		if err := ah.svc.Cancel(r.Context(), order, payload, req.Reason); err != nil {
			var invalid *models.InvalidTransitionError
			switch {
			case errors.Is(err, models.ErrCannotCancel), errors.As(err, &invalid):
				http.Error(w, "order cannot be cancelled", http.StatusBadRequest)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, updateStatusResponse{
			OrderNumber: order.OrderNumber,
			Status:      models.OrderStatusCancelled,
			StatusLabel: models.OrderStatusCancelled.Label(),
			Message:     "Order cancelled",
		})
	}
}
