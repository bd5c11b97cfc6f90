package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopmart/storefront/internal/models"
)

type OrderService interface {
	// GetUserOrder returns the order if it belongs to userID
	GetUserOrder(ctx context.Context, userID, orderID uint64) (*models.Order, error)
	// ListUserOrders returns user orders, newest first
	ListUserOrders(ctx context.Context, userID uint64) ([]models.Order, error)
	// StatusHistory returns order status history, newest first
	StatusHistory(ctx context.Context, orderID uint64) ([]models.StatusHistory, error)
}

// OrderHandler represents HTTP handler for customer order requests
type OrderHandler struct {
	svc OrderService
}

// NewOrderHandler creates new OrderHandler instance
func NewOrderHandler(svc OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

type statusHistoryResponse struct {
	FromStatus *models.OrderStatus `json:"from_status"`
	ToStatus   models.OrderStatus  `json:"to_status"`
	ChangedBy  *uint64             `json:"changed_by"`
	Note       string              `json:"note,omitempty"`
	CreatedAt  string              `json:"created_at"`
}

func newStatusHistoryResponse(history []models.StatusHistory) []statusHistoryResponse {
	resp := make([]statusHistoryResponse, 0, len(history))
	for _, h := range history {
		resp = append(resp, statusHistoryResponse{
			FromStatus: h.FromStatus,
			ToStatus:   h.ToStatus,
			ChangedBy:  h.ChangedBy,
			Note:       h.Note,
			CreatedAt:  h.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	return resp
}

// ListOrders returns authenticated user's orders, newest first
// 200 — successful request.
// 401 — user not authenticated.
// 500 — internal server error.
func (oh *OrderHandler) ListOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		orders, err := oh.svc.ListUserOrders(r.Context(), payload.UserID)
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

type orderDetailResponse struct {
	orderResponse
	History []statusHistoryResponse `json:"history"`
}

// GetOrder returns one of the authenticated user's orders with its history
// 200 — successful request.
// 400 — bad order id.
// 401 — user not authenticated.
// 404 — order not found or belongs to another user.
// 500 — internal server error.
func (oh *OrderHandler) GetOrder() http.HandlerFunc {
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

		order, err := oh.svc.GetUserOrder(r.Context(), payload.UserID, orderID)
		if err != nil {
			if errors.Is(err, models.ErrDataNotFound) {
				http.Error(w, "order not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		history, err := oh.svc.StatusHistory(r.Context(), order.ID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, orderDetailResponse{
			orderResponse: newOrderResponse(order),
			History:       newStatusHistoryResponse(history),
		})
	}
}
