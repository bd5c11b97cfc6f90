package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopmart/storefront/internal/models"
	"github.com/shopmart/storefront/internal/service"
)

type CheckoutService interface {
	// Checkout converts the user's cart into a pending order
	Checkout(ctx context.Context, userID uint64, req service.CheckoutRequest) (*models.Order, error)
}

// CheckoutHandler represents HTTP handler for checkout requests
type CheckoutHandler struct {
	svc CheckoutService
}

// NewCheckoutHandler creates new CheckoutHandler instance
func NewCheckoutHandler(svc CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{svc: svc}
}

type checkoutRequest struct {
	ShippingName    string `json:"shipping_name"`
	ShippingAddress string `json:"shipping_address"`
	ShippingCity    string `json:"shipping_city"`
	ShippingState   string `json:"shipping_state"`
	ShippingZipcode string `json:"shipping_zipcode"`
	ShippingCountry string `json:"shipping_country"`
	ShippingPhone   string `json:"shipping_phone"`
	PaymentMethod   string `json:"payment_method"`
	Notes           string `json:"notes"`
}

type orderResponse struct {
	ID            uint64              `json:"id"`
	OrderNumber   string              `json:"order_number"`
	Status        models.OrderStatus  `json:"status"`
	StatusLabel   string              `json:"status_label"`
	PaymentStatus string              `json:"payment_status"`
	Subtotal      int64               `json:"subtotal"`
	Tax           int64               `json:"tax"`
	ShippingCost  int64               `json:"shipping_cost"`
	Total         int64               `json:"total"`
	CreatedAt     string              `json:"created_at"`
	Items         []orderItemResponse `json:"items,omitempty"`
}

type orderItemResponse struct {
	ProductID   uint64 `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int32  `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
	Subtotal    int64  `json:"subtotal"`
}

func newOrderResponse(order *models.Order) orderResponse {
	resp := orderResponse{
		ID:            order.ID,
		OrderNumber:   order.OrderNumber,
		Status:        order.Status,
		StatusLabel:   order.Status.Label(),
		PaymentStatus: string(order.PaymentStatus),
		Subtotal:      order.Subtotal,
		Tax:           order.Tax,
		ShippingCost:  order.ShippingCost,
		Total:         order.Total,
		CreatedAt:     order.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	for _, item := range order.Items {
		resp.Items = append(resp.Items, orderItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal,
		})
	}
	return resp
}

// Checkout converts the authenticated user's cart into a pending order
// 201 — order created.
// 400 — bad request format, empty cart, unavailable product or insufficient stock.
// 401 — user not authenticated.
// 500 — internal server error.
func (ch *CheckoutHandler) Checkout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req checkoutRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		if req.ShippingName == "" || req.ShippingAddress == "" {
			http.Error(w, "shipping name and address are required", http.StatusBadRequest)
			return
		}

		order, err := ch.svc.Checkout(r.Context(), payload.UserID, service.CheckoutRequest{
			ShippingName:    req.ShippingName,
			ShippingAddress: req.ShippingAddress,
			ShippingCity:    req.ShippingCity,
			ShippingState:   req.ShippingState,
			ShippingZipcode: req.ShippingZipcode,
			ShippingCountry: req.ShippingCountry,
			ShippingPhone:   req.ShippingPhone,
			PaymentMethod:   req.PaymentMethod,
			Notes:           req.Notes,
		})
		if err != nil {
			var unavailable *models.ProductUnavailableError
			var outOfStock *models.InsufficientStockError
			switch {
			case errors.Is(err, models.ErrEmptyCart):
				http.Error(w, "cart is empty", http.StatusBadRequest)
			case errors.As(err, &unavailable), errors.As(err, &outOfStock):
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, newOrderResponse(order))
	}
}
