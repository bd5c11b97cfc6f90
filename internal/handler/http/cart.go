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

type CartService interface {
	// GetCart returns user cart items with resolved products
	GetCart(ctx context.Context, userID uint64) ([]models.CartItem, error)
	// AddToCart adds product to user cart
	AddToCart(ctx context.Context, userID, productID uint64, quantity int32) (*models.CartItem, error)
	// UpdateQuantity sets cart line item quantity
	UpdateQuantity(ctx context.Context, userID, itemID uint64, quantity int32) (*models.CartItem, error)
	// RemoveItem deletes one line item from user cart
	RemoveItem(ctx context.Context, userID, itemID uint64) error
	// ClearCart deletes all user cart items
	ClearCart(ctx context.Context, userID uint64) error
}

// CartHandler represents HTTP handler for cart-related requests
type CartHandler struct {
	svc CartService
}

// NewCartHandler creates new CartHandler instance
func NewCartHandler(svc CartService) *CartHandler {
	return &CartHandler{svc: svc}
}

type cartItemResponse struct {
	ID        uint64 `json:"id"`
	ProductID uint64 `json:"product_id"`
	Name      string `json:"name,omitempty"`
	Price     int64  `json:"price,omitempty"`
	Quantity  int32  `json:"quantity"`
	Subtotal  int64  `json:"subtotal,omitempty"`
}

// GetCart returns user cart
// 200 — successful request.
// 401 — user not authenticated.
// 500 — internal server error.
func (ch *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := ch.svc.GetCart(r.Context(), payload.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		resp := make([]cartItemResponse, 0, len(items))
		for _, item := range items {
			ir := cartItemResponse{
				ID:        item.ID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
			}
			if item.Product != nil {
				ir.Name = item.Product.Name
				ir.Price = item.Product.Price
				ir.Subtotal = item.Product.Price * int64(item.Quantity)
			}
			resp = append(resp, ir)
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

type addToCartRequest struct {
	ProductID uint64 `json:"product_id"`
	Quantity  int32  `json:"quantity"`
}

// AddToCart adds product to user cart
// 201 — item added.
// 400 — bad request format or product unavailable.
// 401 — user not authenticated.
// 404 — product not found.
// 500 — internal server error.
func (ch *CartHandler) AddToCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req addToCartRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		if req.ProductID == 0 || req.Quantity <= 0 {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		item, err := ch.svc.AddToCart(r.Context(), payload.UserID, req.ProductID, req.Quantity)
		if err != nil {
			var unavailable *models.ProductUnavailableError
			var outOfStock *models.InsufficientStockError
			switch {
			case errors.Is(err, models.ErrDataNotFound):
				http.Error(w, "product not found", http.StatusNotFound)
			case errors.As(err, &unavailable), errors.As(err, &outOfStock):
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, cartItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
}

type updateCartItemRequest struct {
	Quantity int32 `json:"quantity"`
}

// UpdateCartItem sets line item quantity
// 200 — item updated.
// 400 — bad request format.
// 401 — user not authenticated.
// 404 — item not found.
// 500 — internal server error.
func (ch *CartHandler) UpdateCartItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		itemID, err := strconv.ParseUint(chi.URLParam(r, "itemID"), 10, 64)
		if err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		var req updateCartItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Quantity <= 0 {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		item, err := ch.svc.UpdateQuantity(r.Context(), payload.UserID, itemID, req.Quantity)
		if err != nil {
			if errors.Is(err, models.ErrDataNotFound) {
				http.Error(w, "item not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, cartItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
}

// RemoveCartItem deletes one line item
// 204 — item removed.
// 401 — user not authenticated.
// 404 — item not found.
// 500 — internal server error.
func (ch *CartHandler) RemoveCartItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		itemID, err := strconv.ParseUint(chi.URLParam(r, "itemID"), 10, 64)
		if err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		if err := ch.svc.RemoveItem(r.Context(), payload.UserID, itemID); err != nil {
			if errors.Is(err, models.ErrDataNotFound) {
				http.Error(w, "item not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// ClearCart deletes all user cart items
// 204 — cart cleared.
// 401 — user not authenticated.
// 500 — internal server error.
func (ch *CartHandler) ClearCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := ch.svc.ClearCart(r.Context(), payload.UserID); err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
