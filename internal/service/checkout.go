package service

import (
	"context"
	"fmt"

	"github.com/shopmart/storefront/internal/logger"
	"github.com/shopmart/storefront/internal/models"
	"go.uber.org/zap"
)

// amounts are minor units
const (
	taxRatePercent    = 10
	shippingCostCents = 5000
)

// CheckoutCartRepository is interface for reading the user's cart
type CheckoutCartRepository interface {
	// GetCartItems returns user cart items with resolved products
	GetCartItems(ctx context.Context, userID uint64) ([]models.CartItem, error)
}

// CheckoutOrderRepository is interface for the atomic checkout write
type CheckoutOrderRepository interface {
	// CreateOrder creates order with items, decrements stock and clears the cart atomically
	CreateOrder(ctx context.Context, order *models.Order, items []models.OrderItem) (*models.Order, error)
}

// CheckoutRequest is shipping and payment details for checkout
type CheckoutRequest struct {
	ShippingName    string
	ShippingAddress string
	ShippingCity    string
	ShippingState   string
	ShippingZipcode string
	ShippingCountry string
	ShippingPhone   string
	PaymentMethod   string
	Notes           string
}

// CheckoutService implements CheckoutService interface
type CheckoutService struct {
	carts  CheckoutCartRepository
	orders CheckoutOrderRepository
}

// NewCheckoutService creates new CheckoutService instance
func NewCheckoutService(carts CheckoutCartRepository, orders CheckoutOrderRepository) *CheckoutService {
	return &CheckoutService{
		carts:  carts,
		orders: orders,
	}
}

// Checkout converts the user's cart into a pending order.
//
// Validation failures (empty cart, unavailable product, insufficient stock)
// are reported before anything is written. The write itself is one
// transaction in the repository: order, line items, stock decrements and
// cart clear all commit or all roll back.
func (cs *CheckoutService) Checkout(ctx context.Context, userID uint64, req CheckoutRequest) (*models.Order, error) {
	cartItems, err := cs.carts.GetCartItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cartItems) == 0 {
		return nil, models.ErrEmptyCart
	}

	var subtotal int64
	items := make([]models.OrderItem, 0, len(cartItems))

	for _, cartItem := range cartItems {
		product := cartItem.Product

		if !product.IsActive {
			return nil, &models.ProductUnavailableError{Name: product.Name}
		}
		if product.Stock < cartItem.Quantity {
			return nil, &models.InsufficientStockError{Name: product.Name}
		}

		itemSubtotal := product.Price * int64(cartItem.Quantity)
		subtotal += itemSubtotal

		items = append(items, models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			ProductSKU:  product.SKU,
			Quantity:    cartItem.Quantity,
			UnitPrice:   product.Price,
			Subtotal:    itemSubtotal,
		})
	}

	tax := subtotal * taxRatePercent / 100

	order := &models.Order{
		UserID:          userID,
		OrderNumber:     models.GenerateOrderNumber(),
		Status:          models.OrderStatusPending,
		PaymentStatus:   models.PaymentStatusPending,
		PaymentMethod:   req.PaymentMethod,
		ShippingName:    req.ShippingName,
		ShippingAddress: req.ShippingAddress,
		ShippingCity:    req.ShippingCity,
		ShippingState:   req.ShippingState,
		ShippingZipcode: req.ShippingZipcode,
		ShippingCountry: req.ShippingCountry,
		ShippingPhone:   req.ShippingPhone,
		Subtotal:        subtotal,
		Tax:             tax,
		ShippingCost:    shippingCostCents,
		Total:           subtotal + tax + shippingCostCents,
		Notes:           req.Notes,
	}

	order, err = cs.orders.CreateOrder(ctx, order, items)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	logger.Log.Info("order created",
		zap.String("order", order.OrderNumber),
		zap.Uint64("user_id", userID),
		zap.Int64("total", order.Total))

	return order, nil
}
