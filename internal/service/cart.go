package service

import (
	"context"

	"github.com/shopmart/storefront/internal/models"
)

// CartRepository is interface for interacting with cart-related data
type CartRepository interface {
	// GetCartItems returns user cart items with resolved products
	GetCartItems(ctx context.Context, userID uint64) ([]models.CartItem, error)
	// AddItem adds product to user cart
	AddItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error)
	// UpdateItemQuantity sets line item quantity
	UpdateItemQuantity(ctx context.Context, userID, itemID uint64, quantity int32) (*models.CartItem, error)
	// RemoveItem deletes one line item
	RemoveItem(ctx context.Context, userID, itemID uint64) error
	// ClearCart deletes all user cart items
	ClearCart(ctx context.Context, userID uint64) error
}

// CartService implements CartService interface
type CartService struct {
	repo     CartRepository
	products ProductRepository
}

// NewCartService creates new CartService instance
func NewCartService(repo CartRepository, products ProductRepository) *CartService {
	return &CartService{
		repo:     repo,
		products: products,
	}
}

// GetCart returns user cart items with resolved products
func (cs *CartService) GetCart(ctx context.Context, userID uint64) ([]models.CartItem, error) {
	return cs.repo.GetCartItems(ctx, userID)
}

// AddToCart adds product to user cart after checking it is available
func (cs *CartService) AddToCart(ctx context.Context, userID, productID uint64, quantity int32) (*models.CartItem, error) {
	product, err := cs.products.GetProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, &models.ProductUnavailableError{Name: product.Name}
	}
	if product.Stock < quantity {
		return nil, &models.InsufficientStockError{Name: product.Name}
	}

	return cs.repo.AddItem(ctx, &models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	})
}

// UpdateQuantity sets cart line item quantity
func (cs *CartService) UpdateQuantity(ctx context.Context, userID, itemID uint64, quantity int32) (*models.CartItem, error) {
	return cs.repo.UpdateItemQuantity(ctx, userID, itemID, quantity)
}

// RemoveItem deletes one line item from user cart
func (cs *CartService) RemoveItem(ctx context.Context, userID, itemID uint64) error {
	return cs.repo.RemoveItem(ctx, userID, itemID)
}

// ClearCart deletes all user cart items
func (cs *CartService) ClearCart(ctx context.Context, userID uint64) error {
	return cs.repo.ClearCart(ctx, userID)
}
