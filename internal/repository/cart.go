package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopmart/storefront/internal/models"
	"github.com/shopmart/storefront/internal/repository/postgres"
)

const (
	selectCartItemsQuery = `
						SELECT ci.id, ci.user_id, ci.product_id, ci.quantity, ci.created_at,
						       p.id, p.name, p.slug, p.sku, p.description, p.price, p.stock, p.is_active, p.created_at
						FROM cart_items ci
						JOIN products p ON p.id = ci.product_id
						WHERE ci.user_id = $1
						ORDER BY ci.created_at
`
	upsertCartItemQuery = `
						INSERT INTO cart_items (user_id, product_id, quantity)
						VALUES ($1, $2, $3)
						ON CONFLICT (user_id, product_id)
						DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
						RETURNING id, user_id, product_id, quantity, created_at
`
	updateCartItemQuery = `
						UPDATE cart_items
						SET quantity = $1
						WHERE id = $2 AND user_id = $3
						RETURNING id, user_id, product_id, quantity, created_at
`
	deleteCartItemQuery = `
						DELETE FROM cart_items
						WHERE id = $1 AND user_id = $2
`
	clearCartQuery = `
						DELETE FROM cart_items
						WHERE user_id = $1
`
)

// CartRepository implements CartRepository interface
type CartRepository struct {
	db *postgres.DB
}

// NewCartRepository creates new CartRepository instance
func NewCartRepository(db *postgres.DB) *CartRepository {
	return &CartRepository{db: db}
}

// GetCartItems returns user cart items with resolved products
func (cr *CartRepository) GetCartItems(ctx context.Context, userID uint64) ([]models.CartItem, error) {
	rows, err := cr.db.Query(ctx, selectCartItemsQuery, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.CartItem{}

	for rows.Next() {
		item := models.CartItem{Product: &models.Product{}}
		err = rows.Scan(&item.ID, &item.UserID, &item.ProductID, &item.Quantity, &item.CreatedAt,
			&item.Product.ID, &item.Product.Name, &item.Product.Slug, &item.Product.SKU, &item.Product.Description,
			&item.Product.Price, &item.Product.Stock, &item.Product.IsActive, &item.Product.CreatedAt)
		if err != nil {
			continue
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// AddItem adds product to user cart, summing quantity for existing line
func (cr *CartRepository) AddItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error) {
	err := cr.db.QueryRow(ctx, upsertCartItemQuery, item.UserID, item.ProductID, item.Quantity).
		Scan(&item.ID, &item.UserID, &item.ProductID, &item.Quantity, &item.CreatedAt)
	if err != nil {
		return nil, err
	}

	return item, nil
}

// UpdateItemQuantity sets line item quantity
func (cr *CartRepository) UpdateItemQuantity(ctx context.Context, userID, itemID uint64, quantity int32) (*models.CartItem, error) {
	item := models.CartItem{}
	err := cr.db.QueryRow(ctx, updateCartItemQuery, quantity, itemID, userID).
		Scan(&item.ID, &item.UserID, &item.ProductID, &item.Quantity, &item.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &item, nil
}

// RemoveItem deletes one line item from user cart
func (cr *CartRepository) RemoveItem(ctx context.Context, userID, itemID uint64) error {
	cmd, err := cr.db.Exec(ctx, deleteCartItemQuery, itemID, userID)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrDataNotFound
	}

	return nil
}

// ClearCart deletes all user cart items
func (cr *CartRepository) ClearCart(ctx context.Context, userID uint64) error {
	_, err := cr.db.Exec(ctx, clearCartQuery, userID)
	return err
}
