package models

import "time"

// CartItem is user's cart line item
type CartItem struct {
	ID        uint64
	UserID    uint64
	ProductID uint64
	Quantity  int32
	CreatedAt time.Time

	// Product is resolved product reference, set when the cart is read
	Product *Product
}
