package models

import "time"

// Product is catalog product entity. Price is minor units (cents).
type Product struct {
	ID          uint64
	Name        string
	Slug        string
	SKU         string
	Description string
	Price       int64
	Stock       int32
	IsActive    bool
	CreatedAt   time.Time
}

// InStock reports whether the product has any stock left
func (p *Product) InStock() bool {
	return p.Stock > 0
}
