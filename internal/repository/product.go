package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopmart/storefront/internal/models"
	"github.com/shopmart/storefront/internal/repository/postgres"
)

const (
	insertProductQuery = `
						INSERT INTO products (name, slug, sku, description, price, stock, is_active)
						VALUES ($1, $2, $3, $4, $5, $6, $7)
						RETURNING id, name, slug, sku, description, price, stock, is_active, created_at
`
	updateProductQuery = `
						UPDATE products
						SET name = $1, slug = $2, sku = $3, description = $4, price = $5, stock = $6, is_active = $7
						WHERE id = $8
						RETURNING id, name, slug, sku, description, price, stock, is_active, created_at
`
	selectProductByIDQuery = `
						SELECT id, name, slug, sku, description, price, stock, is_active, created_at FROM products
						WHERE id = $1
`
	selectActiveProductsQuery = `
						SELECT id, name, slug, sku, description, price, stock, is_active, created_at FROM products
						WHERE is_active
						ORDER BY created_at DESC
`
)

// ProductRepository implements ProductRepository interface
type ProductRepository struct {
	db *postgres.DB
}

// NewProductRepository creates new ProductRepository instance
func NewProductRepository(db *postgres.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// CreateProduct inserts new product to database
func (pr *ProductRepository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	err := pr.db.QueryRow(ctx, insertProductQuery,
		product.Name, product.Slug, product.SKU, product.Description, product.Price, product.Stock, product.IsActive).
		Scan(&product.ID, &product.Name, &product.Slug, &product.SKU, &product.Description,
			&product.Price, &product.Stock, &product.IsActive, &product.CreatedAt)
	if err != nil {
		if errCode := pr.db.ErrorCode(err); errCode == pgErrUniqueViolationCode {
			return nil, models.ErrConflictData
		}
		return nil, err
	}

	return product, nil
}

// UpdateProduct updates product fields
func (pr *ProductRepository) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	err := pr.db.QueryRow(ctx, updateProductQuery,
		product.Name, product.Slug, product.SKU, product.Description, product.Price, product.Stock, product.IsActive, product.ID).
		Scan(&product.ID, &product.Name, &product.Slug, &product.SKU, &product.Description,
			&product.Price, &product.Stock, &product.IsActive, &product.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		if errCode := pr.db.ErrorCode(err); errCode == pgErrUniqueViolationCode {
			return nil, models.ErrConflictData
		}
		return nil, err
	}

	return product, nil
}

// GetProductByID returns product by id
func (pr *ProductRepository) GetProductByID(ctx context.Context, id uint64) (*models.Product, error) {
	product := models.Product{}
	err := pr.db.QueryRow(ctx, selectProductByIDQuery, id).
		Scan(&product.ID, &product.Name, &product.Slug, &product.SKU, &product.Description,
			&product.Price, &product.Stock, &product.IsActive, &product.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &product, nil
}

// ListActiveProducts returns active products, newest first
func (pr *ProductRepository) ListActiveProducts(ctx context.Context) ([]models.Product, error) {
	rows, err := pr.db.Query(ctx, selectActiveProductsQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []models.Product{}

	for rows.Next() {
		product := models.Product{}
		err = rows.Scan(&product.ID, &product.Name, &product.Slug, &product.SKU, &product.Description,
			&product.Price, &product.Stock, &product.IsActive, &product.CreatedAt)
		if err != nil {
			continue
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}
