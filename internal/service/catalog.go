package service

import (
	"context"

	"github.com/shopmart/storefront/internal/models"
)

// ProductRepository is interface for interacting with product-related data
type ProductRepository interface {
	// CreateProduct inserts new product
	CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	// UpdateProduct updates product fields
	UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	// GetProductByID returns product by id
	GetProductByID(ctx context.Context, id uint64) (*models.Product, error)
	// ListActiveProducts returns active products, newest first
	ListActiveProducts(ctx context.Context) ([]models.Product, error)
}

// CatalogService implements CatalogService interface
type CatalogService struct {
	repo ProductRepository
}

// NewCatalogService creates new CatalogService instance
func NewCatalogService(repo ProductRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

// ListProducts returns active products
func (cs *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return cs.repo.ListActiveProducts(ctx)
}

// GetProduct returns product by id
func (cs *CatalogService) GetProduct(ctx context.Context, id uint64) (*models.Product, error) {
	return cs.repo.GetProductByID(ctx, id)
}

// CreateProduct adds new product to the catalog
func (cs *CatalogService) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	return cs.repo.CreateProduct(ctx, product)
}

// UpdateProduct updates existing product
func (cs *CatalogService) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	return cs.repo.UpdateProduct(ctx, product)
}
