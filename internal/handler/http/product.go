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

type CatalogService interface {
	// ListProducts returns active products
	ListProducts(ctx context.Context) ([]models.Product, error)
	// GetProduct returns product by id
	GetProduct(ctx context.Context, id uint64) (*models.Product, error)
	// CreateProduct adds new product to the catalog
	CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	// UpdateProduct updates existing product
	UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
}

// ProductHandler represents HTTP handler for catalog requests
type ProductHandler struct {
	svc CatalogService
}

// NewProductHandler creates new ProductHandler instance
func NewProductHandler(svc CatalogService) *ProductHandler {
	return &ProductHandler{svc: svc}
}

type productResponse struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	SKU         string `json:"sku"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Stock       int32  `json:"stock"`
	IsActive    bool   `json:"is_active"`
}

func toProductResponse(p *models.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		SKU:         p.SKU,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		IsActive:    p.IsActive,
	}
}

// ListProducts returns active products
// 200 — successful request.
// 500 — internal server error.
func (ph *ProductHandler) ListProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := ph.svc.ListProducts(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		resp := make([]productResponse, 0, len(products))
		for i := range products {
			resp = append(resp, toProductResponse(&products[i]))
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// GetProduct returns one product
// 200 — successful request.
// 404 — product not found.
// 500 — internal server error.
func (ph *ProductHandler) GetProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		product, err := ph.svc.GetProduct(r.Context(), id)
		if err != nil {
			if errors.Is(err, models.ErrDataNotFound) {
				http.Error(w, "product not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toProductResponse(product))
	}
}

type productRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	SKU         string `json:"sku"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Stock       int32  `json:"stock"`
	IsActive    bool   `json:"is_active"`
}

// CreateProduct adds product to the catalog (admin only)
// 201 — product created.
// 400 — bad request format.
// 409 — slug or sku already exists.
// 500 — internal server error.
func (ph *ProductHandler) CreateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req productRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		if req.Name == "" || req.Price < 0 || req.Stock < 0 {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		product, err := ph.svc.CreateProduct(r.Context(), &models.Product{
			Name:        req.Name,
			Slug:        req.Slug,
			SKU:         req.SKU,
			Description: req.Description,
			Price:       req.Price,
			Stock:       req.Stock,
			IsActive:    req.IsActive,
		})
		if err != nil {
			if errors.Is(err, models.ErrConflictData) {
				http.Error(w, "product already exists", http.StatusConflict)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toProductResponse(product))
	}
}

// UpdateProduct updates existing product (admin only)
// 200 — product updated.
// 400 — bad request format.
// 404 — product not found.
// 500 — internal server error.
func (ph *ProductHandler) UpdateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		var req productRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		product, err := ph.svc.UpdateProduct(r.Context(), &models.Product{
			ID:          id,
			Name:        req.Name,
			Slug:        req.Slug,
			SKU:         req.SKU,
			Description: req.Description,
			Price:       req.Price,
			Stock:       req.Stock,
			IsActive:    req.IsActive,
		})
		if err != nil {
			if errors.Is(err, models.ErrDataNotFound) {
				http.Error(w, "product not found", http.StatusNotFound)
				return
			}
			if errors.Is(err, models.ErrConflictData) {
				http.Error(w, "product already exists", http.StatusConflict)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toProductResponse(product))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		return
	}
}
