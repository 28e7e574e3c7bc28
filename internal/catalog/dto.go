package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aromaten/aromaten-backend/pkg/db/models"
	"github.com/aromaten/aromaten-backend/pkg/pagination"
)

// BrandDTO represents a brand payload returned to clients.
type BrandDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

// ProductDTO represents the catalog product payload returned to clients.
type ProductDTO struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	ImageURL    *string         `json:"image_url,omitempty"`
	Category    string          `json:"category"`
	Brand       *BrandDTO       `json:"brand,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductListResult bundles one product page with listing metadata.
type ProductListResult struct {
	Products []ProductDTO    `json:"products"`
	Page     pagination.Page `json:"pagination"`
}

// NewBrandDTO builds a DTO from the persisted model.
func NewBrandDTO(brand *models.Brand) *BrandDTO {
	return &BrandDTO{
		ID:        brand.ID,
		Name:      brand.Name,
		Slug:      brand.Slug,
		CreatedAt: brand.CreatedAt,
	}
}

// NewProductDTO builds a DTO from the persisted model.
func NewProductDTO(product *models.Product) *ProductDTO {
	dto := &ProductDTO{
		ID:          product.ID,
		Name:        product.Name,
		Slug:        product.Slug,
		Description: product.Description,
		Price:       product.Price,
		Stock:       product.Stock,
		ImageURL:    product.ImageURL,
		Category:    string(product.Category),
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
	if product.Brand != nil {
		dto.Brand = NewBrandDTO(product.Brand)
	}
	return dto
}
