package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductCategory is the storefront grouping for a product.
type ProductCategory string

const (
	CategoryParfum   ProductCategory = "parfum"
	CategoryCosmetic ProductCategory = "cosmetic"
)

// Valid reports whether the category is one of the known values.
func (c ProductCategory) Valid() bool {
	return c == CategoryParfum || c == CategoryCosmetic
}

// Product is a sellable catalog listing. Stock is decremented only by the
// order engine; admin edits set it absolutely.
type Product struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	BrandID     uuid.UUID       `gorm:"column:brand_id;type:uuid;not null" json:"brandId"`
	Brand       *Brand          `gorm:"foreignKey:BrandID;constraint:OnDelete:RESTRICT" json:"brand,omitempty"`
	Name        string          `gorm:"column:name;not null" json:"name"`
	Slug        string          `gorm:"column:slug;not null;uniqueIndex" json:"slug"`
	Description *string         `gorm:"column:description" json:"description,omitempty"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null" json:"price"`
	Stock       int             `gorm:"column:stock;not null;default:0" json:"stock"`
	ImageURL    *string         `gorm:"column:image_url" json:"imageUrl,omitempty"`
	Category    ProductCategory `gorm:"column:category;type:text;not null;default:'parfum'" json:"category"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (p *Product) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
