package offers

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aromaten/aromaten-backend/pkg/db/models"
)

// OfferDTO represents a weekly offer payload returned to clients.
type OfferDTO struct {
	ID          uuid.UUID         `json:"id"`
	Title       string            `json:"title"`
	Description *string           `json:"description,omitempty"`
	ComboPrice  decimal.Decimal   `json:"combo_price"`
	Stock       int               `json:"stock"`
	IsActive    bool              `json:"is_active"`
	StartsAt    *time.Time        `json:"starts_at,omitempty"`
	EndsAt      *time.Time        `json:"ends_at,omitempty"`
	Products    []OfferProductDTO `json:"products"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// OfferProductDTO describes one constituent of the bundle.
type OfferProductDTO struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Slug      string          `json:"slug"`
	Price     decimal.Decimal `json:"price"`
	ImageURL  *string         `json:"image_url,omitempty"`
	IsGift    bool            `json:"is_gift"`
}

// NewOfferDTO builds a DTO from the persisted model.
func NewOfferDTO(offer *models.WeeklyOffer) *OfferDTO {
	dto := &OfferDTO{
		ID:          offer.ID,
		Title:       offer.Title,
		Description: offer.Description,
		ComboPrice:  offer.ComboPrice,
		Stock:       offer.Stock,
		IsActive:    offer.IsActive,
		StartsAt:    offer.StartsAt,
		EndsAt:      offer.EndsAt,
		Products:    make([]OfferProductDTO, 0, len(offer.Products)),
		CreatedAt:   offer.CreatedAt,
		UpdatedAt:   offer.UpdatedAt,
	}
	for _, row := range offer.Products {
		item := OfferProductDTO{
			ProductID: row.ProductID,
			IsGift:    row.IsGift,
		}
		if row.Product != nil {
			item.Name = row.Product.Name
			item.Slug = row.Product.Slug
			item.Price = row.Product.Price
			item.ImageURL = row.Product.ImageURL
		}
		dto.Products = append(dto.Products, item)
	}
	return dto
}
