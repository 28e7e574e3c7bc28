package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// WeeklyOffer is a timed combo promotion sold as one unit at ComboPrice.
// At most one offer is active at a time; activating one deactivates the
// rest inside the same transaction. StartsAt/EndsAt are display data and
// are not checked at order time.
type WeeklyOffer struct {
	ID          uuid.UUID            `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Title       string               `gorm:"column:title;not null" json:"title"`
	Description *string              `gorm:"column:description" json:"description,omitempty"`
	ComboPrice  decimal.Decimal      `gorm:"column:combo_price;type:numeric(10,2);not null" json:"comboPrice"`
	Stock       int                  `gorm:"column:stock;not null;default:0" json:"stock"`
	IsActive    bool                 `gorm:"column:is_active;not null;default:false" json:"isActive"`
	StartsAt    *time.Time           `gorm:"column:starts_at" json:"startsAt,omitempty"`
	EndsAt      *time.Time           `gorm:"column:ends_at" json:"endsAt,omitempty"`
	Products    []WeeklyOfferProduct `gorm:"foreignKey:OfferID;constraint:OnDelete:CASCADE" json:"products,omitempty"`
	CreatedAt   time.Time            `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time            `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (o *WeeklyOffer) BeforeCreate(_ *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// WeeklyOfferProduct links an offer to a constituent product. Exactly one
// row per offer carries IsGift = true.
type WeeklyOfferProduct struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OfferID   uuid.UUID `gorm:"column:offer_id;type:uuid;not null" json:"offerId"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null" json:"productId"`
	Product   *Product  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"product,omitempty"`
	IsGift    bool      `gorm:"column:is_gift;not null;default:false" json:"isGift"`
}

func (p *WeeklyOfferProduct) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
