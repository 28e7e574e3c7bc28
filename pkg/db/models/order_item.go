package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderItem captures one order line. ProductName and UnitPrice are snapshots
// taken at order time so later catalog edits never alter historical totals.
// A bundle line references a representative constituent product.
type OrderItem struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OrderID     uuid.UUID       `gorm:"column:order_id;type:uuid;not null" json:"orderId"`
	ProductID   uuid.UUID       `gorm:"column:product_id;type:uuid;not null" json:"productId"`
	Product     *Product        `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT" json:"-"`
	ProductName string          `gorm:"column:product_name;not null" json:"productName"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2);not null" json:"unitPrice"`
	Quantity    int             `gorm:"column:quantity;not null" json:"quantity"`
}

func (i *OrderItem) BeforeCreate(_ *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
