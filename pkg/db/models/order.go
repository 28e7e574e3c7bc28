package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderStatus tracks order progress. There is no payment step, so orders
// are confirmed the moment the placement transaction commits.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
)

// Order is a committed checkout. Rows are written only by the order engine
// and never mutated afterwards; admins may delete one whole.
type Order struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CustomerName  string          `gorm:"column:customer_name;not null" json:"customerName"`
	CustomerEmail string          `gorm:"column:customer_email;not null" json:"customerEmail"`
	Phone         string          `gorm:"column:phone;not null" json:"phone"`
	Address       string          `gorm:"column:address;not null" json:"address"`
	TotalAmount   decimal.Decimal `gorm:"column:total_amount;type:numeric(10,2);not null" json:"totalAmount"`
	Status        OrderStatus     `gorm:"column:status;type:text;not null;default:'confirmed'" json:"status"`
	Items         []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

func (o *Order) BeforeCreate(_ *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
