package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aromaten/aromaten-backend/pkg/db/models"
	"github.com/aromaten/aromaten-backend/pkg/pagination"
)

// OrderDTO represents a committed order returned to clients.
type OrderDTO struct {
	ID            uuid.UUID       `json:"id"`
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email"`
	Phone         string          `json:"phone"`
	Address       string          `json:"address"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Status        string          `json:"status"`
	Items         []OrderItemDTO  `json:"items"`
	CreatedAt     time.Time       `json:"created_at"`
}

// OrderItemDTO is one snapshotted line of an order.
type OrderItemDTO struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
}

// OrderSummaryDTO is one row of the admin order listing. Line items are
// loaded separately through the order-items endpoint.
type OrderSummaryDTO struct {
	ID            uuid.UUID       `json:"id"`
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email"`
	Phone         string          `json:"phone"`
	Address       string          `json:"address"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

// OrderListResult bundles one order page with listing metadata.
type OrderListResult struct {
	Orders []OrderSummaryDTO `json:"orders"`
	Page   pagination.Page   `json:"pagination"`
}

// NewOrderSummaryDTO builds a listing row from the persisted model.
func NewOrderSummaryDTO(order *models.Order) OrderSummaryDTO {
	return OrderSummaryDTO{
		ID:            order.ID,
		CustomerName:  order.CustomerName,
		CustomerEmail: order.CustomerEmail,
		Phone:         order.Phone,
		Address:       order.Address,
		TotalAmount:   order.TotalAmount,
		Status:        string(order.Status),
		CreatedAt:     order.CreatedAt,
	}
}

// NewOrderDTO builds a DTO from the persisted model.
func NewOrderDTO(order *models.Order) *OrderDTO {
	dto := &OrderDTO{
		ID:            order.ID,
		CustomerName:  order.CustomerName,
		CustomerEmail: order.CustomerEmail,
		Phone:         order.Phone,
		Address:       order.Address,
		TotalAmount:   order.TotalAmount,
		Status:        string(order.Status),
		Items:         make([]OrderItemDTO, 0, len(order.Items)),
		CreatedAt:     order.CreatedAt,
	}
	for _, item := range order.Items {
		dto.Items = append(dto.Items, OrderItemDTO{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
		})
	}
	return dto
}
