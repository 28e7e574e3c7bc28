package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/aromaten/aromaten-backend/pkg/db/models"
	"github.com/aromaten/aromaten-backend/pkg/pagination"
)

// Repository handles order persistence and the locked stock reads used by
// the placement transaction.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// LockProduct loads a product row FOR UPDATE so concurrent placements
// serialize on it. The sqlite test driver drops the locking clause.
func (r *Repository) LockProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// LockOffer loads an offer FOR UPDATE along with its constituents.
func (r *Repository) LockOffer(ctx context.Context, id uuid.UUID) (*models.WeeklyOffer, error) {
	var offer models.WeeklyOffer
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&offer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).
		Preload("Product").
		Find(&offer.Products, "offer_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &offer, nil
}

// DecrementProductStock subtracts quantity from the product's stock.
func (r *Repository) DecrementProductStock(ctx context.Context, id uuid.UUID, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity)).Error
}

// DecrementOfferStock subtracts quantity from the offer's stock.
func (r *Repository) DecrementOfferStock(ctx context.Context, id uuid.UUID, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&models.WeeklyOffer{}).
		Where("id = ?", id).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity)).Error
}

// CreateOrder inserts the order together with its item snapshots.
func (r *Repository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// FindOrderByID loads the order with its items.
func (r *Repository) FindOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders returns one page of orders, newest first, plus the total.
func (r *Repository) ListOrders(ctx context.Context, params pagination.Params) ([]models.Order, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Order{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	normalized := pagination.Normalize(params)
	var rows []models.Order
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(normalized.Limit).
		Offset(params.Offset()).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// DeleteOrder removes the order; item rows cascade.
func (r *Repository) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
		return err
	}
	result := tx.Delete(&models.Order{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
