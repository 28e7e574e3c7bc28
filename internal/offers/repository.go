package offers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aromaten/aromaten-backend/pkg/db/models"
)

// Repository handles weekly offer persistence.
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

// ProductExists reports whether a catalog product row exists. Constituent
// checks go through here so a tx-bound repository reads its own snapshot.
func (r *Repository) ProductExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateOffer inserts the offer with its constituent rows.
func (r *Repository) CreateOffer(ctx context.Context, offer *models.WeeklyOffer) (*models.WeeklyOffer, error) {
	if err := r.db.WithContext(ctx).Create(offer).Error; err != nil {
		return nil, err
	}
	return offer, nil
}

// UpdateOffer persists the offer's own columns, leaving constituents alone.
func (r *Repository) UpdateOffer(ctx context.Context, offer *models.WeeklyOffer) (*models.WeeklyOffer, error) {
	if err := r.db.WithContext(ctx).Omit("Products").Save(offer).Error; err != nil {
		return nil, err
	}
	return offer, nil
}

// ReplaceConstituents swaps the product rows attached to the offer.
func (r *Repository) ReplaceConstituents(ctx context.Context, offerID uuid.UUID, rows []models.WeeklyOfferProduct) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("offer_id = ?", offerID).Delete(&models.WeeklyOfferProduct{}).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return tx.Create(&rows).Error
}

// DeleteOffer removes the offer; constituent rows cascade.
func (r *Repository) DeleteOffer(ctx context.Context, id uuid.UUID) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("offer_id = ?", id).Delete(&models.WeeklyOfferProduct{}).Error; err != nil {
		return err
	}
	result := tx.Delete(&models.WeeklyOffer{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindOfferByID loads the offer with constituents and their products.
func (r *Repository) FindOfferByID(ctx context.Context, id uuid.UUID) (*models.WeeklyOffer, error) {
	var offer models.WeeklyOffer
	if err := r.db.WithContext(ctx).
		Preload("Products.Product").
		First(&offer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &offer, nil
}

// ListOffers returns every offer, newest first.
func (r *Repository) ListOffers(ctx context.Context) ([]models.WeeklyOffer, error) {
	var offers []models.WeeklyOffer
	if err := r.db.WithContext(ctx).
		Preload("Products.Product").
		Order("created_at DESC").
		Find(&offers).Error; err != nil {
		return nil, err
	}
	return offers, nil
}

// FindActiveOffer returns the single active offer, or gorm.ErrRecordNotFound.
func (r *Repository) FindActiveOffer(ctx context.Context) (*models.WeeklyOffer, error) {
	var offer models.WeeklyOffer
	if err := r.db.WithContext(ctx).
		Preload("Products.Product").
		First(&offer, "is_active = ?", true).Error; err != nil {
		return nil, err
	}
	return &offer, nil
}

// DeactivateAllExcept clears the active flag on every other offer.
func (r *Repository) DeactivateAllExcept(ctx context.Context, keep uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.WeeklyOffer{}).
		Where("id <> ? AND is_active = ?", keep, true).
		Update("is_active", false).Error
}
