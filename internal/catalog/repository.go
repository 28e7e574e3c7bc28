package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aromaten/aromaten-backend/pkg/db/models"
	"github.com/aromaten/aromaten-backend/pkg/pagination"
)

// ListProductsFilter narrows the storefront product listing.
type ListProductsFilter struct {
	Category  *models.ProductCategory
	BrandID   *uuid.UUID
	BrandSlug string
	Search    string
	// SortBrand orders by brand name ("asc" or "desc") instead of recency.
	SortBrand string
	Params    pagination.Params
}

// Repository wires together brand and product persistence helpers.
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

// CreateBrand inserts a new brand row.
func (r *Repository) CreateBrand(ctx context.Context, brand *models.Brand) (*models.Brand, error) {
	if err := r.db.WithContext(ctx).Create(brand).Error; err != nil {
		return nil, err
	}
	return brand, nil
}

// FindBrandByID loads a single brand.
func (r *Repository) FindBrandByID(ctx context.Context, id uuid.UUID) (*models.Brand, error) {
	var brand models.Brand
	if err := r.db.WithContext(ctx).First(&brand, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &brand, nil
}

// ListBrands returns all brands ordered by name.
func (r *Repository) ListBrands(ctx context.Context) ([]models.Brand, error) {
	var brands []models.Brand
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&brands).Error; err != nil {
		return nil, err
	}
	return brands, nil
}

// UpdateBrand persists the mutable brand columns.
func (r *Repository) UpdateBrand(ctx context.Context, brand *models.Brand) (*models.Brand, error) {
	if err := r.db.WithContext(ctx).Save(brand).Error; err != nil {
		return nil, err
	}
	return brand, nil
}

// CountProductsByBrand returns how many products reference the brand.
func (r *Repository) CountProductsByBrand(ctx context.Context, brandID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("brand_id = ?", brandID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// DeleteBrand removes the brand row.
func (r *Repository) DeleteBrand(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Brand{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CreateProduct inserts a new product row.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct persists all mutable columns of the product.
func (r *Repository) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes the product row.
func (r *Repository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindProductByID loads the product with its brand preloaded.
func (r *Repository) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).
		Preload("Brand").
		First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindProductBySlug loads the product shown on a storefront detail page.
func (r *Repository) FindProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).
		Preload("Brand").
		First(&product, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ListProducts returns one page of products plus the unpaged total.
func (r *Repository) ListProducts(ctx context.Context, filter ListProductsFilter) ([]models.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{})

	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.BrandID != nil {
		query = query.Where("brand_id = ?", *filter.BrandID)
	}
	if slug := strings.TrimSpace(filter.BrandSlug); slug != "" {
		query = query.
			Joins("JOIN brands ON brands.id = products.brand_id").
			Where("brands.slug = ?", slug)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(products.name) LIKE ?", pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch strings.ToLower(filter.SortBrand) {
	case "asc", "desc":
		dir := strings.ToUpper(filter.SortBrand)
		if filter.BrandSlug == "" {
			query = query.Joins("JOIN brands ON brands.id = products.brand_id")
		}
		query = query.Order("brands.name " + dir).Order("products.name ASC")
	default:
		query = query.Order("products.created_at DESC")
	}

	params := pagination.Normalize(filter.Params)
	var products []models.Product
	if err := query.
		Preload("Brand").
		Limit(params.Limit).
		Offset(filter.Params.Offset()).
		Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// ListProductsForExport returns the full catalog with brands preloaded,
// ordered by brand name then product name.
func (r *Repository) ListProductsForExport(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).
		Joins("JOIN brands ON brands.id = products.brand_id").
		Order("brands.name ASC").
		Order("products.name ASC").
		Preload("Brand").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}
