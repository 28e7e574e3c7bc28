package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/aromaten/aromaten-backend/pkg/db"
	"github.com/aromaten/aromaten-backend/pkg/db/models"
	pkgerrors "github.com/aromaten/aromaten-backend/pkg/errors"
	"github.com/aromaten/aromaten-backend/pkg/pagination"
	"github.com/aromaten/aromaten-backend/pkg/slug"
)

// Service exposes brand and product catalog management.
type Service interface {
	CreateBrand(ctx context.Context, input CreateBrandInput) (*BrandDTO, error)
	UpdateBrand(ctx context.Context, id uuid.UUID, input CreateBrandInput) (*BrandDTO, error)
	ListBrands(ctx context.Context) ([]BrandDTO, error)
	DeleteBrand(ctx context.Context, id uuid.UUID) error

	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	GetProductBySlug(ctx context.Context, slugValue string) (*ProductDTO, error)
	ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error)
}

// CreateBrandInput holds the validated payload to create a brand.
type CreateBrandInput struct {
	Name string
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	BrandID     uuid.UUID
	Name        string
	Description *string
	Price       decimal.Decimal
	Stock       int
	ImageURL    *string
	Category    models.ProductCategory
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	BrandID     *uuid.UUID
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Stock       *int
	ImageURL    *string
	Category    *models.ProductCategory
}

// ListProductsInput narrows and pages the product listing.
type ListProductsInput struct {
	Category  *models.ProductCategory
	BrandID   *uuid.UUID
	BrandSlug string
	Search    string
	SortBrand string
	Page      int
	Limit     int
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

// CreateBrand inserts a brand, deriving its slug from the name.
func (s *service) CreateBrand(ctx context.Context, input CreateBrandInput) (*BrandDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "brand name is required")
	}

	brand := &models.Brand{Name: name, Slug: slug.Make(name)}
	created, err := s.repo.CreateBrand(ctx, brand)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "brand already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert brand")
	}
	return NewBrandDTO(created), nil
}

// UpdateBrand renames a brand and re-derives its slug.
func (s *service) UpdateBrand(ctx context.Context, id uuid.UUID, input CreateBrandInput) (*BrandDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "brand name is required")
	}

	brand, err := s.repo.FindBrandByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "brand not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load brand")
	}

	brand.Name = name
	brand.Slug = slug.Make(name)
	updated, err := s.repo.UpdateBrand(ctx, brand)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "brand already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update brand")
	}
	return NewBrandDTO(updated), nil
}

// ListBrands returns every brand ordered by name.
func (s *service) ListBrands(ctx context.Context) ([]BrandDTO, error) {
	brands, err := s.repo.ListBrands(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list brands")
	}
	dtos := make([]BrandDTO, 0, len(brands))
	for i := range brands {
		dtos = append(dtos, *NewBrandDTO(&brands[i]))
	}
	return dtos, nil
}

// DeleteBrand removes a brand unless products still reference it.
func (s *service) DeleteBrand(ctx context.Context, id uuid.UUID) error {
	return s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		count, err := txRepo.CountProductsByBrand(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count brand products")
		}
		if count > 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "brand has products and cannot be deleted").
				WithDetails(map[string]any{"product_count": count})
		}

		if err := txRepo.DeleteBrand(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "brand not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete brand")
		}
		return nil
	})
}

// CreateProduct validates and inserts a product with a derived slug.
func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	if err := validateProductFields(input.Name, input.Price, input.Stock, input.Category); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindBrandByID(ctx, input.BrandID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "brand not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load brand")
	}

	product := &models.Product{
		BrandID:     input.BrandID,
		Name:        strings.TrimSpace(input.Name),
		Slug:        slug.Make(input.Name),
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		ImageURL:    input.ImageURL,
		Category:    input.Category,
	}

	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil && db.IsUniqueViolation(err, "") {
		// Same name twice is fine, slugs just get a suffix.
		product.ID = uuid.Nil
		product.Slug = slug.MakeUnique(product.Name)
		created, err = s.repo.CreateProduct(ctx, product)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
	}

	return s.GetProduct(ctx, created.ID)
}

// UpdateProduct applies the provided fields to an existing product.
func (s *service) UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	var updatedID uuid.UUID
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		product, err := txRepo.FindProductByID(ctx, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
		}

		if input.BrandID != nil {
			if _, err := txRepo.FindBrandByID(ctx, *input.BrandID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeValidation, "brand not found")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load brand")
			}
			product.BrandID = *input.BrandID
		}
		if input.Name != nil {
			name := strings.TrimSpace(*input.Name)
			if name == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
			}
			product.Name = name
			product.Slug = slug.Make(name)
		}
		if input.Description != nil {
			product.Description = input.Description
		}
		if input.Price != nil {
			if !input.Price.IsPositive() {
				return pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
			}
			product.Price = *input.Price
		}
		if input.Stock != nil {
			if *input.Stock < 0 {
				return pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
			}
			product.Stock = *input.Stock
		}
		if input.ImageURL != nil {
			product.ImageURL = input.ImageURL
		}
		if input.Category != nil {
			if !input.Category.Valid() {
				return pkgerrors.New(pkgerrors.CodeValidation, "unknown category")
			}
			product.Category = *input.Category
		}

		product.Brand = nil
		if _, err := txRepo.UpdateProduct(ctx, product); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "product slug already in use")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
		}
		updatedID = product.ID
		return nil
	}); err != nil {
		return nil, err
	}

	return s.GetProduct(ctx, updatedID)
}

// DeleteProduct removes a product unless order history references it.
func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		case db.IsForeignKeyViolation(err):
			return pkgerrors.New(pkgerrors.CodeConflict, "product appears in existing orders")
		default:
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
		}
	}
	return nil
}

// GetProduct loads a product by id.
func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	return NewProductDTO(product), nil
}

// GetProductBySlug loads the storefront detail page payload.
func (s *service) GetProductBySlug(ctx context.Context, slugValue string) (*ProductDTO, error) {
	product, err := s.repo.FindProductBySlug(ctx, strings.TrimSpace(slugValue))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	return NewProductDTO(product), nil
}

// ListProducts returns one filtered page of the catalog.
func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error) {
	if input.Category != nil && !input.Category.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown category")
	}

	params := pagination.Params{Page: input.Page, Limit: input.Limit}
	sortBrand := strings.ToLower(strings.TrimSpace(input.SortBrand))
	if sortBrand != "" && sortBrand != "asc" && sortBrand != "desc" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sort must be asc or desc")
	}

	products, total, err := s.repo.ListProducts(ctx, ListProductsFilter{
		Category:  input.Category,
		BrandID:   input.BrandID,
		BrandSlug: input.BrandSlug,
		Search:    input.Search,
		SortBrand: sortBrand,
		Params:    params,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}

	dtos := make([]ProductDTO, 0, len(products))
	for i := range products {
		dtos = append(dtos, *NewProductDTO(&products[i]))
	}
	return &ProductListResult{
		Products: dtos,
		Page:     pagination.NewPage(params, total),
	}, nil
}

func validateProductFields(name string, price decimal.Decimal, stock int, category models.ProductCategory) error {
	if strings.TrimSpace(name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if !price.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}
	if stock < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}
	if !category.Valid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown category")
	}
	return nil
}
