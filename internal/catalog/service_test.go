package catalog

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/aromaten/aromaten-backend/pkg/db"
	"github.com/aromaten/aromaten-backend/pkg/db/models"
	pkgerrors "github.com/aromaten/aromaten-backend/pkg/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:catalog_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Brand{}, &models.Product{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn := newTestDB(t)
	svc, err := NewService(NewRepository(conn), db.FromConn(conn))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, conn
}

func mustCreateBrand(t *testing.T, svc Service, name string) *BrandDTO {
	t.Helper()
	brand, err := svc.CreateBrand(context.Background(), CreateBrandInput{Name: name})
	if err != nil {
		t.Fatalf("create brand: %v", err)
	}
	return brand
}

func mustCreateProduct(t *testing.T, svc Service, brandID uuid.UUID, name string) *ProductDTO {
	t.Helper()
	product, err := svc.CreateProduct(context.Background(), CreateProductInput{
		BrandID:  brandID,
		Name:     name,
		Price:    decimal.NewFromFloat(49.90),
		Stock:    10,
		Category: models.CategoryParfum,
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

func TestCreateBrand(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	brand := mustCreateBrand(t, svc, "Maison Lumine")
	if brand.Slug != "maison-lumine" {
		t.Fatalf("unexpected slug %q", brand.Slug)
	}

	if _, err := svc.CreateBrand(ctx, CreateBrandInput{Name: "Maison Lumine"}); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict for duplicate brand, got %v", err)
	}
	if _, err := svc.CreateBrand(ctx, CreateBrandInput{Name: "  "}); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for blank name, got %v", err)
	}
}

func TestDeleteBrandBlockedByProducts(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	brand := mustCreateBrand(t, svc, "Atelier Noir")
	mustCreateProduct(t, svc, brand.ID, "Velvet Ember")

	err := svc.DeleteBrand(ctx, brand.ID)
	if pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict while products exist, got %v", err)
	}

	empty := mustCreateBrand(t, svc, "Empty House")
	if err := svc.DeleteBrand(ctx, empty.ID); err != nil {
		t.Fatalf("delete empty brand: %v", err)
	}
	if err := svc.DeleteBrand(ctx, empty.ID); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestCreateProductValidation(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()
	brand := mustCreateBrand(t, svc, "Maison Lumine")

	cases := []struct {
		name  string
		input CreateProductInput
	}{
		{
			name:  "blank name",
			input: CreateProductInput{BrandID: brand.ID, Name: " ", Price: decimal.NewFromInt(10), Category: models.CategoryParfum},
		},
		{
			name:  "zero price",
			input: CreateProductInput{BrandID: brand.ID, Name: "Oud", Price: decimal.Zero, Category: models.CategoryParfum},
		},
		{
			name:  "negative stock",
			input: CreateProductInput{BrandID: brand.ID, Name: "Oud", Price: decimal.NewFromInt(10), Stock: -1, Category: models.CategoryParfum},
		},
		{
			name:  "unknown category",
			input: CreateProductInput{BrandID: brand.ID, Name: "Oud", Price: decimal.NewFromInt(10), Category: "candles"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.CreateProduct(ctx, tc.input); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}

	if _, err := svc.CreateProduct(ctx, CreateProductInput{
		BrandID:  uuid.New(),
		Name:     "Oud",
		Price:    decimal.NewFromInt(10),
		Category: models.CategoryParfum,
	}); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for unknown brand, got %v", err)
	}
}

func TestCreateProductSlugCollision(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	brand := mustCreateBrand(t, svc, "Maison Lumine")

	first := mustCreateProduct(t, svc, brand.ID, "Midnight Oud")
	second := mustCreateProduct(t, svc, brand.ID, "Midnight Oud")

	if first.Slug != "midnight-oud" {
		t.Fatalf("unexpected first slug %q", first.Slug)
	}
	if second.Slug == first.Slug {
		t.Fatal("expected second slug to be suffixed")
	}
	if !strings.HasPrefix(second.Slug, "midnight-oud-") {
		t.Fatalf("unexpected second slug %q", second.Slug)
	}
}

func TestUpdateProduct(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()
	brand := mustCreateBrand(t, svc, "Maison Lumine")
	product := mustCreateProduct(t, svc, brand.ID, "Midnight Oud")

	newName := "Midnight Oud Intense"
	newPrice := decimal.NewFromFloat(79.90)
	newStock := 3
	updated, err := svc.UpdateProduct(ctx, product.ID, UpdateProductInput{
		Name:  &newName,
		Price: &newPrice,
		Stock: &newStock,
	})
	if err != nil {
		t.Fatalf("update product: %v", err)
	}
	if updated.Name != newName || updated.Slug != "midnight-oud-intense" {
		t.Fatalf("unexpected update result %+v", updated)
	}
	if !updated.Price.Equal(newPrice) || updated.Stock != 3 {
		t.Fatalf("price/stock not applied: %+v", updated)
	}

	bad := decimal.NewFromInt(-5)
	if _, err := svc.UpdateProduct(ctx, product.ID, UpdateProductInput{Price: &bad}); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for negative price, got %v", err)
	}

	if _, err := svc.UpdateProduct(ctx, uuid.New(), UpdateProductInput{Name: &newName}); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for unknown product, got %v", err)
	}
}

func TestGetProductBySlug(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()
	brand := mustCreateBrand(t, svc, "Maison Lumine")
	created := mustCreateProduct(t, svc, brand.ID, "Velvet Ember")

	got, err := svc.GetProductBySlug(ctx, "velvet-ember")
	if err != nil {
		t.Fatalf("get by slug: %v", err)
	}
	if got.ID != created.ID {
		t.Fatalf("expected product %s, got %s", created.ID, got.ID)
	}
	if got.Brand == nil || got.Brand.ID != brand.ID {
		t.Fatal("expected brand preloaded on detail payload")
	}

	if _, err := svc.GetProductBySlug(ctx, "missing"); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListProducts(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()
	brandA := mustCreateBrand(t, svc, "Maison Lumine")
	brandB := mustCreateBrand(t, svc, "Atelier Noir")

	mustCreateProduct(t, svc, brandA.ID, "Midnight Oud")
	mustCreateProduct(t, svc, brandA.ID, "Velvet Ember")
	if _, err := svc.CreateProduct(ctx, CreateProductInput{
		BrandID:  brandB.ID,
		Name:     "Silk Balm",
		Price:    decimal.NewFromFloat(19.90),
		Stock:    5,
		Category: models.CategoryCosmetic,
	}); err != nil {
		t.Fatalf("create cosmetic: %v", err)
	}

	all, err := svc.ListProducts(ctx, ListProductsInput{})
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if len(all.Products) != 3 || all.Page.Total != 3 {
		t.Fatalf("expected 3 products, got %d (total %d)", len(all.Products), all.Page.Total)
	}

	cosmetic := models.CategoryCosmetic
	filtered, err := svc.ListProducts(ctx, ListProductsInput{Category: &cosmetic})
	if err != nil {
		t.Fatalf("list cosmetics: %v", err)
	}
	if len(filtered.Products) != 1 || filtered.Products[0].Name != "Silk Balm" {
		t.Fatalf("unexpected category filter result %+v", filtered.Products)
	}

	byBrand, err := svc.ListProducts(ctx, ListProductsInput{BrandID: &brandA.ID})
	if err != nil {
		t.Fatalf("list by brand: %v", err)
	}
	if len(byBrand.Products) != 2 {
		t.Fatalf("expected 2 products for brand, got %d", len(byBrand.Products))
	}

	search, err := svc.ListProducts(ctx, ListProductsInput{Search: "oud"})
	if err != nil {
		t.Fatalf("search products: %v", err)
	}
	if len(search.Products) != 1 || search.Products[0].Slug != "midnight-oud" {
		t.Fatalf("unexpected search result %+v", search.Products)
	}

	paged, err := svc.ListProducts(ctx, ListProductsInput{Page: 2, Limit: 2})
	if err != nil {
		t.Fatalf("paged list: %v", err)
	}
	if len(paged.Products) != 1 || paged.Page.PageCount != 2 {
		t.Fatalf("unexpected page 2 result: %d products, %d pages", len(paged.Products), paged.Page.PageCount)
	}

	unknown := models.ProductCategory("candles")
	if _, err := svc.ListProducts(ctx, ListProductsInput{Category: &unknown}); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for unknown category, got %v", err)
	}
}

func TestUpdateBrand(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	brand := mustCreateBrand(t, svc, "Maison Lumine")
	mustCreateBrand(t, svc, "Atelier Noir")

	updated, err := svc.UpdateBrand(ctx, brand.ID, CreateBrandInput{Name: "Maison Lumière"})
	if err != nil {
		t.Fatalf("update brand: %v", err)
	}
	if updated.Name != "Maison Lumière" {
		t.Fatalf("unexpected name %q", updated.Name)
	}
	if updated.Slug == brand.Slug {
		t.Fatalf("expected slug to change, still %q", updated.Slug)
	}

	if _, err := svc.UpdateBrand(ctx, brand.ID, CreateBrandInput{Name: "Atelier Noir"}); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict renaming onto existing brand, got %v", err)
	}

	if _, err := svc.UpdateBrand(ctx, uuid.New(), CreateBrandInput{Name: "Ghost"}); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for unknown brand, got %v", err)
	}

	if _, err := svc.UpdateBrand(ctx, brand.ID, CreateBrandInput{Name: "  "}); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for blank name, got %v", err)
	}
}

func TestListProductsByBrandSlugAndSort(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)
	ctx := context.Background()

	zephyr := mustCreateBrand(t, svc, "Zephyr")
	amber := mustCreateBrand(t, svc, "Amber House")
	mustCreateProduct(t, svc, zephyr.ID, "Storm Veil")
	mustCreateProduct(t, svc, amber.ID, "Honey Dusk")
	mustCreateProduct(t, svc, amber.ID, "Amber Bloom")

	bySlug, err := svc.ListProducts(ctx, ListProductsInput{BrandSlug: amber.Slug})
	if err != nil {
		t.Fatalf("list by brand slug: %v", err)
	}
	if len(bySlug.Products) != 2 {
		t.Fatalf("expected 2 products for brand slug, got %d", len(bySlug.Products))
	}

	sorted, err := svc.ListProducts(ctx, ListProductsInput{SortBrand: "asc"})
	if err != nil {
		t.Fatalf("sorted list: %v", err)
	}
	if len(sorted.Products) != 3 {
		t.Fatalf("expected 3 products, got %d", len(sorted.Products))
	}
	if sorted.Products[0].Name != "Amber Bloom" || sorted.Products[2].Name != "Storm Veil" {
		t.Fatalf("unexpected asc order: %q .. %q", sorted.Products[0].Name, sorted.Products[2].Name)
	}

	reversed, err := svc.ListProducts(ctx, ListProductsInput{SortBrand: "desc"})
	if err != nil {
		t.Fatalf("reverse sorted list: %v", err)
	}
	if reversed.Products[0].Name != "Storm Veil" {
		t.Fatalf("unexpected desc order head %q", reversed.Products[0].Name)
	}

	if _, err := svc.ListProducts(ctx, ListProductsInput{SortBrand: "sideways"}); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for bad sort, got %v", err)
	}
}
