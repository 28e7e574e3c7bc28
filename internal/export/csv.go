package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/aromaten/aromaten-backend/pkg/db/models"
)

// Excel needs the BOM to detect UTF-8, and CRLF line endings.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var productColumns = []string{
	"id",
	"brand",
	"name",
	"slug",
	"category",
	"description",
	"price",
	"stock",
	"image_url",
	"created_at",
}

type productLister interface {
	ListProductsForExport(ctx context.Context) ([]models.Product, error)
}

// Service streams catalog exports.
type Service struct {
	products productLister
}

// NewService constructs the export service.
func NewService(lister productLister) (*Service, error) {
	if lister == nil {
		return nil, fmt.Errorf("product lister required")
	}
	return &Service{products: lister}, nil
}

// WriteProductsCSV writes the entire catalog, ordered by brand then product
// name, as a spreadsheet-friendly CSV.
func (s *Service) WriteProductsCSV(ctx context.Context, w io.Writer) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("write bom: %w", err)
	}

	writer := csv.NewWriter(w)
	writer.UseCRLF = true

	if err := writer.Write(productColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	products, err := s.products.ListProductsForExport(ctx)
	if err != nil {
		return fmt.Errorf("list products: %w", err)
	}

	for i := range products {
		if err := writer.Write(productRow(&products[i])); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func productRow(product *models.Product) []string {
	brandName := ""
	if product.Brand != nil {
		brandName = product.Brand.Name
	}
	description := ""
	if product.Description != nil {
		description = *product.Description
	}
	imageURL := ""
	if product.ImageURL != nil {
		imageURL = *product.ImageURL
	}

	return []string{
		product.ID.String(),
		brandName,
		product.Name,
		product.Slug,
		string(product.Category),
		description,
		product.Price.StringFixed(2),
		fmt.Sprintf("%d", product.Stock),
		imageURL,
		product.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// Filename names the download after the export date.
func Filename(now time.Time) string {
	return "products-" + now.Format("2006-01-02") + ".csv"
}
