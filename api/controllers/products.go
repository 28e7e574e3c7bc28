package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aromaten/aromaten-backend/api/responses"
	"github.com/aromaten/aromaten-backend/api/validators"
	"github.com/aromaten/aromaten-backend/internal/catalog"
	"github.com/aromaten/aromaten-backend/pkg/db/models"
	pkgerrors "github.com/aromaten/aromaten-backend/pkg/errors"
	"github.com/aromaten/aromaten-backend/pkg/logger"
	"github.com/aromaten/aromaten-backend/pkg/types"
)

type createProductRequest struct {
	BrandID     string          `json:"brand_id" validate:"required,uuid"`
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price" validate:"required"`
	Stock       int             `json:"stock" validate:"min=0"`
	ImageURL    *string         `json:"image_url,omitempty"`
	Category    string          `json:"category" validate:"required"`
}

type updateProductRequest struct {
	BrandID     *string          `json:"brand_id,omitempty" validate:"omitempty,uuid"`
	Name        *string          `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Stock       *int             `json:"stock,omitempty" validate:"omitempty,min=0"`
	ImageURL    *string          `json:"image_url,omitempty"`
	Category    *string          `json:"category,omitempty"`
}

func parseCategory(raw string) (models.ProductCategory, error) {
	category := models.ProductCategory(strings.ToLower(strings.TrimSpace(raw)))
	if !category.Valid() {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "unknown product category").WithDetails(map[string]any{"category": raw})
	}
	return category, nil
}

// ListProducts serves the public catalog listing with optional filters.
func ListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := catalog.ListProductsInput{
			BrandSlug: validators.SanitizeString(r.URL.Query().Get("brand"), 120),
			Search:    validators.SanitizeString(r.URL.Query().Get("search"), 120),
			SortBrand: validators.SanitizeString(r.URL.Query().Get("sort"), 8),
			Page:      params.Page,
			Limit:     params.Limit,
		}

		if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
			category, err := parseCategory(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.Category = &category
		}

		if raw := strings.TrimSpace(r.URL.Query().Get("brand_id")); raw != "" {
			brandID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "brand_id must be a valid id"))
				return
			}
			input.BrandID = &brandID
		}

		result, err := svc.ListProducts(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// GetProduct serves the public product detail page. The path parameter is a
// product id or, for storefront links, a slug.
func GetProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		key := strings.TrimSpace(chi.URLParam(r, "idOrSlug"))
		if key == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "missing product identifier"))
			return
		}

		var product *catalog.ProductDTO
		var err error
		if id, parseErr := uuid.Parse(key); parseErr == nil {
			product, err = svc.GetProduct(r.Context(), id)
		} else {
			product, err = svc.GetProductBySlug(r.Context(), key)
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func AdminGetProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func AdminCreateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var body createProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		brandID, err := uuid.Parse(body.BrandID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "brand_id must be a valid id"))
			return
		}

		category, err := parseCategory(body.Category)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), catalog.CreateProductInput{
			BrandID:     brandID,
			Name:        body.Name,
			Description: body.Description,
			Price:       body.Price,
			Stock:       body.Stock,
			ImageURL:    body.ImageURL,
			Category:    category,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

func AdminUpdateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := catalog.UpdateProductInput{
			Name:        body.Name,
			Description: body.Description,
			Price:       body.Price,
			Stock:       body.Stock,
			ImageURL:    body.ImageURL,
		}

		if body.BrandID != nil {
			brandID, err := uuid.Parse(*body.BrandID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "brand_id must be a valid id"))
				return
			}
			input.BrandID = &brandID
		}

		if body.Category != nil {
			category, err := parseCategory(*body.Category)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.Category = &category
		}

		product, err := svc.UpdateProduct(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func AdminDeleteProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, types.Status("deleted"))
	}
}
