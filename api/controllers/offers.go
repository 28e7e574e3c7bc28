package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aromaten/aromaten-backend/api/responses"
	"github.com/aromaten/aromaten-backend/api/validators"
	"github.com/aromaten/aromaten-backend/internal/offers"
	pkgerrors "github.com/aromaten/aromaten-backend/pkg/errors"
	"github.com/aromaten/aromaten-backend/pkg/logger"
	"github.com/aromaten/aromaten-backend/pkg/types"
)

type offerConstituentRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	IsGift    bool   `json:"is_gift"`
}

type createOfferRequest struct {
	Title       string                    `json:"title" validate:"required,min=1,max=200"`
	Description *string                   `json:"description,omitempty"`
	ComboPrice  decimal.Decimal           `json:"combo_price" validate:"required"`
	Stock       int                       `json:"stock" validate:"min=0"`
	IsActive    bool                      `json:"is_active"`
	StartsAt    *time.Time                `json:"starts_at,omitempty"`
	EndsAt      *time.Time                `json:"ends_at,omitempty"`
	Products    []offerConstituentRequest `json:"products" validate:"required,min=2,dive"`
}

type updateOfferRequest struct {
	Title       *string                    `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string                    `json:"description,omitempty"`
	ComboPrice  *decimal.Decimal           `json:"combo_price,omitempty"`
	Stock       *int                       `json:"stock,omitempty" validate:"omitempty,min=0"`
	IsActive    *bool                      `json:"is_active,omitempty"`
	StartsAt    *time.Time                 `json:"starts_at,omitempty"`
	EndsAt      *time.Time                 `json:"ends_at,omitempty"`
	Products    *[]offerConstituentRequest `json:"products,omitempty" validate:"omitempty,min=2,dive"`
}

func parseConstituents(raw []offerConstituentRequest) ([]offers.ConstituentInput, error) {
	inputs := make([]offers.ConstituentInput, 0, len(raw))
	for _, item := range raw {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product_id must be a valid id").WithDetails(map[string]any{"product_id": item.ProductID})
		}
		inputs = append(inputs, offers.ConstituentInput{ProductID: productID, IsGift: item.IsGift})
	}
	return inputs, nil
}

// GetActiveOffer serves the storefront's weekly offer banner.
func GetActiveOffer(svc offers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "offers service unavailable"))
			return
		}

		offer, err := svc.GetActiveOffer(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, offer)
	}
}

func AdminListOffers(svc offers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "offers service unavailable"))
			return
		}

		list, err := svc.ListOffers(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func AdminGetOffer(svc offers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "offers service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		offer, err := svc.GetOffer(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, offer)
	}
}

func AdminCreateOffer(svc offers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "offers service unavailable"))
			return
		}

		var body createOfferRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		constituents, err := parseConstituents(body.Products)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		offer, err := svc.CreateOffer(r.Context(), offers.CreateOfferInput{
			Title:       body.Title,
			Description: body.Description,
			ComboPrice:  body.ComboPrice,
			Stock:       body.Stock,
			IsActive:    body.IsActive,
			StartsAt:    body.StartsAt,
			EndsAt:      body.EndsAt,
			Products:    constituents,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, offer)
	}
}

func AdminUpdateOffer(svc offers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "offers service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateOfferRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := offers.UpdateOfferInput{
			Title:       body.Title,
			Description: body.Description,
			ComboPrice:  body.ComboPrice,
			Stock:       body.Stock,
			IsActive:    body.IsActive,
			StartsAt:    body.StartsAt,
			EndsAt:      body.EndsAt,
		}

		if body.Products != nil {
			constituents, err := parseConstituents(*body.Products)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.Products = &constituents
		}

		offer, err := svc.UpdateOffer(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, offer)
	}
}

func AdminDeleteOffer(svc offers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "offers service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteOffer(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, types.Status("deleted"))
	}
}
