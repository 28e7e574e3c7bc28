package offers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/aromaten/aromaten-backend/pkg/db"
	"github.com/aromaten/aromaten-backend/pkg/db/models"
	pkgerrors "github.com/aromaten/aromaten-backend/pkg/errors"
)

// Service exposes weekly offer management and the storefront read path.
type Service interface {
	CreateOffer(ctx context.Context, input CreateOfferInput) (*OfferDTO, error)
	UpdateOffer(ctx context.Context, offerID uuid.UUID, input UpdateOfferInput) (*OfferDTO, error)
	DeleteOffer(ctx context.Context, id uuid.UUID) error
	GetOffer(ctx context.Context, id uuid.UUID) (*OfferDTO, error)
	ListOffers(ctx context.Context) ([]OfferDTO, error)
	GetActiveOffer(ctx context.Context) (*OfferDTO, error)
}

// ConstituentInput names one bundle member.
type ConstituentInput struct {
	ProductID uuid.UUID
	IsGift    bool
}

// CreateOfferInput holds the validated payload to create an offer.
type CreateOfferInput struct {
	Title       string
	Description *string
	ComboPrice  decimal.Decimal
	Stock       int
	IsActive    bool
	StartsAt    *time.Time
	EndsAt      *time.Time
	Products    []ConstituentInput
}

// UpdateOfferInput holds optional mutation values for an offer.
type UpdateOfferInput struct {
	Title       *string
	Description *string
	ComboPrice  *decimal.Decimal
	Stock       *int
	IsActive    *bool
	StartsAt    *time.Time
	EndsAt      *time.Time
	Products    *[]ConstituentInput
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs an offers service instance.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("offers repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

// requireConstituents verifies every referenced product exists, reading
// through the transaction-bound repository.
func requireConstituents(ctx context.Context, txRepo *Repository, items []ConstituentInput) error {
	for _, item := range items {
		exists, err := txRepo.ProductExists(ctx, item.ProductID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load offer product")
		}
		if !exists {
			return pkgerrors.New(pkgerrors.CodeValidation, "offer references an unknown product").
				WithDetails(map[string]any{"product_id": item.ProductID})
		}
	}
	return nil
}

// CreateOffer validates the bundle and inserts it. Activating the new offer
// deactivates every other offer inside the same transaction.
func (s *service) CreateOffer(ctx context.Context, input CreateOfferInput) (*OfferDTO, error) {
	if err := validateOfferFields(input.Title, input.ComboPrice, input.Stock, input.StartsAt, input.EndsAt); err != nil {
		return nil, err
	}
	if err := validateConstituents(input.Products); err != nil {
		return nil, err
	}

	var createdID uuid.UUID
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		if err := requireConstituents(ctx, txRepo, input.Products); err != nil {
			return err
		}

		offer := &models.WeeklyOffer{
			Title:       strings.TrimSpace(input.Title),
			Description: input.Description,
			ComboPrice:  input.ComboPrice,
			Stock:       input.Stock,
			IsActive:    input.IsActive,
			StartsAt:    input.StartsAt,
			EndsAt:      input.EndsAt,
			Products:    constituentRows(input.Products),
		}
		created, err := txRepo.CreateOffer(ctx, offer)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert offer")
		}
		createdID = created.ID

		if input.IsActive {
			if err := txRepo.DeactivateAllExcept(ctx, created.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: deactivate other offers")
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return s.GetOffer(ctx, createdID)
}

// UpdateOffer applies the provided fields, keeping at most one offer active.
func (s *service) UpdateOffer(ctx context.Context, offerID uuid.UUID, input UpdateOfferInput) (*OfferDTO, error) {
	if input.Products != nil {
		if err := validateConstituents(*input.Products); err != nil {
			return nil, err
		}
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		offer, err := txRepo.FindOfferByID(ctx, offerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "offer not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load offer")
		}

		if input.Title != nil {
			title := strings.TrimSpace(*input.Title)
			if title == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, "offer title is required")
			}
			offer.Title = title
		}
		if input.Description != nil {
			offer.Description = input.Description
		}
		if input.ComboPrice != nil {
			if !input.ComboPrice.IsPositive() {
				return pkgerrors.New(pkgerrors.CodeValidation, "combo price must be positive")
			}
			offer.ComboPrice = *input.ComboPrice
		}
		if input.Stock != nil {
			if *input.Stock < 0 {
				return pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
			}
			offer.Stock = *input.Stock
		}
		if input.StartsAt != nil {
			offer.StartsAt = input.StartsAt
		}
		if input.EndsAt != nil {
			offer.EndsAt = input.EndsAt
		}
		if offer.StartsAt != nil && offer.EndsAt != nil && offer.EndsAt.Before(*offer.StartsAt) {
			return pkgerrors.New(pkgerrors.CodeValidation, "offer cannot end before it starts")
		}
		if input.IsActive != nil {
			offer.IsActive = *input.IsActive
		}

		if input.Products != nil {
			if err := requireConstituents(ctx, txRepo, *input.Products); err != nil {
				return err
			}
			rows := constituentRows(*input.Products)
			for i := range rows {
				rows[i].OfferID = offer.ID
			}
			if err := txRepo.ReplaceConstituents(ctx, offer.ID, rows); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace offer products")
			}
		}

		offer.Products = nil
		if _, err := txRepo.UpdateOffer(ctx, offer); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update offer")
		}

		if offer.IsActive {
			if err := txRepo.DeactivateAllExcept(ctx, offer.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: deactivate other offers")
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return s.GetOffer(ctx, offerID)
}

// DeleteOffer removes the offer and its constituent rows.
func (s *service) DeleteOffer(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteOffer(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "offer not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete offer")
	}
	return nil
}

// GetOffer loads one offer by id.
func (s *service) GetOffer(ctx context.Context, id uuid.UUID) (*OfferDTO, error) {
	offer, err := s.repo.FindOfferByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "offer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load offer")
	}
	return NewOfferDTO(offer), nil
}

// ListOffers returns all offers for the back office.
func (s *service) ListOffers(ctx context.Context) ([]OfferDTO, error) {
	offers, err := s.repo.ListOffers(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list offers")
	}
	dtos := make([]OfferDTO, 0, len(offers))
	for i := range offers {
		dtos = append(dtos, *NewOfferDTO(&offers[i]))
	}
	return dtos, nil
}

// GetActiveOffer returns the storefront bundle, or NotFound when none is live.
func (s *service) GetActiveOffer(ctx context.Context) (*OfferDTO, error) {
	offer, err := s.repo.FindActiveOffer(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no active offer")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load active offer")
	}
	return NewOfferDTO(offer), nil
}

func validateOfferFields(title string, comboPrice decimal.Decimal, stock int, startsAt, endsAt *time.Time) error {
	if strings.TrimSpace(title) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "offer title is required")
	}
	if !comboPrice.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "combo price must be positive")
	}
	if stock < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}
	if startsAt != nil && endsAt != nil && endsAt.Before(*startsAt) {
		return pkgerrors.New(pkgerrors.CodeValidation, "offer cannot end before it starts")
	}
	return nil
}

func validateConstituents(items []ConstituentInput) error {
	if len(items) < 2 {
		return pkgerrors.New(pkgerrors.CodeValidation, "offer needs at least two products")
	}
	gifts := 0
	seen := make(map[uuid.UUID]struct{}, len(items))
	for _, item := range items {
		if _, dup := seen[item.ProductID]; dup {
			return pkgerrors.New(pkgerrors.CodeValidation, "offer lists the same product twice")
		}
		seen[item.ProductID] = struct{}{}
		if item.IsGift {
			gifts++
		}
	}
	if gifts != 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "offer needs exactly one gift product")
	}
	return nil
}

func constituentRows(items []ConstituentInput) []models.WeeklyOfferProduct {
	rows := make([]models.WeeklyOfferProduct, 0, len(items))
	for _, item := range items {
		rows = append(rows, models.WeeklyOfferProduct{
			ProductID: item.ProductID,
			IsGift:    item.IsGift,
		})
	}
	return rows
}
