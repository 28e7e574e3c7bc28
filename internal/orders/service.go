package orders

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
	"github.com/aromaten/aromaten-backend/pkg/logger"
	"github.com/aromaten/aromaten-backend/pkg/metrics"
	"github.com/aromaten/aromaten-backend/pkg/pagination"
)

const mailTimeout = 15 * time.Second

// Service exposes order placement and back-office order management.
type Service interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*OrderDTO, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*OrderDTO, error)
	ListOrders(ctx context.Context, input ListOrdersInput) (*OrderListResult, error)
	DeleteOrder(ctx context.Context, id uuid.UUID) error
}

// ItemLineInput requests a quantity of one catalog product.
type ItemLineInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// BundleLineInput requests a quantity of one weekly offer.
type BundleLineInput struct {
	OfferID  uuid.UUID
	Quantity int
}

// PlaceOrderInput is the validated checkout payload.
type PlaceOrderInput struct {
	CustomerName  string
	CustomerEmail string
	Phone         string
	Address       string
	Items         []ItemLineInput
	Bundles       []BundleLineInput
}

// ListOrdersInput pages the admin order listing.
type ListOrdersInput struct {
	Page  int
	Limit int
}

// ConfirmationSender delivers the post-checkout email.
type ConfirmationSender interface {
	SendOrderConfirmation(ctx context.Context, order *OrderDTO) error
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	logg     *logger.Logger
	mailer   ConfirmationSender
	metrics  *metrics.OrderMetrics
}

// NewService constructs the order service. Mailer and metrics may be nil.
func NewService(repo *Repository, dbClient *db.Client, logg *logger.Logger, mailer ConfirmationSender, orderMetrics *metrics.OrderMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     repo,
		dbClient: dbClient,
		logg:     logg,
		mailer:   mailer,
		metrics:  orderMetrics,
	}, nil
}

// PlaceOrder runs the whole checkout in one transaction: every line is
// stock-checked against a locked row, prices are snapshotted into order
// items, and stock is decremented. Any failing line rolls the order back.
func (s *service) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*OrderDTO, error) {
	if err := validatePlaceOrder(input); err != nil {
		s.metrics.IncFailed("validation")
		return nil, err
	}

	var orderID uuid.UUID
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		items := make([]models.OrderItem, 0, len(input.Items)+len(input.Bundles))
		total := decimal.Zero

		for _, line := range input.Items {
			product, err := txRepo.LockProduct(ctx, line.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
						WithDetails(map[string]any{"product_id": line.ProductID})
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lock product")
			}
			if product.Stock < line.Quantity {
				return insufficientStock("product", product.Name, product.ID, line.Quantity, product.Stock)
			}

			items = append(items, models.OrderItem{
				ProductID:   product.ID,
				ProductName: product.Name,
				UnitPrice:   product.Price,
				Quantity:    line.Quantity,
			})
			total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))

			if err := txRepo.DecrementProductStock(ctx, product.ID, line.Quantity); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: decrement product stock")
			}
		}

		for _, line := range input.Bundles {
			offer, err := txRepo.LockOffer(ctx, line.OfferID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "offer not found").
						WithDetails(map[string]any{"offer_id": line.OfferID})
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lock offer")
			}
			if offer.Stock < line.Quantity {
				return insufficientStock("offer", offer.Title, offer.ID, line.Quantity, offer.Stock)
			}

			// A bundle consumes one unit of every constituent per bundle unit.
			representative := uuid.Nil
			for _, constituent := range offer.Products {
				product, err := txRepo.LockProduct(ctx, constituent.ProductID)
				if err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return pkgerrors.New(pkgerrors.CodeNotFound, "offer product not found").
							WithDetails(map[string]any{"product_id": constituent.ProductID})
					}
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lock offer product")
				}
				if product.Stock < line.Quantity {
					// A constituent shortfall surfaces as the bundle being out
					// of stock; the product id stays in the details.
					return pkgerrors.New(pkgerrors.CodeInsufficientStock, fmt.Sprintf("insufficient stock for offer %q", offer.Title)).
						WithDetails(map[string]any{
							"kind":       "offer",
							"id":         offer.ID,
							"product_id": product.ID,
							"requested":  line.Quantity,
							"available":  product.Stock,
						})
				}
				if err := txRepo.DecrementProductStock(ctx, product.ID, line.Quantity); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: decrement offer product stock")
				}
				if representative == uuid.Nil && !constituent.IsGift {
					representative = product.ID
				}
			}
			if representative == uuid.Nil && len(offer.Products) > 0 {
				representative = offer.Products[0].ProductID
			}

			items = append(items, models.OrderItem{
				ProductID:   representative,
				ProductName: "Bundle: " + offer.Title,
				UnitPrice:   offer.ComboPrice,
				Quantity:    line.Quantity,
			})
			total = total.Add(offer.ComboPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))

			if err := txRepo.DecrementOfferStock(ctx, offer.ID, line.Quantity); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: decrement offer stock")
			}
		}

		order := &models.Order{
			CustomerName:  strings.TrimSpace(input.CustomerName),
			CustomerEmail: strings.TrimSpace(input.CustomerEmail),
			Phone:         strings.TrimSpace(input.Phone),
			Address:       strings.TrimSpace(input.Address),
			TotalAmount:   total,
			Status:        models.OrderStatusConfirmed,
			Items:         items,
		}
		created, err := txRepo.CreateOrder(ctx, order)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert order")
		}
		orderID = created.ID
		return nil
	})
	if err != nil {
		s.recordFailure(err)
		return nil, err
	}

	dto, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	s.metrics.IncPlaced("storefront")
	ctx = s.logg.WithOrderID(ctx, dto.ID.String())
	s.logg.Info(ctx, "order placed")

	if s.mailer != nil {
		go s.sendConfirmation(context.WithoutCancel(ctx), dto)
	}
	return dto, nil
}

// GetOrder loads one order with its items.
func (s *service) GetOrder(ctx context.Context, id uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load order")
	}
	return NewOrderDTO(order), nil
}

// ListOrders returns one page of orders for the back office.
func (s *service) ListOrders(ctx context.Context, input ListOrdersInput) (*OrderListResult, error) {
	params := pagination.Params{Page: input.Page, Limit: input.Limit}
	rows, total, err := s.repo.ListOrders(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list orders")
	}

	dtos := make([]OrderSummaryDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, NewOrderSummaryDTO(&rows[i]))
	}
	return &OrderListResult{
		Orders: dtos,
		Page:   pagination.NewPage(params, total),
	}, nil
}

// DeleteOrder removes an order and its items. Stock is not restored.
func (s *service) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	return s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).DeleteOrder(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete order")
		}
		return nil
	})
}

func (s *service) sendConfirmation(ctx context.Context, order *OrderDTO) {
	ctx, cancel := context.WithTimeout(ctx, mailTimeout)
	defer cancel()

	if err := s.mailer.SendOrderConfirmation(ctx, order); err != nil {
		s.metrics.IncEmail("failed")
		s.logg.Error(ctx, "order confirmation email failed", err)
		return
	}
	s.metrics.IncEmail("sent")
}

func (s *service) recordFailure(err error) {
	typed := pkgerrors.As(err)
	switch {
	case typed == nil:
		s.metrics.IncFailed("internal")
	case typed.Code() == pkgerrors.CodeInsufficientStock:
		s.metrics.IncFailed("insufficient_stock")
	case typed.Code() == pkgerrors.CodeNotFound:
		s.metrics.IncFailed("not_found")
	default:
		s.metrics.IncFailed(strings.ToLower(string(typed.Code())))
	}
}

func insufficientStock(kind, name string, id uuid.UUID, requested, available int) error {
	return pkgerrors.New(pkgerrors.CodeInsufficientStock, fmt.Sprintf("insufficient stock for %s %q", kind, name)).
		WithDetails(map[string]any{
			"kind":      kind,
			"id":        id,
			"requested": requested,
			"available": available,
		})
}

func validatePlaceOrder(input PlaceOrderInput) error {
	if strings.TrimSpace(input.CustomerName) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	}
	email := strings.TrimSpace(input.CustomerEmail)
	if email == "" || !strings.Contains(email, "@") {
		return pkgerrors.New(pkgerrors.CodeValidation, "a valid customer email is required")
	}
	if strings.TrimSpace(input.Phone) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "phone is required")
	}
	if strings.TrimSpace(input.Address) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "address is required")
	}
	if len(input.Items)+len(input.Bundles) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "order has no lines")
	}
	for _, line := range input.Items {
		if line.Quantity <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be positive")
		}
	}
	for _, line := range input.Bundles {
		if line.Quantity <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "bundle quantity must be positive")
		}
	}
	return nil
}
