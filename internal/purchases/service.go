package purchases

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retailcore/backoffice/pkg/db/models"
	"github.com/retailcore/backoffice/pkg/enums"
	pkgerrors "github.com/retailcore/backoffice/pkg/errors"
	"github.com/retailcore/backoffice/pkg/logger"
	"github.com/retailcore/backoffice/pkg/metrics"
)

const (
	minItemQty   = 1
	maxItemQty   = 999_999
	minUnitPrice = 1
	maxUnitPrice = 99_999_999
	minItemTotal = 1
	maxItemTotal = 9_999_999_999
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines purchase aggregate and line item operations.
// Purchases never touch the product stock counter.
type Service interface {
	CreatePurchase(ctx context.Context, input CreatePurchaseInput) (*models.Purchase, error)
	CreateItem(ctx context.Context, input CreatePurchaseItemInput) (*models.PurchaseLineItem, error)
	UpdateItem(ctx context.Context, itemID uuid.UUID, input UpdatePurchaseItemInput) (*models.PurchaseLineItem, error)
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
}

// CreatePurchaseInput opens an empty purchase aggregate.
type CreatePurchaseInput struct {
	SupplierName  string
	InvoiceNumber *string
	PaymentMethod enums.PaymentMethod
	PurchasedAt   *time.Time
	Notes         *string
	Actor         *string
}

// CreatePurchaseItemInput attaches a line item to an existing purchase.
type CreatePurchaseItemInput struct {
	PurchaseID     uuid.UUID
	ProductID      *uuid.UUID
	ProductName    string
	Qty            int64
	UnitPriceCents int64
	DiscountCents  int64
	TotalCents     int64
	Actor          *string
}

// UpdatePurchaseItemInput mutates an existing line item. Nil means
// "leave unchanged"; the invariant is revalidated on effective values.
type UpdatePurchaseItemInput struct {
	Qty            *int64
	UnitPriceCents *int64
	DiscountCents  *int64
	TotalCents     *int64
	Actor          *string
}

type service struct {
	repo    Repository
	tx      txRunner
	metrics *metrics.EngineMetrics
	logg    *logger.Logger
}

// NewService builds a purchases service. Metrics and logger are optional.
func NewService(repo Repository, tx txRunner, m *metrics.EngineMetrics, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("purchases repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, metrics: m, logg: logg}, nil
}

// validateItem runs the checks in a fixed order so callers always see
// the first violated rule: quantity, unit price, total, discount, then
// the exact integer invariant.
func validateItem(qty, unitPrice, total, discount int64) error {
	if qty < minItemQty || qty > maxItemQty {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity out of range").
			WithDetails(map[string]any{"min": minItemQty, "max": maxItemQty, "received": qty})
	}
	if unitPrice < minUnitPrice || unitPrice > maxUnitPrice {
		return pkgerrors.New(pkgerrors.CodeValidation, "unit price out of range").
			WithDetails(map[string]any{"min": minUnitPrice, "max": maxUnitPrice, "received": unitPrice})
	}
	if total < minItemTotal || total > maxItemTotal {
		return pkgerrors.New(pkgerrors.CodeValidation, "total out of range").
			WithDetails(map[string]any{"min": minItemTotal, "max": maxItemTotal, "received": total})
	}
	if discount < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount must not be negative")
	}
	if expected := unitPrice*qty - discount; total != expected {
		return pkgerrors.New(pkgerrors.CodeBusinessRule, "price inconsistency").
			WithDetails(map[string]any{"expected": expected, "received": total})
	}
	return nil
}

func (s *service) CreatePurchase(ctx context.Context, input CreatePurchaseInput) (*models.Purchase, error) {
	if input.SupplierName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier name required")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method")
	}

	purchasedAt := time.Now().UTC()
	if input.PurchasedAt != nil {
		purchasedAt = *input.PurchasedAt
	}

	purchase := &models.Purchase{
		SupplierName:  input.SupplierName,
		InvoiceNumber: input.InvoiceNumber,
		PaymentMethod: input.PaymentMethod,
		PurchasedAt:   purchasedAt,
		Notes:         input.Notes,
	}
	created, err := s.repo.CreatePurchase(ctx, purchase)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create purchase")
	}

	s.metrics.IncMutation("purchase_create")
	s.info(ctx, created.ID, "purchase created")
	return created, nil
}

func (s *service) CreateItem(ctx context.Context, input CreatePurchaseItemInput) (*models.PurchaseLineItem, error) {
	if input.PurchaseID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "purchase id required")
	}
	if input.ProductName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name required")
	}
	if err := validateItem(input.Qty, input.UnitPriceCents, input.TotalCents, input.DiscountCents); err != nil {
		s.reject("purchase_item_add", err)
		return nil, err
	}

	var created *models.PurchaseLineItem
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := repo.FindPurchase(ctx, input.PurchaseID); err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "purchase not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load purchase")
		}

		item := &models.PurchaseLineItem{
			PurchaseID:     input.PurchaseID,
			ProductID:      input.ProductID,
			ProductName:    input.ProductName,
			UnitPriceCents: input.UnitPriceCents,
			Qty:            input.Qty,
			DiscountCents:  input.DiscountCents,
			TotalCents:     input.TotalCents,
			CreatedBy:      input.Actor,
		}
		var err error
		created, err = repo.CreateItem(ctx, item)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create purchase item")
		}

		return s.writeBackTotal(ctx, repo, input.PurchaseID)
	})
	if err != nil {
		s.reject("purchase_item_add", err)
		return nil, err
	}

	s.metrics.IncMutation("purchase_item_add")
	s.info(ctx, input.PurchaseID, "purchase item added")
	return created, nil
}

func (s *service) UpdateItem(ctx context.Context, itemID uuid.UUID, input UpdatePurchaseItemInput) (*models.PurchaseLineItem, error) {
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	if input.Qty == nil && input.UnitPriceCents == nil && input.DiscountCents == nil && input.TotalCents == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "nothing to update")
	}

	var updated *models.PurchaseLineItem
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		item, err := repo.FindItem(ctx, itemID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "purchase item not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load purchase item")
		}

		qty := item.Qty
		if input.Qty != nil {
			qty = *input.Qty
		}
		unitPrice := item.UnitPriceCents
		if input.UnitPriceCents != nil {
			unitPrice = *input.UnitPriceCents
		}
		discount := item.DiscountCents
		if input.DiscountCents != nil {
			discount = *input.DiscountCents
		}
		total := item.TotalCents
		if input.TotalCents != nil {
			total = *input.TotalCents
		}
		if err := validateItem(qty, unitPrice, total, discount); err != nil {
			return err
		}

		updates := map[string]any{
			"qty":              qty,
			"unit_price_cents": unitPrice,
			"discount_cents":   discount,
			"total_cents":      total,
		}
		if err := repo.UpdateItem(ctx, itemID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update purchase item")
		}
		updated, err = repo.FindItem(ctx, itemID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload purchase item")
		}

		return s.writeBackTotal(ctx, repo, item.PurchaseID)
	})
	if err != nil {
		s.reject("purchase_item_update", err)
		return nil, err
	}

	s.metrics.IncMutation("purchase_item_update")
	return updated, nil
}

func (s *service) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	if itemID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		item, err := repo.FindItem(ctx, itemID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "purchase item not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load purchase item")
		}

		if err := repo.DeleteItem(ctx, itemID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete purchase item")
		}

		return s.writeBackTotal(ctx, repo, item.PurchaseID)
	})
	if err != nil {
		s.reject("purchase_item_remove", err)
		return err
	}

	s.metrics.IncMutation("purchase_item_remove")
	return nil
}

// writeBackTotal recomputes the aggregate total from surviving items
// inside the caller's transaction.
func (s *service) writeBackTotal(ctx context.Context, repo Repository, purchaseID uuid.UUID) error {
	total, err := repo.SumItemTotals(ctx, purchaseID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum purchase items")
	}
	if err := repo.UpdatePurchase(ctx, purchaseID, map[string]any{"total_cents": total}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write back purchase total")
	}
	return nil
}

func (s *service) reject(operation string, err error) {
	if typed := pkgerrors.As(err); typed != nil {
		s.metrics.IncRejection(operation, string(typed.Code()))
	}
}

func (s *service) info(ctx context.Context, purchaseID uuid.UUID, msg string) {
	if s.logg == nil {
		return
	}
	s.logg.Info(s.logg.WithPurchaseID(ctx, purchaseID.String()), msg)
}
