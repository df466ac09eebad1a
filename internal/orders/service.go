package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/retailcore/backoffice/pkg/db/models"
	"github.com/retailcore/backoffice/pkg/enums"
	pkgerrors "github.com/retailcore/backoffice/pkg/errors"
	"github.com/retailcore/backoffice/pkg/logger"
	"github.com/retailcore/backoffice/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines order aggregate and line item operations.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*models.Order, error)
	Update(ctx context.Context, orderID uuid.UUID, input UpdateOrderInput) (*models.Order, error)
	Delete(ctx context.Context, orderID uuid.UUID) error
	UpdateStatus(ctx context.Context, orderID uuid.UUID, next enums.OrderStatus, actor *string) (*models.Order, error)
	CalculateTotal(ctx context.Context, orderID uuid.UUID) (int64, error)
	RecalculateTotal(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	AddLineItem(ctx context.Context, input AddLineItemInput) (*models.OrderLineItem, error)
	UpdateLineItem(ctx context.Context, itemID uuid.UUID, input UpdateLineItemInput) (*models.OrderLineItem, error)
	RemoveLineItem(ctx context.Context, itemID uuid.UUID, actor *string) (*models.OrderLineItem, error)
}

type service struct {
	repo     Repository
	products ProductSource
	stock    StockPort
	tx       txRunner
	metrics  *metrics.EngineMetrics
	logg     *logger.Logger
}

// NewService builds an order service with the required dependencies.
// Metrics and logger are optional.
func NewService(repo Repository, products ProductSource, stock StockPort, tx txRunner, m *metrics.EngineMetrics, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product source required")
	}
	if stock == nil {
		return nil, fmt.Errorf("stock port required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:     repo,
		products: products,
		stock:    stock,
		tx:       tx,
		metrics:  m,
		logg:     logg,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if input.ClientID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client id required")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method")
	}
	if !input.DeliveryType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown delivery type")
	}
	if input.DiscountCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount must not be negative")
	}
	if input.DeliveryFeeCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery fee must not be negative")
	}

	var created *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		exists, err := repo.ClientExists(ctx, input.ClientID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check client")
		}
		if !exists {
			return pkgerrors.New(pkgerrors.CodeNotFound, "client not found")
		}

		order := &models.Order{
			ClientID:         input.ClientID,
			Status:           enums.OrderStatusPending,
			PaymentMethod:    input.PaymentMethod,
			DeliveryType:     input.DeliveryType,
			DiscountCents:    input.DiscountCents,
			DeliveryFeeCents: input.DeliveryFeeCents,
			Notes:            input.Notes,
			CreatedBy:        input.Actor,
		}
		created, err = repo.CreateOrder(ctx, order)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		return nil
	})
	if err != nil {
		s.reject("order_create", err)
		return nil, err
	}

	s.metrics.IncMutation("order_create")
	s.info(ctx, created.ID, "order created")
	return created, nil
}

func (s *service) Update(ctx context.Context, orderID uuid.UUID, input UpdateOrderInput) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.PaymentMethod != nil && !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method")
	}
	if input.DeliveryType != nil && !input.DeliveryType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown delivery type")
	}
	if input.DiscountCents != nil && *input.DiscountCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount must not be negative")
	}
	if input.DeliveryFeeCents != nil && *input.DeliveryFeeCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery fee must not be negative")
	}
	if input.TotalCents != nil && *input.TotalCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "total must not be negative")
	}
	if input.DiscountCents != nil && input.TotalCents != nil && *input.DiscountCents > *input.TotalCents {
		return nil, pkgerrors.New(pkgerrors.CodeBusinessRule, "discount exceeds total").
			WithDetails(map[string]any{"discount": *input.DiscountCents, "total": *input.TotalCents})
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindOrder(ctx, orderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if !CanBeModified(order.Status) {
			return pkgerrors.New(pkgerrors.CodeBusinessRule, "order can no longer be modified").
				WithDetails(map[string]any{"status": order.Status.String()})
		}

		updates := map[string]any{}
		if input.PaymentMethod != nil {
			updates["payment_method"] = *input.PaymentMethod
		}
		if input.DeliveryType != nil {
			updates["delivery_type"] = *input.DeliveryType
		}
		if input.DiscountCents != nil {
			updates["discount_cents"] = *input.DiscountCents
		}
		if input.DeliveryFeeCents != nil {
			updates["delivery_fee_cents"] = *input.DeliveryFeeCents
		}
		if input.TotalCents != nil {
			updates["total_cents"] = *input.TotalCents
		}
		if input.Notes != nil {
			updates["notes"] = *input.Notes
		}
		if len(updates) == 0 {
			updated = order
			return nil
		}

		if err := repo.UpdateOrder(ctx, orderID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
		}
		updated, err = repo.FindOrder(ctx, orderID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
		}
		return nil
	})
	if err != nil {
		s.reject("order_update", err)
		return nil, err
	}

	s.metrics.IncMutation("order_update")
	return updated, nil
}

func (s *service) Delete(ctx context.Context, orderID uuid.UUID) error {
	if orderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindOrderWithItems(ctx, orderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if !CanBeDeleted(order.Status) {
			return pkgerrors.New(pkgerrors.CodeBusinessRule, "delivered orders cannot be deleted").
				WithDetails(map[string]any{"status": order.Status.String()})
		}

		var restoreErr error
		for _, item := range order.Items {
			if err := s.stock.Adjust(ctx, tx, item.ProductID, item.Qty); err != nil {
				restoreErr = multierr.Append(restoreErr, err)
				continue
			}
			s.metrics.IncStockAdjustment("increase")
		}
		if restoreErr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, restoreErr, "restore stock on delete")
		}

		if err := repo.DeleteLineItemsByOrder(ctx, orderID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete line items")
		}
		if err := repo.DeleteOrder(ctx, orderID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order")
		}
		return nil
	})
	if err != nil {
		s.reject("order_delete", err)
		return err
	}

	s.metrics.IncMutation("order_delete")
	s.info(ctx, orderID, "order deleted")
	return nil
}

func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, next enums.OrderStatus, actor *string) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	var updated *models.Order
	var from enums.OrderStatus
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindOrder(ctx, orderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		from = order.Status

		if err := ValidateTransition(order.Status, next); err != nil {
			return err
		}

		updates := map[string]any{"status": next}
		now := time.Now().UTC()
		switch next {
		case enums.OrderStatusConfirmed:
			updates["confirmed_at"] = now
		case enums.OrderStatusDelivered:
			updates["delivered_at"] = now
		case enums.OrderStatusCancelled:
			updates["cancelled_at"] = now
		}

		if err := repo.UpdateOrder(ctx, orderID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		updated, err = repo.FindOrder(ctx, orderID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
		}
		return nil
	})
	if err != nil {
		s.reject("order_status", err)
		return nil, err
	}

	s.metrics.IncMutation("order_status")
	s.metrics.IncStatusTransition(from.String(), next.String())
	s.info(ctx, orderID, "order status changed")
	return updated, nil
}

// CalculateTotal sums qty times unit price over the order's items. The
// order-level discount and delivery fee are deliberately not applied.
func (s *service) CalculateTotal(ctx context.Context, orderID uuid.UUID) (int64, error) {
	if orderID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	if _, err := s.repo.FindOrder(ctx, orderID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	total, err := s.repo.SumLineItemTotals(ctx, orderID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum line items")
	}
	return total, nil
}

// RecalculateTotal writes CalculateTotal's result back onto the order row.
func (s *service) RecalculateTotal(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := repo.FindOrder(ctx, orderID); err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		total, err := repo.SumLineItemTotals(ctx, orderID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum line items")
		}
		if err := repo.UpdateOrder(ctx, orderID, map[string]any{"total_cents": total}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write back total")
		}
		updated, err = repo.FindOrder(ctx, orderID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
		}
		return nil
	})
	if err != nil {
		s.reject("order_recalculate_total", err)
		return nil, err
	}

	s.metrics.IncMutation("order_recalculate_total")
	return updated, nil
}

func (s *service) reject(operation string, err error) {
	if typed := pkgerrors.As(err); typed != nil {
		s.metrics.IncRejection(operation, string(typed.Code()))
	}
}

func (s *service) info(ctx context.Context, orderID uuid.UUID, msg string) {
	if s.logg == nil {
		return
	}
	s.logg.Info(s.logg.WithOrderID(ctx, orderID.String()), msg)
}
