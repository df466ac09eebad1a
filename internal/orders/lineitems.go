package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retailcore/backoffice/pkg/db/models"
	pkgerrors "github.com/retailcore/backoffice/pkg/errors"
)

const (
	minLineItemQty = 1
	maxLineItemQty = 999
)

func validateLineItemQty(qty int64) error {
	if qty < minLineItemQty || qty > maxLineItemQty {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity out of range").
			WithDetails(map[string]any{"min": minLineItemQty, "max": maxLineItemQty, "received": qty})
	}
	return nil
}

func (s *service) AddLineItem(ctx context.Context, input AddLineItemInput) (*models.OrderLineItem, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if err := validateLineItemQty(input.Qty); err != nil {
		return nil, err
	}
	if input.UnitPriceCents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price must be positive")
	}

	var created *models.OrderLineItem
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindOrder(ctx, input.OrderID)
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

		if _, err := repo.FindLineItemByOrderAndProduct(ctx, input.OrderID, input.ProductID); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "product already on order")
		} else if err != gorm.ErrRecordNotFound {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check duplicate line item")
		}

		product, err := s.products.FindProduct(ctx, tx, input.ProductID)
		if err != nil {
			return err
		}
		if !product.IsActive {
			return pkgerrors.New(pkgerrors.CodeBusinessRule, "product is not active")
		}
		if product.StockQty < input.Qty {
			return pkgerrors.New(pkgerrors.CodeBusinessRule, "insufficient stock").
				WithDetails(map[string]any{"available": product.StockQty, "requested": input.Qty})
		}
		if err := ValidatePriceBand(input.UnitPriceCents, product.SalePriceCents); err != nil {
			return err
		}

		if err := s.stock.Adjust(ctx, tx, input.ProductID, -input.Qty); err != nil {
			return err
		}
		s.metrics.IncStockAdjustment("decrease")

		item := &models.OrderLineItem{
			OrderID:        input.OrderID,
			ProductID:      input.ProductID,
			ProductName:    product.Name,
			UnitPriceCents: input.UnitPriceCents,
			Qty:            input.Qty,
			TotalCents:     input.Qty * input.UnitPriceCents,
			CreatedBy:      input.Actor,
		}
		created, err = repo.CreateLineItem(ctx, item)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create line item")
		}
		return nil
	})
	if err != nil {
		s.reject("order_item_add", err)
		return nil, err
	}

	s.metrics.IncMutation("order_item_add")
	s.info(ctx, input.OrderID, "line item added")
	return created, nil
}

func (s *service) UpdateLineItem(ctx context.Context, itemID uuid.UUID, input UpdateLineItemInput) (*models.OrderLineItem, error) {
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "line item id required")
	}
	if input.Qty == nil && input.UnitPriceCents == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "nothing to update")
	}
	if input.Qty != nil {
		if err := validateLineItemQty(*input.Qty); err != nil {
			return nil, err
		}
	}
	if input.UnitPriceCents != nil && *input.UnitPriceCents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price must be positive")
	}

	var updated *models.OrderLineItem
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		item, err := repo.FindLineItem(ctx, itemID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "line item not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load line item")
		}

		order, err := repo.FindOrder(ctx, item.OrderID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if !CanBeModified(order.Status) {
			return pkgerrors.New(pkgerrors.CodeBusinessRule, "order can no longer be modified").
				WithDetails(map[string]any{"status": order.Status.String()})
		}

		product, err := s.products.FindProduct(ctx, tx, item.ProductID)
		if err != nil {
			return err
		}

		newQty := item.Qty
		if input.Qty != nil {
			newQty = *input.Qty
		}
		newPrice := item.UnitPriceCents
		if input.UnitPriceCents != nil {
			newPrice = *input.UnitPriceCents
			if err := ValidatePriceBand(newPrice, product.SalePriceCents); err != nil {
				return err
			}
		}

		// All checks run before any stock mutation.
		delta := newQty - item.Qty
		if delta > 0 && product.StockQty < delta {
			return pkgerrors.New(pkgerrors.CodeBusinessRule, "insufficient stock").
				WithDetails(map[string]any{"available": product.StockQty, "requested": delta})
		}

		if delta != 0 {
			if err := s.stock.Adjust(ctx, tx, item.ProductID, -delta); err != nil {
				return err
			}
			if delta > 0 {
				s.metrics.IncStockAdjustment("decrease")
			} else {
				s.metrics.IncStockAdjustment("increase")
			}
		}

		updates := map[string]any{
			"qty":              newQty,
			"unit_price_cents": newPrice,
			"total_cents":      newQty * newPrice,
		}
		if input.Actor != nil {
			updates["updated_by"] = *input.Actor
		}
		if err := repo.UpdateLineItem(ctx, itemID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update line item")
		}
		updated, err = repo.FindLineItem(ctx, itemID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload line item")
		}
		return nil
	})
	if err != nil {
		s.reject("order_item_update", err)
		return nil, err
	}

	s.metrics.IncMutation("order_item_update")
	return updated, nil
}

func (s *service) RemoveLineItem(ctx context.Context, itemID uuid.UUID, actor *string) (*models.OrderLineItem, error) {
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "line item id required")
	}

	var removed *models.OrderLineItem
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		item, err := repo.FindLineItem(ctx, itemID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "line item not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load line item")
		}

		order, err := repo.FindOrder(ctx, item.OrderID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if !CanBeModified(order.Status) {
			return pkgerrors.New(pkgerrors.CodeBusinessRule, "order can no longer be modified").
				WithDetails(map[string]any{"status": order.Status.String()})
		}

		if err := s.stock.Adjust(ctx, tx, item.ProductID, item.Qty); err != nil {
			return err
		}
		s.metrics.IncStockAdjustment("increase")

		if err := repo.DeleteLineItem(ctx, itemID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete line item")
		}
		removed = item
		return nil
	})
	if err != nil {
		s.reject("order_item_remove", err)
		return nil, err
	}

	s.metrics.IncMutation("order_item_remove")
	return removed, nil
}
