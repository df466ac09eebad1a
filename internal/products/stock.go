package products

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailcore/backoffice/pkg/db/models"
	pkgerrors "github.com/retailcore/backoffice/pkg/errors"
	"gorm.io/gorm"
)

// AdjustStock applies a signed delta to a product's stock counter.
// Negative deltas are guarded so the counter never drops below zero;
// the single UPDATE keeps concurrent adjustments composable.
func AdjustStock(ctx context.Context, tx *gorm.DB, productID uuid.UUID, delta int64) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction handle required")
	}
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if delta == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock delta must be non-zero")
	}

	if delta > 0 {
		result := tx.WithContext(ctx).Exec(
			`UPDATE products SET stock_qty = stock_qty + ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
			delta, productID,
		)
		if result.Error != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, result.Error, "increase stock")
		}
		if result.RowsAffected == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil
	}

	needed := -delta
	result := tx.WithContext(ctx).Exec(
		`UPDATE products SET stock_qty = stock_qty - ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND stock_qty >= ?`,
		needed, productID, needed,
	)
	if result.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, result.Error, "decrease stock")
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := tx.WithContext(ctx).Model(&models.Product{}).Where("id = ?", productID).Count(&count).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check product existence")
		}
		if count == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.New(pkgerrors.CodeBusinessRule, "insufficient stock").
			WithDetails(map[string]any{"product_id": productID, "requested": needed})
	}
	return nil
}

// GetStock reads the current stock counter for a product.
func GetStock(ctx context.Context, tx *gorm.DB, productID uuid.UUID) (int64, error) {
	if tx == nil {
		return 0, pkgerrors.New(pkgerrors.CodeDependency, "transaction handle required")
	}
	if productID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	var qty int64
	err := tx.WithContext(ctx).
		Model(&models.Product{}).
		Select("stock_qty").
		Where("id = ?", productID).
		Take(&qty).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read stock")
	}
	return qty, nil
}
