package products

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailcore/backoffice/pkg/db/models"
	pkgerrors "github.com/retailcore/backoffice/pkg/errors"
	"gorm.io/gorm"
)

// Adjuster satisfies stock-port interfaces with the guarded UPDATE.
type Adjuster struct{}

func (Adjuster) Adjust(ctx context.Context, tx *gorm.DB, productID uuid.UUID, delta int64) error {
	return AdjustStock(ctx, tx, productID, delta)
}

// Source satisfies product-lookup ports with transactional reads.
type Source struct{}

func (Source) FindProduct(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Product, error) {
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction handle required")
	}
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	var product models.Product
	err := tx.WithContext(ctx).Where("id = ?", id).First(&product).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return &product, nil
}
