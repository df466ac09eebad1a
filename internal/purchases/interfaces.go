package purchases

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailcore/backoffice/pkg/db/models"
	"gorm.io/gorm"
)

// Repository defines persistence operations for purchase tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreatePurchase(ctx context.Context, purchase *models.Purchase) (*models.Purchase, error)
	FindPurchase(ctx context.Context, purchaseID uuid.UUID) (*models.Purchase, error)
	UpdatePurchase(ctx context.Context, purchaseID uuid.UUID, updates map[string]any) error
	CreateItem(ctx context.Context, item *models.PurchaseLineItem) (*models.PurchaseLineItem, error)
	FindItem(ctx context.Context, itemID uuid.UUID) (*models.PurchaseLineItem, error)
	FindItemsByPurchase(ctx context.Context, purchaseID uuid.UUID) ([]models.PurchaseLineItem, error)
	UpdateItem(ctx context.Context, itemID uuid.UUID, updates map[string]any) error
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
	SumItemTotals(ctx context.Context, purchaseID uuid.UUID) (int64, error)
}
