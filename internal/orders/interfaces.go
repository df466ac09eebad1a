package orders

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailcore/backoffice/pkg/db/models"
	"gorm.io/gorm"
)

// Repository defines persistence operations for order tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	FindOrderWithItems(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error
	DeleteOrder(ctx context.Context, orderID uuid.UUID) error
	ClientExists(ctx context.Context, clientID uuid.UUID) (bool, error)
	CreateLineItem(ctx context.Context, item *models.OrderLineItem) (*models.OrderLineItem, error)
	FindLineItem(ctx context.Context, itemID uuid.UUID) (*models.OrderLineItem, error)
	FindLineItemByOrderAndProduct(ctx context.Context, orderID, productID uuid.UUID) (*models.OrderLineItem, error)
	FindLineItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]models.OrderLineItem, error)
	UpdateLineItem(ctx context.Context, itemID uuid.UUID, updates map[string]any) error
	DeleteLineItem(ctx context.Context, itemID uuid.UUID) error
	DeleteLineItemsByOrder(ctx context.Context, orderID uuid.UUID) error
	SumLineItemTotals(ctx context.Context, orderID uuid.UUID) (int64, error)
}

// ProductSource resolves catalog rows inside the engine's transaction.
type ProductSource interface {
	FindProduct(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Product, error)
}

// StockPort applies signed deltas to the shared stock counter.
type StockPort interface {
	Adjust(ctx context.Context, tx *gorm.DB, productID uuid.UUID, delta int64) error
}
