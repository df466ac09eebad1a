package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/retailcore/backoffice/pkg/db/models"
	"github.com/retailcore/backoffice/pkg/enums"
)

func newOrdersDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:orders_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE clients (
			id text PRIMARY KEY,
			name text NOT NULL,
			email text,
			phone text,
			address text,
			notes text,
			is_active integer NOT NULL DEFAULT 1,
			created_at datetime,
			updated_at datetime,
			deleted_at datetime
		)`,
		`CREATE TABLE orders (
			id text PRIMARY KEY,
			client_id text NOT NULL,
			status text NOT NULL DEFAULT 'pending',
			payment_method text NOT NULL DEFAULT 'cash',
			delivery_type text NOT NULL DEFAULT 'pickup',
			total_cents integer NOT NULL DEFAULT 0,
			discount_cents integer NOT NULL DEFAULT 0,
			delivery_fee_cents integer NOT NULL DEFAULT 0,
			notes text,
			created_by text,
			confirmed_at datetime,
			delivered_at datetime,
			cancelled_at datetime,
			created_at datetime,
			updated_at datetime
		)`,
		`CREATE TABLE order_line_items (
			id text PRIMARY KEY,
			order_id text NOT NULL,
			product_id text NOT NULL,
			product_name text NOT NULL,
			unit_price_cents integer NOT NULL,
			qty integer NOT NULL,
			total_cents integer NOT NULL,
			created_by text,
			updated_by text,
			created_at datetime,
			updated_at datetime,
			UNIQUE (order_id, product_id)
		)`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func TestRepositoryOrderRoundTrip(t *testing.T) {
	t.Parallel()

	db := newOrdersDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	clientID := uuid.New()
	require.NoError(t, db.Create(&models.Client{ID: clientID, Name: "acme"}).Error)

	exists, err := repo.ClientExists(ctx, clientID)
	require.NoError(t, err)
	require.True(t, exists)
	exists, err = repo.ClientExists(ctx, uuid.New())
	require.NoError(t, err)
	require.False(t, exists)

	order := &models.Order{
		ID:            uuid.New(),
		ClientID:      clientID,
		Status:        enums.OrderStatusPending,
		PaymentMethod: enums.PaymentMethodCash,
		DeliveryType:  enums.DeliveryTypePickup,
	}
	_, err = repo.CreateOrder(ctx, order)
	require.NoError(t, err)

	loaded, err := repo.FindOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, enums.OrderStatusPending, loaded.Status)

	require.NoError(t, repo.UpdateOrder(ctx, order.ID, map[string]any{"status": enums.OrderStatusConfirmed}))
	loaded, err = repo.FindOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, enums.OrderStatusConfirmed, loaded.Status)

	require.ErrorIs(t, repo.UpdateOrder(ctx, uuid.New(), map[string]any{"status": enums.OrderStatusConfirmed}), gorm.ErrRecordNotFound)
}

func TestRepositoryLineItemsAndTotals(t *testing.T) {
	t.Parallel()

	db := newOrdersDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	orderID := uuid.New()
	require.NoError(t, db.Create(&models.Order{ID: orderID, ClientID: uuid.New(), Status: enums.OrderStatusPending, PaymentMethod: enums.PaymentMethodCash, DeliveryType: enums.DeliveryTypePickup}).Error)

	productA := uuid.New()
	productB := uuid.New()
	_, err := repo.CreateLineItem(ctx, &models.OrderLineItem{ID: uuid.New(), OrderID: orderID, ProductID: productA, ProductName: "a", UnitPriceCents: 500, Qty: 2, TotalCents: 1000})
	require.NoError(t, err)
	_, err = repo.CreateLineItem(ctx, &models.OrderLineItem{ID: uuid.New(), OrderID: orderID, ProductID: productB, ProductName: "b", UnitPriceCents: 200, Qty: 3, TotalCents: 600})
	require.NoError(t, err)

	// the (order, product) pair is unique
	_, err = repo.CreateLineItem(ctx, &models.OrderLineItem{ID: uuid.New(), OrderID: orderID, ProductID: productA, ProductName: "a", UnitPriceCents: 500, Qty: 1, TotalCents: 500})
	require.Error(t, err)

	items, err := repo.FindLineItemsByOrder(ctx, orderID)
	require.NoError(t, err)
	require.Len(t, items, 2)

	found, err := repo.FindLineItemByOrderAndProduct(ctx, orderID, productA)
	require.NoError(t, err)
	require.EqualValues(t, 2, found.Qty)

	total, err := repo.SumLineItemTotals(ctx, orderID)
	require.NoError(t, err)
	require.EqualValues(t, 1600, total)

	withItems, err := repo.FindOrderWithItems(ctx, orderID)
	require.NoError(t, err)
	require.Len(t, withItems.Items, 2)

	require.NoError(t, repo.DeleteLineItemsByOrder(ctx, orderID))
	total, err = repo.SumLineItemTotals(ctx, orderID)
	require.NoError(t, err)
	require.Zero(t, total)
}
