package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	pkgerrors "github.com/retailcore/backoffice/pkg/errors"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestAdjustStockDecreaseAndIncrease(t *testing.T) {
	t.Parallel()

	db := newStockDB(t)
	ctx := context.Background()
	productID := uuid.New()
	seedProduct(t, db, productID, 5)

	require.NoError(t, AdjustStock(ctx, db, productID, -3))
	qty, err := GetStock(ctx, db, productID)
	require.NoError(t, err)
	require.EqualValues(t, 2, qty)

	require.NoError(t, AdjustStock(ctx, db, productID, 4))
	qty, err = GetStock(ctx, db, productID)
	require.NoError(t, err)
	require.EqualValues(t, 6, qty)
}

func TestAdjustStockInsufficient(t *testing.T) {
	t.Parallel()

	db := newStockDB(t)
	ctx := context.Background()
	productID := uuid.New()
	seedProduct(t, db, productID, 1)

	err := AdjustStock(ctx, db, productID, -2)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeBusinessRule, typed.Code())

	qty, err := GetStock(ctx, db, productID)
	require.NoError(t, err)
	require.EqualValues(t, 1, qty, "failed decrement must not change stock")
}

func TestAdjustStockSequentialDecrements(t *testing.T) {
	t.Parallel()

	db := newStockDB(t)
	ctx := context.Background()
	productID := uuid.New()
	seedProduct(t, db, productID, 5)

	require.NoError(t, AdjustStock(ctx, db, productID, -2))
	require.NoError(t, AdjustStock(ctx, db, productID, -3))

	err := AdjustStock(ctx, db, productID, -1)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeBusinessRule, typed.Code())

	qty, err := GetStock(ctx, db, productID)
	require.NoError(t, err)
	require.EqualValues(t, 0, qty)
}

func TestAdjustStockUnknownProduct(t *testing.T) {
	t.Parallel()

	db := newStockDB(t)
	ctx := context.Background()

	for _, delta := range []int64{3, -3} {
		err := AdjustStock(ctx, db, uuid.New(), delta)
		require.Error(t, err)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
	}
}

func TestAdjustStockInvalidInput(t *testing.T) {
	t.Parallel()

	db := newStockDB(t)
	ctx := context.Background()

	err := AdjustStock(ctx, db, uuid.New(), 0)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())

	err = AdjustStock(ctx, db, uuid.Nil, 1)
	require.Error(t, err)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestGetStockUnknownProduct(t *testing.T) {
	t.Parallel()

	db := newStockDB(t)
	_, err := GetStock(context.Background(), db, uuid.New())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func newStockDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:stock_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	// Postgres defaults in the model DDL do not translate to sqlite,
	// so the table is created by hand.
	err = db.Exec(`CREATE TABLE products (
		id text PRIMARY KEY,
		sku text NOT NULL,
		name text NOT NULL,
		description text,
		tags text NOT NULL DEFAULT '',
		sale_price_cents integer NOT NULL DEFAULT 0,
		cost_price_cents integer,
		stock_qty integer NOT NULL DEFAULT 0,
		is_active integer NOT NULL DEFAULT 1,
		created_at datetime,
		updated_at datetime
	)`).Error
	require.NoError(t, err)
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, id uuid.UUID, qty int64) {
	t.Helper()
	err := db.Exec(
		`INSERT INTO products (id, sku, name, sale_price_cents, stock_qty) VALUES (?, ?, ?, ?, ?)`,
		id, "SKU-"+id.String()[:8], "test product", 1000, qty,
	).Error
	require.NoError(t, err)
}
