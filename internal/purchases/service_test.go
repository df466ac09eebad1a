package purchases

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retailcore/backoffice/pkg/db/models"
	"github.com/retailcore/backoffice/pkg/enums"
	pkgerrors "github.com/retailcore/backoffice/pkg/errors"
)

type stubRepo struct {
	purchases map[uuid.UUID]*models.Purchase
	items     map[uuid.UUID]*models.PurchaseLineItem
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		purchases: make(map[uuid.UUID]*models.Purchase),
		items:     make(map[uuid.UUID]*models.PurchaseLineItem),
	}
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubRepo) CreatePurchase(ctx context.Context, purchase *models.Purchase) (*models.Purchase, error) {
	if purchase.ID == uuid.Nil {
		purchase.ID = uuid.New()
	}
	s.purchases[purchase.ID] = purchase
	return purchase, nil
}

func (s *stubRepo) FindPurchase(ctx context.Context, purchaseID uuid.UUID) (*models.Purchase, error) {
	purchase, ok := s.purchases[purchaseID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return purchase, nil
}

func (s *stubRepo) UpdatePurchase(ctx context.Context, purchaseID uuid.UUID, updates map[string]any) error {
	purchase, ok := s.purchases[purchaseID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if total, ok := updates["total_cents"]; ok {
		purchase.TotalCents = total.(int64)
	}
	return nil
}

func (s *stubRepo) CreateItem(ctx context.Context, item *models.PurchaseLineItem) (*models.PurchaseLineItem, error) {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	s.items[item.ID] = item
	return item, nil
}

func (s *stubRepo) FindItem(ctx context.Context, itemID uuid.UUID) (*models.PurchaseLineItem, error) {
	item, ok := s.items[itemID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return item, nil
}

func (s *stubRepo) FindItemsByPurchase(ctx context.Context, purchaseID uuid.UUID) ([]models.PurchaseLineItem, error) {
	var items []models.PurchaseLineItem
	for _, item := range s.items {
		if item.PurchaseID == purchaseID {
			items = append(items, *item)
		}
	}
	return items, nil
}

func (s *stubRepo) UpdateItem(ctx context.Context, itemID uuid.UUID, updates map[string]any) error {
	item, ok := s.items[itemID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for key, value := range updates {
		switch key {
		case "qty":
			item.Qty = value.(int64)
		case "unit_price_cents":
			item.UnitPriceCents = value.(int64)
		case "discount_cents":
			item.DiscountCents = value.(int64)
		case "total_cents":
			item.TotalCents = value.(int64)
		}
	}
	return nil
}

func (s *stubRepo) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	if _, ok := s.items[itemID]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.items, itemID)
	return nil
}

func (s *stubRepo) SumItemTotals(ctx context.Context, purchaseID uuid.UUID) (int64, error) {
	var total int64
	for _, item := range s.items {
		if item.PurchaseID == purchaseID {
			total += item.TotalCents
		}
	}
	return total, nil
}

type stubTx struct{}

func (stubTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func newTestService(t *testing.T) (*stubRepo, Service) {
	t.Helper()
	repo := newStubRepo()
	svc, err := NewService(repo, stubTx{}, nil, nil)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return repo, svc
}

func seedPurchase(repo *stubRepo) *models.Purchase {
	purchase := &models.Purchase{
		ID:            uuid.New(),
		SupplierName:  "acme supply",
		PaymentMethod: enums.PaymentMethodCash,
	}
	repo.purchases[purchase.ID] = purchase
	return purchase
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected coded error, got %v", err)
	}
	if typed.Code() != code {
		t.Fatalf("expected code %s, got %s (%v)", code, typed.Code(), err)
	}
}

func TestCreateItemEnforcesInvariant(t *testing.T) {
	repo, svc := newTestService(t)
	purchase := seedPurchase(repo)
	ctx := context.Background()

	// total must equal unitPrice*qty - discount exactly
	_, err := svc.CreateItem(ctx, CreatePurchaseItemInput{
		PurchaseID:     purchase.ID,
		ProductName:    "beans",
		Qty:            3,
		UnitPriceCents: 500,
		DiscountCents:  100,
		TotalCents:     1401,
	})
	requireCode(t, err, pkgerrors.CodeBusinessRule)
	typed := pkgerrors.As(err)
	if typed.Details() == nil {
		t.Fatal("price inconsistency should carry expected/received details")
	}
	if len(repo.items) != 0 {
		t.Fatal("no item may be persisted on invariant failure")
	}

	item, err := svc.CreateItem(ctx, CreatePurchaseItemInput{
		PurchaseID:     purchase.ID,
		ProductName:    "beans",
		Qty:            3,
		UnitPriceCents: 500,
		DiscountCents:  100,
		TotalCents:     1400,
	})
	if err != nil {
		t.Fatalf("exact invariant should pass: %v", err)
	}
	if item.TotalCents != 1400 {
		t.Fatalf("unexpected item total: %d", item.TotalCents)
	}
}

func TestCreateItemValidationOrder(t *testing.T) {
	repo, svc := newTestService(t)
	purchase := seedPurchase(repo)
	ctx := context.Background()

	cases := []struct {
		name  string
		input CreatePurchaseItemInput
	}{
		{"qty too low", CreatePurchaseItemInput{PurchaseID: purchase.ID, ProductName: "x", Qty: 0, UnitPriceCents: 100, TotalCents: 100}},
		{"qty too high", CreatePurchaseItemInput{PurchaseID: purchase.ID, ProductName: "x", Qty: 1_000_000, UnitPriceCents: 100, TotalCents: 100}},
		{"unit price too high", CreatePurchaseItemInput{PurchaseID: purchase.ID, ProductName: "x", Qty: 1, UnitPriceCents: 100_000_000, TotalCents: 100}},
		{"total too high", CreatePurchaseItemInput{PurchaseID: purchase.ID, ProductName: "x", Qty: 1, UnitPriceCents: 100, TotalCents: 10_000_000_000}},
		{"negative discount", CreatePurchaseItemInput{PurchaseID: purchase.ID, ProductName: "x", Qty: 1, UnitPriceCents: 100, DiscountCents: -1, TotalCents: 100}},
	}
	for _, tc := range cases {
		_, err := svc.CreateItem(ctx, tc.input)
		requireCode(t, err, pkgerrors.CodeValidation)
	}
}

func TestCreateItemUnknownPurchase(t *testing.T) {
	_, svc := newTestService(t)
	_, err := svc.CreateItem(context.Background(), CreatePurchaseItemInput{
		PurchaseID:     uuid.New(),
		ProductName:    "beans",
		Qty:            1,
		UnitPriceCents: 100,
		TotalCents:     100,
	})
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestCreateItemRecomputesAggregateTotal(t *testing.T) {
	repo, svc := newTestService(t)
	purchase := seedPurchase(repo)
	ctx := context.Background()

	_, err := svc.CreateItem(ctx, CreatePurchaseItemInput{
		PurchaseID: purchase.ID, ProductName: "a", Qty: 2, UnitPriceCents: 500, TotalCents: 1000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = svc.CreateItem(ctx, CreatePurchaseItemInput{
		PurchaseID: purchase.ID, ProductName: "b", Qty: 1, UnitPriceCents: 700, DiscountCents: 200, TotalCents: 500,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if purchase.TotalCents != 1500 {
		t.Fatalf("expected aggregate total 1500, got %d", purchase.TotalCents)
	}
}

func TestUpdateItemRevalidatesEffectiveValues(t *testing.T) {
	repo, svc := newTestService(t)
	purchase := seedPurchase(repo)
	ctx := context.Background()

	item, err := svc.CreateItem(ctx, CreatePurchaseItemInput{
		PurchaseID: purchase.ID, ProductName: "a", Qty: 2, UnitPriceCents: 500, TotalCents: 1000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// changing qty alone breaks the invariant against the stored total
	qty := int64(3)
	_, err = svc.UpdateItem(ctx, item.ID, UpdatePurchaseItemInput{Qty: &qty})
	requireCode(t, err, pkgerrors.CodeBusinessRule)

	total := int64(1500)
	updated, err := svc.UpdateItem(ctx, item.ID, UpdatePurchaseItemInput{Qty: &qty, TotalCents: &total})
	if err != nil {
		t.Fatalf("consistent update should pass: %v", err)
	}
	if updated.Qty != 3 || updated.TotalCents != 1500 {
		t.Fatalf("unexpected item state: %+v", updated)
	}
	if purchase.TotalCents != 1500 {
		t.Fatalf("aggregate total not recomputed, got %d", purchase.TotalCents)
	}
}

func TestDeleteItemRecomputesAggregateTotal(t *testing.T) {
	repo, svc := newTestService(t)
	purchase := seedPurchase(repo)
	ctx := context.Background()

	itemA, err := svc.CreateItem(ctx, CreatePurchaseItemInput{
		PurchaseID: purchase.ID, ProductName: "a", Qty: 2, UnitPriceCents: 500, TotalCents: 1000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = svc.CreateItem(ctx, CreatePurchaseItemInput{
		PurchaseID: purchase.ID, ProductName: "b", Qty: 1, UnitPriceCents: 600, TotalCents: 600,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.DeleteItem(ctx, itemA.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if purchase.TotalCents != 600 {
		t.Fatalf("expected aggregate total 600 after delete, got %d", purchase.TotalCents)
	}

	err = svc.DeleteItem(ctx, itemA.ID)
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestCreatePurchaseValidation(t *testing.T) {
	_, svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreatePurchase(ctx, CreatePurchaseInput{PaymentMethod: enums.PaymentMethodCash})
	requireCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.CreatePurchase(ctx, CreatePurchaseInput{SupplierName: "acme", PaymentMethod: "barter"})
	requireCode(t, err, pkgerrors.CodeValidation)

	purchase, err := svc.CreatePurchase(ctx, CreatePurchaseInput{SupplierName: "acme", PaymentMethod: enums.PaymentMethodTransfer})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if purchase.TotalCents != 0 {
		t.Fatalf("new purchases start with zero total, got %d", purchase.TotalCents)
	}
}
