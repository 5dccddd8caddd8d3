package service

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"histock/internal/feed"
	"histock/internal/model"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/require"
)

// fakeProductStore mimics the store's guarded $inc semantics: decrements
// only match when the stored stock covers them.
type fakeProductStore struct {
	stocks    map[string]int
	inserted  []model.Product
	adjustErr error
	insertErr error
}

func (f *fakeProductStore) Insert(ctx context.Context, p *model.Product) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, *p)
	f.stocks[p.SKU] = p.Stock
	return nil
}

func (f *fakeProductStore) AdjustStock(ctx context.Context, sku string, delta int) (bool, error) {
	if f.adjustErr != nil {
		return false, f.adjustErr
	}
	stock, ok := f.stocks[sku]
	if !ok {
		return false, nil
	}
	if delta < 0 && stock < -delta {
		return false, nil
	}
	f.stocks[sku] = stock + delta
	return true, nil
}

type fakeLedger struct {
	entries   []model.Transaction
	failFirst int
	calls     int
}

func (f *fakeLedger) Append(ctx context.Context, t *model.Transaction) error {
	f.calls++
	if f.calls <= f.failFirst {
		return errors.New("transient store error")
	}
	f.entries = append(f.entries, *t)
	return nil
}

func newTestService(products ...model.Product) (*InventoryService, *fakeProductStore, *fakeLedger, *feed.ProductProjection) {
	store := &fakeProductStore{stocks: make(map[string]int)}
	for _, p := range products {
		store.stocks[p.SKU] = p.Stock
	}
	ledger := &fakeLedger{}

	projection := feed.NewProductProjection()
	projection.Replace(products)

	s := NewInventoryService(store, ledger, projection)
	s.newBackOff = func() backoff.BackOff {
		return backoff.WithMaxRetries(&backoff.ZeroBackOff{}, 3)
	}
	return s, store, ledger, projection
}

func TestApplyRejectsInvalidQuantity(t *testing.T) {
	s, store, ledger, _ := newTestService(model.Product{SKU: "40000001", Stock: 10})

	for _, qty := range []int{0, -1} {
		_, err := s.Apply(context.Background(), ApplyInput{
			ProductID: "40000001", Type: model.TransactionOut, Quantity: qty, Actor: "Tia",
		})
		require.ErrorIs(t, err, ErrInvalidQuantity)
	}
	require.Equal(t, 10, store.stocks["40000001"])
	require.Empty(t, ledger.entries)
}

func TestApplyUnknownProduct(t *testing.T) {
	s, _, ledger, _ := newTestService()

	_, err := s.Apply(context.Background(), ApplyInput{
		ProductID: "99999999", Type: model.TransactionIn, Quantity: 1, Actor: "Tia",
	})
	require.ErrorIs(t, err, ErrNotFound)
	require.Empty(t, ledger.entries)
}

func TestApplyInsufficientStock(t *testing.T) {
	s, store, ledger, _ := newTestService(model.Product{SKU: "40000001", Stock: 10})

	_, err := s.Apply(context.Background(), ApplyInput{
		ProductID: "40000001", Type: model.TransactionOut, Quantity: 20, Actor: "Tia",
	})
	require.ErrorIs(t, err, ErrInsufficientStock)
	// Rejected before any write: no adjustment, no ledger entry.
	require.Equal(t, 10, store.stocks["40000001"])
	require.Empty(t, ledger.entries)
}

func TestApplyRecordMatchesDelta(t *testing.T) {
	s, store, ledger, _ := newTestService(model.Product{SKU: "40000001", Name: "Slim Case", Stock: 10})

	out, err := s.Apply(context.Background(), ApplyInput{
		ProductID: "40000001", Type: model.TransactionOut, Quantity: 3, Note: "order #812", Actor: "Tia",
	})
	require.NoError(t, err)
	require.Equal(t, 7, store.stocks["40000001"])
	require.Equal(t, model.TransactionOut, out.Type)
	require.Equal(t, 3, out.Quantity)
	require.Equal(t, "Slim Case", out.ProductName)
	require.Equal(t, "Tia", out.UserName)

	in, err := s.Apply(context.Background(), ApplyInput{
		ProductID: "40000001", Type: model.TransactionIn, Quantity: 5, Actor: "Tia",
	})
	require.NoError(t, err)
	require.Equal(t, 12, store.stocks["40000001"])
	require.Equal(t, 5, in.Quantity)

	require.Len(t, ledger.entries, 2)
}

func TestApplyStaleProjectionGuard(t *testing.T) {
	// The projection still shows 10 but the store (mutated by another
	// client) holds 2. The local precheck passes; the store-side guard
	// must refuse the decrement.
	s, store, ledger, _ := newTestService(model.Product{SKU: "40000001", Stock: 10})
	store.stocks["40000001"] = 2

	_, err := s.Apply(context.Background(), ApplyInput{
		ProductID: "40000001", Type: model.TransactionOut, Quantity: 5, Actor: "Tia",
	})
	require.ErrorIs(t, err, ErrInsufficientStock)
	require.Equal(t, 2, store.stocks["40000001"])
	require.Empty(t, ledger.entries)
}

func TestApplyLedgerAppendRetries(t *testing.T) {
	s, _, ledger, _ := newTestService(model.Product{SKU: "40000001", Stock: 10})
	ledger.failFirst = 2

	_, err := s.Apply(context.Background(), ApplyInput{
		ProductID: "40000001", Type: model.TransactionIn, Quantity: 1, Actor: "Tia",
	})
	require.NoError(t, err)
	require.Equal(t, 3, ledger.calls)
	require.Len(t, ledger.entries, 1)
}

func TestApplyLedgerAppendExhausted(t *testing.T) {
	s, store, ledger, _ := newTestService(model.Product{SKU: "40000001", Stock: 10})
	ledger.failFirst = 100

	_, err := s.Apply(context.Background(), ApplyInput{
		ProductID: "40000001", Type: model.TransactionIn, Quantity: 1, Actor: "Tia",
	})
	require.ErrorIs(t, err, ErrLedgerAppend)
	// The adjustment already landed; the failure is surfaced, not hidden.
	require.Equal(t, 11, store.stocks["40000001"])
	require.Empty(t, ledger.entries)
}

func TestApplyAdjustFailureSurfaced(t *testing.T) {
	s, store, ledger, _ := newTestService(model.Product{SKU: "40000001", Stock: 10})
	store.adjustErr = errors.New("connection reset")

	_, err := s.Apply(context.Background(), ApplyInput{
		ProductID: "40000001", Type: model.TransactionOut, Quantity: 1, Actor: "Tia",
	})
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrInsufficientStock)
	require.Empty(t, ledger.entries)
}

var skuPattern = regexp.MustCompile(`^[1-9][0-9]{7}$`)

func TestAddProductGeneratesSKU(t *testing.T) {
	s, store, _, _ := newTestService(model.Product{SKU: "40000001", Stock: 1})

	p := &model.Product{Name: "Charger 20W", Category: "Charger", Stock: 12}
	require.NoError(t, s.AddProduct(context.Background(), p))

	require.Regexp(t, skuPattern, p.SKU)
	require.NotEqual(t, "40000001", p.SKU)
	require.Equal(t, 5, p.MinStock)
	require.False(t, p.CreatedAt.IsZero())
	require.Len(t, store.inserted, 1)
}

func TestAddProductGeneratedSKUsAvoidProjection(t *testing.T) {
	s, _, _, projection := newTestService()

	seen := make(map[string]bool)
	var existing []model.Product
	for i := 0; i < 25; i++ {
		p := &model.Product{Name: "Cable", Stock: 1}
		require.NoError(t, s.AddProduct(context.Background(), p))
		require.Regexp(t, skuPattern, p.SKU)
		require.False(t, seen[p.SKU])
		seen[p.SKU] = true

		// Grow the projection so later generations must avoid these ids.
		existing = append(existing, *p)
		projection.Replace(existing)
	}
}

func TestAddProductDuplicateSKU(t *testing.T) {
	s, store, _, _ := newTestService(model.Product{SKU: "40000001", Stock: 1})

	err := s.AddProduct(context.Background(), &model.Product{SKU: "40000001", Name: "Slim Case", Stock: 1})
	require.ErrorIs(t, err, ErrDuplicateSKU)
	require.Empty(t, store.inserted)
}

func TestAddProductValidation(t *testing.T) {
	s, _, _, _ := newTestService()

	require.ErrorIs(t, s.AddProduct(context.Background(), &model.Product{Stock: 1}), ErrInvalidProduct)
	require.ErrorIs(t, s.AddProduct(context.Background(), &model.Product{Name: "Case", Stock: -1}), ErrInvalidProduct)
}

// Round trip from spec'd scenario: movements, feed deliveries and the
// low-stock view staying consistent.
func TestLowStockFollowsFeedDeliveries(t *testing.T) {
	product := model.Product{SKU: "40000001", Name: "Slim Case", Stock: 10, MinStock: 5}
	s, store, _, projection := newTestService(product)

	deliver := func() {
		product.Stock = store.stocks[product.SKU]
		projection.Replace([]model.Product{product})
	}

	_, err := s.Apply(context.Background(), ApplyInput{
		ProductID: product.SKU, Type: model.TransactionOut, Quantity: 3, Actor: "Tia",
	})
	require.NoError(t, err)
	deliver()
	require.Empty(t, LowStock(projection.All())) // 7 > 5

	_, err = s.Apply(context.Background(), ApplyInput{
		ProductID: product.SKU, Type: model.TransactionOut, Quantity: 20, Actor: "Tia",
	})
	require.ErrorIs(t, err, ErrInsufficientStock)
	require.Equal(t, 7, store.stocks[product.SKU])

	_, err = s.Apply(context.Background(), ApplyInput{
		ProductID: product.SKU, Type: model.TransactionIn, Quantity: 1, Actor: "Tia",
	})
	require.NoError(t, err)
	deliver()
	require.Empty(t, LowStock(projection.All())) // 8 > 5

	// Drain below the threshold and the view must flag it.
	_, err = s.Apply(context.Background(), ApplyInput{
		ProductID: product.SKU, Type: model.TransactionOut, Quantity: 4, Actor: "Tia",
	})
	require.NoError(t, err)
	deliver()
	require.Len(t, LowStock(projection.All()), 1) // 4 <= 5
}
