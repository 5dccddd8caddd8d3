package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"time"

	"histock/internal/feed"
	"histock/internal/logger"
	"histock/internal/model"

	"github.com/cenkalti/backoff/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel"
)

// ProductStore is the slice of the remote store the engine writes through.
type ProductStore interface {
	Insert(ctx context.Context, product *model.Product) error
	AdjustStock(ctx context.Context, sku string, delta int) (bool, error)
}

// Ledger appends immutable transaction records.
type Ledger interface {
	Append(ctx context.Context, t *model.Transaction) error
}

// InventoryService is the transaction engine: it converts a validated
// movement into a relative stock adjustment plus a ledger entry. Reads go
// against the local projection; writes go to the remote store only.
type InventoryService struct {
	store      ProductStore
	ledger     Ledger
	projection *feed.ProductProjection

	newBackOff func() backoff.BackOff
}

var InventoryServiceTracer = otel.Tracer("InventoryService")

func NewInventoryService(store ProductStore, ledger Ledger, projection *feed.ProductProjection) *InventoryService {
	return &InventoryService{
		store:      store,
		ledger:     ledger,
		projection: projection,
		newBackOff: func() backoff.BackOff {
			return backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 4)
		},
	}
}

// ApplyInput describes one stock movement. Actor is explicit: ledger entries
// record who acted, and the engine holds no ambient user state.
type ApplyInput struct {
	ProductID string
	Type      model.TransactionType
	Quantity  int
	Note      string
	Actor     string
}

// Apply validates and performs one movement. The stock write is a relative
// $inc delta, never a set-from-stale-read, which is what keeps concurrent
// clients safe without locking. If the adjustment lands but the ledger
// append keeps failing, the error is surfaced as ErrLedgerAppend.
//
// Local stock shown before the next feed delivery is speculative; the
// authoritative value is whatever the synchronizer observes next.
func (s *InventoryService) Apply(ctx context.Context, in ApplyInput) (*model.Transaction, error) {
	ctx, span := InventoryServiceTracer.Start(ctx, "InventoryService.Apply")
	defer span.End()
	logger.Info(ctx, "Service")

	if in.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	if !in.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidProduct, in.Type)
	}

	product, ok := s.projection.Get(in.ProductID)
	if !ok {
		return nil, ErrNotFound
	}
	if in.Type == model.TransactionOut && product.Stock < in.Quantity {
		return nil, ErrInsufficientStock
	}

	matched, err := s.store.AdjustStock(ctx, in.ProductID, in.Type.Delta(in.Quantity))
	if err != nil {
		return nil, fmt.Errorf("adjust stock: %w", err)
	}
	if !matched {
		// The projection was stale: the store-side guard refused the write.
		if in.Type == model.TransactionOut {
			return nil, ErrInsufficientStock
		}
		return nil, ErrNotFound
	}

	t := &model.Transaction{
		ProductID:   in.ProductID,
		ProductName: product.Name,
		Type:        in.Type,
		Quantity:    in.Quantity,
		Note:        in.Note,
		UserName:    in.Actor,
	}

	appendEntry := func() error { return s.ledger.Append(ctx, t) }
	if err := backoff.Retry(appendEntry, backoff.WithContext(s.newBackOff(), ctx)); err != nil {
		logger.Error(ctx, "Stock adjusted but ledger entry not appended",
			slog.String("productId", in.ProductID),
			slog.String("type", string(in.Type)),
			slog.Int("quantity", in.Quantity),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("%w: %v", ErrLedgerAppend, err)
	}

	return t, nil
}

// AddProduct creates a product. When no SKU is supplied an 8-digit numeric
// one is generated and checked against the projection; a supplied SKU that
// already exists is rejected. The store's key constraint is the final word
// against concurrent creates.
func (s *InventoryService) AddProduct(ctx context.Context, product *model.Product) error {
	ctx, span := InventoryServiceTracer.Start(ctx, "InventoryService.AddProduct")
	defer span.End()
	logger.Info(ctx, "Service")

	if product.Name == "" || product.Stock < 0 || product.MinStock < 0 {
		return ErrInvalidProduct
	}
	if product.MinStock == 0 {
		product.MinStock = 5
	}

	if product.SKU == "" {
		product.SKU = s.generateSKU()
	} else if _, exists := s.projection.Get(product.SKU); exists {
		return ErrDuplicateSKU
	}
	product.CreatedAt = time.Now()

	if err := s.store.Insert(ctx, product); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateSKU
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// generateSKU returns an 8-digit numeric SKU absent from the projection.
func (s *InventoryService) generateSKU() string {
	for {
		sku := strconv.Itoa(10000000 + rand.IntN(90000000))
		if _, exists := s.projection.Get(sku); !exists {
			return sku
		}
	}
}
