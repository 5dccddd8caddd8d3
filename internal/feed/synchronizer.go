package feed

import (
	"context"
	"log/slog"
	"sync"

	"histock/internal/logger"
	"histock/internal/repository"
)

// Synchronizer owns the three local projections and keeps them fresh from
// the remote change feeds. It is the only writer of the projections; every
// other component reads them through the accessors.
type Synchronizer struct {
	productRepo     *repository.ProductRepository
	transactionRepo *repository.TransactionRepository
	settingsRepo    *repository.SettingsRepository

	products     *ProductProjection
	transactions *TransactionLog
	categories   *CategorySet

	ready     chan struct{}
	readyOnce sync.Once
}

func NewSynchronizer(products *repository.ProductRepository, transactions *repository.TransactionRepository, settings *repository.SettingsRepository) *Synchronizer {
	return &Synchronizer{
		productRepo:     products,
		transactionRepo: transactions,
		settingsRepo:    settings,
		products:        NewProductProjection(),
		transactions:    NewTransactionLog(),
		categories:      NewCategorySet(),
		ready:           make(chan struct{}),
	}
}

func (s *Synchronizer) Products() *ProductProjection { return s.products }

func (s *Synchronizer) Transactions() *TransactionLog { return s.transactions }

func (s *Synchronizer) Categories() *CategorySet { return s.categories }

// Ready is closed after the first product snapshot has been applied.
func (s *Synchronizer) Ready() <-chan struct{} { return s.ready }

// Run establishes all three subscriptions and applies deliveries until ctx
// is cancelled. A feed that cannot be established leaves its projection
// stale and is logged; the other feeds keep running.
func (s *Synchronizer) Run(ctx context.Context) {
	var wg sync.WaitGroup

	productSub, err := Watch(ctx, s.productRepo.Collection(), s.productRepo.FindAll)
	if err != nil {
		logger.Error(ctx, "Product feed unavailable", slog.String("error", err.Error()))
	} else {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for snapshot := range productSub.Snapshots() {
				s.products.Replace(snapshot)
				s.readyOnce.Do(func() { close(s.ready) })
			}
		}()
	}

	transactionSub, err := Watch(ctx, s.transactionRepo.Collection(), s.transactionRepo.FindRecent)
	if err != nil {
		logger.Error(ctx, "Transaction feed unavailable", slog.String("error", err.Error()))
	} else {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for snapshot := range transactionSub.Snapshots() {
				s.transactions.Replace(snapshot)
			}
		}()
	}

	settingsSub, err := Watch(ctx, s.settingsRepo.Collection(), s.settingsRepo.Get)
	if err != nil {
		logger.Error(ctx, "Settings feed unavailable", slog.String("error", err.Error()))
	} else {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for snapshot := range settingsSub.Snapshots() {
				s.categories.Replace(snapshot.Categories)
			}
		}()
	}

	wg.Wait()
}
