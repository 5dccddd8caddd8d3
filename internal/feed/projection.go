package feed

import (
	"sync"

	"histock/internal/model"
)

// ProductProjection is the local read-optimized view of the products
// collection. Only the synchronizer writes it; every delivery replaces the
// whole content, so redelivering the same snapshot is a no-op in effect.
type ProductProjection struct {
	mu      sync.RWMutex
	ordered []model.Product
	bySKU   map[string]model.Product
}

func NewProductProjection() *ProductProjection {
	return &ProductProjection{bySKU: make(map[string]model.Product)}
}

func (p *ProductProjection) Replace(products []model.Product) {
	ordered := make([]model.Product, len(products))
	copy(ordered, products)
	bySKU := make(map[string]model.Product, len(products))
	for _, product := range products {
		bySKU[product.SKU] = product
	}

	p.mu.Lock()
	p.ordered = ordered
	p.bySKU = bySKU
	p.mu.Unlock()
}

func (p *ProductProjection) Get(sku string) (model.Product, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	product, ok := p.bySKU[sku]
	return product, ok
}

// All returns a copy in delivery order (newest first).
func (p *ProductProjection) All() []model.Product {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]model.Product, len(p.ordered))
	copy(out, p.ordered)
	return out
}

func (p *ProductProjection) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.ordered)
}

// TransactionLog mirrors the most recent ledger entries, newest first.
type TransactionLog struct {
	mu      sync.RWMutex
	entries []model.Transaction
}

func NewTransactionLog() *TransactionLog {
	return &TransactionLog{}
}

func (l *TransactionLog) Replace(entries []model.Transaction) {
	copied := make([]model.Transaction, len(entries))
	copy(copied, entries)

	l.mu.Lock()
	l.entries = copied
	l.mu.Unlock()
}

func (l *TransactionLog) Recent() []model.Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]model.Transaction, len(l.entries))
	copy(out, l.entries)
	return out
}

// CategorySet mirrors the shared settings document. It starts from the
// default seed so readers see something sensible before the first delivery.
type CategorySet struct {
	mu         sync.RWMutex
	categories []string
}

func NewCategorySet() *CategorySet {
	seed := make([]string, len(model.DefaultCategories))
	copy(seed, model.DefaultCategories)
	return &CategorySet{categories: seed}
}

func (c *CategorySet) Replace(categories []string) {
	copied := make([]string, len(categories))
	copy(copied, categories)

	c.mu.Lock()
	c.categories = copied
	c.mu.Unlock()
}

func (c *CategorySet) List() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.categories))
	copy(out, c.categories)
	return out
}
