package service

import "errors"

// Recoverable failure classes. All are scoped to the single operation that
// triggered them; nothing here is fatal to the process.
var (
	ErrNotFound          = errors.New("product not found")
	ErrInvalidQuantity   = errors.New("quantity must be at least 1")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrDuplicateSKU      = errors.New("sku already exists")
	ErrInvalidProduct    = errors.New("invalid product data")
	ErrInvalidCategories = errors.New("invalid category list")
	// ErrLedgerAppend means stock was adjusted but the ledger entry could
	// not be appended after retries. The adjustment is real; the gap must
	// be surfaced, never swallowed.
	ErrLedgerAppend = errors.New("ledger append failed after stock adjustment")
)
