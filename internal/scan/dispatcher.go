package scan

import (
	"histock/internal/model"
)

type OutcomeKind int

const (
	// OutcomeNoMatch means the token matched no product. The caller surfaces
	// an error notice and may prefill a search with the raw token.
	OutcomeNoMatch OutcomeKind = iota + 1
	// OutcomeConfirm asks the caller to collect quantity and direction
	// before anything is written (manual mode).
	OutcomeConfirm
	// OutcomeAutoApply tells the caller to apply a quantity-1 movement in
	// the mode's fixed direction immediately.
	OutcomeAutoApply
)

type Outcome struct {
	Kind    OutcomeKind
	Token   string
	Product model.Product
	Type    model.TransactionType
}

// ProductLookup resolves a token to a product by exact id. Satisfied by
// feed.ProductProjection.
type ProductLookup interface {
	Get(sku string) (model.Product, bool)
}

// Dispatch routes a decoded token. Pure: it never touches the store.
func Dispatch(token string, mode model.ScanMode, products ProductLookup) Outcome {
	product, ok := products.Get(token)
	if !ok {
		return Outcome{Kind: OutcomeNoMatch, Token: token}
	}

	switch mode {
	case model.ModeAutoIn:
		return Outcome{Kind: OutcomeAutoApply, Token: token, Product: product, Type: model.TransactionIn}
	case model.ModeAutoOut:
		return Outcome{Kind: OutcomeAutoApply, Token: token, Product: product, Type: model.TransactionOut}
	default:
		return Outcome{Kind: OutcomeConfirm, Token: token, Product: product}
	}
}
