package scan

import (
	"testing"

	"histock/internal/model"

	"github.com/stretchr/testify/require"
)

type lookupMap map[string]model.Product

func (m lookupMap) Get(sku string) (model.Product, bool) {
	p, ok := m[sku]
	return p, ok
}

func TestDispatchNoMatch(t *testing.T) {
	products := lookupMap{}
	out := Dispatch("40000001", model.ModeAutoIn, products)
	require.Equal(t, OutcomeNoMatch, out.Kind)
	require.Equal(t, "40000001", out.Token)
}

func TestDispatchExactMatchOnly(t *testing.T) {
	products := lookupMap{"40000001": {SKU: "40000001", Name: "Slim Case"}}
	out := Dispatch("4000000", model.ModeManual, products)
	require.Equal(t, OutcomeNoMatch, out.Kind)
}

func TestDispatchManualNeedsConfirmation(t *testing.T) {
	products := lookupMap{"40000001": {SKU: "40000001", Name: "Slim Case"}}
	out := Dispatch("40000001", model.ModeManual, products)
	require.Equal(t, OutcomeConfirm, out.Kind)
	require.Equal(t, "Slim Case", out.Product.Name)
	require.Empty(t, out.Type)
}

func TestDispatchAutoModes(t *testing.T) {
	products := lookupMap{"40000001": {SKU: "40000001"}}

	out := Dispatch("40000001", model.ModeAutoIn, products)
	require.Equal(t, OutcomeAutoApply, out.Kind)
	require.Equal(t, model.TransactionIn, out.Type)

	out = Dispatch("40000001", model.ModeAutoOut, products)
	require.Equal(t, OutcomeAutoApply, out.Kind)
	require.Equal(t, model.TransactionOut, out.Type)
}
