package feed

import (
	"testing"
	"time"

	"histock/internal/model"

	"github.com/stretchr/testify/require"
)

func TestProductProjectionReplaceWholesale(t *testing.T) {
	p := NewProductProjection()
	p.Replace([]model.Product{
		{SKU: "40000001", Name: "Slim Case", Stock: 10},
		{SKU: "40000002", Name: "Charger 20W", Stock: 3},
	})

	got, ok := p.Get("40000002")
	require.True(t, ok)
	require.Equal(t, 3, got.Stock)

	// A later delivery fully replaces the previous content: entries absent
	// from the snapshot disappear.
	p.Replace([]model.Product{
		{SKU: "40000001", Name: "Slim Case", Stock: 7},
	})

	_, ok = p.Get("40000002")
	require.False(t, ok)
	got, _ = p.Get("40000001")
	require.Equal(t, 7, got.Stock)
	require.Equal(t, 1, p.Len())
}

func TestProductProjectionIdempotentRedelivery(t *testing.T) {
	snapshot := []model.Product{
		{SKU: "40000001", Stock: 5},
		{SKU: "40000002", Stock: 8},
	}
	p := NewProductProjection()
	p.Replace(snapshot)
	before := p.All()

	p.Replace(snapshot)
	require.Equal(t, before, p.All())
}

func TestProductProjectionPreservesDeliveryOrder(t *testing.T) {
	p := NewProductProjection()
	p.Replace([]model.Product{
		{SKU: "c", CreatedAt: time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)},
		{SKU: "b", CreatedAt: time.Date(2025, 2, 2, 0, 0, 0, 0, time.UTC)},
		{SKU: "a", CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
	})

	all := p.All()
	require.Equal(t, []string{"c", "b", "a"}, []string{all[0].SKU, all[1].SKU, all[2].SKU})
}

func TestProductProjectionAllReturnsCopy(t *testing.T) {
	p := NewProductProjection()
	p.Replace([]model.Product{{SKU: "40000001", Stock: 5}})

	all := p.All()
	all[0].Stock = 999

	got, _ := p.Get("40000001")
	require.Equal(t, 5, got.Stock)
}

func TestTransactionLogReplace(t *testing.T) {
	l := NewTransactionLog()
	require.Empty(t, l.Recent())

	l.Replace([]model.Transaction{
		{ProductID: "40000001", Type: model.TransactionOut, Quantity: 2},
	})
	require.Len(t, l.Recent(), 1)

	l.Replace(nil)
	require.Empty(t, l.Recent())
}

func TestCategorySetSeededWithDefaults(t *testing.T) {
	c := NewCategorySet()
	require.Equal(t, model.DefaultCategories, c.List())

	c.Replace([]string{"Case", "Dock"})
	require.Equal(t, []string{"Case", "Dock"}, c.List())
}
