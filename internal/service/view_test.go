package service

import (
	"testing"

	"histock/internal/model"

	"github.com/stretchr/testify/require"
)

var viewFixture = []model.Product{
	{SKU: "40000001", Name: "Slim Matte Case", Category: "Case", PhoneType: "Redmi Note 12", Stock: 10, MinStock: 5},
	{SKU: "40000002", Name: "Charger 20W", Category: "Charger", PhoneType: "Universal", Stock: 2, MinStock: 5},
	{SKU: "40000003", Name: "Tempered Glass", Category: "Screen Protector", PhoneType: "iPhone 13", Stock: 5, MinStock: 5},
}

func TestFilterProducts(t *testing.T) {
	tests := []struct {
		name     string
		search   string
		category string
		want     []string
	}{
		{"no filter", "", "", []string{"40000001", "40000002", "40000003"}},
		{"category All passes everything", "", "All", []string{"40000001", "40000002", "40000003"}},
		{"by category", "", "Charger", []string{"40000002"}},
		{"by name substring", "matte", "", []string{"40000001"}},
		{"by sku", "40000003", "", []string{"40000003"}},
		{"by phone type", "redmi", "", []string{"40000001"}},
		{"search and category", "glass", "Charger", nil},
		{"no match", "dock", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterProducts(viewFixture, tt.search, tt.category)
			var skus []string
			for _, p := range got {
				skus = append(skus, p.SKU)
			}
			require.Equal(t, tt.want, skus)
		})
	}
}

func TestLowStockBoundary(t *testing.T) {
	low := LowStock(viewFixture)
	// stock == minStock counts as low; strictly above does not.
	require.Len(t, low, 2)
	require.Equal(t, "40000002", low[0].SKU)
	require.Equal(t, "40000003", low[1].SKU)
}

func TestTotalStock(t *testing.T) {
	require.Equal(t, 17, TotalStock(viewFixture))
	require.Equal(t, 0, TotalStock(nil))
}
