package service

import (
	"strings"

	"histock/internal/model"
)

// Derived views over a product snapshot. Pure functions, no side effects;
// callers pass the projection's current content and recompute after each
// feed delivery.

// FilterProducts matches search text against name, SKU and device type
// (case-insensitive substring) and filters by category. Category "All" or
// "" passes everything.
func FilterProducts(products []model.Product, search, category string) []model.Product {
	search = strings.ToLower(search)
	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.SKU), search) &&
			!strings.Contains(strings.ToLower(p.PhoneType), search) {
			continue
		}
		if category != "" && category != "All" && p.Category != category {
			continue
		}
		out = append(out, p)
	}
	return out
}

// LowStock returns the products at or below their reorder threshold.
func LowStock(products []model.Product) []model.Product {
	out := make([]model.Product, 0)
	for _, p := range products {
		if p.LowStock() {
			out = append(out, p)
		}
	}
	return out
}

// TotalStock sums stock across all products.
func TotalStock(products []model.Product) int {
	total := 0
	for _, p := range products {
		total += p.Stock
	}
	return total
}
