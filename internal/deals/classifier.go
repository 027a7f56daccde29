// Package deals holds the deep-discount classifier and the deal identity
// scheme used for deduplication.
package deals

import "github.com/ethan33456/price-bot/internal/models"

// IsDeepDiscount reports whether the product's current price is at or below
// the given fraction of its retail price. Equality counts as a deal. Products
// without a retail baseline never qualify.
func IsDeepDiscount(p models.Product, threshold float64) bool {
	if p.RetailPrice <= 0 {
		return false
	}
	return p.CurrentPrice/p.RetailPrice <= threshold
}

// FilterDeepDiscounts returns the products that pass IsDeepDiscount,
// preserving input order.
func FilterDeepDiscounts(products []models.Product, threshold float64) []models.Product {
	var out []models.Product
	for _, p := range products {
		if IsDeepDiscount(p, threshold) {
			out = append(out, p)
		}
	}
	return out
}
