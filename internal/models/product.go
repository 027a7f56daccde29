package models

import (
	"math"
	"time"
)

// RawRecord is a loosely typed product record as produced by a retrieval
// source. API responses and scraped pages use different field names and value
// types; the normalizer accepts that variance directly.
type RawRecord map[string]any

// Product is a normalized product listing. Immutable after construction.
type Product struct {
	SKU             string  `json:"sku,omitempty"`
	Name            string  `json:"name"`
	CurrentPrice    float64 `json:"current_price"`
	RetailPrice     float64 `json:"retail_price"`
	URL             string  `json:"url"`
	DiscountPercent float64 `json:"discount_percent"`
}

// DealRecord is a product as persisted by the deal store, stamped with the
// moment it was first detected.
type DealRecord struct {
	Product
	FoundAt time.Time `json:"found_at"`
}

// NewProduct builds a Product, deriving the discount percentage from the two
// prices. A missing or zero retail price falls back to the current price,
// which yields a zero discount instead of an undefined one.
func NewProduct(sku, name string, currentPrice, retailPrice float64, url string) Product {
	if retailPrice <= 0 {
		retailPrice = currentPrice
	}
	return Product{
		SKU:             sku,
		Name:            name,
		CurrentPrice:    currentPrice,
		RetailPrice:     retailPrice,
		URL:             url,
		DiscountPercent: DiscountPercent(currentPrice, retailPrice),
	}
}

// DiscountPercent computes the discount percentage for a pair of prices,
// rounded to two decimal places. Zero when there is no retail baseline or no
// actual discount.
func DiscountPercent(currentPrice, retailPrice float64) float64 {
	if retailPrice <= 0 || currentPrice >= retailPrice {
		return 0
	}
	pct := (retailPrice - currentPrice) / retailPrice * 100
	return math.Round(pct*100) / 100
}
