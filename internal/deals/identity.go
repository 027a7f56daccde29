package deals

import (
	"strconv"
	"strings"

	"github.com/ethan33456/price-bot/internal/models"
)

// Separator between the name and price parts of a fallback identity. Product
// names are not expected to contain pipes.
const identitySep = "|"

// IdentityOf derives the deduplication key for a product. Records that carry
// a machine identifier use it directly. Scraped records without one fall back
// to trimmed name plus current price, which collapses same-name same-price
// listings even across sources and runs.
func IdentityOf(p models.Product) string {
	if p.SKU != "" {
		return "sku:" + p.SKU
	}
	return strings.TrimSpace(p.Name) + identitySep + strconv.FormatFloat(p.CurrentPrice, 'f', 2, 64)
}
