// Package normalizer converts raw, source-shaped product records into
// canonical products.
package normalizer

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/ethan33456/price-bot/internal/models"
)

// Field name candidates per source shape. The products API uses camelCase
// names, scraped pages use snake_case.
var (
	nameKeys   = []string{"name", "title"}
	priceKeys  = []string{"current_price", "salePrice", "sale_price", "price"}
	retailKeys = []string{"retail_price", "regularPrice", "regular_price", "list_price"}
	urlKeys    = []string{"url", "link"}
)

// Normalize converts a raw source record into a canonical Product. Relative
// links are resolved against base. It returns nil when the record has no name
// or no parseable current price; such a record carries no usable information
// and is dropped by the caller.
func Normalize(raw models.RawRecord, base string) *models.Product {
	name := strings.TrimSpace(stringField(raw, nameKeys...))
	if name == "" {
		return nil
	}

	current, ok := priceField(raw, priceKeys...)
	if !ok {
		return nil
	}

	// Missing retail stays zero here; NewProduct falls back to the current
	// price, which reads as "no discount" rather than an error.
	retail, _ := priceField(raw, retailKeys...)

	link := resolveURL(strings.TrimSpace(stringField(raw, urlKeys...)), base)

	p := models.NewProduct(skuField(raw), name, current, retail, link)
	return &p
}

// ParsePrice extracts a price from free text such as "$1,299.99" or
// "$999.99 was $1,299.99". Currency symbols and thousands separators are
// stripped, then the first whitespace-delimited token that parses as a
// non-negative number wins.
func ParsePrice(text string) (float64, bool) {
	clean := strings.NewReplacer("$", "", ",", "").Replace(text)
	for _, token := range strings.Fields(clean) {
		v, err := strconv.ParseFloat(token, 64)
		if err == nil && v >= 0 {
			return v, true
		}
	}
	return 0, false
}

func stringField(raw models.RawRecord, keys ...string) string {
	for _, key := range keys {
		if s, ok := raw[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func priceField(raw models.RawRecord, keys ...string) (float64, bool) {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		if price, ok := priceValue(v); ok {
			return price, true
		}
	}
	return 0, false
}

func priceValue(v any) (float64, bool) {
	switch v := v.(type) {
	case float64:
		return v, v >= 0
	case int:
		return float64(v), v >= 0
	case int64:
		return float64(v), v >= 0
	case json.Number:
		f, err := v.Float64()
		return f, err == nil && f >= 0
	case string:
		return ParsePrice(v)
	}
	return 0, false
}

func skuField(raw models.RawRecord) string {
	switch v := raw["sku"].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case json.Number:
		return v.String()
	}
	return ""
}

func resolveURL(href, base string) string {
	if href == "" || base == "" {
		return href
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return b.ResolveReference(ref).String()
}
