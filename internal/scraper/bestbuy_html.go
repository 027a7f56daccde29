package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/ethan33456/price-bot/internal/models"
)

const htmlTimeout = 15 * time.Second

// HTMLSource scrapes Best Buy category listing pages. Used when no API key is
// configured. Scraped records carry no SKU, so dedup falls back to the
// name-plus-price identity.
type HTMLSource struct {
	urls      []string
	userAgent string
	client    *http.Client
	log       *slog.Logger
}

// NewHTMLSource creates a scraping source over the given category page URLs.
func NewHTMLSource(urls []string, userAgent string, log *slog.Logger) *HTMLSource {
	return &HTMLSource{
		urls:      urls,
		userAgent: userAgent,
		client:    &http.Client{Timeout: htmlTimeout},
		log:       log.With("source", "bestbuy-html"),
	}
}

func (s *HTMLSource) Name() string { return "bestbuy-html" }

func (s *HTMLSource) BaseURL() string { return productBaseURL }

// Fetch scrapes every configured category page. A page that fails to load is
// logged and skipped so one blocked URL does not empty the whole run.
func (s *HTMLSource) Fetch(ctx context.Context) ([]models.RawRecord, error) {
	var all []models.RawRecord
	for _, pageURL := range s.urls {
		records, err := s.scrapePage(ctx, pageURL)
		if err != nil {
			s.log.Error("category page failed", "url", pageURL, "error", err)
			continue
		}
		s.log.Info("category page scraped", "url", pageURL, "products", len(records))
		all = append(all, records...)
	}
	return all, nil
}

func (s *HTMLSource) scrapePage(ctx context.Context, pageURL string) ([]models.RawRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("Upgrade-Insecure-Requests", "1")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}
	return parseListing(doc), nil
}

// parseListing extracts raw product records from a category listing document.
func parseListing(doc *goquery.Document) []models.RawRecord {
	items := doc.Find("li.sku-item")
	if items.Length() == 0 {
		// Older listing markup.
		items = doc.Find("div.shop-sku-list-item")
	}

	var records []models.RawRecord
	items.Each(func(_ int, item *goquery.Selection) {
		if rec := extractItem(item); rec != nil {
			records = append(records, rec)
		}
	})
	return records
}

// extractItem pulls the display fields out of one listing tile. Price and
// retail stay as raw text; parsing and validation belong to the normalizer.
func extractItem(item *goquery.Selection) models.RawRecord {
	name := firstText(item, "h4.sku-title", "h4.sku-header", "a.sku-title")
	if name == "" {
		return nil
	}

	href := item.Find("a.image-link").First().AttrOr("href", "")
	if href == "" {
		href = item.Find("a[href]").First().AttrOr("href", "")
	}

	price := firstText(item,
		"span[aria-label^='Your price for this item is']",
		"span.priceView-customer-price",
		"span.priceView-hero-price",
	)
	retail := firstText(item,
		"span[aria-label*='was']",
		"span.pricing-price__regular-price",
		"span.priceView-price-was",
	)

	return models.RawRecord{
		"name":          name,
		"current_price": price,
		"retail_price":  retail,
		"url":           href,
	}
}

// firstText returns the trimmed text of the first selector that matches
// something non-empty.
func firstText(item *goquery.Selection, selectors ...string) string {
	for _, selector := range selectors {
		if text := strings.TrimSpace(item.Find(selector).First().Text()); text != "" {
			return text
		}
	}
	return ""
}
