package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/ethan33456/price-bot/internal/models"
)

const (
	apiBaseURL     = "https://api.bestbuy.com/v1"
	apiPageSize    = 100 // API maximum
	apiTimeout     = 30 * time.Second
	apiRequestGap  = 500 * time.Millisecond
	productBaseURL = "https://www.bestbuy.com"
)

// APISource queries the official Best Buy products API. Far more reliable
// than scraping, and its records carry SKUs, so dedup gets a stable identity.
type APISource struct {
	apiKey         string
	categories     []string
	maxPerCategory int
	endpoint       string
	client         *http.Client
	limiter        *rate.Limiter
	log            *slog.Logger
}

// NewAPISource creates a products-API source searching the given categories.
func NewAPISource(apiKey string, categories []string, maxPerCategory int, log *slog.Logger) *APISource {
	return &APISource{
		apiKey:         apiKey,
		categories:     categories,
		maxPerCategory: maxPerCategory,
		endpoint:       apiBaseURL,
		client:         &http.Client{Timeout: apiTimeout},
		limiter:        rate.NewLimiter(rate.Every(apiRequestGap), 1),
		log:            log.With("source", "bestbuy-api"),
	}
}

func (s *APISource) Name() string { return "bestbuy-api" }

func (s *APISource) BaseURL() string { return productBaseURL }

// Fetch searches every configured category and concatenates the results in
// category order.
func (s *APISource) Fetch(ctx context.Context) ([]models.RawRecord, error) {
	var all []models.RawRecord
	for _, category := range s.categories {
		records, err := s.search(ctx, category)
		if err != nil {
			return all, fmt.Errorf("search %q: %w", category, err)
		}
		s.log.Info("category searched", "category", category, "products", len(records))
		all = append(all, records...)
	}
	return all, nil
}

// search pages through the API until the category is exhausted or the
// per-category cap is reached.
func (s *APISource) search(ctx context.Context, category string) ([]models.RawRecord, error) {
	var all []models.RawRecord
	for page := 1; len(all) < s.maxPerCategory; page++ {
		records, err := s.searchPage(ctx, category, page)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			break
		}
		all = append(all, records...)
		if len(records) < apiPageSize {
			break
		}
	}
	if len(all) > s.maxPerCategory {
		all = all[:s.maxPerCategory]
	}
	return all, nil
}

func (s *APISource) searchPage(ctx context.Context, category string, page int) ([]models.RawRecord, error) {
	// The limiter keeps paging polite; the free tier is generous but shared.
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	// The search filter sits in the URL path, where "+" is a literal plus.
	// PathEscape keeps multi-word categories as %20.
	query := fmt.Sprintf("(search=%s&active=true&salePrice>0)", url.PathEscape(category))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"/products"+query, nil)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("apiKey", s.apiKey)
	params.Set("format", "json")
	params.Set("show", "sku,name,salePrice,regularPrice,onSale,url")
	params.Set("pageSize", strconv.Itoa(apiPageSize))
	params.Set("page", strconv.Itoa(page))
	params.Set("sort", "salePrice.asc")
	req.URL.RawQuery = params.Encode()

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status code: %d", resp.StatusCode)
	}

	var body struct {
		Products []models.RawRecord `json:"products"`
		Total    int                `json:"total"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode API response: %w", err)
	}
	return body.Products, nil
}
