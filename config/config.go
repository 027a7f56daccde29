// Package config loads the application settings from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Category pages scraped when no API key is configured.
var defaultCategoryURLs = []string{
	"https://www.bestbuy.com/site/computer-deals/laptop-deals/pcmcat1563300391369.c",
	"https://www.bestbuy.com/site/computer-deals/desktop-all-in-one-deals/pcmcat1563302474737.c",
}

// Categories searched through the products API.
var defaultCategories = []string{"laptop", "desktop computer"}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Config holds the application settings.
type Config struct {
	BestBuyAPIKey        string
	Categories           []string
	CategoryURLs         []string
	DiscountThreshold    float64
	StoragePath          string
	CheckIntervalMinutes int
	CheckInterval        time.Duration
	MaxPerCategory       int
	UserAgent            string

	EnableEmail   bool
	EmailFrom     string
	EmailTo       string
	EmailPassword string
	SMTPServer    string
	SMTPPort      int

	TelegramBotToken string
	TelegramChatID   int64
}

// Load reads the configuration from environment variables, applying defaults
// and rejecting values the rest of the program must be able to rely on.
func Load() (*Config, error) {
	cfg := &Config{
		BestBuyAPIKey:        os.Getenv("BESTBUY_API_KEY"),
		Categories:           defaultCategories,
		CategoryURLs:         defaultCategoryURLs,
		DiscountThreshold:    0.35,
		StoragePath:          "deals_found.json",
		CheckIntervalMinutes: 30,
		MaxPerCategory:       100,
		UserAgent:            defaultUserAgent,
		SMTPServer:           "smtp.gmail.com",
		SMTPPort:             587,
	}

	if v := os.Getenv("BESTBUY_CATEGORIES"); v != "" {
		cfg.Categories = splitList(v)
	}
	if v := os.Getenv("BESTBUY_URLS"); v != "" {
		cfg.CategoryURLs = splitList(v)
	}

	if v := os.Getenv("DISCOUNT_THRESHOLD"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid DISCOUNT_THRESHOLD %q: %v", v, err)
		}
		cfg.DiscountThreshold = parsed
	}
	// An out-of-range threshold is a configuration mistake the classifier
	// must never have to paper over.
	if cfg.DiscountThreshold <= 0 || cfg.DiscountThreshold >= 1 {
		return nil, fmt.Errorf("DISCOUNT_THRESHOLD must be strictly between 0 and 1, got %v", cfg.DiscountThreshold)
	}

	if v := os.Getenv("STORAGE_PATH"); v != "" {
		cfg.StoragePath = v
	}

	if v := os.Getenv("CHECK_INTERVAL_MINUTES"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			cfg.CheckIntervalMinutes = parsed
		}
	}
	cfg.CheckInterval = time.Duration(cfg.CheckIntervalMinutes) * time.Minute

	if v := os.Getenv("MAX_PRODUCTS_PER_CATEGORY"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			cfg.MaxPerCategory = parsed
		}
	}

	if v := os.Getenv("USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}

	cfg.EnableEmail = strings.EqualFold(os.Getenv("ENABLE_EMAIL_NOTIFICATIONS"), "true")
	cfg.EmailFrom = os.Getenv("EMAIL_FROM")
	cfg.EmailTo = os.Getenv("EMAIL_TO")
	cfg.EmailPassword = os.Getenv("EMAIL_PASSWORD")
	if v := os.Getenv("SMTP_SERVER"); v != "" {
		cfg.SMTPServer = v
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.SMTPPort = parsed
		}
	}

	cfg.TelegramBotToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.TelegramChatID = parsed
		}
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
