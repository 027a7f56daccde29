package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/ethan33456/price-bot/config"
	"github.com/ethan33456/price-bot/internal/monitor"
	"github.com/ethan33456/price-bot/internal/notifier"
	"github.com/ethan33456/price-bot/internal/pipeline"
	"github.com/ethan33456/price-bot/internal/scraper"
	"github.com/ethan33456/price-bot/internal/storage"
)

func main() {
	once := pflag.Bool("once", false, "run a single deal check and exit")
	envFile := pflag.String("env-file", ".env", "path to the .env file")
	pflag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if err := godotenv.Load(*envFile); err != nil {
		log.Info(".env file not found, using system environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	store, err := openStore(cfg.StoragePath, log)
	if err != nil {
		log.Error("open deal store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	mon := monitor.New(
		buildRegistry(cfg, log),
		pipeline.New(cfg.DiscountThreshold, store),
		store,
		buildNotifiers(cfg, log),
		cfg.CheckInterval,
		log,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *once {
		if err := mon.Check(ctx); err != nil {
			log.Error("deal check failed", "error", err)
			os.Exit(1)
		}
		return
	}

	mon.Start(ctx)
	log.Info("shutting down")
}

// openStore picks the store backend by file extension: SQLite for database
// paths, the JSON document store otherwise.
func openStore(path string, log *slog.Logger) (storage.Store, error) {
	if strings.HasSuffix(path, ".db") || strings.HasSuffix(path, ".sqlite") {
		return storage.OpenSQL(path, log)
	}
	return storage.Load(path, log), nil
}

func buildRegistry(cfg *config.Config, log *slog.Logger) *scraper.Registry {
	if cfg.BestBuyAPIKey != "" {
		return scraper.NewRegistry(
			scraper.NewAPISource(cfg.BestBuyAPIKey, cfg.Categories, cfg.MaxPerCategory, log),
		)
	}
	// No API key: scrape the category pages directly.
	log.Info("BESTBUY_API_KEY not set, falling back to HTML scraping")
	return scraper.NewRegistry(
		scraper.NewHTMLSource(cfg.CategoryURLs, cfg.UserAgent, log),
	)
}

func buildNotifiers(cfg *config.Config, log *slog.Logger) notifier.Notifier {
	channels := notifier.Multi{&notifier.Console{}}

	if cfg.EnableEmail {
		channels = append(channels, &notifier.Email{
			From:     cfg.EmailFrom,
			To:       cfg.EmailTo,
			Password: cfg.EmailPassword,
			Host:     cfg.SMTPServer,
			Port:     cfg.SMTPPort,
		})
	}

	if cfg.TelegramBotToken != "" {
		tg, err := notifier.NewTelegram(cfg.TelegramBotToken, cfg.TelegramChatID)
		if err != nil {
			log.Error("telegram notifier disabled", "error", err)
		} else {
			channels = append(channels, tg)
		}
	}

	return channels
}
