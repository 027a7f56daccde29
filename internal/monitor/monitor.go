// Package monitor runs the deal check on a fixed interval.
package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethan33456/price-bot/internal/notifier"
	"github.com/ethan33456/price-bot/internal/pipeline"
	"github.com/ethan33456/price-bot/internal/scraper"
	"github.com/ethan33456/price-bot/internal/storage"
)

// Monitor periodically scrapes the configured sources, runs the deal
// pipeline, notifies about new deals and commits them to the store.
type Monitor struct {
	registry *scraper.Registry
	pipeline *pipeline.Pipeline
	store    storage.Store
	notifier notifier.Notifier
	interval time.Duration
	log      *slog.Logger
	runs     int
}

// New creates a monitor over the given collaborators.
func New(registry *scraper.Registry, pl *pipeline.Pipeline, store storage.Store,
	n notifier.Notifier, interval time.Duration, log *slog.Logger) *Monitor {
	return &Monitor{
		registry: registry,
		pipeline: pl,
		store:    store,
		notifier: n,
		interval: interval,
		log:      log,
	}
}

// Start checks immediately and then on every tick until the context is
// cancelled.
func (m *Monitor) Start(ctx context.Context) {
	m.log.Info("monitor started", "interval", m.interval.String())

	if err := m.Check(ctx); err != nil {
		m.log.Error("deal check failed", "error", err)
	}

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.log.Info("monitor stopped")
			return
		case <-ticker.C:
			if err := m.Check(ctx); err != nil {
				m.log.Error("deal check failed", "error", err)
			}
		}
	}
}

// Check performs one full scrape, classify, notify, commit cycle. The
// returned error covers commit failures only: a run whose notifications went
// out without being durably recorded is the caller's call to treat as fatal.
func (m *Monitor) Check(ctx context.Context) error {
	m.runs++
	m.log.Info("deal check started", "run", m.runs)

	var batches []pipeline.Batch
	for _, src := range m.registry.Sources() {
		records, err := src.Fetch(ctx)
		if err != nil {
			// A failing source must not abort the whole run.
			m.log.Error("source fetch failed", "source", src.Name(), "error", err)
		}
		if len(records) == 0 {
			continue
		}
		batches = append(batches, pipeline.Batch{
			Source:  src.Name(),
			BaseURL: src.BaseURL(),
			Records: records,
		})
	}

	res := m.pipeline.Run(batches)
	m.log.Info("deal check finished",
		"run", m.runs,
		"scanned", res.TotalScanned,
		"dropped", res.Dropped,
		"candidates", len(res.Candidates),
		"new_deals", len(res.NewDeals),
	)

	if len(res.NewDeals) == 0 {
		if len(res.Candidates) > 0 {
			m.log.Info("all deals previously notified")
		}
		return nil
	}

	if err := m.notifier.Notify(ctx, res.NewDeals); err != nil {
		m.log.Error("notification failed", "error", err)
	}

	if err := m.store.Commit(res.NewDeals); err != nil {
		return fmt.Errorf("commit deals: %w", err)
	}
	return nil
}
