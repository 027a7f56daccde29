// Package pipeline composes normalization, discount classification and dedup
// filtering over one run's raw records.
package pipeline

import (
	"github.com/ethan33456/price-bot/internal/deals"
	"github.com/ethan33456/price-bot/internal/models"
	"github.com/ethan33456/price-bot/internal/normalizer"
	"github.com/ethan33456/price-bot/internal/storage"
)

// Batch is one source's raw records for a run, with the base URL its relative
// links resolve against.
type Batch struct {
	Source  string
	BaseURL string
	Records []models.RawRecord
}

// RunResult is the outcome of one pipeline run. NewDeals is the only set that
// should trigger notifications; Candidates minus NewDeals were real deals
// already notified in a prior run.
type RunResult struct {
	TotalScanned int
	Dropped      int
	Candidates   []models.Product
	NewDeals     []models.Product
}

// Pipeline runs the deal-detection steps over batches of raw records. It is
// stateless across runs and never notifies or persists; committing accepted
// deals is the caller's job.
type Pipeline struct {
	threshold float64
	store     storage.Store
}

// New creates a pipeline with the configured discount threshold and dedup
// store.
func New(threshold float64, store storage.Store) *Pipeline {
	return &Pipeline{threshold: threshold, store: store}
}

// Run normalizes every raw record, classifies the survivors against the
// threshold and filters out previously notified deals. Unusable records are
// counted, not reported individually.
func (pl *Pipeline) Run(batches []Batch) RunResult {
	var res RunResult

	var products []models.Product
	for _, batch := range batches {
		for _, raw := range batch.Records {
			res.TotalScanned++
			p := normalizer.Normalize(raw, batch.BaseURL)
			if p == nil {
				res.Dropped++
				continue
			}
			products = append(products, *p)
		}
	}

	res.Candidates = deals.FilterDeepDiscounts(products, pl.threshold)
	res.NewDeals = pl.store.FilterNew(res.Candidates)
	return res
}
