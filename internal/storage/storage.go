// Package storage persists the deals already notified about, so the bot does
// not alert for the same deal twice across runs.
package storage

import "github.com/ethan33456/price-bot/internal/models"

// Store tracks deal identities across process restarts.
type Store interface {
	// IsNew reports whether the product's identity has not been committed.
	IsNew(p models.Product) bool

	// FilterNew returns the products whose identities are not in the store,
	// preserving input order. Every product is checked against the state as
	// it was before the batch, so duplicates within one batch all pass.
	// Read-only.
	FilterNew(products []models.Product) []models.Product

	// Commit stamps each product with the detection time, extends the
	// in-memory identity set and persists the full record list. A failed
	// write is returned to the caller and never corrupts prior history.
	Commit(products []models.Product) error

	// Deals returns all persisted deal records.
	Deals() []models.DealRecord

	Close() error
}
