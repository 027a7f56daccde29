// Package scraper retrieves raw product records from retailer surfaces. The
// core pipeline is source-agnostic; each source only has to produce raw
// records for its configured categories.
package scraper

import (
	"context"

	"github.com/ethan33456/price-bot/internal/models"
)

// Source produces raw product records from one retailer surface.
type Source interface {
	Name() string
	// BaseURL is the base that relative links in this source's records
	// resolve against.
	BaseURL() string
	Fetch(ctx context.Context) ([]models.RawRecord, error)
}

// Registry keeps the configured sources in a fixed order.
type Registry struct {
	sources []Source
}

// NewRegistry creates a registry over the given sources.
func NewRegistry(sources ...Source) *Registry {
	return &Registry{sources: sources}
}

// Sources returns the registered sources in registration order.
func (r *Registry) Sources() []Source {
	return r.sources
}
