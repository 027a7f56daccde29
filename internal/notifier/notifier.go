// Package notifier delivers alerts for newly found deals. Channels only
// format and transport; the pipeline guarantees every display field is
// present and numerically consistent.
package notifier

import (
	"context"
	"errors"

	"github.com/ethan33456/price-bot/internal/models"
)

// Notifier delivers one batch of new deals.
type Notifier interface {
	Notify(ctx context.Context, deals []models.Product) error
}

// Multi fans a notification out to every configured channel. Failures are
// joined so one broken channel does not mute the others.
type Multi []Notifier

// Notify sends the deals through every channel.
func (m Multi) Notify(ctx context.Context, deals []models.Product) error {
	if len(deals) == 0 {
		return nil
	}

	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, deals); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
