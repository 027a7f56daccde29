package notifier

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ethan33456/price-bot/internal/models"
)

// Console prints deal alerts as a plain-text block. The default output is
// stdout; Out exists so tests can capture it.
type Console struct {
	Out io.Writer
}

// Notify prints every deal with its prices, discount and link.
func (c *Console) Notify(_ context.Context, deals []models.Product) error {
	out := c.Out
	if out == nil {
		out = os.Stdout
	}

	rule := strings.Repeat("=", 80)
	fmt.Fprintf(out, "\n%s\n", rule)
	fmt.Fprintf(out, "ALERT: %d deep discount(s) found!\n", len(deals))
	fmt.Fprintf(out, "Time: %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "%s\n\n", rule)

	for i, d := range deals {
		fmt.Fprintf(out, "Deal #%d:\n", i+1)
		fmt.Fprintf(out, "  Product: %s\n", d.Name)
		fmt.Fprintf(out, "  Current Price: $%.2f\n", d.CurrentPrice)
		fmt.Fprintf(out, "  Retail Price: $%.2f\n", d.RetailPrice)
		fmt.Fprintf(out, "  Discount: %.1f%%\n", d.DiscountPercent)
		fmt.Fprintf(out, "  Savings: $%.2f\n", d.RetailPrice-d.CurrentPrice)
		fmt.Fprintf(out, "  URL: %s\n\n", d.URL)
	}

	fmt.Fprintf(out, "%s\n", rule)
	return nil
}
