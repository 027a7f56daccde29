package notifier

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethan33456/price-bot/internal/models"
)

func sampleDeals() []models.Product {
	return []models.Product{
		models.NewProduct("6401728", "Acme Laptop", 300, 1000, "https://www.bestbuy.com/site/acme/6401728.p"),
	}
}

func TestConsoleNotify(t *testing.T) {
	var buf bytes.Buffer
	c := &Console{Out: &buf}

	require.NoError(t, c.Notify(context.Background(), sampleDeals()))

	out := buf.String()
	assert.Contains(t, out, "1 deep discount(s) found!")
	assert.Contains(t, out, "Acme Laptop")
	assert.Contains(t, out, "Current Price: $300.00")
	assert.Contains(t, out, "Retail Price: $1000.00")
	assert.Contains(t, out, "Discount: 70.0%")
	assert.Contains(t, out, "Savings: $700.00")
	assert.Contains(t, out, "https://www.bestbuy.com/site/acme/6401728.p")
}

func TestEmailNotifyMissingCredentials(t *testing.T) {
	e := &Email{Host: "smtp.gmail.com", Port: 587}

	err := e.Notify(context.Background(), sampleDeals())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestEmailMessageBodies(t *testing.T) {
	e := &Email{From: "a@example.com", To: "b@example.com", Password: "x", Host: "smtp.example.com", Port: 587}

	msg, err := e.buildMessage(sampleDeals())
	require.NoError(t, err)

	s := string(msg)
	assert.Contains(t, s, "Subject: 1 Best Buy deep discount(s) found!")
	assert.Contains(t, s, "multipart/alternative")
	assert.Contains(t, s, "text/plain")
	assert.Contains(t, s, "text/html")
	assert.Contains(t, s, "Acme Laptop")
	assert.Contains(t, s, "You Save: $700.00")
	assert.Contains(t, s, "View Deal on Best Buy")
}

func TestEmailHTMLEscapesNames(t *testing.T) {
	e := &Email{From: "a@example.com", To: "b@example.com", Password: "x", Host: "smtp.example.com", Port: 587}
	deals := []models.Product{
		models.NewProduct("", `Laptop <13" & barato>`, 10, 100, "https://example.com"),
	}

	msg, err := e.buildMessage(deals)
	require.NoError(t, err)

	// The HTML part must carry the escaped form of the name.
	assert.Contains(t, string(msg), "&lt;13&#34; &amp; barato&gt;")
}

type stubNotifier struct {
	calls int
	err   error
}

func (s *stubNotifier) Notify(context.Context, []models.Product) error {
	s.calls++
	return s.err
}

func TestMultiNotifyFansOut(t *testing.T) {
	a := &stubNotifier{}
	b := &stubNotifier{}

	require.NoError(t, Multi{a, b}.Notify(context.Background(), sampleDeals()))

	assert.Equal(t, 1, a.calls)
	assert.Equal(t, 1, b.calls)
}

func TestMultiNotifyJoinsErrors(t *testing.T) {
	broken := &stubNotifier{err: errors.New("smtp down")}
	healthy := &stubNotifier{}

	err := Multi{broken, healthy}.Notify(context.Background(), sampleDeals())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp down")
	// The broken channel must not mute the healthy one.
	assert.Equal(t, 1, healthy.calls)
}

func TestMultiNotifyEmptyBatch(t *testing.T) {
	a := &stubNotifier{}

	require.NoError(t, Multi{a}.Notify(context.Background(), nil))
	assert.Zero(t, a.calls)
}
