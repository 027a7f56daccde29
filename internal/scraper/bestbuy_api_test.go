package scraper

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAPISourceFetch(t *testing.T) {
	var gotPath, gotKey, gotSort string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("apiKey")
		gotSort = r.URL.Query().Get("sort")
		fmt.Fprint(w, `{
			"total": 2,
			"products": [
				{"sku": 6401728, "name": "Acme Laptop", "salePrice": 300.0, "regularPrice": 1000.0, "onSale": true, "url": "https://www.bestbuy.com/site/acme/6401728.p"},
				{"sku": 6401729, "name": "Acme Desktop", "salePrice": 650.0, "regularPrice": 1000.0, "onSale": true, "url": "https://www.bestbuy.com/site/acme/6401729.p"}
			]
		}`)
	}))
	defer server.Close()

	src := NewAPISource("test-key", []string{"laptop"}, 100, discardLogger())
	src.endpoint = server.URL

	records, err := src.Fetch(context.Background())
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, "Acme Laptop", records[0]["name"])
	assert.Equal(t, 300.0, records[0]["salePrice"])
	assert.Equal(t, float64(6401728), records[0]["sku"])

	assert.Contains(t, gotPath, "search=laptop")
	assert.Contains(t, gotPath, "active=true")
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "salePrice.asc", gotSort)
}

func TestAPISourceEscapesMultiWordCategory(t *testing.T) {
	var gotURI string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURI = r.RequestURI
		fmt.Fprint(w, `{"total": 0, "products": []}`)
	}))
	defer server.Close()

	src := NewAPISource("test-key", []string{"desktop computer"}, 100, discardLogger())
	src.endpoint = server.URL

	_, err := src.Fetch(context.Background())
	require.NoError(t, err)

	// The space must travel as %20 in the path segment; "+" there is a
	// literal plus and matches nothing on the API side.
	assert.Contains(t, gotURI, "search=desktop%20computer")
	assert.NotContains(t, gotURI, "desktop+computer")
}

func TestAPISourceCapsPerCategory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"total": 3,
			"products": [
				{"sku": 1, "name": "A", "salePrice": 1.0, "regularPrice": 10.0},
				{"sku": 2, "name": "B", "salePrice": 2.0, "regularPrice": 10.0},
				{"sku": 3, "name": "C", "salePrice": 3.0, "regularPrice": 10.0}
			]
		}`)
	}))
	defer server.Close()

	src := NewAPISource("test-key", []string{"laptop"}, 2, discardLogger())
	src.endpoint = server.URL

	records, err := src.Fetch(context.Background())
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, "A", records[0]["name"])
	assert.Equal(t, "B", records[1]["name"])
}

func TestAPISourceErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	src := NewAPISource("bad-key", []string{"laptop"}, 100, discardLogger())
	src.endpoint = server.URL

	_, err := src.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}
