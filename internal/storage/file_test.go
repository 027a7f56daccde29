package storage

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethan33456/price-bot/internal/models"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func storePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "deals_found.json")
}

func laptop() models.Product {
	return models.NewProduct("", "Acme Laptop", 300, 1000, "https://www.bestbuy.com/site/acme.p")
}

func desktop() models.Product {
	return models.NewProduct("777", "Acme Desktop", 200, 800, "https://www.bestbuy.com/site/desk.p")
}

func TestLoadMissingFile(t *testing.T) {
	s := Load(storePath(t), discardLogger())

	assert.True(t, s.IsNew(laptop()))
	assert.Empty(t, s.Deals())
}

func TestLoadMalformedFile(t *testing.T) {
	path := storePath(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s := Load(path, discardLogger())

	assert.True(t, s.IsNew(laptop()))
	assert.Empty(t, s.Deals())
}

func TestCommitThenIsNew(t *testing.T) {
	s := Load(storePath(t), discardLogger())

	require.NoError(t, s.Commit([]models.Product{laptop(), desktop()}))

	assert.False(t, s.IsNew(laptop()))
	assert.False(t, s.IsNew(desktop()))
	assert.True(t, s.IsNew(models.NewProduct("", "Acme Monitor", 50, 400, "")))
}

func TestCommitStampsFoundAt(t *testing.T) {
	s := Load(storePath(t), discardLogger())

	require.NoError(t, s.Commit([]models.Product{laptop()}))

	records := s.Deals()
	require.Len(t, records, 1)
	assert.False(t, records[0].FoundAt.IsZero())
}

func TestCommitRoundTrip(t *testing.T) {
	path := storePath(t)

	first := Load(path, discardLogger())
	require.NoError(t, first.Commit([]models.Product{laptop()}))

	reloaded := Load(path, discardLogger())

	assert.False(t, reloaded.IsNew(laptop()))
	assert.True(t, reloaded.IsNew(desktop()))

	records := reloaded.Deals()
	require.Len(t, records, 1)
	assert.Equal(t, laptop(), records[0].Product)
	assert.False(t, records[0].FoundAt.IsZero())
}

func TestCommitPreservesPriorHistory(t *testing.T) {
	path := storePath(t)

	first := Load(path, discardLogger())
	require.NoError(t, first.Commit([]models.Product{laptop()}))

	second := Load(path, discardLogger())
	require.NoError(t, second.Commit([]models.Product{desktop()}))

	reloaded := Load(path, discardLogger())
	require.Len(t, reloaded.Deals(), 2)
	assert.False(t, reloaded.IsNew(laptop()))
	assert.False(t, reloaded.IsNew(desktop()))
}

func TestFilterNewIdempotent(t *testing.T) {
	s := Load(storePath(t), discardLogger())
	batch := []models.Product{laptop(), desktop()}

	first := s.FilterNew(batch)
	second := s.FilterNew(batch)

	assert.Equal(t, first, second)
	assert.Len(t, first, 2)
}

func TestFilterNewDuplicateWithinBatch(t *testing.T) {
	s := Load(storePath(t), discardLogger())

	// Each item is checked against the pre-batch state, so an identical pair
	// in one batch both pass.
	got := s.FilterNew([]models.Product{laptop(), laptop()})
	assert.Len(t, got, 2)

	require.NoError(t, s.Commit([]models.Product{laptop()}))
	assert.Empty(t, s.FilterNew([]models.Product{laptop(), laptop()}))
}

func TestFilterNewPreservesOrder(t *testing.T) {
	s := Load(storePath(t), discardLogger())
	require.NoError(t, s.Commit([]models.Product{desktop()}))

	got := s.FilterNew([]models.Product{laptop(), desktop(), models.NewProduct("", "Acme Monitor", 50, 400, "")})

	require.Len(t, got, 2)
	assert.Equal(t, "Acme Laptop", got[0].Name)
	assert.Equal(t, "Acme Monitor", got[1].Name)
}

func TestPersistedLayout(t *testing.T) {
	path := storePath(t)
	s := Load(path, discardLogger())
	require.NoError(t, s.Commit([]models.Product{laptop()}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Contains(t, doc, "deals")
	assert.Contains(t, doc, "last_updated")

	// The rename discipline must not leave temp files behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, filepath.Base(path), entries[0].Name())
}

func TestCommitWriteFailureSurfaced(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "store")
	require.NoError(t, os.Mkdir(dir, 0o755))

	s := Load(filepath.Join(dir, "deals_found.json"), discardLogger())
	require.NoError(t, s.Commit([]models.Product{laptop()}))

	// Losing the store directory makes every subsequent write fail.
	require.NoError(t, os.RemoveAll(dir))

	err := s.Commit([]models.Product{desktop()})
	require.Error(t, err)

	// The failure reaches the caller, but the in-memory set was extended
	// first, so repeats stay suppressed for the rest of the process.
	assert.False(t, s.IsNew(laptop()))
	assert.False(t, s.IsNew(desktop()))
	assert.Empty(t, s.FilterNew([]models.Product{laptop(), desktop()}))
}

func TestCommitWriteFailureLeavesHistoryIntact(t *testing.T) {
	base := t.TempDir()
	real := filepath.Join(base, "real")
	require.NoError(t, os.Mkdir(real, 0o755))
	link := filepath.Join(base, "link")
	require.NoError(t, os.Symlink(real, link))

	s := Load(filepath.Join(link, "deals_found.json"), discardLogger())
	require.NoError(t, s.Commit([]models.Product{laptop()}))

	// Re-point the store directory at nothing. The committed file itself is
	// untouched, only new writes fail.
	require.NoError(t, os.Remove(link))
	require.NoError(t, os.Symlink(filepath.Join(base, "gone"), link))

	require.Error(t, s.Commit([]models.Product{desktop()}))

	reloaded := Load(filepath.Join(real, "deals_found.json"), discardLogger())
	require.Len(t, reloaded.Deals(), 1)
	assert.Equal(t, laptop(), reloaded.Deals()[0].Product)
	assert.False(t, reloaded.IsNew(laptop()))
	assert.True(t, reloaded.IsNew(desktop()))
}
