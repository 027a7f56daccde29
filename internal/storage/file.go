package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ethan33456/price-bot/internal/deals"
	"github.com/ethan33456/price-bot/internal/models"
)

// document is the on-disk layout of the JSON store.
type document struct {
	Deals       []models.DealRecord `json:"deals"`
	LastUpdated time.Time           `json:"last_updated"`
}

// FileStore persists deal records in a single JSON document.
type FileStore struct {
	mu      sync.Mutex
	path    string
	log     *slog.Logger
	records []models.DealRecord
	seen    map[string]struct{}
}

// Load reads the store file at path. A missing file yields an empty store. A
// malformed file yields an empty store and a warning, never an error: a
// corrupted history must not keep the bot from running, the worst case is
// re-notifying deals that were already seen.
func Load(path string, log *slog.Logger) *FileStore {
	s := &FileStore{path: path, log: log, seen: make(map[string]struct{})}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s
	}
	if err != nil {
		log.Warn("deal store unreadable, starting empty", "path", path, "error", err)
		return s
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		log.Warn("deal store malformed, starting empty", "path", path, "error", err)
		return s
	}

	s.records = doc.Deals
	for _, r := range doc.Deals {
		s.seen[deals.IdentityOf(r.Product)] = struct{}{}
	}
	return s
}

// IsNew reports whether the product's identity has not been committed.
func (s *FileStore) IsNew(p models.Product) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.seen[deals.IdentityOf(p)]
	return !ok
}

// FilterNew returns the products not yet in the store, in input order. The
// seen set is not touched, so duplicates within the batch all pass.
func (s *FileStore) FilterNew(products []models.Product) []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Product
	for _, p := range products {
		if _, ok := s.seen[deals.IdentityOf(p)]; !ok {
			out = append(out, p)
		}
	}
	return out
}

// Commit records the products as notified and persists the full history. The
// in-memory state is extended before the write, so a failed write still
// suppresses repeat notifications for the rest of the process.
func (s *FileStore) Commit(products []models.Product) error {
	if len(products) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for _, p := range products {
		s.records = append(s.records, models.DealRecord{Product: p, FoundAt: now})
		s.seen[deals.IdentityOf(p)] = struct{}{}
	}

	return s.persist(now)
}

// persist writes the whole document to a temp file in the store's directory
// and renames it over the old one, so a crash mid-write cannot truncate the
// existing history.
func (s *FileStore) persist(now time.Time) error {
	data, err := json.MarshalIndent(document{Deals: s.records, LastUpdated: now}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode deal store: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".deals-*.json")
	if err != nil {
		return fmt.Errorf("create temp deal store: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write deal store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close deal store: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace deal store: %w", err)
	}
	return nil
}

// Deals returns a copy of all persisted deal records.
func (s *FileStore) Deals() []models.DealRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.DealRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Close is a no-op for the file store.
func (s *FileStore) Close() error { return nil }
