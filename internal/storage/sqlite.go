package storage

import (
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ethan33456/price-bot/internal/deals"
	"github.com/ethan33456/price-bot/internal/models"
)

// SQLStore persists deal records in a SQLite database. Same contract as
// FileStore; selected when the storage path carries a database extension.
type SQLStore struct {
	mu      sync.Mutex
	conn    *sql.DB
	records []models.DealRecord
	seen    map[string]struct{}
}

// OpenSQL opens or creates the SQLite store at path and loads the committed
// history into memory. Unlike the JSON store, an unopenable database is an
// error: silently discarding a database file would be worse than stopping.
func OpenSQL(path string, log *slog.Logger) (*SQLStore, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open deal database: %w", err)
	}

	s := &SQLStore{conn: conn, seen: make(map[string]struct{})}
	if err := s.init(); err != nil {
		conn.Close()
		return nil, err
	}

	log.Info("deal database ready", "path", path, "deals", len(s.records))
	return s, nil
}

func (s *SQLStore) init() error {
	const createTableSQL = `
	CREATE TABLE IF NOT EXISTS deals (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sku TEXT,
		name TEXT NOT NULL,
		current_price REAL NOT NULL,
		retail_price REAL NOT NULL,
		url TEXT,
		discount_percent REAL NOT NULL,
		found_at DATETIME NOT NULL
	);
	`
	if _, err := s.conn.Exec(createTableSQL); err != nil {
		return fmt.Errorf("init deal database: %w", err)
	}
	return s.load()
}

func (s *SQLStore) load() error {
	rows, err := s.conn.Query(
		"SELECT sku, name, current_price, retail_price, url, discount_percent, found_at FROM deals ORDER BY id")
	if err != nil {
		return fmt.Errorf("load deals: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var r models.DealRecord
		var sku, url sql.NullString
		if err := rows.Scan(&sku, &r.Name, &r.CurrentPrice, &r.RetailPrice, &url, &r.DiscountPercent, &r.FoundAt); err != nil {
			return fmt.Errorf("scan deal: %w", err)
		}
		r.SKU = sku.String
		r.URL = url.String
		s.records = append(s.records, r)
		s.seen[deals.IdentityOf(r.Product)] = struct{}{}
	}
	return rows.Err()
}

// IsNew reports whether the product's identity has not been committed.
func (s *SQLStore) IsNew(p models.Product) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.seen[deals.IdentityOf(p)]
	return !ok
}

// FilterNew returns the products not yet in the store, in input order,
// checked against the pre-batch state.
func (s *SQLStore) FilterNew(products []models.Product) []models.Product {
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

// Commit inserts the products in one transaction and extends the in-memory
// state. The transaction keeps prior history intact on failure.
func (s *SQLStore) Commit(products []models.Product) error {
	if len(products) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()

	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin commit: %w", err)
	}
	for _, p := range products {
		_, err := tx.Exec(
			"INSERT INTO deals (sku, name, current_price, retail_price, url, discount_percent, found_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
			p.SKU, p.Name, p.CurrentPrice, p.RetailPrice, p.URL, p.DiscountPercent, now,
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("insert deal: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit deals: %w", err)
	}

	for _, p := range products {
		s.records = append(s.records, models.DealRecord{Product: p, FoundAt: now})
		s.seen[deals.IdentityOf(p)] = struct{}{}
	}
	return nil
}

// Deals returns a copy of all persisted deal records.
func (s *SQLStore) Deals() []models.DealRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.DealRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Close closes the underlying database connection.
func (s *SQLStore) Close() error {
	return s.conn.Close()
}
