package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ConserveLee/seedbot/internal/shop"
)

// DB archives sightings and purchases across runs.
type DB struct {
	db *sql.DB
}

var schema = []string{`
CREATE TABLE IF NOT EXISTS sightings (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    seen_at TEXT NOT NULL,
    name TEXT NOT NULL,
    rarity TEXT NOT NULL,
    stock INTEGER,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
)`, `
CREATE TABLE IF NOT EXISTS purchases (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    bought_at TEXT NOT NULL,
    name TEXT NOT NULL,
    rarity TEXT NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
)`,
}

// Open creates or opens the history database at path.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	d := &DB{db: db}
	if err := d.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return d, nil
}

func (d *DB) initSchema() error {
	if _, err := d.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	for _, stmt := range schema {
		if _, err := d.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

// AddSightings inserts rows in one transaction.
func (d *DB) AddSightings(rows []shop.SeedSighting) error {
	if len(rows) == 0 {
		return nil
	}
	return d.inTx(func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`INSERT INTO sightings (seen_at, name, rarity, stock) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, r := range rows {
			var stock sql.NullInt64
			if n, ok := r.Stock.Get(); ok {
				stock = sql.NullInt64{Int64: int64(n), Valid: true}
			}
			if _, err := stmt.Exec(toTS(r.Time), r.Name, r.Rarity, stock); err != nil {
				return fmt.Errorf("failed to insert sighting: %w", err)
			}
		}
		return nil
	})
}

// AddPurchases inserts rows in one transaction.
func (d *DB) AddPurchases(rows []shop.PurchaseEvent) error {
	if len(rows) == 0 {
		return nil
	}
	return d.inTx(func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`INSERT INTO purchases (bought_at, name, rarity) VALUES (?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, r := range rows {
			if _, err := stmt.Exec(toTS(r.Time), r.Name, r.Rarity); err != nil {
				return fmt.Errorf("failed to insert purchase: %w", err)
			}
		}
		return nil
	})
}

// Sightings returns archived sightings, oldest first.
func (d *DB) Sightings() ([]shop.SeedSighting, error) {
	rows, err := d.db.Query(`SELECT seen_at, name, rarity, stock FROM sightings ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sightings: %w", err)
	}
	defer rows.Close()

	var out []shop.SeedSighting
	for rows.Next() {
		var (
			seenAt string
			s      shop.SeedSighting
			stock  sql.NullInt64
		)
		if err := rows.Scan(&seenAt, &s.Name, &s.Rarity, &stock); err != nil {
			return nil, fmt.Errorf("failed to scan sighting: %w", err)
		}
		s.Time = fromTS(seenAt)
		s.Stock = shop.Unrecognized[int]()
		if stock.Valid {
			s.Stock = shop.Known(int(stock.Int64))
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// PurchaseTotals counts archived purchases per seed across every run.
func (d *DB) PurchaseTotals() ([]shop.AggregateRow, error) {
	rows, err := d.db.Query(`
		SELECT MIN(name), rarity, COUNT(*)
		FROM purchases
		GROUP BY LOWER(name), rarity
		ORDER BY rarity, LOWER(name)`)
	if err != nil {
		return nil, fmt.Errorf("failed to query purchase totals: %w", err)
	}
	defer rows.Close()

	var out []shop.AggregateRow
	for rows.Next() {
		var r shop.AggregateRow
		if err := rows.Scan(&r.Name, &r.Rarity, &r.Total); err != nil {
			return nil, fmt.Errorf("failed to scan purchase total: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (d *DB) inTx(fn func(tx *sql.Tx) error) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func toTS(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func fromTS(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
