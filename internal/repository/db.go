package repository

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// InitDB opens (or creates) a SQLite database at the given path and ensures
// all required tables exist. Pass ":memory:" for an in-memory database.
func InitDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// Every pooled connection to ":memory:" would get its own empty database.
	if strings.Contains(dsn, ":memory:") {
		db.SetMaxOpenConns(1)
	} else if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set wal mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return db, nil
}

// Amounts are stored as TEXT so decimals survive untouched and a missing
// value stays NULL. Timestamps are UTC RFC 3339 text, which sorts and
// compares correctly as strings.
func createTables(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS orders (
			id TEXT PRIMARY KEY,
			order_number TEXT NOT NULL DEFAULT '',
			total_order_fees TEXT,
			delivery_fee TEXT,
			partial_paid_amount TEXT,
			hold_fee TEXT,
			admin_delivery_fee TEXT,
			extra_fee TEXT,
			status TEXT NOT NULL DEFAULT '',
			payment_method TEXT NOT NULL DEFAULT '',
			payment_sub_type TEXT,
			collected_by TEXT,
			other_payments TEXT,
			hold_fee_amount TEXT,
			hold_fee_comment TEXT,
			hold_fee_created_by TEXT,
			hold_fee_created_at TEXT,
			hold_fee_added_at TEXT,
			hold_fee_removed_at TEXT,
			assigned_courier_id TEXT,
			assigned_at TEXT,
			updated_at TEXT,
			created_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_courier ON orders(assigned_courier_id)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_assigned_at ON orders(assigned_at)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_updated_at ON orders(updated_at)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status)`,

		`CREATE TABLE IF NOT EXISTS order_imports (
			id TEXT PRIMARY KEY,
			format TEXT NOT NULL,
			file_hash TEXT UNIQUE NOT NULL,
			record_count INTEGER NOT NULL,
			imported_at TEXT NOT NULL
		)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", firstLine(stmt), err)
		}
	}

	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
