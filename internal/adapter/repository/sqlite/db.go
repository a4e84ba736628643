package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Decimals are stored as TEXT so no precision is lost, times as RFC3339 TEXT.
const schema = `
CREATE TABLE IF NOT EXISTS stocks (
	symbol               TEXT PRIMARY KEY,
	company_name         TEXT NOT NULL DEFAULT '',
	current_price        TEXT NOT NULL DEFAULT '0',
	previous_close       TEXT NOT NULL DEFAULT '0',
	price_change         TEXT NOT NULL DEFAULT '0',
	change_percent       TEXT NOT NULL DEFAULT '0',
	volume               INTEGER NOT NULL DEFAULT 0,
	market_cap           INTEGER NOT NULL DEFAULT 0,
	fifty_two_week_range TEXT NOT NULL DEFAULT '',
	exchange             TEXT NOT NULL DEFAULT 'Unknown',
	shares_owned         TEXT,
	purchase_price       TEXT,
	last_updated         TEXT
);

CREATE TABLE IF NOT EXISTS portfolio_snapshots (
	seq             INTEGER PRIMARY KEY AUTOINCREMENT,
	id              TEXT NOT NULL UNIQUE,
	date            TEXT NOT NULL,
	total_value     TEXT NOT NULL,
	total_invested  TEXT NOT NULL,
	total_gain_loss TEXT NOT NULL,
	return_percent  TEXT NOT NULL,
	positions       INTEGER NOT NULL
);
`

// DB wraps the SQLite connection
type DB struct {
	*sql.DB
}

// NewDB opens the database file at path and creates the schema
func NewDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// One writer at a time; also keeps a :memory: database on a single connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &DB{DB: db}, nil
}

// Ping checks that the database is reachable
func (db *DB) Ping(ctx context.Context) error {
	return db.DB.PingContext(ctx)
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}
