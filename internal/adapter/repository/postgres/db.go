package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver
)

const schema = `
CREATE TABLE IF NOT EXISTS stocks (
	symbol               TEXT PRIMARY KEY,
	company_name         TEXT NOT NULL DEFAULT '',
	current_price        NUMERIC NOT NULL DEFAULT 0,
	previous_close       NUMERIC NOT NULL DEFAULT 0,
	price_change         NUMERIC NOT NULL DEFAULT 0,
	change_percent       NUMERIC NOT NULL DEFAULT 0,
	volume               BIGINT NOT NULL DEFAULT 0,
	market_cap           BIGINT NOT NULL DEFAULT 0,
	fifty_two_week_range TEXT NOT NULL DEFAULT '',
	exchange             TEXT NOT NULL DEFAULT 'Unknown',
	shares_owned         NUMERIC,
	purchase_price       NUMERIC,
	last_updated         TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS portfolio_snapshots (
	id              UUID PRIMARY KEY,
	date            TIMESTAMPTZ NOT NULL,
	total_value     NUMERIC NOT NULL,
	total_invested  NUMERIC NOT NULL,
	total_gain_loss NUMERIC NOT NULL,
	return_percent  NUMERIC NOT NULL,
	positions       INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_portfolio_snapshots_date ON portfolio_snapshots (date DESC);
`

// DB wraps the database connection
type DB struct {
	*sql.DB
}

// NewDB creates a new database connection
// connectionString should be in the format: "host=localhost port=5432 user=postgres password=postgres dbname=stocksync sslmode=disable"
func NewDB(connectionString string) (*DB, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db}, nil
}

// EnsureSchema creates the stocks and portfolio_snapshots tables when missing
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Ping checks that the database is reachable
func (db *DB) Ping(ctx context.Context) error {
	return db.DB.PingContext(ctx)
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}
