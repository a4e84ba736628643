package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/simaogato/stocksync-backend/internal/domain"
)

const stockColumns = `symbol, company_name, current_price, previous_close, price_change, change_percent,
	volume, market_cap, fifty_two_week_range, exchange, shares_owned, purchase_price, last_updated`

// stockRepository implements domain.StockRepository
type stockRepository struct {
	db *DB
}

// NewStockRepository creates a new stock repository
func NewStockRepository(db *DB) domain.StockRepository {
	return &stockRepository{db: db}
}

// FindBySymbol retrieves the record of a symbol
func (r *stockRepository) FindBySymbol(ctx context.Context, symbol string) (*domain.StockRecord, error) {
	query := `SELECT ` + stockColumns + ` FROM stocks WHERE symbol = $1`

	record, err := scanStock(r.db.QueryRowContext(ctx, query, symbol))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("stock %s: %w", symbol, domain.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get stock %s: %w", symbol, domain.StoreFailure(err))
	}
	return record, nil
}

// ListAll retrieves every record ordered by symbol
func (r *stockRepository) ListAll(ctx context.Context) ([]*domain.StockRecord, error) {
	query := `SELECT ` + stockColumns + ` FROM stocks ORDER BY symbol`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list stocks: %w", domain.StoreFailure(err))
	}
	defer rows.Close()

	var records []*domain.StockRecord
	for rows.Next() {
		record, err := scanStock(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stock: %w", domain.StoreFailure(err))
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stocks: %w", domain.StoreFailure(err))
	}
	return records, nil
}

// Upsert inserts the record or overwrites the market columns of the existing row.
// Position columns are only written on insert.
func (r *stockRepository) Upsert(ctx context.Context, record *domain.StockRecord) error {
	query := `
		INSERT INTO stocks (` + stockColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (symbol) DO UPDATE SET
			company_name = EXCLUDED.company_name,
			current_price = EXCLUDED.current_price,
			previous_close = EXCLUDED.previous_close,
			price_change = EXCLUDED.price_change,
			change_percent = EXCLUDED.change_percent,
			volume = EXCLUDED.volume,
			market_cap = EXCLUDED.market_cap,
			fifty_two_week_range = EXCLUDED.fifty_two_week_range,
			exchange = EXCLUDED.exchange,
			last_updated = EXCLUDED.last_updated
	`

	_, err := r.db.ExecContext(ctx, query,
		record.Symbol,
		record.CompanyName,
		record.CurrentPrice.String(),
		record.PreviousClose.String(),
		record.PriceChange.String(),
		record.ChangePercent.String(),
		record.Volume,
		record.MarketCap,
		record.FiftyTwoWeekRange,
		string(record.Exchange),
		nullDecimalArg(record.SharesOwned),
		nullDecimalArg(record.PurchasePrice),
		nullTimeArg(record),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert stock %s: %w", record.Symbol, domain.StoreFailure(err))
	}
	return nil
}

// UpdatePosition sets or clears the position columns of an existing row
func (r *stockRepository) UpdatePosition(ctx context.Context, symbol string, shares, purchasePrice decimal.NullDecimal) error {
	query := `UPDATE stocks SET shares_owned = $2, purchase_price = $3 WHERE symbol = $1`

	result, err := r.db.ExecContext(ctx, query, symbol, nullDecimalArg(shares), nullDecimalArg(purchasePrice))
	if err != nil {
		return fmt.Errorf("failed to update position for %s: %w", symbol, domain.StoreFailure(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", domain.StoreFailure(err))
	}
	if rowsAffected == 0 {
		return fmt.Errorf("stock %s: %w", symbol, domain.ErrRecordNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStock(row rowScanner) (*domain.StockRecord, error) {
	var record domain.StockRecord
	var currentPriceStr, previousCloseStr, priceChangeStr, changePercentStr, exchange string
	var sharesStr, purchasePriceStr sql.NullString
	var lastUpdated sql.NullTime

	err := row.Scan(
		&record.Symbol,
		&record.CompanyName,
		&currentPriceStr,
		&previousCloseStr,
		&priceChangeStr,
		&changePercentStr,
		&record.Volume,
		&record.MarketCap,
		&record.FiftyTwoWeekRange,
		&exchange,
		&sharesStr,
		&purchasePriceStr,
		&lastUpdated,
	)
	if err != nil {
		return nil, err
	}

	// Parse NUMERIC columns
	if record.CurrentPrice, err = decimal.NewFromString(currentPriceStr); err != nil {
		return nil, fmt.Errorf("failed to parse current_price: %w", err)
	}
	if record.PreviousClose, err = decimal.NewFromString(previousCloseStr); err != nil {
		return nil, fmt.Errorf("failed to parse previous_close: %w", err)
	}
	if record.PriceChange, err = decimal.NewFromString(priceChangeStr); err != nil {
		return nil, fmt.Errorf("failed to parse price_change: %w", err)
	}
	if record.ChangePercent, err = decimal.NewFromString(changePercentStr); err != nil {
		return nil, fmt.Errorf("failed to parse change_percent: %w", err)
	}
	if record.SharesOwned, err = parseNullDecimal(sharesStr); err != nil {
		return nil, fmt.Errorf("failed to parse shares_owned: %w", err)
	}
	if record.PurchasePrice, err = parseNullDecimal(purchasePriceStr); err != nil {
		return nil, fmt.Errorf("failed to parse purchase_price: %w", err)
	}

	record.Exchange = domain.Exchange(exchange)
	if lastUpdated.Valid {
		record.LastUpdated = lastUpdated.Time.UTC()
	}
	return &record, nil
}

func parseNullDecimal(s sql.NullString) (decimal.NullDecimal, error) {
	if !s.Valid {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s.String)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

func nullDecimalArg(d decimal.NullDecimal) any {
	if !d.Valid {
		return nil
	}
	return d.Decimal.String()
}

func nullTimeArg(record *domain.StockRecord) any {
	if record.LastUpdated.IsZero() {
		return nil
	}
	return record.LastUpdated
}
