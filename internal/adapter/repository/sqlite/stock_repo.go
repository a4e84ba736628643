package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/simaogato/stocksync-backend/internal/domain"
)

const stockColumns = `symbol, company_name, current_price, previous_close, price_change, change_percent,
	volume, market_cap, fifty_two_week_range, exchange, shares_owned, purchase_price, last_updated`

type stockRepository struct {
	db *DB
}

// NewStockRepository creates a stock repository on top of db
func NewStockRepository(db *DB) domain.StockRepository {
	return &stockRepository{db: db}
}

func (r *stockRepository) FindBySymbol(ctx context.Context, symbol string) (*domain.StockRecord, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+stockColumns+` FROM stocks WHERE symbol = ?`, symbol)

	record, err := scanStock(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("stock %s: %w", symbol, domain.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get stock %s: %w", symbol, domain.StoreFailure(err))
	}
	return record, nil
}

func (r *stockRepository) ListAll(ctx context.Context) ([]*domain.StockRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+stockColumns+` FROM stocks ORDER BY symbol`)
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

// Upsert writes position columns on insert only
func (r *stockRepository) Upsert(ctx context.Context, record *domain.StockRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO stocks (`+stockColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (symbol) DO UPDATE SET
			company_name = excluded.company_name,
			current_price = excluded.current_price,
			previous_close = excluded.previous_close,
			price_change = excluded.price_change,
			change_percent = excluded.change_percent,
			volume = excluded.volume,
			market_cap = excluded.market_cap,
			fifty_two_week_range = excluded.fifty_two_week_range,
			exchange = excluded.exchange,
			last_updated = excluded.last_updated`,
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
		timeArg(record.LastUpdated),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert stock %s: %w", record.Symbol, domain.StoreFailure(err))
	}
	return nil
}

func (r *stockRepository) UpdatePosition(ctx context.Context, symbol string, shares, purchasePrice decimal.NullDecimal) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE stocks SET shares_owned = ?, purchase_price = ? WHERE symbol = ?`,
		nullDecimalArg(shares), nullDecimalArg(purchasePrice), symbol,
	)
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
	var currentPrice, previousClose, priceChange, changePercent, exchange string
	var shares, purchasePrice, lastUpdated sql.NullString

	err := row.Scan(
		&record.Symbol,
		&record.CompanyName,
		&currentPrice,
		&previousClose,
		&priceChange,
		&changePercent,
		&record.Volume,
		&record.MarketCap,
		&record.FiftyTwoWeekRange,
		&exchange,
		&shares,
		&purchasePrice,
		&lastUpdated,
	)
	if err != nil {
		return nil, err
	}

	if record.CurrentPrice, err = decimal.NewFromString(currentPrice); err != nil {
		return nil, fmt.Errorf("failed to parse current_price: %w", err)
	}
	if record.PreviousClose, err = decimal.NewFromString(previousClose); err != nil {
		return nil, fmt.Errorf("failed to parse previous_close: %w", err)
	}
	if record.PriceChange, err = decimal.NewFromString(priceChange); err != nil {
		return nil, fmt.Errorf("failed to parse price_change: %w", err)
	}
	if record.ChangePercent, err = decimal.NewFromString(changePercent); err != nil {
		return nil, fmt.Errorf("failed to parse change_percent: %w", err)
	}
	if record.SharesOwned, err = parseNullDecimal(shares); err != nil {
		return nil, fmt.Errorf("failed to parse shares_owned: %w", err)
	}
	if record.PurchasePrice, err = parseNullDecimal(purchasePrice); err != nil {
		return nil, fmt.Errorf("failed to parse purchase_price: %w", err)
	}
	if lastUpdated.Valid {
		if record.LastUpdated, err = time.Parse(time.RFC3339Nano, lastUpdated.String); err != nil {
			return nil, fmt.Errorf("failed to parse last_updated: %w", err)
		}
	}
	record.Exchange = domain.Exchange(exchange)

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

func timeArg(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}
