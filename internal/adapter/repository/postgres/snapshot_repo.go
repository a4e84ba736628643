package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/simaogato/stocksync-backend/internal/domain"
)

// snapshotRepository implements domain.SnapshotRepository
type snapshotRepository struct {
	db *DB
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(db *DB) domain.SnapshotRepository {
	return &snapshotRepository{db: db}
}

// Append inserts a new snapshot row
func (r *snapshotRepository) Append(ctx context.Context, snapshot *domain.PortfolioSnapshot) error {
	query := `
		INSERT INTO portfolio_snapshots (id, date, total_value, total_invested, total_gain_loss, return_percent, positions)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		snapshot.ID,
		snapshot.Date,
		snapshot.TotalValue.String(),
		snapshot.TotalInvested.String(),
		snapshot.TotalGainLoss.String(),
		snapshot.ReturnPercent.String(),
		snapshot.Positions,
	)
	if err != nil {
		return fmt.Errorf("failed to insert portfolio snapshot: %w", domain.StoreFailure(err))
	}
	return nil
}

// List retrieves the most recent snapshots, newest first
func (r *snapshotRepository) List(ctx context.Context, limit int) ([]*domain.PortfolioSnapshot, error) {
	query := `
		SELECT id, date, total_value, total_invested, total_gain_loss, return_percent, positions
		FROM portfolio_snapshots
		ORDER BY date DESC, id
	`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list portfolio snapshots: %w", domain.StoreFailure(err))
	}
	defer rows.Close()

	var snapshots []*domain.PortfolioSnapshot
	for rows.Next() {
		var snapshot domain.PortfolioSnapshot
		var totalValueStr, totalInvestedStr, totalGainLossStr, returnPercentStr string

		if err := rows.Scan(
			&snapshot.ID,
			&snapshot.Date,
			&totalValueStr,
			&totalInvestedStr,
			&totalGainLossStr,
			&returnPercentStr,
			&snapshot.Positions,
		); err != nil {
			return nil, fmt.Errorf("failed to scan portfolio snapshot: %w", domain.StoreFailure(err))
		}

		if snapshot.TotalValue, err = decimal.NewFromString(totalValueStr); err != nil {
			return nil, fmt.Errorf("failed to parse total_value: %w", err)
		}
		if snapshot.TotalInvested, err = decimal.NewFromString(totalInvestedStr); err != nil {
			return nil, fmt.Errorf("failed to parse total_invested: %w", err)
		}
		if snapshot.TotalGainLoss, err = decimal.NewFromString(totalGainLossStr); err != nil {
			return nil, fmt.Errorf("failed to parse total_gain_loss: %w", err)
		}
		if snapshot.ReturnPercent, err = decimal.NewFromString(returnPercentStr); err != nil {
			return nil, fmt.Errorf("failed to parse return_percent: %w", err)
		}
		snapshot.Date = snapshot.Date.UTC()

		snapshots = append(snapshots, &snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating portfolio snapshots: %w", domain.StoreFailure(err))
	}
	return snapshots, nil
}
