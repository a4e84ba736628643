package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/stocksync-backend/internal/domain"
)

type snapshotRepository struct {
	db *DB
}

// NewSnapshotRepository creates a snapshot repository on top of db
func NewSnapshotRepository(db *DB) domain.SnapshotRepository {
	return &snapshotRepository{db: db}
}

func (r *snapshotRepository) Append(ctx context.Context, snapshot *domain.PortfolioSnapshot) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO portfolio_snapshots
		(id, date, total_value, total_invested, total_gain_loss, return_percent, positions)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		snapshot.ID.String(),
		snapshot.Date.UTC().Format(time.RFC3339Nano),
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

// List orders by insertion, newest first
func (r *snapshotRepository) List(ctx context.Context, limit int) ([]*domain.PortfolioSnapshot, error) {
	query := `
		SELECT id, date, total_value, total_invested, total_gain_loss, return_percent, positions
		FROM portfolio_snapshots
		ORDER BY seq DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list portfolio snapshots: %w", domain.StoreFailure(err))
	}
	defer rows.Close()

	var snapshots []*domain.PortfolioSnapshot
	for rows.Next() {
		var snapshot domain.PortfolioSnapshot
		var id, date, totalValue, totalInvested, totalGainLoss, returnPercent string

		if err := rows.Scan(&id, &date, &totalValue, &totalInvested, &totalGainLoss, &returnPercent, &snapshot.Positions); err != nil {
			return nil, fmt.Errorf("failed to scan portfolio snapshot: %w", domain.StoreFailure(err))
		}
		if snapshot.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("failed to parse id: %w", err)
		}
		if snapshot.Date, err = time.Parse(time.RFC3339Nano, date); err != nil {
			return nil, fmt.Errorf("failed to parse date: %w", err)
		}
		if snapshot.TotalValue, err = decimal.NewFromString(totalValue); err != nil {
			return nil, fmt.Errorf("failed to parse total_value: %w", err)
		}
		if snapshot.TotalInvested, err = decimal.NewFromString(totalInvested); err != nil {
			return nil, fmt.Errorf("failed to parse total_invested: %w", err)
		}
		if snapshot.TotalGainLoss, err = decimal.NewFromString(totalGainLoss); err != nil {
			return nil, fmt.Errorf("failed to parse total_gain_loss: %w", err)
		}
		if snapshot.ReturnPercent, err = decimal.NewFromString(returnPercent); err != nil {
			return nil, fmt.Errorf("failed to parse return_percent: %w", err)
		}

		snapshots = append(snapshots, &snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating portfolio snapshots: %w", domain.StoreFailure(err))
	}
	return snapshots, nil
}
