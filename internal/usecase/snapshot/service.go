package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/simaogato/stocksync-backend/internal/domain"
)

// SnapshotService writes and reads the append-only portfolio history
type SnapshotService struct {
	SnapshotRepo domain.SnapshotRepository
	Now          func() time.Time
}

// NewSnapshotService creates a new SnapshotService instance
func NewSnapshotService(snapshotRepo domain.SnapshotRepository) *SnapshotService {
	return &SnapshotService{
		SnapshotRepo: snapshotRepo,
		Now:          time.Now,
	}
}

// WriteSnapshot appends a new immutable snapshot carrying the summary's values.
// Nothing is kept when the append fails.
func (s *SnapshotService) WriteSnapshot(ctx context.Context, summary domain.PortfolioSummary) (*domain.PortfolioSnapshot, error) {
	snapshot := domain.NewPortfolioSnapshot(summary, s.Now())

	if err := s.SnapshotRepo.Append(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("failed to append portfolio snapshot: %w", domain.StoreFailure(err))
	}

	return snapshot, nil
}

// History returns the latest snapshots, newest first. limit <= 0 returns all of them.
func (s *SnapshotService) History(ctx context.Context, limit int) ([]*domain.PortfolioSnapshot, error) {
	snapshots, err := s.SnapshotRepo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list portfolio snapshots: %w", domain.StoreFailure(err))
	}
	return snapshots, nil
}
