package storage

import (
	"context"
	"time"

	"lotto-cover-lab/internal/domain"
)

// DrawStore provides access to historical draws.
type DrawStore interface {
	// Insert adds a draw. Returns ErrDuplicateKey if a draw exists for the same date.
	Insert(ctx context.Context, d *domain.HistoricalDraw) error

	// InsertBulk adds multiple draws atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, draws []*domain.HistoricalDraw) error

	// Recent returns up to limit draws, newest first.
	Recent(ctx context.Context, limit int) ([]*domain.HistoricalDraw, error)

	// Since returns all draws dated on or after from, newest first.
	Since(ctx context.Context, from time.Time) ([]*domain.HistoricalDraw, error)

	// Count returns the number of stored draws.
	Count(ctx context.Context) (int, error)
}

// RankProfileStore provides access to the rank limits and per-number rank counts.
type RankProfileStore interface {
	// Get returns the stored profile. Returns ErrNotFound if no profile is stored.
	Get(ctx context.Context) (*domain.RankProfile, error)

	// Save replaces the stored profile.
	Save(ctx context.Context, p *domain.RankProfile) error
}

// RunStore provides access to run records.
type RunStore interface {
	// Insert adds a run record. Returns ErrDuplicateKey if run_id exists.
	Insert(ctx context.Context, r *domain.RunRecord) error

	// GetByID retrieves a run by ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, runID string) (*domain.RunRecord, error)

	// Recent returns up to limit runs, most recently started first.
	Recent(ctx context.Context, limit int) ([]*domain.RunRecord, error)
}

// CandidateStore provides access to the selected candidates of each run.
type CandidateStore interface {
	// InsertBulk adds candidates atomically. Fails entire batch on duplicate (run_id, rank).
	InsertBulk(ctx context.Context, candidates []*domain.RunCandidate) error

	// GetByRunID retrieves a run's candidates ordered by rank ASC.
	GetByRunID(ctx context.Context, runID string) ([]*domain.RunCandidate, error)
}
