package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"lotto-cover-lab/internal/domain"
	"lotto-cover-lab/internal/storage"
)

// RunStore implements storage.RunStore using PostgreSQL.
type RunStore struct {
	pool *Pool
}

// NewRunStore creates a new RunStore.
func NewRunStore(pool *Pool) *RunStore {
	return &RunStore{pool: pool}
}

// Compile-time interface check.
var _ storage.RunStore = (*RunStore)(nil)

const runColumns = `
	run_id, config_hash, mode, target, accepted, attempts, selected,
	shortfall, cancelled, history_unavailable, rank_profile_defaulted,
	started_at, finished_at
`

// Insert adds a run record. Returns ErrDuplicateKey if run_id exists.
// RunID must be a UUID.
func (s *RunStore) Insert(ctx context.Context, r *domain.RunRecord) error {
	if r == nil {
		return storage.ErrInvalidInput
	}
	if _, err := uuid.Parse(r.RunID); err != nil {
		return fmt.Errorf("run id %q: %w", r.RunID, storage.ErrInvalidInput)
	}

	query := `
		INSERT INTO generation_runs (` + runColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := s.pool.Exec(ctx, query,
		r.RunID,
		r.ConfigHash,
		r.Mode,
		r.Target,
		r.Accepted,
		r.Attempts,
		r.Selected,
		r.Shortfall,
		r.Cancelled,
		r.HistoryUnavailable,
		r.RankProfileDefaulted,
		r.StartedAt,
		r.FinishedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// GetByID retrieves a run by ID. Returns ErrNotFound if not exists.
func (s *RunStore) GetByID(ctx context.Context, runID string) (*domain.RunRecord, error) {
	query := `SELECT ` + runColumns + ` FROM generation_runs WHERE run_id = $1`

	r, err := scanRun(s.pool.QueryRow(ctx, query, runID))
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get run by id: %w", err)
	}
	return r, nil
}

// Recent returns up to limit runs, most recently started first.
func (s *RunStore) Recent(ctx context.Context, limit int) ([]*domain.RunRecord, error) {
	if limit <= 0 {
		return nil, nil
	}

	query := `
		SELECT ` + runColumns + `
		FROM generation_runs
		ORDER BY started_at DESC, run_id ASC
		LIMIT $1
	`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("get recent runs: %w", err)
	}
	defer rows.Close()

	var runs []*domain.RunRecord
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run rows: %w", err)
	}
	return runs, nil
}

// scanRun scans a single row into a RunRecord.
func scanRun(row pgx.Row) (*domain.RunRecord, error) {
	var r domain.RunRecord
	err := row.Scan(
		&r.RunID,
		&r.ConfigHash,
		&r.Mode,
		&r.Target,
		&r.Accepted,
		&r.Attempts,
		&r.Selected,
		&r.Shortfall,
		&r.Cancelled,
		&r.HistoryUnavailable,
		&r.RankProfileDefaulted,
		&r.StartedAt,
		&r.FinishedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}
