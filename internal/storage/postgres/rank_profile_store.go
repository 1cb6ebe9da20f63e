package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"lotto-cover-lab/internal/domain"
	"lotto-cover-lab/internal/storage"
)

// RankProfileStore implements storage.RankProfileStore using PostgreSQL.
// Limits and counts live in separate tables keyed by bucket and number.
type RankProfileStore struct {
	pool *Pool
}

// NewRankProfileStore creates a new RankProfileStore.
func NewRankProfileStore(pool *Pool) *RankProfileStore {
	return &RankProfileStore{pool: pool}
}

// Compile-time interface check.
var _ storage.RankProfileStore = (*RankProfileStore)(nil)

// Get returns the stored profile. Returns ErrNotFound if either table is empty.
func (s *RankProfileStore) Get(ctx context.Context) (*domain.RankProfile, error) {
	limits, err := s.column(ctx, `SELECT bucket, rank_limit FROM rank_limits ORDER BY bucket ASC`, 0)
	if err != nil {
		return nil, fmt.Errorf("get rank limits: %w", err)
	}
	counts, err := s.column(ctx, `SELECT number, rank_count FROM rank_counts ORDER BY number ASC`, 1)
	if err != nil {
		return nil, fmt.Errorf("get rank counts: %w", err)
	}
	if len(limits) == 0 || len(counts) == 0 {
		return nil, storage.ErrNotFound
	}
	return &domain.RankProfile{Limits: limits, Counts: counts}, nil
}

// column reads (key, value) rows whose keys must run contiguously from first.
func (s *RankProfileStore) column(ctx context.Context, query string, first int) ([]int, error) {
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []int
	for rows.Next() {
		var key, value int
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if key != first+len(values) {
			return nil, fmt.Errorf("key %d out of sequence: %w", key, storage.ErrInvalidInput)
		}
		values = append(values, value)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return values, nil
}

// Save replaces the stored profile in one transaction.
func (s *RankProfileStore) Save(ctx context.Context, p *domain.RankProfile) error {
	if p == nil || len(p.Limits) == 0 || len(p.Counts) == 0 {
		return storage.ErrInvalidInput
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM rank_limits`); err != nil {
		return fmt.Errorf("clear rank limits: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM rank_counts`); err != nil {
		return fmt.Errorf("clear rank counts: %w", err)
	}

	limitRows := make([][]any, len(p.Limits))
	for i, l := range p.Limits {
		limitRows[i] = []any{int16(i), int32(l)}
	}
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"rank_limits"}, []string{"bucket", "rank_limit"}, pgx.CopyFromRows(limitRows)); err != nil {
		return fmt.Errorf("copy rank limits: %w", err)
	}

	countRows := make([][]any, len(p.Counts))
	for i, c := range p.Counts {
		countRows[i] = []any{int16(i + 1), int32(c)}
	}
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"rank_counts"}, []string{"number", "rank_count"}, pgx.CopyFromRows(countRows)); err != nil {
		return fmt.Errorf("copy rank counts: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
