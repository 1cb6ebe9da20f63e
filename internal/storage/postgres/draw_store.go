package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"lotto-cover-lab/internal/domain"
	"lotto-cover-lab/internal/storage"
)

// DrawStore implements storage.DrawStore using PostgreSQL.
type DrawStore struct {
	pool *Pool
}

// NewDrawStore creates a new DrawStore.
func NewDrawStore(pool *Pool) *DrawStore {
	return &DrawStore{pool: pool}
}

// Compile-time interface check.
var _ storage.DrawStore = (*DrawStore)(nil)

const insertDrawQuery = `
	INSERT INTO draws (draw_date, numbers, sum)
	VALUES ($1, $2, $3)
`

func validDraw(d *domain.HistoricalDraw) bool {
	return d != nil && !d.DrawDate.IsZero() && len(d.Numbers) > 0
}

// drawDate truncates t to its UTC calendar date.
func drawDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Insert adds a draw. Returns ErrDuplicateKey if a draw exists for the same date.
func (s *DrawStore) Insert(ctx context.Context, d *domain.HistoricalDraw) error {
	if !validDraw(d) {
		return storage.ErrInvalidInput
	}

	_, err := s.pool.Exec(ctx, insertDrawQuery, drawDate(d.DrawDate), []int(d.Numbers), d.Numbers.Sum())
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert draw: %w", err)
	}
	return nil
}

// InsertBulk adds multiple draws atomically. Fails entire batch on any duplicate.
func (s *DrawStore) InsertBulk(ctx context.Context, draws []*domain.HistoricalDraw) error {
	if len(draws) == 0 {
		return nil
	}
	for _, d := range draws {
		if !validDraw(d) {
			return storage.ErrInvalidInput
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, d := range draws {
		_, err := tx.Exec(ctx, insertDrawQuery, drawDate(d.DrawDate), []int(d.Numbers), d.Numbers.Sum())
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert draw in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Recent returns up to limit draws, newest first.
func (s *DrawStore) Recent(ctx context.Context, limit int) ([]*domain.HistoricalDraw, error) {
	if limit <= 0 {
		return nil, nil
	}

	query := `
		SELECT draw_date, numbers
		FROM draws
		ORDER BY draw_date DESC
		LIMIT $1
	`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("get recent draws: %w", err)
	}
	defer rows.Close()

	return scanDraws(rows)
}

// Since returns all draws dated on or after from, newest first.
func (s *DrawStore) Since(ctx context.Context, from time.Time) ([]*domain.HistoricalDraw, error) {
	query := `
		SELECT draw_date, numbers
		FROM draws
		WHERE draw_date >= $1
		ORDER BY draw_date DESC
	`

	rows, err := s.pool.Query(ctx, query, drawDate(from))
	if err != nil {
		return nil, fmt.Errorf("get draws since: %w", err)
	}
	defer rows.Close()

	return scanDraws(rows)
}

// Count returns the number of stored draws.
func (s *DrawStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM draws`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count draws: %w", err)
	}
	return n, nil
}

// scanDraws scans multiple rows into a slice of HistoricalDraw.
func scanDraws(rows pgx.Rows) ([]*domain.HistoricalDraw, error) {
	var draws []*domain.HistoricalDraw

	for rows.Next() {
		var d domain.HistoricalDraw
		var numbers []int

		if err := rows.Scan(&d.DrawDate, &numbers); err != nil {
			return nil, fmt.Errorf("scan draw row: %w", err)
		}
		d.Numbers = domain.Combination(numbers)
		draws = append(draws, &d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate draw rows: %w", err)
	}

	return draws, nil
}
