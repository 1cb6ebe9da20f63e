package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"lotto-cover-lab/internal/domain"
	"lotto-cover-lab/internal/storage"
)

// DrawStore is an in-memory implementation of storage.DrawStore.
type DrawStore struct {
	mu   sync.RWMutex
	data map[string]*domain.HistoricalDraw // keyed by draw date (YYYY-MM-DD)
}

// NewDrawStore creates a new in-memory draw store.
func NewDrawStore() *DrawStore {
	return &DrawStore{
		data: make(map[string]*domain.HistoricalDraw),
	}
}

// Compile-time interface check.
var _ storage.DrawStore = (*DrawStore)(nil)

func drawKey(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}

func copyDraw(d *domain.HistoricalDraw) *domain.HistoricalDraw {
	return &domain.HistoricalDraw{
		DrawDate: d.DrawDate,
		Numbers:  d.Numbers.Clone(),
	}
}

// Insert adds a draw. Returns ErrDuplicateKey if a draw exists for the same date.
func (s *DrawStore) Insert(_ context.Context, d *domain.HistoricalDraw) error {
	if d == nil || d.DrawDate.IsZero() || len(d.Numbers) == 0 {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := drawKey(d.DrawDate)
	if _, exists := s.data[key]; exists {
		return storage.ErrDuplicateKey
	}
	s.data[key] = copyDraw(d)
	return nil
}

// InsertBulk adds multiple draws atomically. Fails entire batch on any duplicate.
func (s *DrawStore) InsertBulk(_ context.Context, draws []*domain.HistoricalDraw) error {
	if len(draws) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Validate all first (atomic)
	seen := make(map[string]struct{}, len(draws))
	for _, d := range draws {
		if d == nil || d.DrawDate.IsZero() || len(d.Numbers) == 0 {
			return storage.ErrInvalidInput
		}
		key := drawKey(d.DrawDate)
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := seen[key]; exists {
			return storage.ErrDuplicateKey
		}
		seen[key] = struct{}{}
	}

	for _, d := range draws {
		s.data[drawKey(d.DrawDate)] = copyDraw(d)
	}
	return nil
}

// newestFirst returns copies of all draws matching keep, newest first.
func (s *DrawStore) newestFirst(keep func(*domain.HistoricalDraw) bool) []*domain.HistoricalDraw {
	var result []*domain.HistoricalDraw
	for _, d := range s.data {
		if keep(d) {
			result = append(result, copyDraw(d))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].DrawDate.After(result[j].DrawDate)
	})
	return result
}

// Recent returns up to limit draws, newest first.
func (s *DrawStore) Recent(_ context.Context, limit int) ([]*domain.HistoricalDraw, error) {
	if limit <= 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := s.newestFirst(func(*domain.HistoricalDraw) bool { return true })
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// Since returns all draws dated on or after from, newest first.
func (s *DrawStore) Since(_ context.Context, from time.Time) ([]*domain.HistoricalDraw, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.newestFirst(func(d *domain.HistoricalDraw) bool {
		return !d.DrawDate.Before(from)
	}), nil
}

// Count returns the number of stored draws.
func (s *DrawStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data), nil
}
