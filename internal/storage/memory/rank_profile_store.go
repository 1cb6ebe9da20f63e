package memory

import (
	"context"
	"sync"

	"lotto-cover-lab/internal/domain"
	"lotto-cover-lab/internal/storage"
)

// RankProfileStore is an in-memory implementation of storage.RankProfileStore.
type RankProfileStore struct {
	mu      sync.RWMutex
	profile *domain.RankProfile
}

// NewRankProfileStore creates an empty in-memory rank profile store.
func NewRankProfileStore() *RankProfileStore {
	return &RankProfileStore{}
}

// Compile-time interface check.
var _ storage.RankProfileStore = (*RankProfileStore)(nil)

// Get returns the stored profile. Returns ErrNotFound if no profile is stored.
func (s *RankProfileStore) Get(_ context.Context) (*domain.RankProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.profile == nil {
		return nil, storage.ErrNotFound
	}
	p := s.profile.Clone()
	return &p, nil
}

// Save replaces the stored profile.
func (s *RankProfileStore) Save(_ context.Context, p *domain.RankProfile) error {
	if p == nil || len(p.Limits) == 0 || len(p.Counts) == 0 {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := p.Clone()
	s.profile = &c
	return nil
}
