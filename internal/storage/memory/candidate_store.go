package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"lotto-cover-lab/internal/domain"
	"lotto-cover-lab/internal/storage"
)

// CandidateStore is an in-memory implementation of storage.CandidateStore.
type CandidateStore struct {
	mu   sync.RWMutex
	data map[string]map[int]*domain.RunCandidate // run_id -> rank -> candidate
}

// NewCandidateStore creates a new in-memory candidate store.
func NewCandidateStore() *CandidateStore {
	return &CandidateStore{
		data: make(map[string]map[int]*domain.RunCandidate),
	}
}

// Compile-time interface check.
var _ storage.CandidateStore = (*CandidateStore)(nil)

func copyRunCandidate(c *domain.RunCandidate) *domain.RunCandidate {
	out := *c
	out.Candidate.Combination = c.Candidate.Combination.Clone()
	out.Candidate.Features.DecadeCounts = append([]int(nil), c.Candidate.Features.DecadeCounts...)
	return &out
}

// InsertBulk adds candidates atomically. Fails entire batch on duplicate (run_id, rank).
func (s *CandidateStore) InsertBulk(_ context.Context, candidates []*domain.RunCandidate) error {
	if len(candidates) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		if c == nil || c.RunID == "" || c.Rank < 1 {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[c.RunID][c.Rank]; exists {
			return storage.ErrDuplicateKey
		}
		key := fmt.Sprintf("%s|%d", c.RunID, c.Rank)
		if _, exists := seen[key]; exists {
			return storage.ErrDuplicateKey
		}
		seen[key] = struct{}{}
	}

	for _, c := range candidates {
		byRank, ok := s.data[c.RunID]
		if !ok {
			byRank = make(map[int]*domain.RunCandidate)
			s.data[c.RunID] = byRank
		}
		byRank[c.Rank] = copyRunCandidate(c)
	}
	return nil
}

// GetByRunID retrieves a run's candidates ordered by rank ASC.
func (s *CandidateStore) GetByRunID(_ context.Context, runID string) ([]*domain.RunCandidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byRank := s.data[runID]
	result := make([]*domain.RunCandidate, 0, len(byRank))
	for _, c := range byRank {
		result = append(result, copyRunCandidate(c))
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Rank < result[j].Rank
	})
	return result, nil
}
