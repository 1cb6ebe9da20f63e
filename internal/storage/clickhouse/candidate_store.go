package clickhouse

import (
	"context"
	"fmt"

	"lotto-cover-lab/internal/domain"
	"lotto-cover-lab/internal/storage"
)

// CandidateStore implements storage.CandidateStore using ClickHouse.
type CandidateStore struct {
	conn *Conn
}

// NewCandidateStore creates a new CandidateStore.
func NewCandidateStore(conn *Conn) *CandidateStore {
	return &CandidateStore{conn: conn}
}

// Compile-time interface check.
var _ storage.CandidateStore = (*CandidateStore)(nil)

const candidateColumns = `
	run_id, rank, candidate_id, numbers, sum,
	even_count, odd_count, seq2, seq3, mod_total, mod_x, decade_counts,
	score, score_frequency, score_balance, score_decade, score_sequence,
	score_sum, score_rank, score_col1
`

// InsertBulk adds candidates atomically. Fails entire batch on duplicate (run_id, rank).
func (s *CandidateStore) InsertBulk(ctx context.Context, candidates []*domain.RunCandidate) error {
	if len(candidates) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	seen := make(map[string]struct{}, len(candidates))
	runs := make(map[string]struct{})
	for _, c := range candidates {
		if c == nil || c.RunID == "" || c.Rank < 1 {
			return storage.ErrInvalidInput
		}
		key := fmt.Sprintf("%s|%d", c.RunID, c.Rank)
		if _, exists := seen[key]; exists {
			return storage.ErrDuplicateKey
		}
		seen[key] = struct{}{}
		runs[c.RunID] = struct{}{}
	}

	// Check for duplicates against existing DB rows
	for runID := range runs {
		ranks, err := s.existingRanks(ctx, runID)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		for _, c := range candidates {
			if c.RunID != runID {
				continue
			}
			if _, exists := ranks[c.Rank]; exists {
				return storage.ErrDuplicateKey
			}
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `INSERT INTO run_candidates (`+candidateColumns+`)`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, c := range candidates {
		sc := c.Candidate
		f := sc.Features
		err = batch.Append(
			c.RunID, uint32(c.Rank), c.CandidateID, toUint16(sc.Combination), uint32(f.Sum),
			uint8(f.EvenCount), uint8(f.OddCount), uint8(f.Seq2), uint8(f.Seq3),
			uint8(f.ModTotal), uint8(f.ModX), toUint8(f.DecadeCounts),
			sc.Score, sc.SubScores.Frequency, sc.SubScores.Balance, sc.SubScores.Decade,
			sc.SubScores.Sequence, sc.SubScores.Sum, sc.SubScores.Rank, sc.SubScores.Col1,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByRunID retrieves a run's candidates ordered by rank ASC.
func (s *CandidateStore) GetByRunID(ctx context.Context, runID string) ([]*domain.RunCandidate, error) {
	query := `
		SELECT ` + candidateColumns + `
		FROM run_candidates FINAL
		WHERE run_id = ?
		ORDER BY rank ASC
	`

	rows, err := s.conn.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("query run candidates: %w", err)
	}
	defer rows.Close()

	return scanRunCandidates(rows)
}

// existingRanks returns the ranks already stored for runID.
func (s *CandidateStore) existingRanks(ctx context.Context, runID string) (map[int]struct{}, error) {
	rows, err := s.conn.Query(ctx, `SELECT rank FROM run_candidates FINAL WHERE run_id = ?`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ranks := make(map[int]struct{})
	for rows.Next() {
		var rank uint32
		if err := rows.Scan(&rank); err != nil {
			return nil, err
		}
		ranks[int(rank)] = struct{}{}
	}
	return ranks, rows.Err()
}

func toUint16(c domain.Combination) []uint16 {
	out := make([]uint16, len(c))
	for i, n := range c {
		out[i] = uint16(n)
	}
	return out
}

func toUint8(v []int) []uint8 {
	out := make([]uint8, len(v))
	for i, n := range v {
		out[i] = uint8(n)
	}
	return out
}

// chRows abstracts clickhouse rows for testing.
type chRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// scanRunCandidates scans rows into RunCandidates.
func scanRunCandidates(rows chRows) ([]*domain.RunCandidate, error) {
	var result []*domain.RunCandidate
	for rows.Next() {
		var (
			c                               domain.RunCandidate
			rank, sum                       uint32
			numbers                         []uint16
			even, odd, seq2, seq3, mt, modX uint8
			decades                         []uint8
		)
		sub := &c.Candidate.SubScores
		err := rows.Scan(
			&c.RunID, &rank, &c.CandidateID, &numbers, &sum,
			&even, &odd, &seq2, &seq3, &mt, &modX, &decades,
			&c.Candidate.Score, &sub.Frequency, &sub.Balance, &sub.Decade, &sub.Sequence,
			&sub.Sum, &sub.Rank, &sub.Col1,
		)
		if err != nil {
			return nil, fmt.Errorf("scan run candidate: %w", err)
		}

		c.Rank = int(rank)
		c.Candidate.Combination = make(domain.Combination, len(numbers))
		for i, n := range numbers {
			c.Candidate.Combination[i] = int(n)
		}
		c.Candidate.Features = domain.FeatureVector{
			Sum:          int(sum),
			EvenCount:    int(even),
			OddCount:     int(odd),
			Seq2:         int(seq2),
			Seq3:         int(seq3),
			ModTotal:     int(mt),
			ModX:         int(modX),
			DecadeCounts: make([]int, len(decades)),
		}
		for i, d := range decades {
			c.Candidate.Features.DecadeCounts[i] = int(d)
		}
		result = append(result, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run candidates: %w", err)
	}

	return result, nil
}
