package reporting

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"lotto-cover-lab/internal/domain"
	"lotto-cover-lab/internal/engine"
	"lotto-cover-lab/internal/storage"
)

// Generator produces run reports from engine results or stored runs.
type Generator struct {
	runStore       storage.RunStore
	candidateStore storage.CandidateStore
	rankStore      storage.RankProfileStore
	now            func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator. The stores are only needed
// by Generate; FromResult works without them.
func NewGenerator(
	runStore storage.RunStore,
	candidateStore storage.CandidateStore,
	rankStore storage.RankProfileStore,
) *Generator {
	return &Generator{
		runStore:       runStore,
		candidateStore: candidateStore,
		rankStore:      rankStore,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// FromResult builds the report of a run that just finished.
func (g *Generator) FromResult(res *engine.Result, u domain.Universe) *Report {
	d := res.Diagnostics
	r := &Report{
		GeneratedAt: g.now(),
		Run: RunSection{
			RunID:                d.RunID,
			ConfigHash:           d.ConfigHash,
			Mode:                 string(d.Mode),
			UniverseN:            u.N,
			UniverseK:            u.K,
			SearchSpace:          d.SearchSpace,
			Target:               d.Target,
			Accepted:             d.Accepted,
			Attempts:             d.Attempts,
			Selected:             d.Selected,
			Shortfall:            d.Shortfall != nil,
			Cancelled:            d.Cancelled,
			HistoryDraws:         d.HistoryDraws,
			HistoryUnavailable:   d.HistoryUnavailable,
			RankProfileDefaulted: d.RankProfileDefaulted,
			Duration:             d.Duration,
		},
		Rejections:     rejectionRows(d.Rejections),
		PoolScoreStats: distribution(scores(res.Pool)),
	}

	profile := domain.DefaultRankProfile(u)
	if res.History != nil {
		profile = res.History.RankProfile()
	}
	summarize(r, res.Selected, u, profile, res.History)
	return r
}

// Generate rebuilds the report of a persisted run. Sections that need the
// run's history snapshot or full pool are left empty.
func (g *Generator) Generate(ctx context.Context, runID string, u domain.Universe) (*Report, error) {
	if g.runStore == nil || g.candidateStore == nil {
		return nil, errors.New("run and candidate stores are required")
	}

	rec, err := g.runStore.GetByID(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("load run %s: %w", runID, err)
	}
	stored, err := g.candidateStore.GetByRunID(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("load candidates for run %s: %w", runID, err)
	}

	profile := domain.DefaultRankProfile(u)
	if g.rankStore != nil {
		if p, err := g.rankStore.Get(ctx); err == nil && p.Validate(u) == nil {
			profile = *p
		}
	}

	selected := make([]domain.ScoredCandidate, len(stored))
	for i, rc := range stored {
		selected[i] = rc.Candidate
	}

	r := &Report{
		GeneratedAt: g.now(),
		Run: RunSection{
			RunID:                rec.RunID,
			ConfigHash:           rec.ConfigHash,
			Mode:                 rec.Mode,
			UniverseN:            u.N,
			UniverseK:            u.K,
			SearchSpace:          -1,
			Target:               rec.Target,
			Accepted:             rec.Accepted,
			Attempts:             rec.Attempts,
			Selected:             rec.Selected,
			Shortfall:            rec.Shortfall,
			Cancelled:            rec.Cancelled,
			HistoryUnavailable:   rec.HistoryUnavailable,
			RankProfileDefaulted: rec.RankProfileDefaulted,
			Duration:             rec.FinishedAt.Sub(rec.StartedAt),
		},
	}
	summarize(r, selected, u, profile, nil)
	return r, nil
}

// rejectionRows orders predicates by count descending, then name.
func rejectionRows(counts map[string]int) []RejectionRow {
	rows := make([]RejectionRow, 0, len(counts))
	for p, n := range counts {
		if n > 0 {
			rows = append(rows, RejectionRow{Predicate: p, Count: n})
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Predicate < rows[j].Predicate
	})
	return rows
}
