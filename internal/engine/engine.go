// Package engine runs one generation: it wires the history snapshot into the
// filter, the scorer and the generator, then selects the final output.
package engine

import (
	"context"
	"sync/atomic"

	"lotto-cover-lab/internal/domain"
	"lotto-cover-lab/internal/features"
	"lotto-cover-lab/internal/filter"
	"lotto-cover-lab/internal/generator"
	"lotto-cover-lab/internal/history"
	"lotto-cover-lab/internal/scoring"
	"lotto-cover-lab/internal/selection"
)

// Engine is scoped to a single run. Its request and snapshot are fixed at
// construction.
type Engine struct {
	req    Request
	hist   *history.Context
	filter *filter.Filter
	scorer *scoring.Scorer

	rejections [filter.RejectionCount]atomic.Int64
}

// Outcome is the in-memory result of Search.
type Outcome struct {
	Mode      generator.Mode
	Pool      []domain.ScoredCandidate // every accepted candidate, score ordered
	Selected  []domain.ScoredCandidate
	Attempts  int
	Cancelled bool
}

// New validates req and builds an engine over hist. A nil hist means no
// history at all.
func New(req Request, hist *history.Context) (*Engine, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	req = req.withDefaults()
	if hist == nil {
		hist = history.NewContext(nil, req.RankProfile, req.History)
	}

	return &Engine{
		req:    req,
		hist:   hist,
		filter: filter.New(req.Universe, req.Constraints, hist),
		scorer: scoring.New(scoring.Options{
			Universe:     req.Universe,
			DecadeCap:    req.Constraints.DecadeCap,
			Weights:      req.Weights,
			FrequencyCap: req.FrequencyCap,
		}, hist),
	}, nil
}

// Evaluate extracts features, filters and scores one combination.
// Safe for concurrent use.
func (e *Engine) Evaluate(c domain.Combination) (domain.ScoredCandidate, bool) {
	fv := features.Extract(c, e.req.Universe)
	if ok, rej := e.filter.Accept(c, fv); !ok {
		e.rejections[rej].Add(1)
		return domain.ScoredCandidate{}, false
	}
	return e.scorer.Score(c, fv), true
}

// Rejections returns the per-predicate rejection counts seen so far.
func (e *Engine) Rejections() map[string]int {
	out := make(map[string]int, filter.RejectionCount-1)
	for r := filter.RejectBalance; int(r) < filter.RejectionCount; r++ {
		out[r.String()] = int(e.rejections[r].Load())
	}
	return out
}

// GeneratorOptions maps the request onto generator options.
func (e *Engine) GeneratorOptions() generator.Options {
	r := e.req
	opts := generator.Options{
		Universe:        r.Universe,
		Mode:            r.Mode,
		Target:          r.Target,
		MaxAttempts:     r.MaxAttempts,
		Workers:         r.Workers,
		Seed:            r.Seed,
		ExhaustiveLimit: r.ExhaustiveLimit,
		SumRange:        r.Constraints.SumRange,
		Sampling:        r.Sampling,
		EvenCounts:      r.Constraints.EvenCounts,
	}

	switch r.Sampling {
	case generator.SamplingWeighted:
		// One pseudo-count keeps numbers never drawn in the window reachable.
		counts := e.hist.Counts()
		weights := make([]float64, r.Universe.N)
		for i := range weights {
			weights[i] = 1
			if i < len(counts) {
				weights[i] += float64(counts[i])
			}
		}
		opts.Weights = weights
	case generator.SamplingCol1:
		opts.Col1 = e.hist.Col1()
	}
	return opts
}

// Search runs the generator and the diversity selector. It never fails;
// a cancelled ctx yields whatever was accepted.
func (e *Engine) Search(ctx context.Context) Outcome {
	res := generator.Run(ctx, e.GeneratorOptions(), e.Evaluate)

	pool := res.Accepted
	selection.SortByScore(pool)

	return Outcome{
		Mode:      res.Mode,
		Pool:      pool,
		Selected:  selection.Diverse(pool, e.req.Select),
		Attempts:  res.Attempts,
		Cancelled: res.Cancelled,
	}
}

// Target is the accepted-pool size below which a run reports a shortfall.
// Random search aims for the configured target; enumeration only needs
// enough to fill the selection.
func (e *Engine) Target(mode generator.Mode) int {
	if mode == generator.ModeRandom {
		return e.req.Target
	}
	return e.req.Select
}

// History returns the snapshot the engine reads.
func (e *Engine) History() *history.Context { return e.hist }

// Request returns the effective request, defaults applied.
func (e *Engine) Request() Request { return e.req }
