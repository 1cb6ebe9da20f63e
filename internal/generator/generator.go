// Package generator enumerates or samples combinations and feeds them
// through an evaluator, collecting the admissible ones.
package generator

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat/combin"

	"lotto-cover-lab/internal/domain"
	"lotto-cover-lab/internal/history"
)

// Mode selects the search strategy.
type Mode string

const (
	ModeAuto       Mode = "auto"
	ModeExhaustive Mode = "exhaustive"
	ModeRandom     Mode = "random"
	ModeExactSum   Mode = "exact_sum"
)

// Sampling selects how the random search draws numbers.
type Sampling string

const (
	SamplingUniform  Sampling = "uniform"
	SamplingWeighted Sampling = "weighted"
	SamplingCol1     Sampling = "col1"
)

// Defaults.
const (
	DefaultTarget          = 1000
	DefaultMaxAttempts     = 100000
	DefaultExhaustiveLimit = 1_000_000

	// cancelCheckInterval is how many iterations pass between context checks.
	cancelCheckInterval = 1 << 12
)

// Evaluator filters and scores one combination. c is only valid for the
// duration of the call; the generator clones accepted combinations.
type Evaluator func(c domain.Combination) (domain.ScoredCandidate, bool)

// Options configures a search.
type Options struct {
	Universe        domain.Universe
	Mode            Mode
	Target          int // random mode: stop after this many accepted
	MaxAttempts     int // random mode: total sampling budget
	Workers         int
	Seed            uint64
	ExhaustiveLimit int // auto mode: largest C(N,K) searched exhaustively

	// SumRange drives the exact-sum enumeration and col1 sampling.
	SumRange domain.SumRange

	Sampling   Sampling
	Weights    []float64          // weighted sampling, indexed by number-1
	Col1       *history.Col1Table // col1 sampling
	EvenCounts []int              // col1 sampling parity targets
}

// Result is the merged outcome of all workers.
type Result struct {
	Mode      Mode // resolved mode
	Accepted  []domain.ScoredCandidate
	Attempts  int
	Cancelled bool // the context ended before the search completed
}

// Tractable reports whether C(N,K) is at most limit.
func Tractable(u domain.Universe, limit int) bool {
	if u.K < 0 || u.K > u.N {
		return false
	}
	return combin.GeneralizedBinomial(float64(u.N), float64(u.K)) <= float64(limit)
}

// SearchSpace returns C(N,K), or -1 when it does not fit in an int.
func SearchSpace(u domain.Universe) int {
	if !Tractable(u, 1<<53) {
		return -1
	}
	return combin.Binomial(u.N, u.K)
}

// ResolveMode picks the concrete strategy for opts. A pinned sum always
// uses the exact-sum enumeration.
func ResolveMode(opts Options) Mode {
	if opts.SumRange.Exact() {
		return ModeExactSum
	}
	switch opts.Mode {
	case ModeExhaustive, ModeRandom:
		return opts.Mode
	}
	limit := opts.ExhaustiveLimit
	if limit <= 0 {
		limit = DefaultExhaustiveLimit
	}
	if Tractable(opts.Universe, limit) {
		return ModeExhaustive
	}
	return ModeRandom
}

// Run executes the search. It never fails: cancellation and budget
// exhaustion return whatever was accepted so far.
func Run(ctx context.Context, opts Options, eval Evaluator) Result {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	mode := ResolveMode(opts)

	var parts []partial
	switch mode {
	case ModeRandom:
		parts = runRandom(ctx, opts, eval)
	default:
		parts = runPartitioned(ctx, opts, mode, eval)
	}

	res := merge(parts)
	res.Mode = mode
	if mode == ModeRandom {
		if opts.Target > 0 && len(res.Accepted) > opts.Target {
			res.Accepted = res.Accepted[:opts.Target]
		}
	} else {
		sort.Slice(res.Accepted, func(i, j int) bool {
			return res.Accepted[i].Combination.Compare(res.Accepted[j].Combination) < 0
		})
	}
	return res
}

// partial is one worker's private accumulator.
type partial struct {
	accepted  []domain.ScoredCandidate
	attempts  int
	cancelled bool
}

func (p *partial) keep(sc domain.ScoredCandidate) {
	sc.Combination = sc.Combination.Clone()
	p.accepted = append(p.accepted, sc)
}

// merge concatenates worker results in order, dropping duplicate combinations.
func merge(parts []partial) Result {
	var res Result
	total := 0
	for _, p := range parts {
		total += len(p.accepted)
	}

	seen := make(map[string]struct{}, total)
	res.Accepted = make([]domain.ScoredCandidate, 0, total)
	for _, p := range parts {
		res.Attempts += p.attempts
		res.Cancelled = res.Cancelled || p.cancelled
		for _, sc := range p.accepted {
			key := sc.Combination.Key()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			res.Accepted = append(res.Accepted, sc)
		}
	}
	return res
}

// runPartitioned splits exhaustive and exact-sum enumeration by leading element.
func runPartitioned(ctx context.Context, opts Options, mode Mode, eval Evaluator) []partial {
	u := opts.Universe
	leads := make(chan int)
	parts := make([]partial, opts.Workers)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(leads)
		for lead := 1; lead <= u.N-u.K+1; lead++ {
			select {
			case leads <- lead:
			case <-gctx.Done():
				return nil
			}
		}
		return nil
	})

	for w := 0; w < opts.Workers; w++ {
		p := &parts[w]
		g.Go(func() error {
			for lead := range leads {
				var done bool
				if mode == ModeExactSum {
					done = enumerateExactSum(gctx, u, lead, opts.SumRange.Min, p, eval)
				} else {
					done = enumerateLeading(gctx, u, lead, p, eval)
				}
				if !done {
					p.cancelled = true
					return nil
				}
			}
			return nil
		})
	}

	_ = g.Wait()
	if ctx.Err() != nil {
		parts[0].cancelled = true
	}
	return parts
}

// enumerateLeading visits every combination whose smallest element is lead.
// Returns false if the context ended first.
func enumerateLeading(ctx context.Context, u domain.Universe, lead int, p *partial, eval Evaluator) bool {
	restN, restK := u.N-lead, u.K-1
	if restN < restK {
		return true
	}

	c := make(domain.Combination, u.K)
	c[0] = lead
	if restK == 0 {
		p.attempts++
		if sc, ok := eval(c); ok {
			p.keep(sc)
		}
		return true
	}

	gen := combin.NewCombinationGenerator(restN, restK)
	idx := make([]int, restK)
	for gen.Next() {
		if p.attempts%cancelCheckInterval == 0 && ctx.Err() != nil {
			return false
		}
		gen.Combination(idx)
		for i, v := range idx {
			c[i+1] = lead + 1 + v
		}
		p.attempts++
		if sc, ok := eval(c); ok {
			p.keep(sc)
		}
	}
	return true
}

// enumerateExactSum visits every combination led by lead whose elements add
// up to sum, pruning branches that cannot reach it.
func enumerateExactSum(ctx context.Context, u domain.Universe, lead, sum int, p *partial, eval Evaluator) bool {
	c := make(domain.Combination, u.K)
	c[0] = lead
	cancelled := false

	var fill func(pos, start, remaining int)
	fill = func(pos, start, remaining int) {
		if cancelled {
			return
		}
		if pos == u.K {
			if remaining != 0 {
				return
			}
			if p.attempts%cancelCheckInterval == 0 && ctx.Err() != nil {
				cancelled = true
				return
			}
			p.attempts++
			if sc, ok := eval(c); ok {
				p.keep(sc)
			}
			return
		}

		slots := u.K - pos // including this one
		for v := start; v <= u.N-slots+1; v++ {
			after := slots - 1
			need := remaining - v
			if need < minSum(v+1, after) {
				break
			}
			if need > maxSum(u.N, after) {
				continue
			}
			c[pos] = v
			fill(pos+1, v+1, need)
		}
	}

	remaining := sum - lead
	if u.K == 1 {
		if remaining == 0 {
			p.attempts++
			if sc, ok := eval(c); ok {
				p.keep(sc)
			}
		}
		return true
	}
	if remaining < minSum(lead+1, u.K-1) || remaining > maxSum(u.N, u.K-1) {
		return true
	}
	fill(1, lead+1, remaining)
	return !cancelled
}

// minSum is the smallest sum of r distinct numbers starting at start.
func minSum(start, r int) int {
	return r*start + r*(r-1)/2
}

// maxSum is the largest sum of r distinct numbers at most n.
func maxSum(n, r int) int {
	return r*n - r*(r-1)/2
}
