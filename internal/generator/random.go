package generator

import (
	"context"
	"math/rand/v2"
	"sort"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"lotto-cover-lab/internal/domain"
	"lotto-cover-lab/internal/history"
)

// runRandom splits the attempt budget and target across workers. Each
// worker dedups its own accepted set; merge removes cross-worker repeats.
func runRandom(ctx context.Context, opts Options, eval Evaluator) []partial {
	workers := opts.Workers
	parts := make([]partial, workers)

	target := opts.Target
	if target <= 0 {
		target = DefaultTarget
	}
	perTarget := (target + workers - 1) / workers

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		budget := opts.MaxAttempts / workers
		if w < opts.MaxAttempts%workers {
			budget++
		}
		p := &parts[w]
		rng := rand.New(rand.NewPCG(opts.Seed, uint64(w)+1))
		s := newSampler(opts, rng)

		g.Go(func() error {
			seen := make(map[string]struct{}, perTarget)
			for p.attempts < budget && len(p.accepted) < perTarget {
				if p.attempts%cancelCheckInterval == 0 && gctx.Err() != nil {
					p.cancelled = true
					return nil
				}
				c := s.sample()
				p.attempts++

				key := c.Key()
				if _, dup := seen[key]; dup {
					continue
				}
				if sc, ok := eval(c); ok {
					seen[key] = struct{}{}
					p.keep(sc)
				}
			}
			return nil
		})
	}
	_ = g.Wait()
	return parts
}

// sampler draws one random combination per call. Not safe for concurrent use.
type sampler struct {
	u       domain.Universe
	rng     *rand.Rand
	mode    Sampling
	pool    []int
	out     domain.Combination
	weights []float64
	work    []float64
	cum     []float64

	col1     *history.Col1Cycler
	sumRange domain.SumRange
	evens    []int
}

func newSampler(opts Options, rng *rand.Rand) *sampler {
	u := opts.Universe
	s := &sampler{
		u:        u,
		rng:      rng,
		mode:     opts.Sampling,
		pool:     make([]int, u.N),
		out:      make(domain.Combination, u.K),
		sumRange: opts.SumRange,
	}
	for i := range s.pool {
		s.pool[i] = i + 1
	}

	switch opts.Sampling {
	case SamplingWeighted:
		if len(opts.Weights) == u.N && floats.Sum(opts.Weights) > 0 {
			s.weights = opts.Weights
			s.work = make([]float64, u.N)
			s.cum = make([]float64, u.N)
		} else {
			s.mode = SamplingUniform
		}
	case SamplingCol1:
		if opts.Col1 == nil {
			s.mode = SamplingUniform
			break
		}
		s.col1 = history.NewCol1Cycler(opts.Col1)
		s.evens = opts.EvenCounts
		if len(s.evens) == 0 {
			s.evens = balancedEvenCounts(u.K)
		}
	}
	return s
}

// balancedEvenCounts lists even counts within [k/2-1, k/2+1].
func balancedEvenCounts(k int) []int {
	half := float64(k) / 2
	var out []int
	for e := 0; e <= k; e++ {
		fe, fo := float64(e), float64(k-e)
		if fe >= half-1 && fe <= half+1 && fo >= half-1 && fo <= half+1 {
			out = append(out, e)
		}
	}
	return out
}

func (s *sampler) sample() domain.Combination {
	switch s.mode {
	case SamplingWeighted:
		return s.sampleWeighted()
	case SamplingCol1:
		if c, ok := s.sampleCol1(); ok {
			return c
		}
	}
	return s.sampleUniform()
}

// sampleUniform runs a partial Fisher-Yates shuffle over [1, N].
func (s *sampler) sampleUniform() domain.Combination {
	n := len(s.pool)
	for i := 0; i < s.u.K; i++ {
		j := i + s.rng.IntN(n-i)
		s.pool[i], s.pool[j] = s.pool[j], s.pool[i]
	}
	copy(s.out, s.pool[:s.u.K])
	sort.Ints(s.out)
	return s.out
}

// sampleWeighted draws K numbers without replacement, proportional to weight.
func (s *sampler) sampleWeighted() domain.Combination {
	copy(s.work, s.weights)
	for i := 0; i < s.u.K; i++ {
		floats.CumSum(s.cum, s.work)
		total := s.cum[len(s.cum)-1]
		var idx int
		if total <= 0 {
			idx = s.pickUnused(i)
		} else {
			// r in (0, total] never lands on a zero-weight index.
			r := total - s.rng.Float64()*total
			idx = sort.SearchFloat64s(s.cum, r)
			if idx >= len(s.cum) {
				idx = len(s.cum) - 1
			}
		}
		s.out[i] = idx + 1
		s.work[idx] = 0
	}
	sort.Ints(s.out)
	return s.out
}

// pickUnused returns a uniformly chosen index not among the first i picks.
func (s *sampler) pickUnused(i int) int {
	for {
		idx := s.rng.IntN(s.u.N)
		used := false
		for _, n := range s.out[:i] {
			if n == idx+1 {
				used = true
				break
			}
		}
		if !used {
			return idx
		}
	}
}

// sampleCol1 seeds the leading element from the Col1 cycler for a random
// (sum, even, odd) signature, then fills the rest with the matching parity
// split from numbers above it.
func (s *sampler) sampleCol1() (domain.Combination, bool) {
	if len(s.evens) == 0 {
		return nil, false
	}
	k := s.u.K
	even := s.evens[s.rng.IntN(len(s.evens))]
	sum := s.sumRange.Min
	if span := s.sumRange.Max - s.sumRange.Min; span > 0 {
		sum += s.rng.IntN(span + 1)
	}

	lead := s.col1.Next(sum, even, k-even)
	if lead < 1 || lead > s.u.N-k+1 {
		return nil, false
	}

	needEven, needOdd := even, k-even
	if lead%2 == 0 {
		needEven--
	} else {
		needOdd--
	}
	if needEven < 0 || needOdd < 0 {
		return nil, false
	}

	var evens, odds []int
	for n := lead + 1; n <= s.u.N; n++ {
		if n%2 == 0 {
			evens = append(evens, n)
		} else {
			odds = append(odds, n)
		}
	}
	if len(evens) < needEven || len(odds) < needOdd {
		return nil, false
	}

	s.out[0] = lead
	i := 1
	for _, pick := range []struct {
		from []int
		n    int
	}{{evens, needEven}, {odds, needOdd}} {
		for j := 0; j < pick.n; j++ {
			r := j + s.rng.IntN(len(pick.from)-j)
			pick.from[j], pick.from[r] = pick.from[r], pick.from[j]
			s.out[i] = pick.from[j]
			i++
		}
	}
	sort.Ints(s.out)
	return s.out, true
}
