package generator

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lotto-cover-lab/internal/domain"
	"lotto-cover-lab/internal/history"
)

func acceptAll(c domain.Combination) (domain.ScoredCandidate, bool) {
	return domain.ScoredCandidate{Combination: c, Features: domain.FeatureVector{Sum: c.Sum()}}, true
}

func acceptSum(sum int) Evaluator {
	return func(c domain.Combination) (domain.ScoredCandidate, bool) {
		if c.Sum() != sum {
			return domain.ScoredCandidate{}, false
		}
		return acceptAll(c)
	}
}

func rejectAll(domain.Combination) (domain.ScoredCandidate, bool) {
	return domain.ScoredCandidate{}, false
}

func keys(cands []domain.ScoredCandidate) []string {
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.Combination.Key()
	}
	return out
}

func assertValid(t *testing.T, u domain.Universe, cands []domain.ScoredCandidate) {
	t.Helper()
	seen := make(map[string]bool)
	for _, sc := range cands {
		_, err := domain.NewCombination(sc.Combination, u)
		require.NoError(t, err, sc.Combination.Key())
		for i := 1; i < len(sc.Combination); i++ {
			require.Less(t, sc.Combination[i-1], sc.Combination[i], "not sorted: %s", sc.Combination.Key())
		}
		require.False(t, seen[sc.Combination.Key()], "duplicate %s", sc.Combination.Key())
		seen[sc.Combination.Key()] = true
	}
}

func TestResolveMode(t *testing.T) {
	u := domain.DefaultUniverse
	wide := domain.SumRange{Min: 70, Max: 139}
	exact := domain.SumRange{Min: 100, Max: 100}

	tests := []struct {
		name string
		opts Options
		want Mode
	}{
		{"auto tractable", Options{Universe: u, Mode: ModeAuto, SumRange: wide}, ModeExhaustive},
		{"auto over limit", Options{Universe: u, Mode: ModeAuto, SumRange: wide, ExhaustiveLimit: 1000}, ModeRandom},
		{"auto large universe", Options{Universe: domain.Universe{N: 70, K: 10}, SumRange: wide}, ModeRandom},
		{"explicit random", Options{Universe: u, Mode: ModeRandom, SumRange: wide}, ModeRandom},
		{"explicit exhaustive", Options{Universe: u, Mode: ModeExhaustive, SumRange: wide, ExhaustiveLimit: 10}, ModeExhaustive},
		{"pinned sum", Options{Universe: u, Mode: ModeRandom, SumRange: exact}, ModeExactSum},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveMode(tt.opts))
		})
	}
}

func TestSearchSpace(t *testing.T) {
	assert.Equal(t, 850668, SearchSpace(domain.DefaultUniverse))
	assert.Equal(t, 120, SearchSpace(domain.Universe{N: 10, K: 3}))
	assert.Equal(t, -1, SearchSpace(domain.Universe{N: 200, K: 100}))
	assert.True(t, Tractable(domain.DefaultUniverse, 850668))
	assert.False(t, Tractable(domain.DefaultUniverse, 850667))
}

func TestRun_Exhaustive(t *testing.T) {
	u := domain.Universe{N: 10, K: 3}
	opts := Options{Universe: u, Mode: ModeExhaustive, SumRange: domain.SumRange{Min: 0, Max: 100}}

	res := Run(context.Background(), opts, acceptAll)
	assert.Equal(t, ModeExhaustive, res.Mode)
	assert.Len(t, res.Accepted, 120)
	assert.Equal(t, 120, res.Attempts)
	assert.False(t, res.Cancelled)
	assertValid(t, u, res.Accepted)
	assert.Equal(t, "1-2-3", res.Accepted[0].Combination.Key())
	assert.Equal(t, "8-9-10", res.Accepted[119].Combination.Key())

	opts.Workers = 4
	parallel := Run(context.Background(), opts, acceptAll)
	assert.Equal(t, keys(res.Accepted), keys(parallel.Accepted))
	assert.Equal(t, res.Attempts, parallel.Attempts)
}

func TestRun_ExhaustiveSingleElement(t *testing.T) {
	u := domain.Universe{N: 6, K: 1}
	res := Run(context.Background(), Options{Universe: u, Mode: ModeExhaustive, SumRange: domain.SumRange{Min: 0, Max: 10}}, acceptAll)
	assert.Len(t, res.Accepted, 6)
}

func TestRun_ExactSumMatchesBruteForce(t *testing.T) {
	for _, tc := range []struct {
		u   domain.Universe
		sum int
	}{
		{domain.Universe{N: 10, K: 3}, 10},
		{domain.Universe{N: 10, K: 3}, 6},
		{domain.Universe{N: 10, K: 3}, 27},
		{domain.Universe{N: 10, K: 3}, 5},
		{domain.DefaultUniverse, 100},
		{domain.DefaultUniverse, 15},
		{domain.Universe{N: 8, K: 1}, 4},
	} {
		brute := Run(context.Background(), Options{
			Universe: tc.u, Mode: ModeExhaustive, SumRange: domain.SumRange{Min: 0, Max: 1000},
		}, acceptSum(tc.sum))

		exact := Run(context.Background(), Options{
			Universe: tc.u, Mode: ModeAuto, Workers: 3, SumRange: domain.SumRange{Min: tc.sum, Max: tc.sum},
		}, acceptAll)

		assert.Equal(t, ModeExactSum, exact.Mode)
		assert.Equal(t, keys(brute.Accepted), keys(exact.Accepted), "sum %d over %+v", tc.sum, tc.u)
		assertValid(t, tc.u, exact.Accepted)
		// Only matching combinations are evaluated.
		assert.Equal(t, len(exact.Accepted), exact.Attempts)
	}
}

func TestRun_ExactSumSmallCase(t *testing.T) {
	u := domain.Universe{N: 10, K: 3}
	res := Run(context.Background(), Options{Universe: u, SumRange: domain.SumRange{Min: 10, Max: 10}}, acceptAll)
	assert.Equal(t, []string{"1-2-7", "1-3-6", "1-4-5", "2-3-5"}, keys(res.Accepted))
}

func TestRun_RandomReachesTarget(t *testing.T) {
	u := domain.DefaultUniverse
	opts := Options{
		Universe:    u,
		Mode:        ModeRandom,
		Target:      200,
		MaxAttempts: 10000,
		Seed:        42,
		SumRange:    domain.SumRange{Min: 0, Max: 1000},
	}

	res := Run(context.Background(), opts, acceptAll)
	assert.Equal(t, ModeRandom, res.Mode)
	assert.Len(t, res.Accepted, 200)
	assert.GreaterOrEqual(t, res.Attempts, 200)
	assertValid(t, u, res.Accepted)

	again := Run(context.Background(), opts, acceptAll)
	assert.Equal(t, keys(res.Accepted), keys(again.Accepted), "same seed must reproduce")
}

func TestRun_RandomParallel(t *testing.T) {
	u := domain.DefaultUniverse
	opts := Options{
		Universe: u, Mode: ModeRandom, Target: 300, MaxAttempts: 20000,
		Workers: 4, Seed: 7, SumRange: domain.SumRange{Min: 0, Max: 1000},
	}
	res := Run(context.Background(), opts, acceptAll)
	assert.LessOrEqual(t, len(res.Accepted), 300)
	assert.Greater(t, len(res.Accepted), 290)
	assertValid(t, u, res.Accepted)
}

func TestRun_RandomBudgetExhausted(t *testing.T) {
	opts := Options{
		Universe: domain.DefaultUniverse, Mode: ModeRandom, Target: 10, MaxAttempts: 500,
		Workers: 3, Seed: 1, SumRange: domain.SumRange{Min: 0, Max: 1000},
	}
	res := Run(context.Background(), opts, rejectAll)
	assert.Empty(t, res.Accepted)
	assert.Equal(t, 500, res.Attempts)
	assert.False(t, res.Cancelled)
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	random := Run(ctx, Options{
		Universe: domain.DefaultUniverse, Mode: ModeRandom, Target: 10, MaxAttempts: 1000,
		SumRange: domain.SumRange{Min: 0, Max: 1000},
	}, acceptAll)
	assert.True(t, random.Cancelled)
	assert.Empty(t, random.Accepted)

	exhaustive := Run(ctx, Options{
		Universe: domain.DefaultUniverse, Mode: ModeExhaustive, Workers: 2,
		SumRange: domain.SumRange{Min: 0, Max: 1000},
	}, acceptAll)
	assert.True(t, exhaustive.Cancelled)
	assert.Less(t, exhaustive.Attempts, SearchSpace(domain.DefaultUniverse))
}

func TestSampler_Weighted(t *testing.T) {
	u := domain.DefaultUniverse
	weights := make([]float64, u.N)
	for _, n := range []int{3, 9, 17, 28, 40} {
		weights[n-1] = 1
	}
	s := newSampler(Options{Universe: u, Sampling: SamplingWeighted, Weights: weights}, rand.New(rand.NewPCG(1, 2)))

	for i := 0; i < 50; i++ {
		assert.Equal(t, "3-9-17-28-40", s.sample().Key())
	}
}

func TestSampler_WeightedFallsBackWhenExhausted(t *testing.T) {
	u := domain.DefaultUniverse
	weights := make([]float64, u.N)
	weights[0], weights[1] = 1, 1
	s := newSampler(Options{Universe: u, Sampling: SamplingWeighted, Weights: weights}, rand.New(rand.NewPCG(3, 4)))

	for i := 0; i < 50; i++ {
		c := s.sample()
		_, err := domain.NewCombination(c, u)
		require.NoError(t, err)
		assert.True(t, c.Contains(1) && c.Contains(2))
	}
}

func TestSampler_Col1(t *testing.T) {
	u := domain.DefaultUniverse
	tbl := history.NewCol1Table(nil, u)
	for sum := 70; sum <= 139; sum += 5 {
		tbl.Observe(sum, 2, 3, 7)
		tbl.Observe(sum, 3, 2, 7)
	}

	s := newSampler(Options{
		Universe: u, Sampling: SamplingCol1, Col1: tbl,
		SumRange: domain.SumRange{Min: 70, Max: 139},
	}, rand.New(rand.NewPCG(5, 6)))

	for i := 0; i < 100; i++ {
		c := s.sample()
		_, err := domain.NewCombination(c, u)
		require.NoError(t, err)
		assert.Equal(t, 7, c.Leading())

		even := 0
		for _, n := range c {
			if n%2 == 0 {
				even++
			}
		}
		assert.Contains(t, []int{2, 3}, even)
	}
}

func TestBalancedEvenCounts(t *testing.T) {
	assert.Equal(t, []int{2, 3}, balancedEvenCounts(5))
	assert.Equal(t, []int{2, 3, 4}, balancedEvenCounts(6))
	assert.Equal(t, []int{0, 1}, balancedEvenCounts(1))
}
