// Package scoring computes the weighted composite score of a combination.
package scoring

import (
	"math"

	"lotto-cover-lab/internal/domain"
	"lotto-cover-lab/internal/history"
)

// Scoring constants.
const (
	MaxScore     = 100.0
	NeutralScore = 50.0

	DefaultFrequencyCap = 10

	BalancePenalty      = 40.0 // per unit of |even - k/2|
	DecadeOverPenalty   = 25.0 // per bucket above the cap
	DecadeEmptyPenalty  = 15.0 // per empty bucket
	Seq2Penalty         = 5.0
	Seq3Penalty         = 15.0
	SumPenaltyPerUnit   = 3.33
	SumDeviationCeiling = 30.0

	// Col1 bonus points: full credit is 15, partial is 10, normalized to [0, 100].
	col1FullPoints    = 15.0
	col1PartialPoints = 10.0
)

// Options configures a Scorer.
type Options struct {
	Universe     domain.Universe
	DecadeCap    int
	Weights      domain.ScoreWeights
	FrequencyCap int // defaults to DefaultFrequencyCap
}

// Scorer is pure: the same combination and snapshot always give the same score.
// It is safe for concurrent use.
type Scorer struct {
	u            domain.Universe
	decadeCap    int
	weights      domain.ScoreWeights
	frequencyCap int
	hist         *history.Context
}

// New creates a Scorer over a history snapshot.
func New(opts Options, hist *history.Context) *Scorer {
	freqCap := opts.FrequencyCap
	if freqCap <= 0 {
		freqCap = DefaultFrequencyCap
	}
	if hist == nil {
		hist = history.NewContext(nil, nil, history.DefaultOptions(opts.Universe))
	}
	return &Scorer{
		u:            opts.Universe,
		decadeCap:    opts.DecadeCap,
		weights:      opts.Weights,
		frequencyCap: freqCap,
		hist:         hist,
	}
}

// Score computes all sub-scores and the composite.
func (s *Scorer) Score(c domain.Combination, fv domain.FeatureVector) domain.ScoredCandidate {
	sub := domain.SubScores{
		Frequency: s.Frequency(c),
		Balance:   s.Balance(fv),
		Decade:    s.Decade(fv),
		Sequence:  Sequence(fv),
		Sum:       s.Sum(fv),
		Rank:      s.Rank(c),
		Col1:      s.Col1(c, fv),
	}

	w := s.weights
	composite := w.Frequency*sub.Frequency +
		w.Balance*sub.Balance +
		w.Decade*sub.Decade +
		w.Sequence*sub.Sequence +
		w.Sum*sub.Sum +
		w.Rank*sub.Rank +
		w.Col1*sub.Col1

	return domain.ScoredCandidate{
		Combination: c,
		Features:    fv,
		Score:       clamp(composite),
		SubScores:   sub,
	}
}

// Frequency averages min(count, cap)/cap over elements. Neutral without history.
func (s *Scorer) Frequency(c domain.Combination) float64 {
	if !s.hist.Available() || len(c) == 0 {
		return NeutralScore
	}
	total := 0.0
	for _, n := range c {
		count := min(s.hist.Occurrences(n), s.frequencyCap)
		total += float64(count) / float64(s.frequencyCap) * MaxScore
	}
	return clamp(total / float64(len(c)))
}

// Balance penalizes distance of the even count from k/2.
func (s *Scorer) Balance(fv domain.FeatureVector) float64 {
	dev := math.Abs(float64(fv.EvenCount) - float64(s.u.K)/2)
	return clamp(MaxScore - BalancePenalty*dev)
}

// Decade penalizes both crowded and empty decade buckets.
func (s *Scorer) Decade(fv domain.FeatureVector) float64 {
	score := MaxScore
	for _, count := range fv.DecadeCounts {
		if count > s.decadeCap {
			score -= DecadeOverPenalty
		}
		if count == 0 {
			score -= DecadeEmptyPenalty
		}
	}
	return clamp(score)
}

// Sequence penalizes consecutive pairs and triples.
func Sequence(fv domain.FeatureVector) float64 {
	return clamp(MaxScore - (Seq2Penalty*float64(fv.Seq2) + Seq3Penalty*float64(fv.Seq3)))
}

// Sum penalizes distance from the rolling average sum, saturating at 30.
func (s *Scorer) Sum(fv domain.FeatureVector) float64 {
	dev := math.Min(math.Abs(float64(fv.Sum)-s.hist.AverageSum()), SumDeviationCeiling)
	return clamp(MaxScore - SumPenaltyPerUnit*dev)
}

// RankBucket maps an occurrence count to a bucket: 0 occurrences is bucket 7
// (rarest), 7 or more is bucket 0.
func RankBucket(count int) int {
	b := domain.RankBucketCount - 1 - count
	return max(0, min(b, domain.RankBucketCount-1))
}

// Rank credits each element whose count stays within its bucket's limit,
// normalized by k. Numbers the profile does not cover earn no credit.
func (s *Scorer) Rank(c domain.Combination) float64 {
	if len(c) == 0 {
		return NeutralScore
	}
	profile := s.hist.RankProfile()
	credited := 0
	for _, n := range c {
		count, ok := profile.Count(n)
		if ok && count <= profile.Limits[RankBucket(count)] {
			credited++
		}
	}
	return clamp(MaxScore * float64(credited) / float64(len(c)))
}

// Col1 grades the leading element against historically observed leading
// elements for the same (sum, even, odd) signature.
func (s *Scorer) Col1(c domain.Combination, fv domain.FeatureVector) float64 {
	switch s.hist.Col1().Match(fv.Sum, fv.EvenCount, fv.OddCount, c.Leading()) {
	case history.Col1Full:
		return MaxScore
	case history.Col1Partial:
		return col1PartialPoints / col1FullPoints * MaxScore
	default:
		return 0
	}
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(MaxScore, v))
}
