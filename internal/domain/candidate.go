package domain

// SubScores are the named per-metric scores, each in [0, 100].
type SubScores struct {
	Frequency float64
	Balance   float64
	Decade    float64
	Sequence  float64
	Sum       float64
	Rank      float64
	Col1      float64
}

// ScoredCandidate is a combination that passed every filter, with its score.
type ScoredCandidate struct {
	Combination Combination
	Features    FeatureVector
	Score       float64 // composite, [0, 100]
	SubScores   SubScores
}

// Sum returns the combination sum.
func (c ScoredCandidate) Sum() int {
	return c.Features.Sum
}
