package domain

import "math"

// WeightTolerance is the allowed deviation of the weight total from 1.0.
const WeightTolerance = 1e-3

// ScoreWeights are the composite weights per sub-score.
type ScoreWeights struct {
	Frequency float64
	Balance   float64
	Decade    float64
	Sequence  float64
	Sum       float64
	Rank      float64
	Col1      float64
}

// DefaultScoreWeights returns the default weight set.
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{
		Frequency: 0.20,
		Balance:   0.15,
		Decade:    0.15,
		Sequence:  0.10,
		Sum:       0.15,
		Rank:      0.15,
		Col1:      0.10,
	}
}

// Total returns the sum of all weights.
func (w ScoreWeights) Total() float64 {
	return w.Frequency + w.Balance + w.Decade + w.Sequence + w.Sum + w.Rank + w.Col1
}

// Validate checks non-negativity and that weights sum to 1.0.
func (w ScoreWeights) Validate() error {
	named := []struct {
		field string
		value float64
	}{
		{"weights.frequency", w.Frequency},
		{"weights.balance", w.Balance},
		{"weights.decade", w.Decade},
		{"weights.sequence", w.Sequence},
		{"weights.sum", w.Sum},
		{"weights.rank", w.Rank},
		{"weights.col1", w.Col1},
	}
	for _, f := range named {
		if f.value < 0 || math.IsNaN(f.value) {
			return NewConfigError(f.field, "must be >= 0, got %v", f.value)
		}
	}
	if total := w.Total(); math.Abs(total-1.0) > WeightTolerance {
		return NewConfigError("weights", "must sum to 1.0, got %.4f", total)
	}
	return nil
}
