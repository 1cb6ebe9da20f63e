package domain

// SumRange is an inclusive [Min, Max] bound on a combination's sum.
type SumRange struct {
	Min int
	Max int
}

// Exact reports whether the range pins a single sum.
func (r SumRange) Exact() bool {
	return r.Min == r.Max
}

// Contains reports whether sum lies within the range.
func (r SumRange) Contains(sum int) bool {
	return sum >= r.Min && sum <= r.Max
}

// ConstraintConfig holds the accept/reject thresholds for one run.
type ConstraintConfig struct {
	MaxSeq2       int
	MaxSeq3       int
	MaxModTotal   int
	MaxModX       int
	DecadeCap     int
	SumRange      SumRange
	DuplicateCaps []int // cap per lookback depth, non-decreasing
	EvenCounts    []int // optional whitelist of even counts, nil = any balanced
}

// Default constraint values.
const (
	DefaultMaxSeq2     = 1
	DefaultMaxSeq3     = 0
	DefaultMaxModTotal = 1
	DefaultMaxModX     = 0
	DefaultDecadeCap   = 2
	DefaultSumMin      = 70
	DefaultSumMax      = 139
)

// DefaultDuplicateCaps bounds overlap with the 1, 2 and 3 most recent draws.
var DefaultDuplicateCaps = []int{1, 2, 3}

// DefaultConstraintConfig returns the default thresholds.
func DefaultConstraintConfig() ConstraintConfig {
	caps := make([]int, len(DefaultDuplicateCaps))
	copy(caps, DefaultDuplicateCaps)

	return ConstraintConfig{
		MaxSeq2:       DefaultMaxSeq2,
		MaxSeq3:       DefaultMaxSeq3,
		MaxModTotal:   DefaultMaxModTotal,
		MaxModX:       DefaultMaxModX,
		DecadeCap:     DefaultDecadeCap,
		SumRange:      SumRange{Min: DefaultSumMin, Max: DefaultSumMax},
		DuplicateCaps: caps,
	}
}

// Validate checks the thresholds against universe u.
func (c ConstraintConfig) Validate(u Universe) error {
	if err := u.Validate(); err != nil {
		return err
	}

	nonNegative := []struct {
		field string
		value int
	}{
		{"constraints.max_seq2", c.MaxSeq2},
		{"constraints.max_seq3", c.MaxSeq3},
		{"constraints.max_mod_total", c.MaxModTotal},
		{"constraints.max_mod_x", c.MaxModX},
		{"constraints.decade_cap", c.DecadeCap},
	}
	for _, f := range nonNegative {
		if f.value < 0 {
			return NewConfigError(f.field, "must be >= 0, got %d", f.value)
		}
	}

	if c.SumRange.Min > c.SumRange.Max {
		return NewConfigError("constraints.sum_range", "min %d > max %d", c.SumRange.Min, c.SumRange.Max)
	}

	for i, limit := range c.DuplicateCaps {
		if limit < 0 {
			return NewConfigError("constraints.duplicate_caps", "depth %d cap is negative", i+1)
		}
		if i > 0 && limit < c.DuplicateCaps[i-1] {
			return NewConfigError("constraints.duplicate_caps", "caps must be non-decreasing, got %v", c.DuplicateCaps)
		}
	}

	for _, e := range c.EvenCounts {
		if e < 0 || e > u.K {
			return NewConfigError("constraints.even_counts", "even count %d outside [0, %d]", e, u.K)
		}
	}
	return nil
}
