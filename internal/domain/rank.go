package domain

// RankBucketCount is the number of rank buckets (0 = most common, 7 = rarest).
const RankBucketCount = 8

// RankProfile holds admissible counts per rank bucket and the observed
// occurrence count per number.
type RankProfile struct {
	Limits []int // indexed by bucket, len == RankBucketCount
	Counts []int // indexed by number-1, len == N
}

// Default rank profile values.
var (
	DefaultRankLimits = []int{1, 1, 2, 3, 2, 3, 1, 1}

	DefaultRankCounts = []int{
		5, 5, 2, 1, 3, 5, 3, 5, 5, 5,
		5, 4, 2, 5, 5, 3, 5, 4, 0, 4,
		5, 2, 4, 5, 3, 5, 5, 0, 4, 3,
		2, 1, 4, 5, 3, 5, 1, 4, 3, 3,
		2, 5,
	}
)

// DefaultRankProfile returns a fresh copy of the default profile sized for u.
// Numbers beyond the default table get a zero count.
func DefaultRankProfile(u Universe) RankProfile {
	limits := make([]int, RankBucketCount)
	copy(limits, DefaultRankLimits)

	counts := make([]int, u.N)
	copy(counts, DefaultRankCounts)

	return RankProfile{Limits: limits, Counts: counts}
}

// Count returns the occurrence count for number n and whether n is covered.
func (p RankProfile) Count(n int) (int, bool) {
	if n < 1 || n > len(p.Counts) {
		return 0, false
	}
	return p.Counts[n-1], true
}

// Validate checks array shapes and signs for universe u.
func (p RankProfile) Validate(u Universe) error {
	if len(p.Limits) != RankBucketCount {
		return NewConfigError("rank.limits", "expected %d buckets, got %d", RankBucketCount, len(p.Limits))
	}
	if len(p.Counts) != u.N {
		return NewConfigError("rank.counts", "expected %d numbers, got %d", u.N, len(p.Counts))
	}
	for i, l := range p.Limits {
		if l < 0 {
			return NewConfigError("rank.limits", "bucket %d is negative", i)
		}
	}
	for i, c := range p.Counts {
		if c < 0 {
			return NewConfigError("rank.counts", "number %d has negative count", i+1)
		}
	}
	return nil
}

// Clone returns a deep copy.
func (p RankProfile) Clone() RankProfile {
	limits := make([]int, len(p.Limits))
	copy(limits, p.Limits)
	counts := make([]int, len(p.Counts))
	copy(counts, p.Counts)
	return RankProfile{Limits: limits, Counts: counts}
}
