package reporting

import "time"

// Report is the summary of one generation run.
type Report struct {
	GeneratedAt time.Time
	Run         RunSection

	Rejections []RejectionRow

	SumStats       Distribution // over the selection
	ScoreStats     Distribution // over the selection
	PoolScoreStats Distribution // over every accepted candidate

	EvenDistribution []CountRow
	Seq2Distribution []CountRow
	Seq3Distribution []CountRow

	HotNumbers        []NumberRow
	ColdNumbers       []NumberRow
	PositionFrequency []PositionRow

	Duplicates []DuplicateRow
	Candidates []CandidateRow
}

// RunSection describes the run itself.
type RunSection struct {
	RunID                string
	ConfigHash           string
	Mode                 string
	UniverseN            int
	UniverseK            int
	SearchSpace          int
	Target               int
	Accepted             int
	Attempts             int
	Selected             int
	Shortfall            bool
	Cancelled            bool
	HistoryDraws         int
	HistoryUnavailable   bool
	RankProfileDefaulted bool
	Duration             time.Duration
}

// Distribution summarizes a numeric sample. N is zero for an empty sample.
type Distribution struct {
	N      int
	Min    float64
	Max    float64
	Mean   float64
	Median float64
	StdDev float64
}

// RejectionRow counts rejections for one predicate.
type RejectionRow struct {
	Predicate string
	Count     int
}

// CountRow is one value of a discrete distribution.
type CountRow struct {
	Value int
	Count int
}

// NumberRow is how often a number appears in the selection.
type NumberRow struct {
	Number int
	Count  int
}

// PositionRow is the most frequent number at a sorted position.
type PositionRow struct {
	Position int // 1-based
	Number   int
	Count    int
}

// DuplicateRow summarizes overlap with the union of the Depth most recent draws.
type DuplicateRow struct {
	Depth       int
	MaxOverlap  int
	MeanOverlap float64
}

// CandidateRow is one selected candidate.
type CandidateRow struct {
	Rank        int
	Key         string
	Sum         int
	EvenCount   int
	OddCount    int
	Score       float64
	Frequency   float64
	Balance     float64
	Decade      float64
	Sequence    float64
	SumScore    float64
	RankScore   float64
	Col1        float64
	RankBuckets []int // elements per rank bucket r0..r7
}
