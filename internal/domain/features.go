package domain

// FeatureVector holds the structural metrics of one combination.
// Computed once per combination and carried alongside it.
type FeatureVector struct {
	Sum          int
	EvenCount    int
	OddCount     int
	Seq2         int   // adjacent pairs differing by exactly 1
	Seq3         int   // adjacent triples with both gaps equal to 1
	ModTotal     int   // sum over ones-digit classes of max(0, count-1)
	ModX         int   // ones-digit classes holding more than 2 numbers
	DecadeCounts []int // occupancy per decade bucket
}
