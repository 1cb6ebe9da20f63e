// Package filter implements the ordered accept/reject predicate pipeline.
package filter

import (
	"slices"

	"lotto-cover-lab/internal/domain"
	"lotto-cover-lab/internal/history"
)

// Rejection names the predicate that rejected a combination.
type Rejection int

const (
	Accepted Rejection = iota
	RejectBalance
	RejectEvenCount
	RejectSequence
	RejectModular
	RejectDecade
	RejectDuplicate
	RejectSum

	rejectionCount
)

// RejectionCount is the number of Rejection values, Accepted included.
const RejectionCount = int(rejectionCount)

var rejectionNames = [...]string{
	Accepted:        "accepted",
	RejectBalance:   "balance",
	RejectEvenCount: "even_count",
	RejectSequence:  "sequence",
	RejectModular:   "modular",
	RejectDecade:    "decade",
	RejectDuplicate: "duplicate",
	RejectSum:       "sum",
}

func (r Rejection) String() string {
	if r < 0 || int(r) >= len(rejectionNames) {
		return "unknown"
	}
	return rejectionNames[r]
}

// Filter decides whether a combination is admissible. It only reads its
// configuration and the history snapshot, so one Filter may be shared by
// concurrent workers.
type Filter struct {
	u    domain.Universe
	cfg  domain.ConstraintConfig
	hist *history.Context

	balanceLo float64
	balanceHi float64
}

// New creates a Filter. cfg must already be validated.
func New(u domain.Universe, cfg domain.ConstraintConfig, hist *history.Context) *Filter {
	half := float64(u.K) / 2
	return &Filter{
		u:         u,
		cfg:       cfg,
		hist:      hist,
		balanceLo: half - 1,
		balanceHi: half + 1,
	}
}

// Accept runs the predicates in order and stops at the first failure.
func (f *Filter) Accept(c domain.Combination, fv domain.FeatureVector) (bool, Rejection) {
	if !f.balanced(fv) {
		return false, RejectBalance
	}
	if len(f.cfg.EvenCounts) > 0 && !slices.Contains(f.cfg.EvenCounts, fv.EvenCount) {
		return false, RejectEvenCount
	}
	if fv.Seq2 > f.cfg.MaxSeq2 || fv.Seq3 > f.cfg.MaxSeq3 {
		return false, RejectSequence
	}
	if fv.ModTotal > f.cfg.MaxModTotal || fv.ModX > f.cfg.MaxModX {
		return false, RejectModular
	}
	for _, count := range fv.DecadeCounts {
		if count > f.cfg.DecadeCap {
			return false, RejectDecade
		}
	}
	if !f.withinDuplicateCaps(c) {
		return false, RejectDuplicate
	}
	if !f.cfg.SumRange.Contains(fv.Sum) {
		return false, RejectSum
	}
	return true, Accepted
}

func (f *Filter) balanced(fv domain.FeatureVector) bool {
	even, odd := float64(fv.EvenCount), float64(fv.OddCount)
	return even >= f.balanceLo && even <= f.balanceHi &&
		odd >= f.balanceLo && odd <= f.balanceHi
}

// withinDuplicateCaps checks overlap with the union of the i most recent
// draws against DuplicateCaps[i-1]. Depths without enough history pass.
func (f *Filter) withinDuplicateCaps(c domain.Combination) bool {
	if f.hist == nil {
		return true
	}
	for i, limit := range f.cfg.DuplicateCaps {
		overlap, ok := f.hist.Overlap(c, i+1)
		if !ok {
			break
		}
		if overlap > limit {
			return false
		}
	}
	return true
}
