// Package selection picks a diversity-aware top-K from a scored pool.
package selection

import (
	"sort"

	"lotto-cover-lab/internal/domain"
)

// Diverse returns at most k candidates from pool.
//
// Each distinct leading element contributes its best candidate first (best
// representatives win when there are more than k groups). Remaining slots
// are backfilled from the score-ordered rest, preferring candidates whose
// trailing element is not yet represented. The result is ordered by score
// descending, ties broken by combination order ascending.
//
// pool is not modified.
func Diverse(pool []domain.ScoredCandidate, k int) []domain.ScoredCandidate {
	if k <= 0 || len(pool) == 0 {
		return nil
	}

	ranked := make([]domain.ScoredCandidate, len(pool))
	copy(ranked, pool)
	SortByScore(ranked)

	taken := make([]bool, len(ranked))
	selected := make([]int, 0, k)

	// ranked is score ordered, so the first hit per leading element is its best.
	seenLead := make(map[int]struct{})
	for i, sc := range ranked {
		lead := sc.Combination.Leading()
		if _, ok := seenLead[lead]; ok {
			continue
		}
		seenLead[lead] = struct{}{}
		if len(selected) < k {
			selected = append(selected, i)
			taken[i] = true
		}
	}

	trailing := make(map[int]struct{}, k)
	for _, i := range selected {
		trailing[ranked[i].Combination.Trailing()] = struct{}{}
	}

	for i := 0; i < len(ranked) && len(selected) < k; i++ {
		if taken[i] {
			continue
		}
		t := ranked[i].Combination.Trailing()
		if _, ok := trailing[t]; ok {
			continue
		}
		trailing[t] = struct{}{}
		selected = append(selected, i)
		taken[i] = true
	}

	for i := 0; i < len(ranked) && len(selected) < k; i++ {
		if taken[i] {
			continue
		}
		selected = append(selected, i)
		taken[i] = true
	}

	out := make([]domain.ScoredCandidate, len(selected))
	for j, i := range selected {
		out[j] = ranked[i]
	}
	SortByScore(out)
	return out
}

// SortByScore orders candidates by score descending, then by combination
// ascending.
func SortByScore(cands []domain.ScoredCandidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].Score != cands[j].Score {
			return cands[i].Score > cands[j].Score
		}
		return cands[i].Combination.Compare(cands[j].Combination) < 0
	})
}
