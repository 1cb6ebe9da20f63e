package reporting

import (
	"sort"

	"github.com/montanaflynn/stats"

	"lotto-cover-lab/internal/domain"
	"lotto-cover-lab/internal/features"
	"lotto-cover-lab/internal/history"
	"lotto-cover-lab/internal/scoring"
)

// hotColdSize is how many numbers the hot and cold lists hold.
const hotColdSize = 5

func distribution(data stats.Float64Data) Distribution {
	if len(data) == 0 {
		return Distribution{}
	}
	d := Distribution{N: len(data)}
	d.Min, _ = stats.Min(data)
	d.Max, _ = stats.Max(data)
	d.Mean, _ = stats.Mean(data)
	d.Median, _ = stats.Median(data)
	d.StdDev, _ = stats.StandardDeviation(data)
	return d
}

func scores(cands []domain.ScoredCandidate) stats.Float64Data {
	out := make(stats.Float64Data, len(cands))
	for i, c := range cands {
		out[i] = c.Score
	}
	return out
}

// countRows turns value→count into rows ordered by value.
func countRows(counts map[int]int) []CountRow {
	rows := make([]CountRow, 0, len(counts))
	for v, n := range counts {
		rows = append(rows, CountRow{Value: v, Count: n})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Value < rows[j].Value })
	return rows
}

// summarize fills the selection-derived sections of r. hist may be nil.
func summarize(r *Report, selected []domain.ScoredCandidate, u domain.Universe, profile domain.RankProfile, hist *history.Context) {
	sums := make([]int, len(selected))
	even := make(map[int]int)
	seq2 := make(map[int]int)
	seq3 := make(map[int]int)
	numbers := make([]int, u.N+1)
	positions := make([]map[int]int, u.K)
	for p := range positions {
		positions[p] = make(map[int]int)
	}

	r.Candidates = make([]CandidateRow, len(selected))
	for i, sc := range selected {
		c := sc.Combination
		fv := sc.Features
		if len(fv.DecadeCounts) == 0 {
			fv = features.Extract(c, u)
		}

		sums[i] = c.Sum()
		even[fv.EvenCount]++
		seq2[fv.Seq2]++
		seq3[fv.Seq3]++

		buckets := make([]int, domain.RankBucketCount)
		for p, n := range c {
			if n >= 1 && n <= u.N {
				numbers[n]++
			}
			if p < len(positions) {
				positions[p][n]++
			}
			if count, ok := profile.Count(n); ok {
				buckets[scoring.RankBucket(count)]++
			}
		}

		r.Candidates[i] = CandidateRow{
			Rank:        i + 1,
			Key:         c.Key(),
			Sum:         sums[i],
			EvenCount:   fv.EvenCount,
			OddCount:    fv.OddCount,
			Score:       sc.Score,
			Frequency:   sc.SubScores.Frequency,
			Balance:     sc.SubScores.Balance,
			Decade:      sc.SubScores.Decade,
			Sequence:    sc.SubScores.Sequence,
			SumScore:    sc.SubScores.Sum,
			RankScore:   sc.SubScores.Rank,
			Col1:        sc.SubScores.Col1,
			RankBuckets: buckets,
		}
	}

	r.SumStats = distribution(stats.LoadRawData(sums))
	r.ScoreStats = distribution(scores(selected))
	r.EvenDistribution = countRows(even)
	r.Seq2Distribution = countRows(seq2)
	r.Seq3Distribution = countRows(seq3)
	r.HotNumbers, r.ColdNumbers = hotCold(numbers)

	for p, counts := range positions {
		best, bestCount := 0, 0
		for n, count := range counts {
			if count > bestCount || (count == bestCount && n < best) {
				best, bestCount = n, count
			}
		}
		if bestCount > 0 {
			r.PositionFrequency = append(r.PositionFrequency, PositionRow{Position: p + 1, Number: best, Count: bestCount})
		}
	}

	if hist != nil && len(selected) > 0 {
		for depth := 1; depth <= hist.RecentDepth(); depth++ {
			overlaps := make([]int, 0, len(selected))
			for _, sc := range selected {
				if o, ok := hist.Overlap(sc.Combination, depth); ok {
					overlaps = append(overlaps, o)
				}
			}
			if len(overlaps) == 0 {
				continue
			}
			data := stats.LoadRawData(overlaps)
			maxOverlap, _ := stats.Max(data)
			mean, _ := stats.Mean(data)
			r.Duplicates = append(r.Duplicates, DuplicateRow{Depth: depth, MaxOverlap: int(maxOverlap), MeanOverlap: mean})
		}
	}
}

// hotCold returns the most and least frequent numbers. numbers is indexed by
// number with index 0 unused. Ties go to the smaller number.
func hotCold(numbers []int) (hot, cold []NumberRow) {
	rows := make([]NumberRow, 0, len(numbers))
	for n := 1; n < len(numbers); n++ {
		rows = append(rows, NumberRow{Number: n, Count: numbers[n]})
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Count > rows[j].Count })
	for _, row := range rows {
		if len(hot) == hotColdSize || row.Count == 0 {
			break
		}
		hot = append(hot, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count < rows[j].Count
		}
		return rows[i].Number < rows[j].Number
	})
	n := min(hotColdSize, len(rows))
	cold = append(cold, rows[:n]...)
	return hot, cold
}
