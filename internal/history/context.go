// Package history builds the read-only historical snapshot shared by the
// filter, the scorer and the generator during one run.
package history

import (
	"sort"
	"time"

	"lotto-cover-lab/internal/domain"
)

// Default lookback windows.
const (
	DefaultFrequencyLookbackDays = 30
	DefaultAverageSumDays        = 365
	DefaultAverageSum            = 100.0
)

// Options controls how the snapshot is derived from raw draws.
type Options struct {
	Universe domain.Universe

	// Occurrence counts use the FrequencyLookbackDraws most recent draws when
	// set, otherwise draws within FrequencyLookbackDays of the anchor.
	FrequencyLookbackDays  int
	FrequencyLookbackDraws int

	AverageSumDays    int
	DefaultAverageSum float64

	// DuplicateDepth is how many recent draws are kept for overlap checks.
	DuplicateDepth int

	// Col1LookbackDays bounds the draws feeding the Col1 table. 0 = all.
	Col1LookbackDays int
	Col1Bands        []int

	// Anchor is the "as of" date. Zero means the newest draw date.
	// Draws dated after a non-zero anchor are ignored.
	Anchor time.Time
}

// DefaultOptions returns the default snapshot options for u.
func DefaultOptions(u domain.Universe) Options {
	return Options{
		Universe:              u,
		FrequencyLookbackDays: DefaultFrequencyLookbackDays,
		AverageSumDays:        DefaultAverageSumDays,
		DefaultAverageSum:     DefaultAverageSum,
		DuplicateDepth:        len(domain.DefaultDuplicateCaps),
		Col1Bands:             DefaultCol1Bands,
	}
}

// Context is an immutable snapshot of history and rank data for one run.
// All methods are safe for concurrent use.
type Context struct {
	universe domain.Universe

	recent []domain.Combination // newest first, up to DuplicateDepth
	unions [][]bool             // unions[i][n]: n drawn in one of the i+1 most recent draws

	counts       []int // index n-1
	countedDraws int
	averageSum   float64
	averageKnown bool

	rank          domain.RankProfile
	rankDefaulted bool

	col1 *Col1Table

	drawCount int
	anchor    time.Time
}

// NewContext builds a snapshot from draws (any order) and an optional rank
// profile. A nil or invalid profile is replaced by the default profile.
func NewContext(draws []*domain.HistoricalDraw, rank *domain.RankProfile, opts Options) *Context {
	u := opts.Universe
	hc := &Context{
		universe: u,
		counts:   make([]int, u.N),
		col1:     NewCol1Table(opts.Col1Bands, u),
	}

	if rank != nil && rank.Validate(u) == nil {
		hc.rank = rank.Clone()
	} else {
		hc.rank = domain.DefaultRankProfile(u)
		hc.rankDefaulted = true
	}

	sorted := make([]*domain.HistoricalDraw, 0, len(draws))
	for _, d := range draws {
		if d == nil || len(d.Numbers) == 0 {
			continue
		}
		if !opts.Anchor.IsZero() && d.DrawDate.After(opts.Anchor) {
			continue
		}
		sorted = append(sorted, d)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DrawDate.After(sorted[j].DrawDate)
	})

	hc.drawCount = len(sorted)
	hc.averageSum = opts.DefaultAverageSum
	hc.anchor = opts.Anchor
	if hc.drawCount == 0 {
		return hc
	}

	if hc.anchor.IsZero() {
		hc.anchor = sorted[0].DrawDate
	}

	hc.buildRecent(sorted, opts.DuplicateDepth)
	hc.buildCounts(sorted, opts)
	hc.buildAverage(sorted, opts.AverageSumDays)

	col1From := time.Time{}
	if opts.Col1LookbackDays > 0 {
		col1From = hc.anchor.AddDate(0, 0, -opts.Col1LookbackDays)
	}
	for _, d := range sorted {
		if d.DrawDate.Before(col1From) {
			break
		}
		hc.col1.ObserveDraw(d.Numbers)
	}

	return hc
}

func (hc *Context) buildRecent(sorted []*domain.HistoricalDraw, depth int) {
	if depth > len(sorted) {
		depth = len(sorted)
	}
	member := make([]bool, hc.universe.N+1)
	for i := 0; i < depth; i++ {
		hc.recent = append(hc.recent, sorted[i].Numbers)
		for _, n := range sorted[i].Numbers {
			if n >= 1 && n <= hc.universe.N {
				member[n] = true
			}
		}
		snapshot := make([]bool, len(member))
		copy(snapshot, member)
		hc.unions = append(hc.unions, snapshot)
	}
}

func (hc *Context) buildCounts(sorted []*domain.HistoricalDraw, opts Options) {
	window := sorted
	if opts.FrequencyLookbackDraws > 0 {
		if opts.FrequencyLookbackDraws < len(window) {
			window = window[:opts.FrequencyLookbackDraws]
		}
	} else {
		from := hc.anchor.AddDate(0, 0, -opts.FrequencyLookbackDays)
		end := 0
		for end < len(window) && !window[end].DrawDate.Before(from) {
			end++
		}
		window = window[:end]
	}

	for _, d := range window {
		for _, n := range d.Numbers {
			if n >= 1 && n <= hc.universe.N {
				hc.counts[n-1]++
			}
		}
	}
	hc.countedDraws = len(window)
}

func (hc *Context) buildAverage(sorted []*domain.HistoricalDraw, days int) {
	from := hc.anchor.AddDate(0, 0, -days)
	total, n := 0, 0
	for _, d := range sorted {
		if d.DrawDate.Before(from) {
			break
		}
		total += d.Numbers.Sum()
		n++
	}
	if n > 0 {
		hc.averageSum = float64(total) / float64(n)
		hc.averageKnown = true
	}
}

// Universe returns the snapshot's universe.
func (hc *Context) Universe() domain.Universe { return hc.universe }

// Available reports whether any historical draws were loaded.
func (hc *Context) Available() bool { return hc.drawCount > 0 }

// DrawCount returns the number of draws in the snapshot.
func (hc *Context) DrawCount() int { return hc.drawCount }

// Anchor returns the "as of" date of the snapshot.
func (hc *Context) Anchor() time.Time { return hc.anchor }

// RecentDepth returns how many recent draws are available for overlap checks.
func (hc *Context) RecentDepth() int { return len(hc.recent) }

// Recent returns the i-th most recent draw (0 = newest). Callers must not modify it.
func (hc *Context) Recent(i int) domain.Combination { return hc.recent[i] }

// Overlap returns how many elements of c appear in the union of the depth
// most recent draws. ok is false when fewer than depth draws are available.
func (hc *Context) Overlap(c domain.Combination, depth int) (overlap int, ok bool) {
	if depth < 1 || depth > len(hc.unions) {
		return 0, false
	}
	member := hc.unions[depth-1]
	for _, n := range c {
		if n >= 1 && n < len(member) && member[n] {
			overlap++
		}
	}
	return overlap, true
}

// Occurrences returns how often n was drawn within the frequency window.
func (hc *Context) Occurrences(n int) int {
	if n < 1 || n > len(hc.counts) {
		return 0
	}
	return hc.counts[n-1]
}

// Counts returns a copy of the occurrence counts, indexed by number-1.
func (hc *Context) Counts() []int {
	out := make([]int, len(hc.counts))
	copy(out, hc.counts)
	return out
}

// CountedDraws returns how many draws fed the occurrence counts.
func (hc *Context) CountedDraws() int { return hc.countedDraws }

// AverageSum returns the rolling average draw sum, or the configured
// default when no draw fell inside the window.
func (hc *Context) AverageSum() float64 { return hc.averageSum }

// AverageFromHistory reports whether AverageSum came from draws.
func (hc *Context) AverageFromHistory() bool { return hc.averageKnown }

// RankProfile returns the run's rank profile. Callers must not modify it.
func (hc *Context) RankProfile() domain.RankProfile { return hc.rank }

// RankDefaulted reports whether the default rank profile was substituted.
func (hc *Context) RankDefaulted() bool { return hc.rankDefaulted }

// Col1 returns the leading-element table.
func (hc *Context) Col1() *Col1Table { return hc.col1 }
