package history

import (
	"fmt"
	"sort"

	"lotto-cover-lab/internal/domain"
)

// DefaultCol1Bands are the lower bounds of sum bands 1..4.
// Band 0 is everything below the first bound.
var DefaultCol1Bands = []int{85, 96, 106, 116}

// DefaultCol1Max is the upper end of the wildcard leading-element list.
const DefaultCol1Max = 14

// Col1Tier is the strength of a leading-element match.
type Col1Tier int

const (
	Col1None    Col1Tier = iota
	Col1Partial          // sum band only, or even/odd only
	Col1Full             // exact sum, or sum band with even/odd
)

type sigKind int8

const (
	sigExact sigKind = iota
	sigBand
	sigBandOnly
	sigParity
)

// sigKey identifies one signature bucket of the table.
type sigKey struct {
	kind sigKind
	a    int
	b    int
	c    int
}

// Col1Table maps (sum, even, odd) signatures to the leading elements
// observed for draws with that signature.
type Col1Table struct {
	bands    []int
	leads    map[sigKey]map[int]struct{}
	wildcard []int
}

// NewCol1Table creates an empty table. Nil bands selects DefaultCol1Bands.
func NewCol1Table(bands []int, u domain.Universe) *Col1Table {
	if bands == nil {
		bands = DefaultCol1Bands
	}
	b := make([]int, len(bands))
	copy(b, bands)
	sort.Ints(b)

	maxLead := DefaultCol1Max
	if u.N > 0 && u.N < maxLead {
		maxLead = u.N
	}
	wildcard := make([]int, 0, maxLead)
	for n := 1; n <= maxLead; n++ {
		wildcard = append(wildcard, n)
	}

	return &Col1Table{
		bands:    b,
		leads:    make(map[sigKey]map[int]struct{}),
		wildcard: wildcard,
	}
}

// Band returns the sum band index of sum.
func (t *Col1Table) Band(sum int) int {
	return sort.SearchInts(t.bands, sum+1)
}

// BandLabel renders a band index, e.g. "<85", "85-95", ">=116".
func (t *Col1Table) BandLabel(band int) string {
	switch {
	case len(t.bands) == 0:
		return "*"
	case band <= 0:
		return fmt.Sprintf("<%d", t.bands[0])
	case band >= len(t.bands):
		return fmt.Sprintf(">=%d", t.bands[len(t.bands)-1])
	default:
		return fmt.Sprintf("%d-%d", t.bands[band-1], t.bands[band]-1)
	}
}

// Observe records leading as seen for the signature (sum, even, odd).
func (t *Col1Table) Observe(sum, even, odd, leading int) {
	band := t.Band(sum)
	for _, k := range []sigKey{
		{sigExact, sum, even, odd},
		{sigBand, band, even, odd},
		{sigBandOnly, band, 0, 0},
		{sigParity, even, odd, 0},
	} {
		set, ok := t.leads[k]
		if !ok {
			set = make(map[int]struct{})
			t.leads[k] = set
		}
		set[leading] = struct{}{}
	}
}

// ObserveDraw records a historical draw.
func (t *Col1Table) ObserveDraw(c domain.Combination) {
	even := 0
	for _, n := range c {
		if n%2 == 0 {
			even++
		}
	}
	t.Observe(c.Sum(), even, len(c)-even, c.Leading())
}

// Empty reports whether nothing was observed.
func (t *Col1Table) Empty() bool {
	return len(t.leads) == 0
}

func (t *Col1Table) has(k sigKey, leading int) bool {
	_, ok := t.leads[k][leading]
	return ok
}

// Match grades leading against the observations for (sum, even, odd).
func (t *Col1Table) Match(sum, even, odd, leading int) Col1Tier {
	band := t.Band(sum)
	if t.has(sigKey{sigExact, sum, even, odd}, leading) || t.has(sigKey{sigBand, band, even, odd}, leading) {
		return Col1Full
	}
	if t.has(sigKey{sigBandOnly, band, 0, 0}, leading) || t.has(sigKey{sigParity, even, odd, 0}, leading) {
		return Col1Partial
	}
	return Col1None
}

// Lookup returns the sorted leading elements of the most specific
// non-empty signature for (sum, even, odd), falling back to the wildcard list.
func (t *Col1Table) Lookup(sum, even, odd int) []int {
	_, out := t.lookup(sum, even, odd)
	return out
}

func (t *Col1Table) lookup(sum, even, odd int) (sigKey, []int) {
	band := t.Band(sum)
	for _, k := range []sigKey{
		{sigExact, sum, even, odd},
		{sigBand, band, even, odd},
		{sigParity, even, odd, 0},
		{sigBandOnly, band, 0, 0},
	} {
		if set := t.leads[k]; len(set) > 0 {
			out := make([]int, 0, len(set))
			for n := range set {
				out = append(out, n)
			}
			sort.Ints(out)
			return k, out
		}
	}
	return sigKey{kind: -1}, t.wildcard
}

// Col1Cycler hands out leading elements round-robin per signature.
// It is owned by a single caller and is not safe for concurrent use.
type Col1Cycler struct {
	table *Col1Table
	next  map[sigKey]int
}

// NewCol1Cycler creates a cycler over t.
func NewCol1Cycler(t *Col1Table) *Col1Cycler {
	return &Col1Cycler{table: t, next: make(map[sigKey]int)}
}

// Next returns the next leading element for (sum, even, odd), or 0 when
// the table offers none.
func (c *Col1Cycler) Next(sum, even, odd int) int {
	k, values := c.table.lookup(sum, even, odd)
	if len(values) == 0 {
		return 0
	}
	i := c.next[k] % len(values)
	c.next[k] = i + 1
	return values[i]
}
