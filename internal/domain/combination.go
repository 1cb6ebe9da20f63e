package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Universe describes the number pool [1, N] and the combination size K.
type Universe struct {
	N int // largest drawable number
	K int // numbers per combination
}

// Default universe: pick 5 of 42.
const (
	DefaultN = 42
	DefaultK = 5
)

// DefaultUniverse is the 5-of-42 game.
var DefaultUniverse = Universe{N: DefaultN, K: DefaultK}

// Validate checks that K numbers can be drawn from [1, N].
func (u Universe) Validate() error {
	if u.N < 1 {
		return NewConfigError("universe.n", "must be >= 1, got %d", u.N)
	}
	if u.K < 1 {
		return NewConfigError("universe.k", "must be >= 1, got %d", u.K)
	}
	if u.K > u.N {
		return NewConfigError("universe.k", "k=%d exceeds n=%d", u.K, u.N)
	}
	return nil
}

// Combination is a sorted ascending set of K distinct numbers in [1, N].
// Values are never mutated once constructed.
type Combination []int

// NewCombination validates nums against u and returns a sorted copy.
func NewCombination(nums []int, u Universe) (Combination, error) {
	if len(nums) != u.K {
		return nil, fmt.Errorf("%w: expected %d numbers, got %d", ErrInvalidCombination, u.K, len(nums))
	}

	c := make(Combination, len(nums))
	copy(c, nums)
	sort.Ints(c)

	for i, n := range c {
		if n < 1 || n > u.N {
			return nil, fmt.Errorf("%w: %d outside [1, %d]", ErrInvalidCombination, n, u.N)
		}
		if i > 0 && c[i-1] == n {
			return nil, fmt.Errorf("%w: duplicate number %d", ErrInvalidCombination, n)
		}
	}
	return c, nil
}

// Sum returns the sum of all elements.
func (c Combination) Sum() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Leading returns the smallest element.
func (c Combination) Leading() int {
	if len(c) == 0 {
		return 0
	}
	return c[0]
}

// Trailing returns the largest element.
func (c Combination) Trailing() int {
	if len(c) == 0 {
		return 0
	}
	return c[len(c)-1]
}

// Contains reports whether n is an element.
func (c Combination) Contains(n int) bool {
	i := sort.SearchInts(c, n)
	return i < len(c) && c[i] == n
}

// Key returns the canonical dash-joined form, e.g. "5-12-18-25-30".
func (c Combination) Key() string {
	var sb strings.Builder
	for i, n := range c {
		if i > 0 {
			sb.WriteByte('-')
		}
		sb.WriteString(strconv.Itoa(n))
	}
	return sb.String()
}

// Compare orders combinations lexicographically.
func (c Combination) Compare(other Combination) int {
	for i := 0; i < len(c) && i < len(other); i++ {
		if c[i] != other[i] {
			if c[i] < other[i] {
				return -1
			}
			return 1
		}
	}
	return len(c) - len(other)
}

// Clone returns an independent copy.
func (c Combination) Clone() Combination {
	out := make(Combination, len(c))
	copy(out, c)
	return out
}
