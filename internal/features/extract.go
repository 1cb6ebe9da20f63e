// Package features computes structural metrics of a combination.
package features

import "lotto-cover-lab/internal/domain"

// ModBase is the modulus used for ones-digit crowding.
const ModBase = 10

// DecadeWidth is the width of one decade bucket.
const DecadeWidth = 10

// DecadeBucketCount returns the number of decade buckets spanning [1, N].
// Bucket 0 covers 1..9, bucket i covers 10i..10i+9, and the last bucket
// absorbs any remainder up to N.
func DecadeBucketCount(u domain.Universe) int {
	if u.N < 1 {
		return 0
	}
	return (u.N-1)/DecadeWidth + 1
}

// DecadeBucket returns the bucket index of n.
func DecadeBucket(n int, u domain.Universe) int {
	b := n / DecadeWidth
	if last := DecadeBucketCount(u) - 1; b > last {
		b = last
	}
	return b
}

// Extract computes the feature vector of c. c must be sorted ascending.
func Extract(c domain.Combination, u domain.Universe) domain.FeatureVector {
	fv := domain.FeatureVector{
		DecadeCounts: make([]int, DecadeBucketCount(u)),
	}

	var mods [ModBase]int
	for i, n := range c {
		fv.Sum += n
		if n%2 == 0 {
			fv.EvenCount++
		} else {
			fv.OddCount++
		}

		mods[n%ModBase]++
		fv.DecadeCounts[DecadeBucket(n, u)]++

		if i > 0 && n-c[i-1] == 1 {
			fv.Seq2++
			if i > 1 && c[i-1]-c[i-2] == 1 {
				fv.Seq3++
			}
		}
	}

	for _, count := range mods {
		if count > 1 {
			fv.ModTotal += count - 1
		}
		if count > 2 {
			fv.ModX++
		}
	}

	return fv
}
