// Package evaluate splits data and scores predictions.
package evaluate

import (
	"math"
	"math/rand"
	"sort"
)

// ValidTestFraction reports whether f leaves both sides of a split
// non-empty in proportion, that is 0 < f < 1.
func ValidTestFraction(f float64) bool {
	return f > 0 && f < 1
}

// Split partitions the indices 0..len(labels)-1 into train and test sets.
// The test set gets ceil(n*testFraction) samples; with stratify each class
// contributes in proportion to its size.
func Split(labels []int, testFraction float64, seed int64, stratify bool) (train, test []int) {
	n := len(labels)
	if n == 0 || testFraction <= 0 {
		return seq(n), []int{}
	}
	rnd := rand.New(rand.NewSource(seed))

	if !stratify {
		perm := rnd.Perm(n)
		k := testSize(n, testFraction)
		return perm[k:], perm[:k]
	}

	byClass := make(map[int][]int)
	var classes []int
	for i, c := range labels {
		if _, ok := byClass[c]; !ok {
			classes = append(classes, c)
		}
		byClass[c] = append(byClass[c], i)
	}
	sort.Ints(classes)

	for _, c := range classes {
		idx := byClass[c]
		rnd.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
		k := int(math.Round(float64(len(idx)) * testFraction))
		if k >= len(idx) && len(idx) > 1 {
			k = len(idx) - 1
		}
		test = append(test, idx[:k]...)
		train = append(train, idx[k:]...)
	}

	rnd.Shuffle(len(train), func(i, j int) { train[i], train[j] = train[j], train[i] })
	rnd.Shuffle(len(test), func(i, j int) { test[i], test[j] = test[j], test[i] })
	if test == nil {
		test = []int{}
	}
	return train, test
}

func testSize(n int, fraction float64) int {
	k := int(math.Ceil(float64(n) * fraction))
	if k >= n {
		k = n - 1
	}
	return k
}

func seq(n int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = i
	}
	return s
}
