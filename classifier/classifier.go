// Package classifier defines the canonical exported classifier: a feature
// vector in, a probability distribution over the alphabet index space out.
package classifier

import (
	"errors"
	"fmt"
	"sort"
)

var ErrFeatureCount = errors.New("wrong number of features")

type Classifier interface {
	// Predict returns one probability per class, summing to 1
	Predict(x []float64) []float64
	NumClasses() int
	NumFeatures() int
}

type Ranked struct {
	Class       int
	Probability float64
}

// Argmax returns the index of the largest value, the lowest index on ties.
func Argmax(p []float64) int {
	best := -1
	for i, v := range p {
		if best < 0 || v > p[best] {
			best = i
		}
	}
	return best
}

// TopK returns the k most probable classes, most probable first.
func TopK(p []float64, k int) []Ranked {
	ranked := make([]Ranked, len(p))
	for i, v := range p {
		ranked[i] = Ranked{Class: i, Probability: v}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Probability > ranked[j].Probability
	})
	if k < len(ranked) {
		ranked = ranked[:k]
	}
	return ranked
}

// Check verifies that x fits the classifier input.
func Check(c Classifier, x []float64) error {
	if len(x) != c.NumFeatures() {
		return fmt.Errorf("%w: got %d, want %d", ErrFeatureCount, len(x), c.NumFeatures())
	}
	return nil
}

// PredictAll returns the most probable class for every row.
func PredictAll(c Classifier, x [][]float64) []int {
	out := make([]int, len(x))
	for i, row := range x {
		out[i] = Argmax(c.Predict(row))
	}
	return out
}
