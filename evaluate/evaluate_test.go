package evaluate

import (
	"bytes"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func labels(classes, perClass int) []int {
	var y []int
	for c := 0; c < classes; c++ {
		for i := 0; i < perClass; i++ {
			y = append(y, c)
		}
	}
	return y
}

func TestSplitPartitions(t *testing.T) {
	y := labels(5, 10)
	for _, stratify := range []bool{false, true} {
		train, test := Split(y, 0.2, 42, stratify)
		assert.Len(t, test, 10)
		assert.Len(t, train, 40)

		all := append(append([]int{}, train...), test...)
		sort.Ints(all)
		assert.Equal(t, seq(50), all)
	}
}

func TestSplitStratified(t *testing.T) {
	y := labels(4, 10)
	_, test := Split(y, 0.2, 1, true)

	per := make(map[int]int)
	for _, i := range test {
		per[y[i]]++
	}
	for c := 0; c < 4; c++ {
		assert.Equal(t, 2, per[c])
	}
}

func TestSplitDeterministic(t *testing.T) {
	y := labels(3, 7)
	a1, b1 := Split(y, 0.3, 9, true)
	a2, b2 := Split(y, 0.3, 9, true)
	assert.Equal(t, a1, a2)
	assert.Equal(t, b1, b2)
}

func TestValidTestFraction(t *testing.T) {
	assert.True(t, ValidTestFraction(0.2))
	assert.False(t, ValidTestFraction(0))
	assert.False(t, ValidTestFraction(1))
	assert.False(t, ValidTestFraction(-0.5))
}

func TestSplitNoTest(t *testing.T) {
	train, test := Split(labels(2, 3), 0, 1, false)
	assert.Len(t, train, 6)
	assert.Empty(t, test)
}

func TestAccuracy(t *testing.T) {
	assert.Equal(t, 0.75, Accuracy([]int{0, 1, 2, 3}, []int{0, 1, 2, 0}))
	assert.Equal(t, 0.0, Accuracy(nil, nil))
}

func TestConfusion(t *testing.T) {
	m := Confusion([]int{0, 0, 1, 1}, []int{0, 1, 1, 1}, 2)
	assert.Equal(t, [][]int{{1, 1}, {0, 2}}, m)
}

func TestReport(t *testing.T) {
	yTrue := []int{0, 0, 1, 1}
	yPred := []int{0, 1, 1, 1}
	r := NewReport(yTrue, yPred, []string{"あ", "い", "う"})

	require.Len(t, r.Classes, 2)
	a := r.Classes[0]
	assert.Equal(t, "あ", a.Label)
	assert.Equal(t, 1.0, a.Precision)
	assert.Equal(t, 0.5, a.Recall)
	assert.InDelta(t, 2.0/3, a.F1, 1e-9)
	assert.Equal(t, 2, a.Support)

	i := r.Classes[1]
	assert.InDelta(t, 2.0/3, i.Precision, 1e-9)
	assert.Equal(t, 1.0, i.Recall)

	assert.Equal(t, 0.75, r.Accuracy)
	assert.InDelta(t, (1+2.0/3)/2, r.MacroPrecision, 1e-9)
	assert.InDelta(t, 0.75, r.MacroRecall, 1e-9)

	var buf bytes.Buffer
	_, err := r.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "precision")
	assert.Contains(t, buf.String(), "あ")
	assert.Contains(t, buf.String(), "macro avg")
	assert.NotContains(t, buf.String(), "う")
}

func TestTopImportances(t *testing.T) {
	top := TopImportances([]float64{0.1, 0.5, 0.2, 0.2}, 3)
	assert.Equal(t, []Importance{{1, 0.5}, {2, 0.2}, {3, 0.2}}, top)
	assert.Len(t, TopImportances([]float64{1}, 10), 1)
}
