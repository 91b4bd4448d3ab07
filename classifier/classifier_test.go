package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type constant struct {
	p []float64
}

func (c constant) Predict(x []float64) []float64 { return c.p }
func (c constant) NumClasses() int               { return len(c.p) }
func (c constant) NumFeatures() int              { return 3 }

func TestArgmax(t *testing.T) {
	assert.Equal(t, 2, Argmax([]float64{0.1, 0.2, 0.7}))
	assert.Equal(t, 0, Argmax([]float64{0.5, 0.5}))
	assert.Equal(t, -1, Argmax(nil))
}

func TestTopK(t *testing.T) {
	top := TopK([]float64{0.1, 0.6, 0.3}, 2)
	assert.Equal(t, []Ranked{{Class: 1, Probability: 0.6}, {Class: 2, Probability: 0.3}}, top)
	assert.Len(t, TopK([]float64{1}, 5), 1)
}

func TestCheck(t *testing.T) {
	c := constant{p: []float64{1}}
	assert.NoError(t, Check(c, []float64{1, 2, 3}))
	assert.ErrorIs(t, Check(c, []float64{1}), ErrFeatureCount)
}

func TestPredictAll(t *testing.T) {
	c := constant{p: []float64{0.2, 0.8}}
	assert.Equal(t, []int{1, 1}, PredictAll(c, [][]float64{{}, {}}))
}
