package features

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/juruen/kanatrain/alphabet"
	"github.com/juruen/kanatrain/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorShape(t *testing.T) {
	s := New(alphabet.NewHiragana())
	rnd := rand.New(rand.NewSource(1))

	for _, ch := range []string{"あ", "ん", "の"} {
		v, err := s.Vector(rnd, ch)
		require.NoError(t, err)
		require.Len(t, v, DefaultLength)

		idx, _ := s.Table.Index(ch)
		for i := 0; i < DefaultSignalDims; i++ {
			assert.LessOrEqual(t, math.Abs(v[i]-float64(idx)*0.1), 0.1+1e-9)
		}
		for i := DefaultSignalDims; i < DefaultLength; i++ {
			assert.GreaterOrEqual(t, v[i], 0.0)
			assert.Less(t, v[i], 1.0)
		}
	}
}

func TestVectorUnknown(t *testing.T) {
	s := New(alphabet.NewHiragana())
	_, err := s.Vector(rand.New(rand.NewSource(1)), "ア")
	assert.ErrorIs(t, err, dataset.ErrUnknownCharacter)
}

func TestVectorsSeparateByClass(t *testing.T) {
	s := New(alphabet.NewHiragana())
	rnd := rand.New(rand.NewSource(2))

	mean := func(ch string) float64 {
		total := 0.0
		for i := 0; i < 50; i++ {
			v, err := s.Vector(rnd, ch)
			require.NoError(t, err)
			for _, x := range v[:DefaultSignalDims] {
				total += x
			}
		}
		return total / (50 * DefaultSignalDims)
	}

	// あ is index 0, か index 5
	assert.InDelta(t, 0.0, mean("あ"), 0.02)
	assert.InDelta(t, 0.5, mean("か"), 0.02)
}

func TestMatrix(t *testing.T) {
	s := New(alphabet.NewHiragana())
	x, y := s.Matrix(rand.New(rand.NewSource(3)), 4)

	require.Len(t, x, 46*4)
	require.Len(t, y, 46*4)
	assert.Equal(t, 0, y[0])
	assert.Equal(t, 45, y[len(y)-1])
	assert.Equal(t, 1, y[4])
}

func TestMatrixDeterministic(t *testing.T) {
	s := New(alphabet.NewKana())
	a, _ := s.Matrix(rand.New(rand.NewSource(9)), 2)
	b, _ := s.Matrix(rand.New(rand.NewSource(9)), 2)
	assert.Equal(t, a, b)
}

func TestSamples(t *testing.T) {
	s := New(alphabet.NewHiragana())
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	samples := s.Samples(rand.New(rand.NewSource(4)), 2, now)

	require.Len(t, samples, 92)
	first := samples[0]
	assert.Equal(t, "あ", first.Character)
	assert.Equal(t, 3, first.StrokeCount)
	assert.True(t, first.HasFeatures())
	assert.False(t, first.HasImage())
	assert.Equal(t, "2024-01-02T03:04:05.000000", first.Timestamp)
}
