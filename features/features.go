// Package features produces the toy fixed-length feature vectors used by
// the forest path. The first SignalDims entries carry the class index, the
// rest is noise.
package features

import (
	"math/rand"
	"time"

	"github.com/juruen/kanatrain/alphabet"
	"github.com/juruen/kanatrain/dataset"
	"github.com/pkg/errors"
)

const (
	DefaultLength     = 64
	DefaultSignalDims = 10

	signalStep   = 0.1
	signalJitter = 0.1
)

type Synthesizer struct {
	Table      *alphabet.Table
	Length     int
	SignalDims int
}

func New(table *alphabet.Table) *Synthesizer {
	return &Synthesizer{
		Table:      table,
		Length:     DefaultLength,
		SignalDims: DefaultSignalDims,
	}
}

// Vector returns a feature vector for ch. Entries below SignalDims are
// index*0.1 plus uniform noise in [-0.1, 0.1), the others uniform in [0, 1).
func (s *Synthesizer) Vector(rnd *rand.Rand, ch string) ([]float64, error) {
	idx, ok := s.Table.Index(ch)
	if !ok {
		return nil, errors.Wrapf(dataset.ErrUnknownCharacter, "%q", ch)
	}

	v := make([]float64, s.Length)
	for i := range v {
		if i < s.SignalDims {
			v[i] = float64(idx)*signalStep + (rnd.Float64()*2-1)*signalJitter
		} else {
			v[i] = rnd.Float64()
		}
	}
	return v, nil
}

// Matrix returns perChar vectors for every character, in table order, with
// the class index as label.
func (s *Synthesizer) Matrix(rnd *rand.Rand, perChar int) ([][]float64, []int) {
	n := s.Table.Len() * perChar
	x := make([][]float64, 0, n)
	y := make([]int, 0, n)

	for _, ch := range s.Table.All() {
		for i := 0; i < perChar; i++ {
			v, _ := s.Vector(rnd, ch.Value)
			x = append(x, v)
			y = append(y, ch.Index)
		}
	}
	return x, y
}

// Samples wraps perChar vectors per character into dataset records with a
// features payload.
func (s *Synthesizer) Samples(rnd *rand.Rand, perChar int, now time.Time) []dataset.Sample {
	ts := dataset.FormatTimestamp(now)
	out := make([]dataset.Sample, 0, s.Table.Len()*perChar)

	for _, ch := range s.Table.All() {
		for i := 0; i < perChar; i++ {
			v, _ := s.Vector(rnd, ch.Value)
			out = append(out, dataset.Sample{
				Character:     ch.Value,
				Type:          string(ch.Script),
				IsCorrect:     true,
				AccuracyScore: 80 + rnd.Float64()*20,
				Timestamp:     ts,
				StrokeCount:   ch.StrokeCount,
				Features:      v,
			})
		}
	}
	return out
}
