package mlp

import (
	"math"

	"github.com/juruen/kanatrain/encoding/knet"
)

const (
	DefaultLearningRate = 0.001
	Beta1               = 0.9
	Beta2               = 0.999
)

// Gradient keeps the Adam moments of one parameter.
type Gradient struct {
	Value float64
	M1    float64
	M2    float64
}

type Gradients struct {
	Data []Gradient
	Rows int
	Cols int
}

func (g *Gradient) Calculate(rate float64) float64 {
	if g.Value == 0 {
		return 0
	}

	g.M1 = g.M1*Beta1 + g.Value*(1-Beta1)
	g.M2 = g.M2*Beta2 + (g.Value*g.Value)*(1-Beta2)

	return rate * g.M1 / (math.Sqrt(g.M2) + 1e-8)
}

func NewGradients(rows, cols int) Gradients {
	return Gradients{
		Data: make([]Gradient, cols*rows),
		Rows: rows,
		Cols: cols,
	}
}

func (g *Gradients) Add(row, col int, delta float64) {
	g.Data[col*g.Rows+row].Value += delta
}

// AddTo moves the accumulated values into parent.
func (g *Gradients) AddTo(parent *Gradients) {
	for i := range g.Data {
		parent.Data[i].Value += g.Data[i].Value
		g.Data[i].Value = 0
	}
}

func (g *Gradients) Apply(m *knet.Matrix, rate float64) {
	for i := range g.Data {
		m.Data[i] -= g.Data[i].Calculate(rate)
		g.Data[i].Value = 0
	}
}
