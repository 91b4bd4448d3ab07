package mlp

import (
	"math"
	"math/rand"

	"github.com/juruen/kanatrain/encoding/knet"
)

type Neuron struct {
	Activation float64
	Error      float64
	Prime      float64
}

type Layer struct {
	activationFn Activation
	outputs      []Neuron
	weights      knet.Matrix
	biases       knet.Matrix
	wGradients   Gradients
	bGradients   Gradients
}

func NewLayer(inputSize, outputSize int, activationFn Activation) *Layer {
	return &Layer{
		activationFn: activationFn,
		outputs:      make([]Neuron, outputSize),
		weights:      knet.NewMatrix(outputSize, inputSize),
		biases:       knet.NewMatrix(outputSize, 1),
		wGradients:   NewGradients(outputSize, inputSize),
		bGradients:   NewGradients(outputSize, 1),
	}
}

// ThreadCopy shares the weights but has its own neurons and gradients.
func (l *Layer) ThreadCopy() *Layer {
	return &Layer{
		activationFn: l.activationFn,
		outputs:      make([]Neuron, len(l.outputs)),
		weights:      l.weights,
		biases:       l.biases,
		wGradients:   NewGradients(l.wGradients.Rows, l.wGradients.Cols),
		bGradients:   NewGradients(l.bGradients.Rows, l.bGradients.Cols),
	}
}

// InitWeightsReLU uses He initialization.
func (l *Layer) InitWeightsReLU(rnd *rand.Rand) *Layer {
	initUniform(rnd, l.weights.Data, 2.0/float64(l.weights.Cols))
	return l
}

// InitWeightsGlorot suits layers feeding a softmax.
func (l *Layer) InitWeightsGlorot(rnd *rand.Rand) *Layer {
	initUniform(rnd, l.weights.Data, 2.0/float64(l.weights.Cols+l.weights.Rows))
	return l
}

func initUniform(rnd *rand.Rand, data []float64, variance float64) {
	var uniformVariance = 1.0 / 12
	var scale = math.Sqrt(variance / uniformVariance)
	for i := range data {
		data[i] = (rnd.Float64() - 0.5) * scale
	}
}

func (l *Layer) Forward(input []Neuron) {
	for outputIndex := range l.outputs {
		var x = l.biases.Data[outputIndex]
		for inputIndex := range input {
			x += l.weights.Get(outputIndex, inputIndex) * input[inputIndex].Activation
		}
		var n = &l.outputs[outputIndex]
		n.Activation = l.activationFn.Sigma(x)
		n.Prime = l.activationFn.SigmaPrime(x)
	}
}

// Backward accumulates gradients from the output errors. When propagate
// is set the input errors are filled for the previous layer.
func (l *Layer) Backward(input []Neuron, propagate bool) {
	if propagate {
		for inputIndex := range input {
			input[inputIndex].Error = 0
		}
	}

	for outputIndex := range l.outputs {
		var n = &l.outputs[outputIndex]
		var x = n.Error * n.Prime
		if x == 0 {
			continue
		}
		l.bGradients.Add(outputIndex, 0, x)
		for inputIndex := range input {
			l.wGradients.Add(outputIndex, inputIndex, x*input[inputIndex].Activation)
			if propagate {
				input[inputIndex].Error += l.weights.Get(outputIndex, inputIndex) * x
			}
		}
	}
}

func (l *Layer) AddGradients(main *Layer) {
	l.wGradients.AddTo(&main.wGradients)
	l.bGradients.AddTo(&main.bGradients)
}

func (l *Layer) ApplyGradients(rate float64) {
	l.wGradients.Apply(&l.weights, rate)
	l.bGradients.Apply(&l.biases, rate)
}

// apply is the allocation based forward pass used for inference, safe
// for concurrent use.
func (l *Layer) apply(input []float64) []float64 {
	out := make([]float64, len(l.outputs))
	for o := range out {
		x := l.biases.Data[o]
		for i, v := range input {
			x += l.weights.Get(o, i) * v
		}
		out[o] = l.activationFn.Sigma(x)
	}
	return out
}
