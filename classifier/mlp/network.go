// Package mlp is a small dense network: ReLU hidden layers and a softmax
// output trained with cross-entropy and Adam.
package mlp

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/juruen/kanatrain/classifier"
	"github.com/juruen/kanatrain/encoding/knet"
	"github.com/juruen/kanatrain/log"
	"github.com/juruen/kanatrain/util"
	"github.com/pkg/errors"
)

const DefaultPath = "japanese_character_model.kn"

type Network struct {
	ID     uint32
	input  []Neuron
	layers []*Layer
}

var _ classifier.Classifier = (*Network)(nil)

// New builds a network with randomly initialized weights.
func New(rnd *rand.Rand, inputs int, hidden []int, outputs int) *Network {
	n := &Network{
		ID:    rnd.Uint32(),
		input: make([]Neuron, inputs),
	}
	prev := inputs
	for _, h := range hidden {
		n.layers = append(n.layers, NewLayer(prev, h, &ReLuActivation{}).InitWeightsReLU(rnd))
		prev = h
	}
	n.layers = append(n.layers, NewLayer(prev, outputs, &IdentityActivation{}).InitWeightsGlorot(rnd))
	return n
}

func (n *Network) NumFeatures() int {
	return len(n.input)
}

func (n *Network) NumClasses() int {
	return len(n.output().outputs)
}

func (n *Network) output() *Layer {
	return n.layers[len(n.layers)-1]
}

// Predict is safe for concurrent use.
func (n *Network) Predict(x []float64) []float64 {
	a := x
	for _, l := range n.layers {
		a = l.apply(a)
	}
	return Softmax(a)
}

// ThreadCopy shares the weights with n, for data parallel training.
func (n *Network) ThreadCopy() *Network {
	c := &Network{
		ID:    n.ID,
		input: make([]Neuron, len(n.input)),
	}
	for _, l := range n.layers {
		c.layers = append(c.layers, l.ThreadCopy())
	}
	return c
}

func (n *Network) forward(x []float64) []float64 {
	for i, v := range x {
		n.input[i].Activation = v
	}
	prev := n.input
	for _, l := range n.layers {
		l.Forward(prev)
		prev = l.outputs
	}
	z := make([]float64, len(prev))
	for i := range prev {
		z[i] = prev[i].Activation
	}
	return Softmax(z)
}

// trainSample accumulates the gradients of one sample and returns its cost.
func (n *Network) trainSample(x []float64, target int) float64 {
	p := n.forward(x)

	out := n.output()
	for i := range out.outputs {
		e := p[i]
		if i == target {
			e--
		}
		out.outputs[i].Error = e
	}

	for i := len(n.layers) - 1; i >= 0; i-- {
		input := n.input
		if i > 0 {
			input = n.layers[i-1].outputs
		}
		n.layers[i].Backward(input, i > 0)
	}
	return CrossEntropy(p, target)
}

func (n *Network) cost(x []float64, target int) (float64, bool) {
	p := n.forward(x)
	return CrossEntropy(p, target), classifier.Argmax(p) == target
}

func (n *Network) addGradients(main *Network) {
	if n == main {
		return
	}
	for i, l := range n.layers {
		l.AddGradients(main.layers[i])
	}
}

func (n *Network) applyGradients(rate float64) {
	for _, l := range n.layers {
		l.ApplyGradients(rate)
	}
}

// Encode converts the weights to their file representation.
func (n *Network) Encode() *knet.Network {
	k := &knet.Network{
		ID:      n.ID,
		Inputs:  uint32(len(n.input)),
		Outputs: uint32(n.NumClasses()),
	}
	for i, l := range n.layers {
		if i < len(n.layers)-1 {
			k.Hidden = append(k.Hidden, uint32(len(l.outputs)))
		}
		k.Weights = append(k.Weights, l.weights)
		k.Biases = append(k.Biases, l.biases)
	}
	return k
}

// Decode rebuilds a network from its file representation.
func Decode(k *knet.Network) *Network {
	n := &Network{
		ID:    k.ID,
		input: make([]Neuron, k.Inputs),
	}
	for i := 0; i < k.Layers(); i++ {
		var fn Activation = &ReLuActivation{}
		if i == k.Layers()-1 {
			fn = &IdentityActivation{}
		}
		w := k.Weights[i]
		l := NewLayer(w.Cols, w.Rows, fn)
		l.weights = w
		l.biases = k.Biases[i]
		n.layers = append(n.layers, l)
	}
	return n
}

func Save(path string, n *Network) error {
	data, err := n.Encode().MarshalBinary()
	if err != nil {
		return errors.Wrap(err, "can't encode network")
	}
	if err := util.WriteFileAtomic(path, data); err != nil {
		return err
	}
	log.Info.Printf("network saved to %s", path)
	return nil
}

func Load(path string) (*Network, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var k knet.Network
	if err := k.UnmarshalBinary(data); err != nil {
		return nil, fmt.Errorf("can't load network %s: %w", path, err)
	}
	return Decode(&k), nil
}

// LoadOrTrain loads the network at path, training and saving one first
// when the file does not exist.
func LoadOrTrain(path string, train func() (*Network, error)) (*Network, error) {
	n, err := Load(path)
	if err == nil {
		return n, nil
	}
	if !os.IsNotExist(err) {
		return nil, err
	}

	log.Warning.Printf("model %s not found, training first", path)
	n, err = train()
	if err != nil {
		return nil, errors.Wrap(err, "training failed")
	}
	if err := Save(path, n); err != nil {
		return nil, err
	}
	return Load(path)
}
