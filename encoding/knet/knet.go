// Package knet reads and writes dense network weights.
//
// Binary layout, all little-endian:
//   - 4 bytes header: 'K', 'N', major version, minor version
//   - uint32 network id
//   - uint32 inputs, uint32 outputs, uint32 hidden layer count
//   - uint32 size of each hidden layer
//   - per layer: weights as float32 in column-major order, then biases
package knet

import "errors"

const (
	HeaderLen    = 4
	VersionMajor = 1
	VersionMinor = 0

	maxLayers    = 64
	maxLayerSize = 1 << 20
)

var (
	Header = []byte{'K', 'N', VersionMajor, VersionMinor}

	ErrBadMagic           = errors.New("not a network file")
	ErrUnsupportedVersion = errors.New("unsupported network file version")
	ErrShape              = errors.New("matrix does not match topology")
)

// Matrix is stored column-major: element (row, col) is Data[col*Rows+row].
type Matrix struct {
	Rows int
	Cols int
	Data []float64
}

func NewMatrix(rows, cols int) Matrix {
	return Matrix{Rows: rows, Cols: cols, Data: make([]float64, rows*cols)}
}

func (m *Matrix) Get(row, col int) float64 {
	return m.Data[col*m.Rows+row]
}

func (m *Matrix) Set(row, col int, v float64) {
	m.Data[col*m.Rows+row] = v
}

type Network struct {
	ID      uint32
	Inputs  uint32
	Outputs uint32
	Hidden  []uint32
	// one entry per layer, hidden layers first
	Weights []Matrix
	Biases  []Matrix
}

func (n *Network) Layers() int {
	return len(n.Hidden) + 1
}

// layerShape returns the (outputs, inputs) of layer i.
func (n *Network) layerShape(i int) (int, int) {
	in := int(n.Inputs)
	if i > 0 {
		in = int(n.Hidden[i-1])
	}
	out := int(n.Outputs)
	if i < len(n.Hidden) {
		out = int(n.Hidden[i])
	}
	return out, in
}
