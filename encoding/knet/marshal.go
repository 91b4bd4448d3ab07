package knet

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// MarshalBinary implements encoding.BinaryMarshaler.
func (n *Network) MarshalBinary() ([]byte, error) {
	if len(n.Weights) != n.Layers() || len(n.Biases) != n.Layers() {
		return nil, fmt.Errorf("%w: %d layers, %d weights, %d biases",
			ErrShape, n.Layers(), len(n.Weights), len(n.Biases))
	}

	w := new(writer)
	w.writeHeader()
	w.writeNumber(n.ID)
	w.writeNumber(n.Inputs)
	w.writeNumber(n.Outputs)
	w.writeNumber(uint32(len(n.Hidden)))
	for _, h := range n.Hidden {
		w.writeNumber(h)
	}

	for i := 0; i < n.Layers(); i++ {
		out, in := n.layerShape(i)
		if err := checkShape(n.Weights[i], out, in); err != nil {
			return nil, fmt.Errorf("layer %d weights: %w", i, err)
		}
		if err := checkShape(n.Biases[i], out, 1); err != nil {
			return nil, fmt.Errorf("layer %d biases: %w", i, err)
		}
		w.writeSlice(n.Weights[i].Data)
		w.writeSlice(n.Biases[i].Data)
	}

	return w.Bytes(), nil
}

func checkShape(m Matrix, rows, cols int) error {
	if m.Rows != rows || m.Cols != cols || len(m.Data) != rows*cols {
		return fmt.Errorf("%w: got %dx%d, want %dx%d", ErrShape, m.Rows, m.Cols, rows, cols)
	}
	return nil
}

type writer struct {
	b bytes.Buffer
}

func (w *writer) Bytes() []byte {
	return w.b.Bytes()
}

func (w *writer) writeHeader() {
	w.b.Write(Header)
}

func (w *writer) writeNumber(n uint32) {
	binary.Write(&w.b, binary.LittleEndian, n)
}

func (w *writer) writeSlice(data []float64) {
	buf := make([]byte, 4)
	for _, v := range data {
		binary.LittleEndian.PutUint32(buf, math.Float32bits(float32(v)))
		w.b.Write(buf)
	}
}
