package knet

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (n *Network) UnmarshalBinary(data []byte) error {
	r := newReader(data)
	if err := r.checkHeader(); err != nil {
		return err
	}

	var err error
	if n.ID, err = r.readNumber(); err != nil {
		return err
	}
	if n.Inputs, err = r.readNumber(); err != nil {
		return err
	}
	if n.Outputs, err = r.readNumber(); err != nil {
		return err
	}
	layers, err := r.readNumber()
	if err != nil {
		return err
	}
	if layers > maxLayers {
		return fmt.Errorf("%w: %d hidden layers", ErrShape, layers)
	}

	n.Hidden = make([]uint32, layers)
	for i := range n.Hidden {
		if n.Hidden[i], err = r.readNumber(); err != nil {
			return err
		}
	}
	if err := n.checkSizes(); err != nil {
		return err
	}

	n.Weights = make([]Matrix, n.Layers())
	n.Biases = make([]Matrix, n.Layers())
	for i := 0; i < n.Layers(); i++ {
		out, in := n.layerShape(i)
		if n.Weights[i], err = r.readMatrix(out, in); err != nil {
			return err
		}
		if n.Biases[i], err = r.readMatrix(out, 1); err != nil {
			return err
		}
	}

	if r.Len() != 0 {
		return fmt.Errorf("%w: %d trailing bytes", ErrShape, r.Len())
	}
	return nil
}

func (n *Network) checkSizes() error {
	sizes := append([]uint32{n.Inputs, n.Outputs}, n.Hidden...)
	for _, s := range sizes {
		if s == 0 || s > maxLayerSize {
			return fmt.Errorf("%w: layer size %d", ErrShape, s)
		}
	}
	return nil
}

type reader struct {
	bytes.Reader
}

func newReader(data []byte) *reader {
	return &reader{*bytes.NewReader(data)}
}

func (r *reader) checkHeader() error {
	buf := make([]byte, HeaderLen)
	if _, err := io.ReadFull(r, buf); err != nil {
		return ErrBadMagic
	}
	if buf[0] != Header[0] || buf[1] != Header[1] {
		return ErrBadMagic
	}
	if buf[2] != VersionMajor {
		return fmt.Errorf("%w: %d.%d", ErrUnsupportedVersion, buf[2], buf[3])
	}
	return nil
}

func (r *reader) readNumber() (uint32, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return 0, unexpected(err)
	}
	return n, nil
}

func (r *reader) readMatrix(rows, cols int) (Matrix, error) {
	if r.Len() < rows*cols*4 {
		return Matrix{}, io.ErrUnexpectedEOF
	}
	m := NewMatrix(rows, cols)
	buf := make([]byte, 4)
	for i := range m.Data {
		if _, err := io.ReadFull(r, buf); err != nil {
			return Matrix{}, unexpected(err)
		}
		m.Data[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(buf)))
	}
	return m, nil
}

func unexpected(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
