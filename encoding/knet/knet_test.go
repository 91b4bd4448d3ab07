package knet

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testNetwork() *Network {
	n := &Network{
		ID:      7,
		Inputs:  3,
		Outputs: 2,
		Hidden:  []uint32{4},
		Weights: []Matrix{NewMatrix(4, 3), NewMatrix(2, 4)},
		Biases:  []Matrix{NewMatrix(4, 1), NewMatrix(2, 1)},
	}
	for l := range n.Weights {
		for i := range n.Weights[l].Data {
			n.Weights[l].Data[i] = float64(i)*0.25 - 1
		}
		for i := range n.Biases[l].Data {
			n.Biases[l].Data[i] = float64(i) * 0.5
		}
	}
	return n
}

func TestRoundTrip(t *testing.T) {
	n := testNetwork()
	data, err := n.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, Header, data[:HeaderLen])

	var got Network
	require.NoError(t, got.UnmarshalBinary(data))
	assert.Equal(t, n, &got)
}

func TestMatrixColumnMajor(t *testing.T) {
	m := NewMatrix(2, 3)
	m.Set(1, 2, 5)
	assert.Equal(t, 5.0, m.Data[2*2+1])
	assert.Equal(t, 5.0, m.Get(1, 2))
}

func TestBadMagic(t *testing.T) {
	var n Network
	assert.ErrorIs(t, n.UnmarshalBinary([]byte("BZ\x02\x00")), ErrBadMagic)
	assert.ErrorIs(t, n.UnmarshalBinary([]byte("K")), ErrBadMagic)
}

func TestUnsupportedVersion(t *testing.T) {
	var n Network
	assert.ErrorIs(t, n.UnmarshalBinary([]byte{'K', 'N', 9, 0}), ErrUnsupportedVersion)
}

func TestTruncated(t *testing.T) {
	data, err := testNetwork().MarshalBinary()
	require.NoError(t, err)

	var n Network
	assert.ErrorIs(t, n.UnmarshalBinary(data[:len(data)-2]), io.ErrUnexpectedEOF)
	assert.ErrorIs(t, n.UnmarshalBinary(data[:10]), io.ErrUnexpectedEOF)
}

func TestTrailingBytes(t *testing.T) {
	data, err := testNetwork().MarshalBinary()
	require.NoError(t, err)

	var n Network
	assert.ErrorIs(t, n.UnmarshalBinary(append(data, 0)), ErrShape)
}

func TestMarshalShapeMismatch(t *testing.T) {
	n := testNetwork()
	n.Weights[1] = NewMatrix(3, 3)
	_, err := n.MarshalBinary()
	assert.ErrorIs(t, err, ErrShape)

	n = testNetwork()
	n.Biases = n.Biases[:1]
	_, err = n.MarshalBinary()
	assert.ErrorIs(t, err, ErrShape)
}
