package synth

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

func builtinFonts() *FontSource {
	return FontChain{Size: DefaultFontSize}.Load()
}

func square(size, from, to int) *image.Gray {
	img := blank(size)
	for y := from; y < to; y++ {
		for x := from; x < to; x++ {
			img.SetGray(x, y, color.Gray{})
		}
	}
	return img
}

func TestFontChainFallsBackToBuiltin(t *testing.T) {
	dir := t.TempDir()
	garbage := filepath.Join(dir, "broken.ttf")
	require.NoError(t, os.WriteFile(garbage, []byte("not a font"), 0600))

	src := FontChain{
		Paths: []string{filepath.Join(dir, "missing.ttc"), garbage},
		Size:  DefaultFontSize,
	}.Load()

	assert.True(t, src.Builtin())
	assert.Equal(t, BuiltinFont, src.Origin)
	assert.NotNil(t, src.NewFace())
}

func TestFontChainChecksProbeOnPaths(t *testing.T) {
	dir := t.TempDir()
	regular := filepath.Join(dir, "regular.ttf")
	mono := filepath.Join(dir, "mono.ttf")
	require.NoError(t, os.WriteFile(regular, goregular.TTF, 0600))
	require.NoError(t, os.WriteFile(mono, gomono.TTF, 0600))

	// neither font has kana: the first one is kept over the builtin face
	src := FontChain{Paths: []string{regular, mono}, Size: DefaultFontSize, Probe: 'あ'}.Load()
	assert.False(t, src.Builtin())
	assert.Equal(t, regular, src.Origin)
	assert.False(t, src.Covers('あ'))

	src = FontChain{Paths: []string{regular, mono}, Size: DefaultFontSize, Probe: 'A'}.Load()
	assert.Equal(t, regular, src.Origin)
	assert.True(t, src.Covers('A'))
}

func TestRenderAlwaysFullSize(t *testing.T) {
	r := NewRenderer(builtinFonts(), DefaultSize)
	defer r.Close()
	rnd := rand.New(rand.NewSource(1))

	for v := -3; v < 61; v++ {
		img := r.Render(rnd, "あ", v)
		assert.Equal(t, image.Rect(0, 0, DefaultSize, DefaultSize), img.Bounds(), "variation %d", v)
	}
}

func TestRenderDeterministic(t *testing.T) {
	src := builtinFonts()
	a := NewRenderer(src, DefaultSize)
	b := NewRenderer(src, DefaultSize)

	ra := rand.New(rand.NewSource(7))
	rb := rand.New(rand.NewSource(7))
	for v := 0; v < 12; v++ {
		assert.Equal(t, a.Render(ra, "A", v).Pix, b.Render(rb, "A", v).Pix)
	}
}

func TestRenderDrawsInk(t *testing.T) {
	r := NewRenderer(builtinFonts(), DefaultSize)
	img := r.Render(rand.New(rand.NewSource(3)), "A", 1)

	dark := 0
	for _, p := range img.Pix {
		if p < 128 {
			dark++
		}
	}
	assert.NotZero(t, dark)
}

func TestRotateKeepsSizeAndFillsWhite(t *testing.T) {
	img := square(64, 24, 40)
	out := Rotate(img, 5)

	assert.Equal(t, img.Bounds(), out.Bounds())
	assert.Equal(t, uint8(0xff), out.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(0xff), out.GrayAt(63, 63).Y)
	assert.Less(t, out.GrayAt(32, 32).Y, uint8(128))
}

func TestScaleKeepsSize(t *testing.T) {
	img := square(64, 16, 48)

	for _, f := range []float64{0.9, 0.95, 1.0, 1.05, 1.1} {
		out := Scale(img, f)
		assert.Equal(t, img.Bounds(), out.Bounds(), "factor %v", f)
	}
}

func TestScaleShrinkPadsWhite(t *testing.T) {
	img := square(64, 0, 64)
	out := Scale(img, 0.9)

	assert.Equal(t, uint8(0xff), out.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(0xff), out.GrayAt(63, 63).Y)
	assert.Less(t, out.GrayAt(32, 32).Y, uint8(128))
}

func TestScaleEnlargeCrops(t *testing.T) {
	img := square(64, 0, 64)
	out := Scale(img, 1.1)

	// enlarged black fills the whole canvas
	assert.Less(t, out.GrayAt(0, 0).Y, uint8(128))
	assert.Less(t, out.GrayAt(63, 63).Y, uint8(128))
}

func TestBlurKernel(t *testing.T) {
	img := blank(5)
	img.SetGray(2, 2, color.Gray{})

	out := Blur(img)
	assert.Equal(t, uint8(191), out.GrayAt(2, 2).Y)
	assert.Equal(t, uint8(223), out.GrayAt(2, 1).Y)
	assert.Equal(t, uint8(239), out.GrayAt(1, 1).Y)
	assert.Equal(t, uint8(0xff), out.GrayAt(0, 0).Y)
}

func TestBlurUniformUnchanged(t *testing.T) {
	img := blank(8)
	assert.Equal(t, img.Pix, Blur(img).Pix)
}

func TestReflect101(t *testing.T) {
	assert.Equal(t, 1, reflect101(-1, 5))
	assert.Equal(t, 3, reflect101(5, 5))
	assert.Equal(t, 2, reflect101(2, 5))
}

func TestMod(t *testing.T) {
	assert.Equal(t, 2, mod(-1, 3))
	assert.Equal(t, 0, mod(-4, 4))
	assert.Equal(t, 1, mod(6, 5))
}

func TestEncodePNG(t *testing.T) {
	img := square(64, 10, 20)
	data, err := EncodePNG(img)
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(data)
	require.NoError(t, err)
	decoded, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), decoded.Bounds())
}
