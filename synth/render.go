package synth

import (
	"image"
	"image/color"
	"math/rand"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

const (
	DefaultSize = 64
	maxJitter   = 5
	maxAngle    = 5.0
	minScale    = 0.9
	maxScale    = 1.1
)

// Variation gates: a transform is applied when variation mod k == 0.
const (
	RotateEvery = 3
	ScaleEvery  = 4
	BlurEvery   = 5
)

// Renderer draws a single glyph per call. It owns a font face and must
// not be shared between goroutines.
type Renderer struct {
	Size int
	face font.Face
}

func NewRenderer(src *FontSource, size int) *Renderer {
	if size <= 0 {
		size = DefaultSize
	}
	return &Renderer{Size: size, face: src.NewFace()}
}

func (r *Renderer) Close() error {
	return r.face.Close()
}

// Render draws ch on a white size×size canvas and applies the
// variation-gated distortions. The result is always size×size.
func (r *Renderer) Render(rnd *rand.Rand, ch string, variation int) *image.Gray {
	img := blank(r.Size)

	jx := rnd.Intn(2*maxJitter+1) - maxJitter + mod(variation, 3)
	jy := rnd.Intn(2*maxJitter+1) - maxJitter + mod(variation, 3)
	r.drawGlyph(img, ch, jx, jy)

	if mod(variation, RotateEvery) == 0 {
		angle := -maxAngle + rnd.Float64()*2*maxAngle
		img = Rotate(img, angle)
	}

	if mod(variation, ScaleEvery) == 0 {
		factor := minScale + rnd.Float64()*(maxScale-minScale)
		img = Scale(img, factor)
	}

	if mod(variation, BlurEvery) == 0 {
		img = Blur(img)
	}

	return img
}

// drawGlyph centers the ink box of ch on the canvas, shifted by (dx, dy).
func (r *Renderer) drawGlyph(img *image.Gray, ch string, dx, dy int) {
	bounds, _ := font.BoundString(r.face, ch)
	w := bounds.Max.X - bounds.Min.X
	h := bounds.Max.Y - bounds.Min.Y

	size := fixed.I(r.Size)
	x := (size-w)/2 - bounds.Min.X + fixed.I(dx)
	y := (size-h)/2 - bounds.Min.Y + fixed.I(dy)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.Black,
		Face: r.face,
		Dot:  fixed.Point26_6{X: x, Y: y},
	}
	d.DrawString(ch)
}

func blank(size int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Gray{Y: 0xff}), image.Point{}, draw.Src)
	return img
}

// mod is the non-negative remainder, so negative variations gate the
// same way as their positive counterparts.
func mod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}
