package synth

import (
	"image"
	"math"

	"github.com/nfnt/resize"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// Rotate turns img by deg degrees counter-clockwise around its center.
// Pixels that map outside the source stay white.
func Rotate(img *image.Gray, deg float64) *image.Gray {
	b := img.Bounds()
	dst := blank(b.Dx())

	rad := deg * math.Pi / 180
	a, s := math.Cos(rad), math.Sin(rad)
	cx, cy := float64(b.Dx()/2), float64(b.Dy()/2)

	m := f64.Aff3{
		a, s, (1-a)*cx - s*cy,
		-s, a, s*cx + (1-a)*cy,
	}
	draw.BiLinear.Transform(dst, m, img, b, draw.Src, nil)
	return dst
}

// Scale resizes img by factor and brings it back to its original size,
// center-cropping when enlarged and center-padding with white when shrunk.
func Scale(img *image.Gray, factor float64) *image.Gray {
	size := img.Bounds().Dx()
	n := int(float64(size) * factor)
	if n < 1 {
		n = 1
	}
	if n == size {
		return img
	}

	scaled := resize.Resize(uint(n), uint(n), img, resize.Bilinear)
	sb := scaled.Bounds()
	dst := blank(size)

	if n > size {
		off := (n - size) / 2
		draw.Draw(dst, dst.Bounds(), scaled, sb.Min.Add(image.Pt(off, off)), draw.Src)
		return dst
	}

	off := (size - n) / 2
	draw.Draw(dst, image.Rect(off, off, off+n, off+n), scaled, sb.Min, draw.Src)
	return dst
}

// Blur applies a 3×3 Gaussian (1-2-1 separable) with reflect-101 borders.
func Blur(img *image.Gray) *image.Gray {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w < 2 || h < 2 {
		return img
	}

	tmp := make([]int, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			l := img.GrayAt(b.Min.X+reflect101(x-1, w), b.Min.Y+y).Y
			c := img.GrayAt(b.Min.X+x, b.Min.Y+y).Y
			r := img.GrayAt(b.Min.X+reflect101(x+1, w), b.Min.Y+y).Y
			tmp[y*w+x] = int(l) + 2*int(c) + int(r)
		}
	}

	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		up, down := reflect101(y-1, h), reflect101(y+1, h)
		for x := 0; x < w; x++ {
			sum := tmp[up*w+x] + 2*tmp[y*w+x] + tmp[down*w+x]
			dst.Pix[y*dst.Stride+x] = uint8((sum + 8) / 16)
		}
	}
	return dst
}

// reflect101 mirrors i into [0, n) without repeating the edge pixel.
func reflect101(i, n int) int {
	switch {
	case i < 0:
		return -i
	case i >= n:
		return 2*n - i - 2
	}
	return i
}
