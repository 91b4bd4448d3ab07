package dataset

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"sort"
	"strings"

	"github.com/juruen/kanatrain/alphabet"
	"github.com/juruen/kanatrain/log"
	"github.com/nfnt/resize"
	"github.com/pkg/errors"
)

type Payload int

const (
	PayloadImage Payload = iota
	PayloadFeatures
)

func (p Payload) String() string {
	if p == PayloadFeatures {
		return "features"
	}
	return "image"
}

// ParsePayload accepts "image" or "features".
func ParsePayload(s string) (Payload, error) {
	switch s {
	case "image":
		return PayloadImage, nil
	case "features":
		return PayloadFeatures, nil
	}
	return 0, fmt.Errorf("unknown payload %q", s)
}

type DropReason string

const (
	DropUnknownCharacter DropReason = "unknown_character"
	DropNoPayload        DropReason = "no_payload"
	DropBadImage         DropReason = "bad_image"
	DropBadFeatures      DropReason = "bad_features"
)

// Dropped describes one sample left out of the training set.
type Dropped struct {
	Position  int
	Character string
	Reason    DropReason
	Err       error
}

// DropReport aggregates what Decode left out so the caller can decide
// whether the loss is acceptable.
type DropReport struct {
	Inspected int
	Kept      int
	Dropped   []Dropped
}

func (r *DropReport) add(pos int, ch string, reason DropReason, err error) {
	r.Dropped = append(r.Dropped, Dropped{Position: pos, Character: ch, Reason: reason, Err: err})
}

func (r *DropReport) Count(reason DropReason) int {
	n := 0
	for _, d := range r.Dropped {
		if d.Reason == reason {
			n++
		}
	}
	return n
}

func (r *DropReport) Counts() map[DropReason]int {
	counts := make(map[DropReason]int)
	for _, d := range r.Dropped {
		counts[d.Reason]++
	}
	return counts
}

// Ratio is the dropped fraction of inspected samples.
func (r *DropReport) Ratio() float64 {
	if r.Inspected == 0 {
		return 0
	}
	return float64(len(r.Dropped)) / float64(r.Inspected)
}

func (r *DropReport) String() string {
	if len(r.Dropped) == 0 {
		return fmt.Sprintf("kept %d of %d samples", r.Kept, r.Inspected)
	}
	counts := r.Counts()
	reasons := make([]string, 0, len(counts))
	for reason := range counts {
		reasons = append(reasons, string(reason))
	}
	sort.Strings(reasons)
	parts := make([]string, len(reasons))
	for i, reason := range reasons {
		parts[i] = fmt.Sprintf("%s=%d", reason, counts[DropReason(reason)])
	}
	return fmt.Sprintf("kept %d of %d samples, dropped %d (%s)",
		r.Kept, r.Inspected, len(r.Dropped), strings.Join(parts, ", "))
}

type DecodeOptions struct {
	Payload Payload
	// InputSize is the side of the square image fed to the classifier
	InputSize int
	// FeatureLen is the expected feature vector length, 0 accepts any
	FeatureLen int
	// Strict makes an undecodable image a hard failure instead of a drop
	Strict bool
}

// Examples is a labelled design matrix.
type Examples struct {
	X [][]float64
	Y []int
}

func (e *Examples) Len() int {
	return len(e.Y)
}

// Subset returns the examples at the given positions. Rows are shared.
func (e *Examples) Subset(idx []int) *Examples {
	out := &Examples{X: make([][]float64, len(idx)), Y: make([]int, len(idx))}
	for i, j := range idx {
		out.X[i] = e.X[j]
		out.Y[i] = e.Y[j]
	}
	return out
}

// Decode turns dataset samples into labelled examples. Samples whose
// character is not in the table, or which carry no usable payload, are
// dropped and reported.
func Decode(ds *Dataset, table *alphabet.Table, opts DecodeOptions) (*Examples, *DropReport, error) {
	ex := &Examples{}
	report := &DropReport{}

	for pos := range ds.Data {
		s := &ds.Data[pos]
		report.Inspected++

		label, ok := table.Index(s.Character)
		if !ok {
			log.Trace.Printf("Unknown character: %s", s.Character)
			report.add(pos, s.Character, DropUnknownCharacter, ErrUnknownCharacter)
			continue
		}

		var row []float64
		switch opts.Payload {
		case PayloadImage:
			if !s.HasImage() {
				report.add(pos, s.Character, DropNoPayload, ErrNoPayload)
				continue
			}
			img, err := DecodeImage(s.ImageData)
			if err != nil {
				if opts.Strict {
					return nil, report, errors.Wrapf(err, "sample %d", pos)
				}
				log.Trace.Printf("Error processing entry %d: %v", pos, err)
				report.add(pos, s.Character, DropBadImage, err)
				continue
			}
			row = Normalize(img, opts.InputSize)
		case PayloadFeatures:
			if !s.HasFeatures() {
				report.add(pos, s.Character, DropNoPayload, ErrNoPayload)
				continue
			}
			if opts.FeatureLen > 0 && len(s.Features) != opts.FeatureLen {
				report.add(pos, s.Character, DropBadFeatures, ErrFeatureLength)
				continue
			}
			row = append([]float64(nil), s.Features...)
		default:
			return nil, report, fmt.Errorf("unknown payload kind %d", opts.Payload)
		}

		ex.X = append(ex.X, row)
		ex.Y = append(ex.Y, label)
		report.Kept++
	}

	if len(report.Dropped) > 0 {
		log.Warning.Printf("decode: %s", report)
	}
	return ex, report, nil
}

// DecodeImage decodes a base64 encoded PNG or JPEG.
func DecodeImage(data string) (image.Image, error) {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, errors.Wrap(err, "bad base64")
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, errors.Wrap(err, "bad image")
	}
	return img, nil
}

// ToGray converts img to an 8-bit grayscale image with origin (0, 0).
func ToGray(img image.Image) *image.Gray {
	b := img.Bounds()
	if g, ok := img.(*image.Gray); ok && b.Min == (image.Point{}) {
		return g
	}
	g := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(g, g.Bounds(), img, b.Min, draw.Src)
	return g
}

// Normalize converts img to gray, resizes it to size×size when needed
// and returns the pixels row-major scaled to [0, 1].
func Normalize(img image.Image, size int) []float64 {
	g := ToGray(img)
	if size > 0 && (g.Bounds().Dx() != size || g.Bounds().Dy() != size) {
		g = ToGray(resize.Resize(uint(size), uint(size), g, resize.Bilinear))
	}
	b := g.Bounds()
	out := make([]float64, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out = append(out, float64(g.GrayAt(x, y).Y)/255.0)
		}
	}
	return out
}
