package synth

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"

	"github.com/pkg/errors"
)

// EncodePNG returns img as a base64 encoded PNG.
func EncodePNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", errors.Wrap(err, "can't encode png")
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
