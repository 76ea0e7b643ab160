// Package grayscale converts browser screenshots into single-channel PNGs for
// e-ink panels.
package grayscale

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"

	"github.com/gabriel-vasile/mimetype"
)

// ErrNotPNG is returned when the input bytes are not a PNG image.
var ErrNotPNG = errors.New("input is not a PNG image")

// Luminosity weights, ITU-R BT.601.
const (
	weightR = 0.299
	weightG = 0.587
	weightB = 0.114
)

// Luminance returns round(0.299*r + 0.587*g + 0.114*b) for 8-bit channels.
func Luminance(r, g, b uint8) uint8 {
	v := math.Round(weightR*float64(r) + weightG*float64(g) + weightB*float64(b))
	if v > 255 {
		v = 255
	}
	return uint8(v)
}

// Convert maps every pixel of img to its luminance. Alpha is dropped; channel
// values are taken un-premultiplied, as they were captured.
func Convert(img image.Image) *image.Gray {
	bounds := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			out.Pix[(y-bounds.Min.Y)*out.Stride+(x-bounds.Min.X)] = Luminance(c.R, c.G, c.B)
		}
	}
	return out
}

// FromPNG verifies data is a PNG, decodes it and re-encodes it as an 8-bit
// grayscale PNG without alpha. On any failure no image is returned.
func FromPNG(data []byte) ([]byte, error) {
	if mt := mimetype.Detect(data); !mt.Is("image/png") {
		return nil, fmt.Errorf("%w: detected %s", ErrNotPNG, mt.String())
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode screenshot: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, Convert(img)); err != nil {
		return nil, fmt.Errorf("encode grayscale: %w", err)
	}
	return buf.Bytes(), nil
}
