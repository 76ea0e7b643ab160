package grayscale

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestLuminance(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		want    uint8
	}{
		{name: "black", r: 0, g: 0, b: 0, want: 0},
		{name: "white", r: 255, g: 255, b: 255, want: 255},
		{name: "red", r: 255, g: 0, b: 0, want: 76},    // 76.245
		{name: "green", r: 0, g: 255, b: 0, want: 150}, // 149.685
		{name: "blue", r: 0, g: 0, b: 255, want: 29},   // 29.07
		{name: "mixed", r: 10, g: 200, b: 30, want: 124},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Luminance(tt.r, tt.g, tt.b))
		})
	}
}

func TestLuminance_IdentityOnGray(t *testing.T) {
	for v := 0; v <= 255; v++ {
		g := uint8(v)
		assert.Equal(t, g, Luminance(g, g, g), "gray level %d", v)
	}
}

func TestFromPNG_RoundTrip2x2(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	src.Set(0, 0, color.RGBA{R: 255, A: 255})
	src.Set(1, 0, color.RGBA{G: 255, A: 255})
	src.Set(0, 1, color.RGBA{B: 255, A: 255})
	src.Set(1, 1, color.RGBA{R: 128, G: 128, B: 128, A: 255})

	out, err := FromPNG(encodePNG(t, src))
	require.NoError(t, err)

	decoded, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)

	gray, ok := decoded.(*image.Gray)
	require.True(t, ok, "expected single-channel output, got %T", decoded)
	assert.Equal(t, image.Rect(0, 0, 2, 2), gray.Bounds())
	assert.Equal(t, []uint8{76, 150, 29, 128}, []uint8{
		gray.GrayAt(0, 0).Y, gray.GrayAt(1, 0).Y,
		gray.GrayAt(0, 1).Y, gray.GrayAt(1, 1).Y,
	})

	cfg, err := png.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, color.GrayModel, cfg.ColorModel)
}

func TestFromPNG_IdempotentOnGrayInput(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 3, 1))
	src.Pix = []uint8{0, 77, 255}

	first, err := FromPNG(encodePNG(t, src))
	require.NoError(t, err)
	second, err := FromPNG(first)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestFromPNG_NonZeroOrigin(t *testing.T) {
	src := image.NewRGBA(image.Rect(5, 5, 7, 6))
	src.Set(5, 5, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	src.Set(6, 5, color.RGBA{A: 255})

	gray := Convert(src)
	assert.Equal(t, image.Rect(0, 0, 2, 1), gray.Bounds())
	assert.Equal(t, []uint8{255, 0}, gray.Pix)
}

func TestFromPNG_RejectsNonPNG(t *testing.T) {
	_, err := FromPNG([]byte("<html><body>not an image</body></html>"))
	assert.ErrorIs(t, err, ErrNotPNG)

	_, err = FromPNG(nil)
	assert.ErrorIs(t, err, ErrNotPNG)
}

func TestFromPNG_TruncatedPNG(t *testing.T) {
	data := encodePNG(t, image.NewRGBA(image.Rect(0, 0, 4, 4)))
	_, err := FromPNG(data[:len(data)/2])
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotPNG)
}
