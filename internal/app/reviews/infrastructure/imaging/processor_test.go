package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}))
	return buf.Bytes()
}

func decodeSize(t *testing.T, data []byte) (int, int, string) {
	t.Helper()

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	return cfg.Width, cfg.Height, format
}

func TestNormalize_DownscalesToFit(t *testing.T) {
	p := NewProcessor(DefaultQuality)

	out, err := p.Normalize(encodePNG(t, 4000, 3000))
	require.NoError(t, err)

	w, h, format := decodeSize(t, out)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 1200, w)
	assert.Equal(t, 900, h)
}

func TestNormalize_PreservesAspectRatio(t *testing.T) {
	p := NewProcessor(DefaultQuality)

	// Вертикальный кадр упирается в высоту рамки
	out, err := p.Normalize(encodePNG(t, 1500, 3000))
	require.NoError(t, err)

	w, h, _ := decodeSize(t, out)
	assert.Equal(t, 900, h)
	assert.Equal(t, 450, w)
}

func TestNormalize_NeverEnlarges(t *testing.T) {
	p := NewProcessor(DefaultQuality)

	out, err := p.Normalize(encodeJPEG(t, 640, 480))
	require.NoError(t, err)

	w, h, format := decodeSize(t, out)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 640, w)
	assert.Equal(t, 480, h)
}

func TestNormalize_ReencodesPNGAsJPEG(t *testing.T) {
	p := NewProcessor(DefaultQuality)

	out, err := p.Normalize(encodePNG(t, 100, 100))
	require.NoError(t, err)

	_, _, format := decodeSize(t, out)
	assert.Equal(t, "jpeg", format)
}

func TestNormalize_RejectsGarbage(t *testing.T) {
	p := NewProcessor(DefaultQuality)

	_, err := p.Normalize([]byte("definitely not an image"))
	assert.Error(t, err)
}

func TestNewProcessor_ClampsQuality(t *testing.T) {
	assert.Equal(t, DefaultQuality, NewProcessor(0).quality)
	assert.Equal(t, DefaultQuality, NewProcessor(150).quality)
	assert.Equal(t, 60, NewProcessor(60).quality)
}
