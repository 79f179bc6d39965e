package gallery

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngFixture(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 32), G: uint8(y * 32), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestNormalizeReencodesAsWebP(t *testing.T) {
	normalized, err := WebPNormalizer{Quality: 80}.Normalize(pngFixture(t))
	require.NoError(t, err)

	assert.Equal(t, "image/webp", normalized.ContentType)
	assert.NotEmpty(t, normalized.Data)
	// RIFF container magic.
	assert.Equal(t, []byte("RIFF"), normalized.Data[:4])
}

func TestNormalizeRejectsNonImage(t *testing.T) {
	_, err := WebPNormalizer{}.Normalize([]byte("{\"not\": \"an image\"}"))
	require.Error(t, err)
}

func TestNormalizeRejectsEmptyFile(t *testing.T) {
	_, err := WebPNormalizer{}.Normalize(nil)
	require.Error(t, err)
}
