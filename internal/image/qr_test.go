package imagepkg

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateQRPNG(t *testing.T) {
	b, err := GenerateQRPNG("idcard:00123", 256)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, 256, img.Bounds().Dx())

	_, err = GenerateQRPNG("", 256)
	assert.Error(t, err)
}

func TestGenerateQRDrawsModules(t *testing.T) {
	src, err := GenerateQR("idcard:00123", 256)
	require.NoError(t, err)
	assert.Equal(t, 256, src.Width())
	assert.Equal(t, 256, src.Height())

	s, err := NewSurface(200, 200, color.White)
	require.NoError(t, err)
	require.NoError(t, s.DrawQRCode(src, 20, 20, 120))

	img := s.Image()
	var dark, light int
	for y := 20; y < 140; y++ {
		for x := 20; x < 140; x++ {
			if img.NRGBAAt(x, y).R < 128 {
				dark++
			} else {
				light++
			}
		}
	}
	assert.Greater(t, dark, 0)
	assert.Greater(t, light, 0)
}

func TestClampQRSize(t *testing.T) {
	assert.Equal(t, 256, clampQRSize(0))
	assert.Equal(t, 300, clampQRSize(300))
	assert.Equal(t, MaxQRSize, clampQRSize(MaxQRSize*2))
}
