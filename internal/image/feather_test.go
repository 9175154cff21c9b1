package imagepkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeather(t *testing.T) {
	img := solid(40, 40, red)
	Feather(img, FeatherWidth)

	tests := []struct {
		x, y int
		want uint8
	}{
		{0, 20, 0},
		{5, 20, 127},
		{9, 20, 229},
		{10, 20, 255},
		{20, 20, 255},
		{39, 20, 0},
		{20, 0, 0},
		{20, 34, 127},
		{3, 1, 25},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, img.NRGBAAt(tt.x, tt.y).A, "pixel %d,%d", tt.x, tt.y)
	}
	assert.Equal(t, uint8(255), img.NRGBAAt(0, 20).R, "color channels are left alone")
}

func TestFeatherScalesExistingAlpha(t *testing.T) {
	img := solid(30, 30, red)
	img.SetNRGBA(5, 15, red)
	img.Pix[img.PixOffset(5, 15)+3] = 100
	Feather(img, FeatherWidth)
	assert.Equal(t, uint8(50), img.NRGBAAt(5, 15).A)
}

func TestFeatherZeroWidthIsNoop(t *testing.T) {
	img := solid(5, 5, red)
	Feather(img, 0)
	assert.Equal(t, uint8(255), img.NRGBAAt(0, 0).A)
}
