package imagepkg

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoverRect(t *testing.T) {
	tests := []struct {
		name       string
		srcW, srcH int
		dstW, dstH int
		want       image.Rectangle
	}{
		{"landscape onto wider surface", 400, 300, 600, 400, image.Rect(0, -25, 600, 425)},
		{"portrait onto landscape", 300, 400, 600, 400, image.Rect(0, -200, 600, 600)},
		{"square onto landscape", 100, 100, 600, 400, image.Rect(0, -100, 600, 500)},
		{"wide panorama", 1000, 100, 600, 400, image.Rect(-1700, 0, 2300, 400)},
		{"exact fit", 300, 200, 600, 400, image.Rect(0, 0, 600, 400)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CoverRect(tt.srcW, tt.srcH, tt.dstW, tt.dstH)
			assert.Equal(t, tt.want, got)
			assert.True(t, image.Rect(0, 0, tt.dstW, tt.dstH).In(got), "cover rect must contain the surface")

			sx := float64(got.Dx()) / float64(tt.srcW)
			sy := float64(got.Dy()) / float64(tt.srcH)
			assert.InDelta(t, sx, sy, 0.01, "scale must be uniform")
		})
	}
}

func TestDrawBackgroundCoversSurface(t *testing.T) {
	s, err := NewSurface(600, 400, nil)
	require.NoError(t, err)

	s.DrawBackground(NewImageSource(solid(400, 300, red)))

	img := s.Image()
	for y := 0; y < 400; y++ {
		for x := 0; x < 600; x++ {
			require.Equal(t, uint8(255), img.NRGBAAt(x, y).A, "pixel %d,%d not opaque", x, y)
		}
	}
}

func TestDrawBackgroundScalesUniformly(t *testing.T) {
	// Quadrants meet at (200, 150) in the source. Cover scale is 1.5 with a
	// -25 vertical offset, so they meet at (300, 200) on the surface.
	src := image.NewNRGBA(image.Rect(0, 0, 400, 300))
	for y := 0; y < 300; y++ {
		for x := 0; x < 400; x++ {
			c := red
			switch {
			case x >= 200 && y < 150:
				c = blue
			case x < 200 && y >= 150:
				c = green
			case x >= 200 && y >= 150:
				c = yellow
			}
			src.SetNRGBA(x, y, c)
		}
	}

	s, err := NewSurface(600, 400, nil)
	require.NoError(t, err)
	s.DrawBackground(NewImageSource(src))
	img := s.Image()

	assert.True(t, dominant(img.NRGBAAt(290, 190), red))
	assert.True(t, dominant(img.NRGBAAt(310, 190), blue))
	assert.True(t, dominant(img.NRGBAAt(290, 210), green))
	assert.True(t, dominant(img.NRGBAAt(310, 210), yellow))
	assert.True(t, dominant(img.NRGBAAt(5, 5), red))
	assert.True(t, dominant(img.NRGBAAt(594, 394), yellow))
}

func TestDrawBackgroundNilSourceIsNoop(t *testing.T) {
	s, err := NewSurface(10, 10, color.White)
	require.NoError(t, err)
	before := s.Image()
	s.DrawBackground(nil)
	assert.Equal(t, before.Pix, s.Image().Pix)
}

func TestDrawProfileImageFeathering(t *testing.T) {
	s, err := NewSurface(600, 400, nil)
	require.NoError(t, err)
	p := Placement{X: 40, Y: 40, Width: 120, Height: 150}

	require.NoError(t, s.DrawProfileImage(NewImageSource(solid(200, 200, red)), p))
	img := s.Image()
	midY := p.Y + p.Height/2

	assert.Equal(t, uint8(0), img.NRGBAAt(p.X, midY).A, "edge pixel is fully transparent")
	assert.InDelta(t, 127, int(img.NRGBAAt(p.X+5, midY).A), 1, "halfway into the feather")
	assert.Equal(t, uint8(255), img.NRGBAAt(p.X+15, midY).A, "past the feather is opaque")
	assert.Equal(t, uint8(255), img.NRGBAAt(p.X+p.Width/2, midY).A)
	assert.Equal(t, uint8(0), img.NRGBAAt(p.X+p.Width-1, midY).A, "right edge")
	assert.Equal(t, uint8(0), img.NRGBAAt(p.X+p.Width/2, p.Y+p.Height-1).A, "bottom edge")
	assert.Equal(t, uint8(0), img.NRGBAAt(p.X-1, midY).A, "outside the placement")
}

func TestDrawProfileImageResamplesToPlacement(t *testing.T) {
	s, err := NewSurface(300, 300, color.White)
	require.NoError(t, err)
	p := Placement{X: 50, Y: 60, Width: 100, Height: 40}

	require.NoError(t, s.DrawProfileImage(NewImageSource(solid(17, 90, red)), p))
	img := s.Image()

	assert.True(t, dominant(img.NRGBAAt(100, 80), red), "center of placement")
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, img.NRGBAAt(100, 59), "above placement")
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, img.NRGBAAt(150, 80), "right of placement")
}

func TestDrawProfileImageInvalidPlacement(t *testing.T) {
	s, err := NewSurface(100, 100, nil)
	require.NoError(t, err)
	err = s.DrawProfileImage(NewImageSource(solid(10, 10, red)), Placement{Width: 0, Height: 10})
	assert.ErrorIs(t, err, ErrInvalidPlacement)
	assert.NoError(t, s.DrawProfileImage(nil, Placement{Width: 10, Height: 10}))
}

func TestCenterSquare(t *testing.T) {
	assert.Equal(t, image.Rect(50, 0, 250, 200), CenterSquare(image.Rect(0, 0, 300, 200)))
	assert.Equal(t, image.Rect(0, 50, 200, 250), CenterSquare(image.Rect(0, 0, 200, 300)))
	assert.Equal(t, image.Rect(15, 10, 25, 20), CenterSquare(image.Rect(10, 10, 30, 20)))
}

func TestDrawQRCodeUsesCenteredCrop(t *testing.T) {
	// Only the centered 200x200 square of a 300x200 source is red.
	src := image.NewNRGBA(image.Rect(0, 0, 300, 200))
	for y := 0; y < 200; y++ {
		for x := 0; x < 300; x++ {
			c := blue
			if x >= 50 && x < 250 {
				c = red
			}
			src.SetNRGBA(x, y, c)
		}
	}

	s, err := NewSurface(200, 200, nil)
	require.NoError(t, err)
	require.NoError(t, s.DrawQRCode(NewImageSource(src), 10, 10, 100))
	img := s.Image()

	for y := 10; y < 110; y++ {
		for x := 10; x < 110; x++ {
			require.Equal(t, red, img.NRGBAAt(x, y), "pixel %d,%d", x, y)
		}
	}
	assert.Equal(t, color.NRGBA{}, img.NRGBAAt(9, 9))
	assert.Equal(t, color.NRGBA{}, img.NRGBAAt(110, 110))
}

func TestDrawQRCodeInvalidSize(t *testing.T) {
	s, err := NewSurface(100, 100, nil)
	require.NoError(t, err)
	assert.ErrorIs(t, s.DrawQRCode(NewImageSource(solid(10, 10, red)), 0, 0, 0), ErrInvalidPlacement)
	assert.ErrorIs(t, s.DrawQRCode(NewImageSource(solid(10, 10, red)), 0, 0, 1<<20), ErrInvalidPlacement)
}
