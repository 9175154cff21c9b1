package imagepkg

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// MaxDimension bounds every side the compositor allocates: surfaces,
// placements and QR codes.
const MaxDimension = 8192

// Placement is a rectangle in surface coordinates.
type Placement struct {
	X      int `json:"x" yaml:"x"`
	Y      int `json:"y" yaml:"y"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Validate reports ErrInvalidPlacement unless both sides are in 1..MaxDimension.
func (p Placement) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d must be positive", ErrInvalidPlacement, p.Width, p.Height)
	}
	if p.Width > MaxDimension || p.Height > MaxDimension {
		return fmt.Errorf("%w: size %dx%d exceeds %d", ErrInvalidPlacement, p.Width, p.Height, MaxDimension)
	}
	return nil
}

// Rect returns the placement as a rectangle.
func (p Placement) Rect() image.Rectangle {
	return image.Rect(p.X, p.Y, p.X+p.Width, p.Y+p.Height)
}

// Surface is the pixel buffer of one card render. It is not safe for
// concurrent use; every render owns its own Surface.
type Surface struct {
	img    *image.NRGBA
	bg     color.NRGBA
	fonts  *FontRegistry
	filter imaging.ResampleFilter
}

// SurfaceOption configures a Surface at creation.
type SurfaceOption func(*Surface)

// WithFonts sets the registry used by DrawText.
func WithFonts(r *FontRegistry) SurfaceOption {
	return func(s *Surface) { s.fonts = r }
}

// WithFilter sets the resampling filter used for background and profile layers.
func WithFilter(f imaging.ResampleFilter) SurfaceOption {
	return func(s *Surface) { s.filter = f }
}

// NewSurface creates a width x height surface filled with bg. A nil bg
// leaves the surface fully transparent. Both sides must be in 1..MaxDimension.
func NewSurface(width, height int, bg color.Color, opts ...SurfaceOption) (*Surface, error) {
	if err := CheckDimensions(width, height); err != nil {
		return nil, err
	}
	s := &Surface{filter: imaging.Lanczos}
	if bg != nil {
		s.bg = color.NRGBAModel.Convert(bg).(color.NRGBA)
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.fonts == nil {
		s.fonts = DefaultFonts()
	}
	s.img = imaging.New(width, height, s.bg)
	return s, nil
}

// CheckDimensions reports ErrInvalidDimension unless both sides are in 1..MaxDimension.
func CheckDimensions(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimension, width, height)
	}
	if width > MaxDimension || height > MaxDimension {
		return fmt.Errorf("%w: %dx%d exceeds %d", ErrInvalidDimension, width, height, MaxDimension)
	}
	return nil
}

// Width and Height are fixed at creation.
func (s *Surface) Width() int  { return s.img.Rect.Dx() }
func (s *Surface) Height() int { return s.img.Rect.Dy() }

// Bounds returns the surface rectangle, anchored at the origin.
func (s *Surface) Bounds() image.Rectangle { return s.img.Rect }

// Image returns a copy of the current pixels.
func (s *Surface) Image() *image.NRGBA { return imaging.Clone(s.img) }

// Reset restores every pixel to the creation background.
func (s *Surface) Reset() {
	s.img = imaging.New(s.Width(), s.Height(), s.bg)
}
