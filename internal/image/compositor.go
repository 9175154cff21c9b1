package imagepkg

import (
	"context"
	"image/color"

	"github.com/disintegration/imaging"
)

// Compositor loads image references and hands out surfaces that share its
// fonts and resampling settings. It holds no per-render state and can
// serve concurrent renders.
type Compositor struct {
	loader *Loader
	fonts  *FontRegistry
	filter imaging.ResampleFilter
}

// Option configures a Compositor.
type Option func(*Compositor)

// WithLoader sets how image references are resolved.
func WithLoader(l *Loader) Option {
	return func(c *Compositor) { c.loader = l }
}

// WithFontRegistry sets the fonts shared by every surface.
func WithFontRegistry(r *FontRegistry) Option {
	return func(c *Compositor) { c.fonts = r }
}

// WithResampleFilter sets the filter for background and profile resampling.
func WithResampleFilter(f imaging.ResampleFilter) Option {
	return func(c *Compositor) { c.filter = f }
}

// New returns a compositor with a default loader, the Go fonts and Lanczos resampling.
func New(opts ...Option) *Compositor {
	c := &Compositor{
		loader: &Loader{},
		fonts:  DefaultFonts(),
		filter: imaging.Lanczos,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fonts returns the registry used for text layers.
func (c *Compositor) Fonts() *FontRegistry { return c.fonts }

// CreateSurface returns a new surface using the compositor's fonts and filter.
func (c *Compositor) CreateSurface(width, height int, bg color.Color) (*Surface, error) {
	return NewSurface(width, height, bg, WithFonts(c.fonts), WithFilter(c.filter))
}

// Load resolves ref into an ImageSource.
func (c *Compositor) Load(ctx context.Context, ref string) (*ImageSource, error) {
	return c.loader.Load(ctx, ref)
}

// DrawBackground loads ref and draws it as the cover background.
// An empty ref is a no-op; a failed load leaves s untouched.
func (c *Compositor) DrawBackground(ctx context.Context, s *Surface, ref string) error {
	if ref == "" {
		return nil
	}
	src, err := c.loader.Load(ctx, ref)
	if err != nil {
		return err
	}
	s.DrawBackground(src)
	return nil
}

func (c *Compositor) DrawProfileImage(ctx context.Context, s *Surface, ref string, p Placement) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if ref == "" {
		return nil
	}
	src, err := c.loader.Load(ctx, ref)
	if err != nil {
		return err
	}
	return s.DrawProfileImage(src, p)
}

func (c *Compositor) DrawQRCode(ctx context.Context, s *Surface, ref string, x, y, size int) error {
	if ref == "" {
		return nil
	}
	src, err := c.loader.Load(ctx, ref)
	if err != nil {
		return err
	}
	return s.DrawQRCode(src, x, y, size)
}

func (c *Compositor) DrawText(s *Surface, f TextField) error {
	return s.DrawText(f)
}

func (c *Compositor) Export(s *Surface, format Format, quality float64) ([]byte, error) {
	return s.Export(format, quality)
}
