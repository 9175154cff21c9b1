package card

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	imagepkg "github.com/youruser/idcardapp/internal/image"
)

// LayerPolicy decides what a failed image load does to the render.
type LayerPolicy string

const (
	// PolicyAbort fails the whole render on the first failed layer.
	PolicyAbort LayerPolicy = "abort"
	// PolicySkip leaves the failed layer out and keeps compositing.
	PolicySkip LayerPolicy = "skip"
)

func ParseLayerPolicy(s string) (LayerPolicy, error) {
	switch LayerPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicySkip:
		return PolicySkip, nil
	case PolicyAbort:
		return PolicyAbort, nil
	}
	return "", fmt.Errorf("unknown layer policy %q", s)
}

// LayerError ties a failure to the layer it came from.
type LayerError struct {
	Layer string
	Err   error
}

func (e *LayerError) Error() string { return e.Layer + ": " + e.Err.Error() }
func (e *LayerError) Unwrap() error { return e.Err }

type Result struct {
	Image   []byte
	Format  imagepkg.Format
	Width   int
	Height  int
	Skipped []*LayerError
}

// SkippedLayers returns the names of the layers left out of the card.
func (r *Result) SkippedLayers() []string {
	out := make([]string, len(r.Skipped))
	for i, s := range r.Skipped {
		out[i] = s.Layer
	}
	return out
}

// Renderer turns a layout plus holder fields into an encoded card.
type Renderer struct {
	Compositor *imagepkg.Compositor
	Policy     LayerPolicy
	// FetchTimeout bounds each image load. Zero means no limit beyond ctx.
	FetchTimeout time.Duration
}

func NewRenderer(c *imagepkg.Compositor, policy LayerPolicy, fetchTimeout time.Duration) *Renderer {
	if c == nil {
		c = imagepkg.New()
	}
	return &Renderer{Compositor: c, Policy: policy, FetchTimeout: fetchTimeout}
}

// plan is a layout with every template expanded.
type plan struct {
	background string
	profile    string
	qrSource   string
	qrText     string
	texts      []imagepkg.TextField
	aligns     []string
}

func (r *Renderer) expand(l Layout, fields map[string]string) (*plan, error) {
	p := &plan{}
	var err error
	if p.background, err = Expand(l.Background, fields); err != nil {
		return nil, fmt.Errorf("background: %w", err)
	}
	if l.Profile != nil {
		if p.profile, err = Expand(l.Profile.Source, fields); err != nil {
			return nil, fmt.Errorf("profile: %w", err)
		}
	}
	if l.QR != nil {
		if p.qrSource, err = Expand(l.QR.Source, fields); err != nil {
			return nil, fmt.Errorf("qr: %w", err)
		}
		if p.qrText, err = Expand(l.QR.Text, fields); err != nil {
			return nil, fmt.Errorf("qr: %w", err)
		}
	}
	for i, t := range l.Texts {
		content, err := Expand(t.Content, fields)
		if err != nil {
			return nil, fmt.Errorf("texts[%d]: %w", i, err)
		}
		var c color.Color = color.Black
		if t.Color != "" {
			c, _ = imagepkg.ParseHexColor(t.Color)
		}
		p.texts = append(p.texts, imagepkg.TextField{
			Content:    content,
			X:          t.X,
			Y:          t.Y,
			FontSize:   t.FontSize,
			FontFamily: t.FontFamily,
			Color:      c,
		})
		p.aligns = append(p.aligns, strings.ToLower(t.Align))
	}
	return p, nil
}

// Render composites one card. Image layers are fetched concurrently and
// drawn in layout order onto a surface owned by this call.
func (r *Renderer) Render(ctx context.Context, l Layout, fields map[string]string) (*Result, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	format, _ := imagepkg.ParseFormat(l.Format)
	p, err := r.expand(l, fields)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidLayout, err)
	}

	sources, skipped, err := r.fetch(ctx, l, p)
	if err != nil {
		return nil, err
	}

	var bg color.Color
	if l.BackgroundColor != "" {
		bg, _ = imagepkg.ParseHexColor(l.BackgroundColor)
	}
	s, err := r.Compositor.CreateSurface(l.Width, l.Height, bg)
	if err != nil {
		return nil, err
	}

	for _, layer := range l.order() {
		if err := r.draw(s, layer, l, p, sources); err != nil {
			return nil, &LayerError{Layer: layer, Err: err}
		}
	}

	out, err := s.Export(format, l.Quality)
	if err != nil {
		return nil, err
	}
	return &Result{Image: out, Format: format, Width: l.Width, Height: l.Height, Skipped: skipped}, nil
}

func (r *Renderer) fetch(ctx context.Context, l Layout, p *plan) (map[string]*imagepkg.ImageSource, []*LayerError, error) {
	refs := map[string]string{}
	if p.background != "" {
		refs[LayerBackground] = p.background
	}
	if l.Profile != nil && p.profile != "" {
		refs[LayerProfile] = p.profile
	}
	if l.QR != nil && p.qrSource != "" {
		refs[LayerQR] = p.qrSource
	}

	type loaded struct {
		src *imagepkg.ImageSource
		err error
	}
	results := make(map[string]*loaded, len(refs)+1)
	for layer := range refs {
		results[layer] = &loaded{}
	}

	g, gctx := errgroup.WithContext(ctx)
	for layer, ref := range refs {
		res := results[layer]
		g.Go(func() error {
			lctx, cancel := r.withTimeout(gctx)
			defer cancel()
			res.src, res.err = r.Compositor.Load(lctx, ref)
			if res.err != nil && r.Policy == PolicyAbort {
				return &LayerError{Layer: layer, Err: res.err}
			}
			return nil
		})
	}
	if l.QR != nil && p.qrSource == "" && p.qrText != "" {
		res := &loaded{}
		results[LayerQR] = res
		g.Go(func() error {
			res.src, res.err = imagepkg.GenerateQR(p.qrText, l.QR.Size)
			if res.err != nil && r.Policy == PolicyAbort {
				return &LayerError{Layer: LayerQR, Err: res.err}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	sources := make(map[string]*imagepkg.ImageSource, len(results))
	var skipped []*LayerError
	for _, layer := range DefaultOrder {
		res, ok := results[layer]
		if !ok {
			continue
		}
		if res.err != nil {
			skipped = append(skipped, &LayerError{Layer: layer, Err: res.err})
			continue
		}
		sources[layer] = res.src
	}
	return sources, skipped, nil
}

func (r *Renderer) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.FetchTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.FetchTimeout)
}

func (r *Renderer) draw(s *imagepkg.Surface, layer string, l Layout, p *plan, sources map[string]*imagepkg.ImageSource) error {
	switch layer {
	case LayerBackground:
		s.DrawBackground(sources[LayerBackground])
	case LayerProfile:
		if l.Profile != nil {
			return s.DrawProfileImage(sources[LayerProfile], l.Profile.Placement)
		}
	case LayerQR:
		if l.QR != nil {
			return s.DrawQRCode(sources[LayerQR], l.QR.X, l.QR.Y, l.QR.Size)
		}
	case LayerText:
		for i, f := range p.texts {
			if err := r.alignText(&f, p.aligns[i]); err != nil {
				return err
			}
			if err := s.DrawText(f); err != nil {
				return err
			}
		}
	default:
		return errors.New("unknown layer")
	}
	return nil
}

// alignText moves X so the text is centered on, or ends at, the original X.
func (r *Renderer) alignText(f *imagepkg.TextField, align string) error {
	if align == "" || align == "left" || f.Content == "" {
		return nil
	}
	w, err := r.Compositor.Fonts().MeasureText(*f)
	if err != nil {
		return err
	}
	switch align {
	case "center":
		f.X -= w / 2
	case "right":
		f.X -= w
	}
	return nil
}
