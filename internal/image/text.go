package imagepkg

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// TextField is one line of text. (X, Y) is the left end of the alphabetic baseline.
type TextField struct {
	Content    string
	X, Y       float64
	FontSize   float64
	FontFamily string
	Color      color.Color
}

func (f TextField) validate() error {
	if f.FontSize <= 0 || math.IsNaN(f.FontSize) || math.IsInf(f.FontSize, 0) {
		return fmt.Errorf("%w: font size %v must be positive", ErrInvalidText, f.FontSize)
	}
	return nil
}

// DrawText fills f.Content with a flat color. No shadow or outline is drawn.
func (s *Surface) DrawText(f TextField) error {
	if err := f.validate(); err != nil {
		return err
	}
	if f.Content == "" {
		return nil
	}
	face, err := s.fonts.face(f)
	if err != nil {
		return err
	}
	defer face.Close()

	c := f.Color
	if c == nil {
		c = color.Black
	}
	d := &font.Drawer{
		Dst:  s.img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.Point26_6{X: toFixed(f.X), Y: toFixed(f.Y)},
	}
	d.DrawString(f.Content)
	return nil
}

// MeasureText returns the advance width of f.Content in pixels.
func (r *FontRegistry) MeasureText(f TextField) (float64, error) {
	if err := f.validate(); err != nil {
		return 0, err
	}
	face, err := r.face(f)
	if err != nil {
		return 0, err
	}
	defer face.Close()
	adv := font.MeasureString(face, f.Content)
	return float64(adv) / 64, nil
}

// face creates a fresh face per call; opentype faces are not safe for concurrent use.
func (r *FontRegistry) face(f TextField) (font.Face, error) {
	face, err := opentype.NewFace(r.Lookup(f.FontFamily), &opentype.FaceOptions{
		Size:    f.FontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create font face: %w", err)
	}
	return face, nil
}

func toFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}
