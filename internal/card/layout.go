package card

import (
	"errors"
	"fmt"
	"math"
	"strings"

	imagepkg "github.com/youruser/idcardapp/internal/image"
)

const (
	LayerBackground = "background"
	LayerProfile    = "profile"
	LayerQR         = "qr"
	LayerText       = "text"
)

// ErrInvalidLayout wraps every layout validation and templating failure.
var ErrInvalidLayout = errors.New("invalid layout")

// DefaultOrder is the usual back-to-front layering of a card.
var DefaultOrder = []string{LayerBackground, LayerProfile, LayerQR, LayerText}

// Layout describes a card template. Source, text and content strings are
// text/template templates evaluated against the holder's fields.
type Layout struct {
	Width           int           `yaml:"width" json:"width"`
	Height          int           `yaml:"height" json:"height"`
	BackgroundColor string        `yaml:"background_color,omitempty" json:"background_color,omitempty"`
	Background      string        `yaml:"background,omitempty" json:"background,omitempty"`
	Profile         *ProfileLayer `yaml:"profile,omitempty" json:"profile,omitempty"`
	QR              *QRLayer      `yaml:"qr,omitempty" json:"qr,omitempty"`
	Texts           []TextLayer   `yaml:"texts,omitempty" json:"texts,omitempty"`
	Order           []string      `yaml:"order,omitempty" json:"order,omitempty"`
	Format          string        `yaml:"format,omitempty" json:"format,omitempty"`
	Quality         float64       `yaml:"quality,omitempty" json:"quality,omitempty"`
}

type ProfileLayer struct {
	Source             string `yaml:"source" json:"source"`
	imagepkg.Placement `yaml:",inline"`
}

// QRLayer draws Source when set, otherwise a QR code generated from Text.
type QRLayer struct {
	Source string `yaml:"source,omitempty" json:"source,omitempty"`
	Text   string `yaml:"text,omitempty" json:"text,omitempty"`
	X      int    `yaml:"x" json:"x"`
	Y      int    `yaml:"y" json:"y"`
	Size   int    `yaml:"size" json:"size"`
}

type TextLayer struct {
	Content    string  `yaml:"content" json:"content"`
	X          float64 `yaml:"x" json:"x"`
	Y          float64 `yaml:"y" json:"y"`
	FontSize   float64 `yaml:"font_size" json:"font_size"`
	FontFamily string  `yaml:"font_family,omitempty" json:"font_family,omitempty"`
	Color      string  `yaml:"color,omitempty" json:"color,omitempty"`
	// Align is left (default), center or right relative to X.
	Align string `yaml:"align,omitempty" json:"align,omitempty"`
}

// Validate checks everything that does not depend on field values.
func (l Layout) Validate() error {
	if err := l.validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidLayout, err)
	}
	return nil
}

func (l Layout) validate() error {
	if err := imagepkg.CheckDimensions(l.Width, l.Height); err != nil {
		return err
	}
	if l.BackgroundColor != "" {
		if _, err := imagepkg.ParseHexColor(l.BackgroundColor); err != nil {
			return fmt.Errorf("background_color: %w", err)
		}
	}
	if l.Profile != nil {
		if err := l.Profile.Placement.Validate(); err != nil {
			return fmt.Errorf("profile: %w", err)
		}
	}
	if l.QR != nil && (l.QR.Size <= 0 || l.QR.Size > imagepkg.MaxDimension) {
		return fmt.Errorf("qr: %w: size %d must be in 1..%d", imagepkg.ErrInvalidPlacement, l.QR.Size, imagepkg.MaxDimension)
	}
	for i, t := range l.Texts {
		if !(t.FontSize > 0) || math.IsInf(t.FontSize, 0) {
			return fmt.Errorf("texts[%d]: %w: font size %v must be positive", i, imagepkg.ErrInvalidText, t.FontSize)
		}
		if t.Color != "" {
			if _, err := imagepkg.ParseHexColor(t.Color); err != nil {
				return fmt.Errorf("texts[%d]: %w", i, err)
			}
		}
		switch strings.ToLower(t.Align) {
		case "", "left", "center", "right":
		default:
			return fmt.Errorf("texts[%d]: unknown align %q", i, t.Align)
		}
	}
	for _, name := range l.Order {
		switch name {
		case LayerBackground, LayerProfile, LayerQR, LayerText:
		default:
			return fmt.Errorf("unknown layer %q in order", name)
		}
	}
	if _, err := imagepkg.ParseFormat(l.Format); err != nil {
		return err
	}
	return nil
}

func (l Layout) order() []string {
	if len(l.Order) == 0 {
		return DefaultOrder
	}
	return l.Order
}

// StandardLayout is the built-in 600x400 card.
func StandardLayout() Layout {
	return Layout{
		Width:           600,
		Height:          400,
		BackgroundColor: "#f4f6fb",
		Profile: &ProfileLayer{
			Source:    "{{.photo_url}}",
			Placement: imagepkg.Placement{X: 40, Y: 40, Width: 120, Height: 150},
		},
		QR: &QRLayer{Text: "{{or .qr_text .id_number}}", X: 480, Y: 300, Size: 80},
		Texts: []TextLayer{
			{Content: "{{.name}}", X: 200, Y: 80, FontSize: 30, FontFamily: "Go Bold", Color: "#1a1a2e"},
			{Content: "DOB: {{.date_of_birth}}", X: 200, Y: 120, FontSize: 18, Color: "#333333"},
			{Content: "{{.department}}", X: 200, Y: 150, FontSize: 18, Color: "#555555"},
			{Content: "ID: {{.id_number}}", X: 40, Y: 230, FontSize: 20, FontFamily: "Go Mono", Color: "#1a1a2e"},
		},
		Format:  string(imagepkg.FormatPNG),
		Quality: 1,
	}
}
