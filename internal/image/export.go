package imagepkg

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/disintegration/imaging"
)

// Format is an output raster format.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatGIF  Format = "gif"
	FormatTIFF Format = "tiff"
	FormatBMP  Format = "bmp"
)

var formats = map[Format]struct {
	enc  imaging.Format
	mime string
	ext  string
}{
	FormatPNG:  {imaging.PNG, "image/png", ".png"},
	FormatJPEG: {imaging.JPEG, "image/jpeg", ".jpg"},
	FormatGIF:  {imaging.GIF, "image/gif", ".gif"},
	FormatTIFF: {imaging.TIFF, "image/tiff", ".tif"},
	FormatBMP:  {imaging.BMP, "image/bmp", ".bmp"},
}

// ParseFormat accepts a format name or file extension ("jpg", ".png", "image/png").
// The empty string means PNG.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "image/")
	if s == "" {
		return FormatPNG, nil
	}
	f, err := imaging.FormatFromExtension(s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
	for name, def := range formats {
		if def.enc == f {
			return name, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

func (f Format) MIMEType() string { return formats[f].mime }
func (f Format) Extension() string { return formats[f].ext }

// JPEGQuality maps a 0..1 quality to the 1..100 JPEG scale. Values outside
// (0, 1] mean full quality.
func JPEGQuality(q float64) int {
	if q <= 0 || q > 1 || math.IsNaN(q) {
		q = 1
	}
	return max(1, int(math.Round(q*100)))
}

// Export encodes the current surface. Quality only affects lossy formats.
func (s *Surface) Export(format Format, quality float64) ([]byte, error) {
	if format == "" {
		format = FormatPNG
	}
	def, ok := formats[format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, s.img, def.enc, imaging.JPEGQuality(JPEGQuality(quality))); err != nil {
		return nil, fmt.Errorf("encode %s: %w", format, err)
	}
	return buf.Bytes(), nil
}
