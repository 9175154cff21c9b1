package imagepkg

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/youruser/idcardapp/internal/util"
)

// ImageSource is decoded pixel data. It is never modified once loaded.
type ImageSource struct {
	img image.Image
}

// NewImageSource wraps an already decoded image. A nil img yields nil.
func NewImageSource(img image.Image) *ImageSource {
	if img == nil {
		return nil
	}
	return &ImageSource{img: img}
}

// Image returns the decoded pixels. Callers must not modify them.
func (s *ImageSource) Image() image.Image { return s.img }

// Width and Height report the source size in pixels.
func (s *ImageSource) Width() int  { return s.img.Bounds().Dx() }
func (s *ImageSource) Height() int { return s.img.Bounds().Dy() }

// MaxSourcePixels is the default bound on the pixel count of a decoded source.
const MaxSourcePixels = 6000 * 6000

// DecodeImageSource decodes any registered format (png, jpeg, gif, bmp, tiff, webp).
// Images above MaxSourcePixels fail with ErrSourceTooLarge.
func DecodeImageSource(b []byte) (*ImageSource, error) {
	return decodeLimited(b, MaxSourcePixels)
}

// decodeLimited checks the header dimensions before decoding any pixels.
func decodeLimited(b []byte, maxPixels int) (*ImageSource, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width > maxPixels/max(cfg.Height, 1) {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrSourceTooLarge, cfg.Width, cfg.Height, maxPixels)
	}
	img, err := imaging.Decode(bytes.NewReader(b), imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}
	return &ImageSource{img: img}, nil
}

// Loader resolves image references into ImageSources. A reference is an
// http(s) URL, a data URI, a raw base64 payload, or a local path when
// AllowFiles is set.
type Loader struct {
	Client     *http.Client
	AllowFiles bool
	// BaseDir resolves relative file references.
	BaseDir string
	// MaxPixels bounds decoded sources. Zero means MaxSourcePixels.
	MaxPixels int
}

// Load resolves ref. Failures are returned as *LoadError.
func (l *Loader) Load(ctx context.Context, ref string) (*ImageSource, error) {
	ref = strings.TrimSpace(ref)
	b, err := l.read(ctx, ref)
	if err != nil {
		return nil, &LoadError{Source: describeRef(ref), Err: err}
	}
	limit := l.MaxPixels
	if limit <= 0 {
		limit = MaxSourcePixels
	}
	src, err := decodeLimited(b, limit)
	if err != nil {
		return nil, &LoadError{Source: describeRef(ref), Err: err}
	}
	return src, nil
}

func (l *Loader) read(ctx context.Context, ref string) ([]byte, error) {
	switch {
	case ref == "":
		return nil, errors.New("empty reference")
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return util.GetBytes(ctx, l.Client, ref)
	case strings.HasPrefix(ref, "data:"):
		_, payload, ok := strings.Cut(ref, ";base64,")
		if !ok {
			return nil, errors.New("data URI is not base64 encoded")
		}
		return decodeBase64(payload)
	case strings.HasPrefix(ref, "file://"):
		return l.readFile(strings.TrimPrefix(ref, "file://"))
	}
	if l.AllowFiles && looksLikePath(ref) {
		return l.readFile(ref)
	}
	return decodeBase64(ref)
}

func (l *Loader) readFile(path string) ([]byte, error) {
	if !l.AllowFiles {
		return nil, errors.New("file sources are disabled")
	}
	if !filepath.IsAbs(path) && l.BaseDir != "" {
		path = filepath.Join(l.BaseDir, path)
	}
	return os.ReadFile(path)
}

func decodeBase64(s string) ([]byte, error) {
	s = strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', ' ', '\t':
			return -1
		}
		return r
	}, s)
	if b, err := base64.StdEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	return base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
}

func looksLikePath(ref string) bool {
	if strings.ContainsAny(ref, `/\`) && strings.Contains(ref, ".") {
		return true
	}
	switch strings.ToLower(filepath.Ext(ref)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp":
		return true
	}
	return false
}

// describeRef keeps errors readable when the reference is a large inline payload.
func describeRef(ref string) string {
	if strings.HasPrefix(ref, "data:") {
		mime, _, _ := strings.Cut(ref, ";")
		return mime
	}
	if len(ref) > 64 {
		return ref[:61] + "..."
	}
	return ref
}
