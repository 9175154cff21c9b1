package imagepkg

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// CoverRect returns where an srcW x srcH image lands on a dstW x dstH
// surface when scaled uniformly by max(dstW/srcW, dstH/srcH) and centered.
// The rectangle always covers the whole surface and may overflow it.
func CoverRect(srcW, srcH, dstW, dstH int) image.Rectangle {
	scale := math.Max(float64(dstW)/float64(srcW), float64(dstH)/float64(srcH))
	w := int(math.Ceil(float64(srcW)*scale - 1e-9))
	h := int(math.Ceil(float64(srcH)*scale - 1e-9))
	x := (dstW - w) / 2
	y := (dstH - h) / 2
	return image.Rect(x, y, x+w, y+h)
}

// CenterSquare returns the largest square centered in r.
func CenterSquare(r image.Rectangle) image.Rectangle {
	side := min(r.Dx(), r.Dy())
	x := r.Min.X + (r.Dx()-side)/2
	y := r.Min.Y + (r.Dy()-side)/2
	return image.Rect(x, y, x+side, y+side)
}

// DrawBackground cover-scales src over the whole surface, replacing every
// pixel. A nil src is a no-op.
func (s *Surface) DrawBackground(src *ImageSource) {
	if src == nil {
		return
	}
	dst := CoverRect(src.Width(), src.Height(), s.Width(), s.Height())
	scaled := imaging.Resize(src.Image(), dst.Dx(), dst.Dy(), s.filter)
	s.img = imaging.Paste(s.img, scaled, dst.Min)
}

// DrawProfileImage resamples src to exactly p's size, feathers its edges
// and composites it at p's origin. A nil src is a no-op.
func (s *Surface) DrawProfileImage(src *ImageSource, p Placement) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if src == nil {
		return nil
	}
	photo := imaging.Resize(src.Image(), p.Width, p.Height, s.filter)
	Feather(photo, FeatherWidth)
	s.img = imaging.Overlay(s.img, photo, image.Pt(p.X, p.Y), 1.0)
	return nil
}

// DrawQRCode draws the centered square of src scaled to size x size at (x, y).
// A nil src is a no-op.
func (s *Surface) DrawQRCode(src *ImageSource, x, y, size int) error {
	if size <= 0 || size > MaxDimension {
		return fmt.Errorf("%w: qr size %d must be in 1..%d", ErrInvalidPlacement, size, MaxDimension)
	}
	if src == nil {
		return nil
	}
	crop := imaging.Crop(src.Image(), CenterSquare(src.Image().Bounds()))
	qr := imaging.Resize(crop, size, size, imaging.NearestNeighbor)
	s.img = imaging.Overlay(s.img, qr, image.Pt(x, y), 1.0)
	return nil
}
