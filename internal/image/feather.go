package imagepkg

import "image"

// FeatherWidth is the fade distance, in pixels, applied to profile photos.
const FeatherWidth = 10

// Feather fades alpha towards every edge of img. A pixel whose distance to
// the nearest edge, min(px, py, w-1-px, h-1-py), is below width keeps
// distance/width of its alpha.
func Feather(img *image.NRGBA, width int) {
	if width <= 0 {
		return
	}
	w, h := img.Rect.Dx(), img.Rect.Dy()
	for py := 0; py < h; py++ {
		row := img.Pix[py*img.Stride:]
		for px := 0; px < w; px++ {
			d := min(px, py, w-1-px, h-1-py)
			if d >= width {
				continue
			}
			i := px*4 + 3
			row[i] = uint8(int(row[i]) * d / width)
		}
	}
}
