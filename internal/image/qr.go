package imagepkg

import (
	"errors"

	qrcode "github.com/skip2/go-qrcode"
)

// MaxQRSize bounds generated QR images.
const MaxQRSize = 4096

var errEmptyQRText = errors.New("qr text is empty")

// GenerateQRPNG returns PNG bytes of a QR code for the given text.
func GenerateQRPNG(text string, size int) ([]byte, error) {
	if text == "" {
		return nil, errEmptyQRText
	}
	return qrcode.Encode(text, qrcode.Medium, clampQRSize(size))
}

// GenerateQR returns a QR code for text as an ImageSource ready for DrawQRCode.
func GenerateQR(text string, size int) (*ImageSource, error) {
	if text == "" {
		return nil, errEmptyQRText
	}
	q, err := qrcode.New(text, qrcode.Medium)
	if err != nil {
		return nil, err
	}
	return NewImageSource(q.Image(clampQRSize(size))), nil
}

func clampQRSize(size int) int {
	switch {
	case size <= 0:
		return 256
	case size > MaxQRSize:
		return MaxQRSize
	}
	return size
}
