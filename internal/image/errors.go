package imagepkg

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDimension  = errors.New("invalid surface dimension")
	ErrInvalidPlacement  = errors.New("invalid placement")
	ErrInvalidText       = errors.New("invalid text field")
	ErrImageLoad         = errors.New("image load failed")
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrSourceTooLarge    = errors.New("source image too large")
)

// LoadError reports a failed image load. It matches ErrImageLoad with errors.Is.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load image %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

func (e *LoadError) Is(target error) bool { return target == ErrImageLoad }
