package stub

import "errors"

var (
	ErrMissingFile      = errors.New("missing image file")
	ErrUnsupportedImage = errors.New("unsupported image")
	ErrTooLarge         = errors.New("image too large")
)
