// Package acquire provides image sources for the classification workflow.
package acquire

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
)

// Supported formats, as reported by image.DecodeConfig.
const (
	FormatJPEG = "jpeg"
	FormatPNG  = "png"
)

// Image is an acquired image and the reference it was read from.
type Image struct {
	Ref    string
	Data   []byte
	Format string
	Width  int
	Height int
}

// Source is the acquisition collaborator. Both operations return a nil image
// and nil error when the user cancels.
type Source interface {
	CaptureImage(ctx context.Context) (*Image, error)
	SelectImage(ctx context.Context) (*Image, error)
}

// Validate sniffs data and returns an Image when it is a decodable JPEG or
// PNG. Anything else fails with ErrInvalidFormat.
func Validate(ref string, data []byte) (*Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrInvalidFormat, ref)
	}

	switch ct := http.DetectContentType(data); ct {
	case "image/jpeg", "image/png":
	default:
		return nil, fmt.Errorf("%w: %s has content type %s", ErrInvalidFormat, ref, ct)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidFormat, ref, err)
	}
	if format != FormatJPEG && format != FormatPNG {
		return nil, fmt.Errorf("%w: %s is %s", ErrInvalidFormat, ref, format)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return nil, fmt.Errorf("%w: %s has no pixels", ErrInvalidFormat, ref)
	}

	return &Image{
		Ref:    ref,
		Data:   data,
		Format: format,
		Width:  cfg.Width,
		Height: cfg.Height,
	}, nil
}
