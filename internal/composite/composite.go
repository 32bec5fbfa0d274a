// Package composite renders the shareable classification artifact: the
// original image, its heatmap scaled beneath it, and a text band, encoded
// as a single JPEG.
package composite

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	_ "image/png"
	"log/slog"
	"strconv"
	"time"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"
)

// maxDimension is the largest side the JPEG encoder accepts.
const maxDimension = 1<<16 - 1

var (
	bandColor = color.RGBA{R: 0x1e, G: 0x1e, B: 0x1e, A: 0xff}
	textColor = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// System renders composites.
type System interface {
	// Generate decodes both inputs and returns the encoded composite. No
	// partial output is returned on failure.
	Generate(ctx context.Context, original, heatmap []byte, ann Annotation) ([]byte, error)
}

type generator struct {
	quality int
	scale   int
	logger  *slog.Logger
}

// New creates a composite generator from a finalized config.
func New(cfg *Config, logger *slog.Logger) System {
	return &generator{
		quality: cfg.Quality,
		scale:   cfg.FontScale,
		logger:  logger.With("system", "composite"),
	}
}

// Filename returns the artifact name for a composite created at t.
func Filename(t time.Time) string {
	return "knee_analysis_" + strconv.FormatInt(t.UnixMilli(), 10) + ".jpg"
}

func (g *generator) Generate(ctx context.Context, original, heatmap []byte, ann Annotation) ([]byte, error) {
	var orig, heat image.Image

	eg, _ := errgroup.WithContext(ctx)
	eg.Go(func() (err error) {
		orig, err = decode("original", original)
		return err
	})
	eg.Go(func() (err error) {
		heat, err = decode("heatmap", heatmap)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	size := orig.Bounds().Size()
	layout := ComputeLayout(size.X, size.Y, g.scale)

	canvasSize := layout.Canvas.Size()
	if canvasSize.X > maxDimension || canvasSize.Y > maxDimension {
		return nil, fmt.Errorf("%w: canvas %dx%d exceeds %d", ErrEncodeFailed, canvasSize.X, canvasSize.Y, maxDimension)
	}

	canvas := image.NewRGBA(layout.Canvas)
	draw.Draw(canvas, layout.Original, orig, orig.Bounds().Min, draw.Src)
	draw.BiLinear.Scale(canvas, layout.Heatmap, heat, heat.Bounds(), draw.Src, nil)
	draw.Draw(canvas, layout.Band, image.NewUniform(bandColor), image.Point{}, draw.Src)

	for i, line := range ann.Lines() {
		g.drawLine(canvas, layout.Lines[i], line)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, canvas, &jpeg.Options{Quality: g.quality}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodeFailed, err)
	}

	g.logger.Info("composite generated",
		"width", canvasSize.X,
		"height", canvasSize.Y,
		"bytes", buf.Len(),
	)
	return buf.Bytes(), nil
}

// drawLine renders text at native glyph size and scales it into place so
// the fixed bitmap face stays legible on large images.
func (g *generator) drawLine(dst draw.Image, at image.Point, text string) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil()
	if width == 0 {
		return
	}

	glyphs := image.NewRGBA(image.Rect(0, 0, width, face.Height))
	d := font.Drawer{
		Dst:  glyphs,
		Src:  image.NewUniform(textColor),
		Face: face,
		Dot:  fixed.P(0, face.Ascent),
	}
	d.DrawString(text)

	target := image.Rect(at.X, at.Y, at.X+width*g.scale, at.Y+face.Height*g.scale)
	draw.NearestNeighbor.Scale(dst, target, glyphs, glyphs.Bounds(), draw.Over, nil)
}

func decode(name string, data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrDecodeFailed, name)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecodeFailed, name, err)
	}

	if b := img.Bounds(); b.Empty() {
		return nil, fmt.Errorf("%w: %s %s image has no pixels", ErrDecodeFailed, name, format)
	}

	return img, nil
}
