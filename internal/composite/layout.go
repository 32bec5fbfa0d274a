package composite

import (
	"fmt"
	"image"
	"time"

	"golang.org/x/image/font/basicfont"

	"github.com/JaimeStill/oagrade/pkg/formatting"
)

// Unscaled text metrics, multiplied by the font scale.
const (
	lineCount   = 3
	lineSpacing = 5
	bandPadding = 6
)

// DateLayout formats the annotation timestamp.
const DateLayout = "2006-01-02 15:04"

// Annotation is the text drawn into the band.
type Annotation struct {
	Grade      int
	Confidence float64
	CreatedAt  time.Time
}

// Lines returns the three band lines: grade, confidence to one decimal, and
// the date in local time.
func (a Annotation) Lines() [lineCount]string {
	return [lineCount]string{
		fmt.Sprintf("KL Grade: %d", a.Grade),
		"Confidence: " + formatting.FormatPercent(a.Confidence, 1),
		"Date: " + a.CreatedAt.Local().Format(DateLayout),
	}
}

// Layout is the placement of every composite region. It depends only on the
// original's dimensions and the font scale.
type Layout struct {
	Canvas     image.Rectangle
	Original   image.Rectangle
	Heatmap    image.Rectangle
	Band       image.Rectangle
	Lines      [lineCount]image.Point
	LineHeight int
	GlyphWidth int
}

// BandHeight returns the text band height for scale.
func BandHeight(scale int) int {
	lineHeight := basicfont.Face7x13.Height * scale
	return 2*bandPadding*scale + lineCount*lineHeight + (lineCount-1)*lineSpacing*scale
}

// ComputeLayout places the original at the top, the heatmap directly beneath
// at the same size, and the text band at the bottom.
func ComputeLayout(width, height, scale int) Layout {
	band := BandHeight(scale)
	lineHeight := basicfont.Face7x13.Height * scale

	l := Layout{
		Canvas:     image.Rect(0, 0, width, 2*height+band),
		Original:   image.Rect(0, 0, width, height),
		Heatmap:    image.Rect(0, height, width, 2*height),
		Band:       image.Rect(0, 2*height, width, 2*height+band),
		LineHeight: lineHeight,
		GlyphWidth: basicfont.Face7x13.Advance * scale,
	}

	x := bandPadding * scale
	y := l.Band.Min.Y + bandPadding*scale
	for i := range l.Lines {
		l.Lines[i] = image.Pt(x, y)
		y += lineHeight + lineSpacing*scale
	}

	return l
}
