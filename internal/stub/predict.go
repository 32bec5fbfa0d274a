package stub

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"math"

	"golang.org/x/image/draw"
)

// HeatmapSize is the edge length of the square heatmap, matching the input
// resolution of common knee X-ray models.
const HeatmapSize = 224

// Prediction is the JSON body returned by POST /predict.
type Prediction struct {
	Class      string  `json:"class"`
	Confidence float64 `json:"confidence"`
	Gradcam    string  `json:"gradcam"`
}

// Predict derives a deterministic grade from the image's mean luminance and
// renders a grayscale heatmap of each pixel's deviation from that mean.
func Predict(img image.Image) (Prediction, error) {
	if img.Bounds().Empty() {
		return Prediction{}, fmt.Errorf("%w: empty bounds", ErrUnsupportedImage)
	}

	gray := image.NewGray(image.Rect(0, 0, HeatmapSize, HeatmapSize))
	draw.ApproxBiLinear.Scale(gray, gray.Bounds(), img, img.Bounds(), draw.Src, nil)

	mean, stddev := luminance(gray.Pix)

	heat := image.NewGray(gray.Bounds())
	for i, p := range gray.Pix {
		heat.Pix[i] = uint8(min(math.Abs(float64(p)-mean)*2, 255))
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, heat); err != nil {
		return Prediction{}, fmt.Errorf("encode heatmap: %w", err)
	}

	grade := min(int(mean)*5/256, 4)
	confidence := 0.5 + min(stddev/128, 1)*0.45

	return Prediction{
		Class:      fmt.Sprintf("KL-%d", grade),
		Confidence: math.Round(confidence*1e4) / 1e4,
		Gradcam:    base64.StdEncoding.EncodeToString(buf.Bytes()),
	}, nil
}

func luminance(pix []uint8) (mean, stddev float64) {
	var sum float64
	for _, p := range pix {
		sum += float64(p)
	}
	mean = sum / float64(len(pix))

	var sq float64
	for _, p := range pix {
		d := float64(p) - mean
		sq += d * d
	}
	return mean, math.Sqrt(sq / float64(len(pix)))
}
