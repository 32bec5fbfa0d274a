package classifier

import (
	"encoding/base64"
	"fmt"
	"math"
	"strings"

	"github.com/JaimeStill/oagrade/internal/history"
	"github.com/JaimeStill/oagrade/pkg/formatting"
)

// Result is the normalized outcome of one classify call. It is transient:
// the orchestrator converts it into a history.Record.
type Result struct {
	Label            string
	Grade            int
	Confidence       float64
	Heatmap          []byte
	GradeConfidences history.GradeConfidences
}

// payload is the endpoint's success body. Pointer fields distinguish missing
// keys from zero values.
type payload struct {
	Class      *string  `json:"class"`
	Confidence *float64 `json:"confidence"`
	Gradcam    *string  `json:"gradcam"`
}

func parseResult(body []byte) (*Result, error) {
	p, err := formatting.Parse[payload](body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	switch {
	case p.Class == nil:
		return nil, fmt.Errorf("%w: missing class", ErrMalformed)
	case p.Confidence == nil:
		return nil, fmt.Errorf("%w: missing confidence", ErrMalformed)
	case p.Gradcam == nil:
		return nil, fmt.Errorf("%w: missing gradcam", ErrMalformed)
	}

	conf := *p.Confidence
	if math.IsNaN(conf) || conf < 0 || conf > 1 {
		return nil, fmt.Errorf("%w: confidence %v outside [0,1]", ErrMalformed, conf)
	}

	heatmap, err := decodeHeatmap(*p.Gradcam)
	if err != nil {
		return nil, err
	}

	grade := ParseGrade(*p.Class)

	return &Result{
		Label:            *p.Class,
		Grade:            grade,
		Confidence:       conf,
		Heatmap:          heatmap,
		GradeConfidences: Distribution(grade, conf),
	}, nil
}

// decodeHeatmap accepts standard base64 with or without padding, optionally
// carrying a data URI prefix.
func decodeHeatmap(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "data:") {
		if _, data, ok := strings.Cut(s, ";base64,"); ok {
			s = data
		}
	}

	if s == "" {
		return nil, fmt.Errorf("%w: empty gradcam", ErrMalformed)
	}

	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		var rawErr error
		if data, rawErr = base64.RawStdEncoding.DecodeString(s); rawErr != nil {
			return nil, fmt.Errorf("%w: gradcam is not base64: %w", ErrMalformed, err)
		}
	}

	return data, nil
}
