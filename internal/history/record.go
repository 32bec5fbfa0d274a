// Package history implements the local classification history store.
// It persists completed classification records in SQLite, keyed by id,
// and returns them newest first.
package history

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Grades enumerates the Kellgren-Lawrence grades in ascending order.
var Grades = [...]int{0, 1, 2, 3, 4}

// Grade bounds.
const (
	MinGrade = 0
	MaxGrade = 4
)

const (
	pairSeparator  = ","
	valueSeparator = ":"
)

// ValidGrade reports whether g is a KL grade.
func ValidGrade(g int) bool {
	return g >= MinGrade && g <= MaxGrade
}

// GradeConfidences maps KL grade to confidence in [0,1]. Values are not
// normalized and absent grades read as zero.
type GradeConfidences map[int]float64

// Get returns the confidence for grade, or 0 when it is absent.
func (gc GradeConfidences) Get(grade int) float64 {
	return gc[grade]
}

// Equal reports whether both distributions agree on every grade, treating
// absent grades as zero.
func (gc GradeConfidences) Equal(other GradeConfidences) bool {
	for _, g := range Grades {
		if gc.Get(g) != other.Get(g) {
			return false
		}
	}
	return true
}

// Encode serializes the distribution as "grade:value" pairs joined by commas,
// covering all five grades in order. Values use the shortest representation
// that parses back to the identical float64.
func (gc GradeConfidences) Encode() string {
	pairs := make([]string, 0, len(Grades))
	for _, g := range Grades {
		pairs = append(pairs, strconv.Itoa(g)+valueSeparator+strconv.FormatFloat(gc.Get(g), 'g', -1, 64))
	}
	return strings.Join(pairs, pairSeparator)
}

// DecodeGradeConfidences parses the Encode format. Every grade is present in
// the result; grades missing from s default to zero.
func DecodeGradeConfidences(s string) (GradeConfidences, error) {
	gc := make(GradeConfidences, len(Grades))
	for _, g := range Grades {
		gc[g] = 0
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return gc, nil
	}

	seen := make(map[int]bool, len(Grades))
	for pair := range strings.SplitSeq(s, pairSeparator) {
		key, value, ok := strings.Cut(strings.TrimSpace(pair), valueSeparator)
		if !ok {
			return nil, fmt.Errorf("%w: malformed pair %q", ErrCorruptRecord, pair)
		}

		grade, err := strconv.Atoi(key)
		if err != nil || !ValidGrade(grade) {
			return nil, fmt.Errorf("%w: invalid grade %q", ErrCorruptRecord, key)
		}
		if seen[grade] {
			return nil, fmt.Errorf("%w: duplicate grade %d", ErrCorruptRecord, grade)
		}
		seen[grade] = true

		conf, err := strconv.ParseFloat(value, 64)
		if err != nil || math.IsNaN(conf) || math.IsInf(conf, 0) {
			return nil, fmt.Errorf("%w: invalid confidence %q", ErrCorruptRecord, value)
		}

		gc[grade] = conf
	}

	return gc, nil
}

// Record is one completed classification. Records are never mutated once
// stored; they are replaced wholesale by id or deleted.
type Record struct {
	ID                  string           `json:"id"`
	SourceImageRef      string           `json:"source_image_ref"`
	PredictedGrade      int              `json:"predicted_grade"`
	PredictedConfidence float64          `json:"predicted_confidence"`
	HeatmapImageRef     string           `json:"heatmap_image_ref"`
	CreatedAt           time.Time        `json:"created_at"`
	GradeConfidences    GradeConfidences `json:"grade_confidences"`
}

// NewRecord builds a record whose predicted confidence is taken from the
// distribution entry for grade, or 0 when that entry is absent.
func NewRecord(
	id string,
	sourceImageRef string,
	grade int,
	heatmapImageRef string,
	createdAt time.Time,
	confidences GradeConfidences,
) Record {
	return Record{
		ID:                  id,
		SourceImageRef:      sourceImageRef,
		PredictedGrade:      grade,
		PredictedConfidence: confidences.Get(grade),
		HeatmapImageRef:     heatmapImageRef,
		CreatedAt:           createdAt,
		GradeConfidences:    maps.Clone(confidences),
	}
}

// Validate checks the record invariants enforced before persistence.
func (r Record) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return ErrMissingID
	}
	if !ValidGrade(r.PredictedGrade) {
		return fmt.Errorf("%w: %d", ErrInvalidGrade, r.PredictedGrade)
	}
	if r.PredictedConfidence < 0 || r.PredictedConfidence > 1 || math.IsNaN(r.PredictedConfidence) {
		return fmt.Errorf("%w: predicted confidence %v", ErrInvalidConfidence, r.PredictedConfidence)
	}
	if r.PredictedConfidence != r.GradeConfidences.Get(r.PredictedGrade) {
		return fmt.Errorf(
			"%w: predicted confidence %v disagrees with grade %d entry %v",
			ErrInvalidConfidence, r.PredictedConfidence, r.PredictedGrade, r.GradeConfidences.Get(r.PredictedGrade),
		)
	}
	for _, g := range slices.Sorted(maps.Keys(r.GradeConfidences)) {
		if !ValidGrade(g) {
			return fmt.Errorf("%w: %d", ErrInvalidGrade, g)
		}
		if c := r.GradeConfidences[g]; c < 0 || c > 1 || math.IsNaN(c) {
			return fmt.Errorf("%w: grade %d confidence %v", ErrInvalidConfidence, g, c)
		}
	}
	if r.CreatedAt.IsZero() {
		return fmt.Errorf("%w: created_at required", ErrInvalidRecord)
	}
	return nil
}
