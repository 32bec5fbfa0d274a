package history

import (
	"fmt"
	"time"

	"github.com/JaimeStill/oagrade/pkg/repository"
)

// TimeLayout is the ISO-8601 form used for created_at: UTC with millisecond
// precision. Fixed width keeps lexical order equal to chronological order.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

const recordColumns = `id, source_image_ref, predicted_grade, predicted_confidence,
	heatmap_image_ref, created_at, grade_confidences`

// FormatTime renders t in TimeLayout, truncated to milliseconds in UTC.
func FormatTime(t time.Time) string {
	return t.UTC().Truncate(time.Millisecond).Format(TimeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: created_at %q: %w", ErrCorruptRecord, s, err)
	}
	return t.UTC(), nil
}

func recordArgs(r Record) []any {
	return []any{
		r.ID,
		r.SourceImageRef,
		r.PredictedGrade,
		r.PredictedConfidence,
		r.HeatmapImageRef,
		FormatTime(r.CreatedAt),
		r.GradeConfidences.Encode(),
	}
}

func scanRecord(s repository.Scanner) (Record, error) {
	var (
		r           Record
		createdAt   string
		confidences string
	)

	err := s.Scan(
		&r.ID,
		&r.SourceImageRef,
		&r.PredictedGrade,
		&r.PredictedConfidence,
		&r.HeatmapImageRef,
		&createdAt,
		&confidences,
	)
	if err != nil {
		return r, err
	}

	if r.CreatedAt, err = parseTime(createdAt); err != nil {
		return r, err
	}

	if r.GradeConfidences, err = DecodeGradeConfidences(confidences); err != nil {
		return r, err
	}

	return r, nil
}
