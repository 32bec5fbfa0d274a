package classifier

import (
	"strconv"
	"strings"

	"github.com/JaimeStill/oagrade/internal/history"
)

const labelSeparator = "-"

// ParseGrade extracts the KL grade from a label such as "KL-4". The grade is
// the integer after the last separator, or the whole label when there is no
// separator. Labels that do not yield a grade in range fall back to 0.
func ParseGrade(label string) int {
	suffix := strings.TrimSpace(label)
	if i := strings.LastIndex(suffix, labelSeparator); i >= 0 {
		suffix = suffix[i+len(labelSeparator):]
	}

	grade, err := strconv.Atoi(strings.TrimSpace(suffix))
	if err != nil || !history.ValidGrade(grade) {
		return 0
	}
	return grade
}

// Distribution spreads a single confidence over the five grades: the
// predicted grade carries confidence and every other grade is zero.
func Distribution(grade int, confidence float64) history.GradeConfidences {
	gc := make(history.GradeConfidences, len(history.Grades))
	for _, g := range history.Grades {
		gc[g] = 0
	}
	gc[grade] = confidence
	return gc
}
