package formatting

import (
	"math"
	"strconv"
)

// FormatPercent renders a [0,1] ratio as a percentage with the given number of
// decimals, e.g. 0.92 with precision 1 is "92.0%". Negative precision values
// are clamped to zero; NaN renders as "0%".
func FormatPercent(ratio float64, precision int) string {
	if precision < 0 {
		precision = 0
	}
	if math.IsNaN(ratio) {
		ratio = 0
	}
	return strconv.FormatFloat(ratio*100, 'f', precision, 64) + "%"
}
