package metrics

import (
	"fmt"
	"strings"
)

// NoData marks a delta with no defined baseline.
const NoData = "—"

// FormatDelta renders the percentage change from baseline to candidate.
// A zero baseline yields the NoData sentinel instead of dividing.
func FormatDelta(baseline, candidate float64) string {
	if baseline == 0 {
		return NoData
	}
	pct := (candidate - baseline) / baseline * 100
	if pct > 0 {
		return fmt.Sprintf("+%.0f%%", pct)
	}
	return fmt.Sprintf("%.0f%%", pct)
}

var sparkRamp = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders a series as block characters scaled between the
// series' own min and max. A constant series renders the midpoint rune
// so zero variance does not read as zero signal.
func Sparkline(values []int64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if lo == hi {
		return strings.Repeat(string(sparkRamp[4]), len(values))
	}
	var builder strings.Builder
	for _, v := range values {
		idx := int(float64(v-lo) / float64(hi-lo) * 8)
		if idx > 8 {
			idx = 8
		}
		builder.WriteRune(sparkRamp[idx])
	}
	return builder.String()
}
