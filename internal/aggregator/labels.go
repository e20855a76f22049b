package aggregator

import "fmt"

// LabelThreshold is the share, in percent, a slice must exceed to get a label.
const LabelThreshold = 3.0

// ShowPercentLabel reports whether a share of p percent gets a visible label.
func ShowPercentLabel(p float64) bool {
	return p > LabelThreshold
}

// PercentLabel formats p as "12.3%", or "" when the label is suppressed.
// The underlying value is unaffected either way.
func PercentLabel(p float64) string {
	if !ShowPercentLabel(p) {
		return ""
	}
	return fmt.Sprintf("%.1f%%", p)
}

// ShareLabels computes the label of every entry of values under mask.
// Hidden entries get no label.
func ShareLabels(values []float64, mask []bool) []string {
	labels := make([]string, len(values))
	for i := range values {
		if i < len(mask) && !mask[i] {
			continue
		}
		labels[i] = PercentLabel(VisibleSharePercent(values, mask, i))
	}
	return labels
}
