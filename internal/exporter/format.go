package exporter

import (
	"math"
	"strconv"
)

// formatPrice formats a price for CSV output. Missing values are empty.
func formatPrice(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// formatRatio keeps full precision so ratios can be reproduced.
func formatRatio(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
