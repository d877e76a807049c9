package dataset

import (
	"math"
	"strconv"
	"strings"
)

// ParseNumeric reports whether a raw cell holds a usable number, tolerating
// surrounding whitespace, thousands separators, and a dollar sign. The
// statistical checks treat anything else as non-numeric rather than erroring.
func ParseNumeric(raw string) (float64, bool) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return 0, false
	}
	v = strings.ReplaceAll(v, "$", "")
	v = strings.ReplaceAll(v, ",", "")
	if v == "" {
		return 0, false
	}

	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// FormatNumeric renders a float the way it would appear in a cell, with no
// trailing zeros.
func FormatNumeric(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
