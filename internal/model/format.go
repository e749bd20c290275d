package model

import (
	"math"
	"strconv"
	"strings"
)

// FormatDouble prints a float the way reports have always shown them,
// e.g. 3 -> "3.0", 33.333333333333336 -> "33.333333333333336".
func FormatDouble(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-3 || abs >= 1e7) {
		s := strconv.FormatFloat(f, 'E', -1, 64)
		mantissa, exp := s, ""
		if i := strings.IndexByte(s, 'E'); i >= 0 {
			mantissa, exp = s[:i], s[i+1:]
		}
		if !strings.Contains(mantissa, ".") {
			mantissa += ".0"
		}
		if e, err := strconv.Atoi(exp); err == nil {
			exp = strconv.Itoa(e)
		}
		return mantissa + "E" + exp
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// FormatLabel prints a numeric value as a nominal label, e.g. 1 -> "1", 2.5 -> "2.5".
func FormatLabel(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
