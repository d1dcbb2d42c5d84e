package corpus

import (
	"math"
	"strconv"
	"strings"
)

// formatFloat renders a manifest float: NaN as an empty cell, infinities
// as inf/-inf, and finite values as the shortest round-tripping decimal,
// switching to exponent form below 1e-4 or at 1e16 and above. Integral
// values keep a trailing ".0".
func formatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return ""
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	if v != 0 {
		sci := strconv.FormatFloat(v, 'e', -1, 64)
		exp, err := strconv.Atoi(sci[strings.LastIndexByte(sci, 'e')+1:])
		if err == nil && (exp < -4 || exp >= 16) {
			return sci
		}
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// parseFloat is the inverse of formatFloat.
func parseFloat(s string) (float64, error) {
	switch strings.TrimSpace(s) {
	case "":
		return math.NaN(), nil
	case "inf":
		return math.Inf(1), nil
	case "-inf":
		return math.Inf(-1), nil
	}
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
