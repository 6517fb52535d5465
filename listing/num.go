package listing

import (
	"math"
	"strconv"
	"strings"
)

// parseNumber coerces the numeric shapes upstream pages serve (raw numbers,
// "1,714", " 6098 ") into a float. Thousands separators and spaces are
// stripped first; non-finite parses are discarded.
func parseNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	case int:
		return float64(n), true
	case string:
		s := strings.NewReplacer(",", "", " ", "").Replace(n)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}
