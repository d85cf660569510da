package types

import (
	"math"
	"strconv"
	"strings"
)

// FormatNumber renders a value the way lookup steps and error messages show
// it: "-" for non-finite values, five-digit exponent notation for very small
// or very large magnitudes, and otherwise up to six decimals with trailing
// zeros removed.
func FormatNumber(v float64) string {
	if !IsFinite(v) {
		return "-"
	}
	abs := math.Abs(v)
	if (abs != 0 && abs < 1e-3) || abs >= 1e5 {
		s := strconv.FormatFloat(v, 'e', 5, 64)
		mant, exp, _ := strings.Cut(s, "e")
		sign := exp[:1]
		digits := strings.TrimLeft(exp[1:], "0")
		if digits == "" {
			digits = "0"
		}
		return mant + "e" + sign + digits
	}
	s := strconv.FormatFloat(v, 'f', 6, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}

// FirstFinite returns the first finite value and true, or 0 and false when
// none of the values is finite.
func FirstFinite(values ...float64) (float64, bool) {
	for _, v := range values {
		if IsFinite(v) {
			return v, true
		}
	}
	return 0, false
}

// SafeRatio divides num by den, returning NaN when either operand is
// non-finite or the denominator is effectively zero.
func SafeRatio(num, den float64) float64 {
	if !IsFinite(num) || !IsFinite(den) || math.Abs(den) < 1e-12 {
		return math.NaN()
	}
	return num / den
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
