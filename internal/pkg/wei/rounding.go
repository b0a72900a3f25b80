package wei

import (
	"strings"

	"github.com/shopspring/decimal"
)

// roundHalfDown rounds d to places fractional digits. Exact ties go toward
// negative infinity: 2.5 -> 2, -2.5 -> -3.
func roundHalfDown(d decimal.Decimal, places int32) decimal.Decimal {
	half := decimal.New(5, -(places + 1))
	return d.Sub(half).RoundCeil(places)
}

// roundHalfUp rounds d to places fractional digits with ties away from zero.
func roundHalfUp(d decimal.Decimal, places int32) decimal.Decimal {
	return d.Round(places)
}

// trimFraction drops trailing zero digits after the decimal point, and the
// point itself when nothing is left.
func trimFraction(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
