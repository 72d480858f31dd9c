package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// maxExponent bounds the scale of parsed values. Adding a decimal rescales to
// the smaller exponent, so an input like 1e-400000000 would stall every sum.
const maxExponent = 20

// Parse reads a monetary value from free text. Surrounding whitespace and
// thousands separators are ignored. ok is false when the text is not a number.
func Parse(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}
	s = strings.ReplaceAll(s, ",", "")
	d, err := decimal.NewFromString(s)
	if err != nil || !InRange(d) {
		return decimal.Zero, false
	}
	return d, true
}

// InRange reports whether d's exponent is small enough for arithmetic.
func InRange(d decimal.Decimal) bool {
	exp := d.Exponent()
	return exp >= -maxExponent && exp <= maxExponent
}

// Coerce converts loosely typed JSON values to a decimal. Anything that is not
// a number or a numeric string becomes zero.
func Coerce(v any) decimal.Decimal {
	switch x := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return x
	case float64:
		return decimal.NewFromFloat(x)
	case float32:
		return decimal.NewFromFloat32(x)
	case int:
		return decimal.NewFromInt(int64(x))
	case int64:
		return decimal.NewFromInt(x)
	case string:
		d, _ := Parse(x)
		return d
	default:
		return decimal.Zero
	}
}

// Sum adds the given amounts.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// Round rounds to two decimal places for display. Report math never rounds.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// WithinTolerance reports whether a and b differ by at most tol.
func WithinTolerance(a, b, tol decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(tol)
}
