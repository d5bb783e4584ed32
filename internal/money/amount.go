package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Amounts are carried as decimals scaled to InternalPrecision while a
// computation is in flight and rescaled to OutputPrecision exactly once, at
// the end. Integer (minor unit) representations are derived, never stored as
// floats.
const (
	InternalPrecision int32 = 12
	OutputPrecision   int32 = 2
)

// DefaultCurrency is applied when a price carries no currency of its own.
const DefaultCurrency = "EUR"

// FromDecimalString parses a money amount from its decimal-string form.
//
// The parser is tolerant of thousands separators in either the dot or the
// comma convention: the right-most occurrence of "." or "," is taken as the
// decimal point and every other separator is dropped, so "1.234,56" and
// "1,234.56" both parse to 1234.56. Empty input parses to zero. The boolean
// reports whether the input was well formed; malformed input yields zero so
// the caller can log and continue.
func FromDecimalString(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, true
	}

	d, err := decimal.NewFromString(normalizeSeparators(s))
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func normalizeSeparators(s string) string {
	lastDot := strings.LastIndexByte(s, '.')
	lastComma := strings.LastIndexByte(s, ',')
	if lastDot < 0 && lastComma < 0 {
		return s
	}

	// The right-most separator wins as the decimal point.
	point := lastDot
	if lastComma > lastDot {
		point = lastComma
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '.' || c == ',' {
			if i == point {
				b.WriteByte('.')
			}
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// ToMinorUnits converts a decimal amount to an integer scaled to the given
// precision, rounding half away from zero on the discarded digits.
func ToMinorUnits(d decimal.Decimal, precision int32) int64 {
	return d.Shift(precision).Round(0).IntPart()
}

// FromMinorUnits is the inverse of ToMinorUnits.
func FromMinorUnits(units int64, precision int32) decimal.Decimal {
	return decimal.New(units, -precision)
}

// RescaleMinorUnits converts an integer amount between precision levels using
// round-half-up on the discarded digits.
func RescaleMinorUnits(units int64, from, to int32) int64 {
	return ToMinorUnits(FromMinorUnits(units, from), to)
}

// FormatDecimal renders an amount as a fixed-point decimal string at the
// given precision, the companion representation for every emitted integer.
func FormatDecimal(d decimal.Decimal, precision int32) string {
	return d.StringFixed(precision)
}
