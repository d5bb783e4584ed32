// Package tax resolves a numeric tax rate out of the descriptors attached to
// catalog prices. Descriptors are lenient by design: the rate may be a JSON
// number, a numeric string with stray whitespace, absent, or (legacy data)
// wrapped in an array. Anything unresolvable means nontaxable.
package tax

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"github.com/smallbiznis/pricekit/internal/pricing/domain"
)

var oneHundred = decimal.NewFromInt(100)

// Rate returns the tax rate of a descriptor as a 0-1 fraction. A nil
// descriptor or an unparseable rate resolves to zero.
func Rate(t *domain.Tax) decimal.Decimal {
	return RatePercent(t).Div(oneHundred)
}

// RatePercent returns the rate as a percentage (19 for 19%).
func RatePercent(t *domain.Tax) decimal.Decimal {
	if t == nil {
		return decimal.Zero
	}

	switch v := t.Rate.(type) {
	case string:
		// Comma decimals ("19,5") are not valid rates; strconv rejects
		// them, which is the behavior we want here.
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return decimal.Zero
		}
		return d
	default:
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return decimal.Zero
		}
		return decimal.NewFromFloat(f)
	}
}

// First unwraps the leading descriptor from a price's tax list. Legacy
// records carry a single tax wrapped in an array.
func First(taxes []*domain.Tax) *domain.Tax {
	if len(taxes) == 0 {
		return nil
	}
	return taxes[0]
}
