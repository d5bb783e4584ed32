// Package frequency rescales user-supplied values between billing
// frequencies so a yearly input can be compared against a monthly-billed
// price. Ratios are exact integers over a weekly base, which keeps repeated
// conversions consistent: A→B→A returns the original value.
package frequency

import (
	"github.com/shopspring/decimal"

	"github.com/smallbiznis/pricekit/internal/pricing/domain"
)

// Weeks per billing period. 52 weeks to the year, 4 to the month, 13 to the
// quarter, 26 to the half-year.
var weeksPer = map[domain.BillingPeriod]int64{
	domain.Weekly:     1,
	domain.Monthly:    4,
	domain.Quarterly:  13,
	domain.SemiAnnual: 26,
	domain.Yearly:     52,
}

// Normalize rescales a value entered against the `from` frequency into the
// `to` frequency. Unknown or empty frequencies (one-time prices) leave the
// value unscaled.
func Normalize(value decimal.Decimal, from, to domain.BillingPeriod) decimal.Decimal {
	fromWeeks, ok := weeksPer[from]
	if !ok {
		return value
	}
	toWeeks, ok := weeksPer[to]
	if !ok {
		return value
	}
	if fromWeeks == toWeeks {
		return value
	}
	return value.Mul(decimal.NewFromInt(toWeeks)).Div(decimal.NewFromInt(fromWeeks))
}
