package service

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"github.com/smallbiznis/pricekit/internal/money"
	"github.com/smallbiznis/pricekit/internal/pricing/domain"
)

// firstValidCoupon filters the item's coupons down to the first applicable
// one. Invalid coupons are ignored, never an error: discounts are optional
// enrichments.
func firstValidCoupon(coupons []*domain.Coupon) *domain.Coupon {
	for _, c := range coupons {
		if couponIsValid(c) {
			return c
		}
	}
	return nil
}

func couponIsValid(c *domain.Coupon) bool {
	if c == nil {
		return false
	}
	switch c.Type {
	case domain.CouponFixed:
		if c.FixedValueDecimal != "" {
			_, ok := money.FromDecimalString(c.FixedValueDecimal)
			return ok && c.FixedValueCurrency != ""
		}
		return c.FixedValue > 0 && c.FixedValueCurrency != ""
	case domain.CouponPercentage:
		_, ok := percentageOf(c)
		return ok
	default:
		return false
	}
}

func percentageOf(c *domain.Coupon) (decimal.Decimal, bool) {
	s, err := cast.ToStringE(c.PercentageValue)
	if err != nil {
		return decimal.Zero, false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func fixedValueOf(c *domain.Coupon) decimal.Decimal {
	if c.FixedValueDecimal != "" {
		d, _ := money.FromDecimalString(c.FixedValueDecimal)
		return d
	}
	return money.FromMinorUnits(c.FixedValue, money.OutputPrecision)
}

// applyCoupon applies the first valid coupon to computed item totals.
// Discount coupons recompute every amount; cashback coupons attach cashback
// metadata without altering the charged price.
func (s *Service) applyCoupon(totals itemTotals, coupon *domain.Coupon, in computeInput) itemTotals {
	if coupon == nil {
		return totals
	}
	if coupon.Category == domain.CategoryCashback {
		return applyCashback(totals, coupon)
	}

	switch coupon.Type {
	case domain.CouponPercentage:
		pct, _ := percentageOf(coupon)
		return applyPercentageDiscount(totals, clampPercentage(pct), in)
	case domain.CouponFixed:
		return s.applyFixedDiscount(totals, fixedValueOf(coupon), in)
	default:
		return totals
	}
}

// clampPercentage bounds a discount percentage to [0, 100]: negative inputs
// floor to no discount, inputs above 100 cap at a full discount.
func clampPercentage(pct decimal.Decimal) decimal.Decimal {
	if pct.IsNegative() {
		return decimal.Zero
	}
	if pct.GreaterThan(hundred) {
		return hundred
	}
	return pct
}

func applyPercentageDiscount(totals itemTotals, pct decimal.Decimal, in computeInput) itemTotals {
	factor := one.Sub(pct.Div(hundred))

	out := totals
	out.discountApplied = true
	out.discountPercentage = &pct
	out.beforeDiscountUnitAmount = totals.unitAmount
	out.beforeDiscountAmountTotal = totals.amountTotal
	out.unitDiscountAmount = totals.unitAmount.Mul(pct).Div(hundred)
	out.discountAmount = totals.amountTotal.Mul(pct).Div(hundred)

	// A proportional reduction keeps the per-tier weighted average of
	// graduated items intact and, with net and gross scaled alike, keeps
	// tax equal to gross minus net.
	out.unitAmount = totals.unitAmount.Mul(factor)
	out.unitAmountNet = totals.unitAmountNet.Mul(factor)
	out.unitAmountGross = totals.unitAmountGross.Mul(factor)
	out.amountSubtotal = totals.amountSubtotal.Mul(factor)
	out.amountTotal = totals.amountTotal.Mul(factor)
	out.amountTax = out.amountTotal.Sub(out.amountSubtotal)
	return out
}

// applyFixedDiscount subtracts a fixed value from the unit amount, floored
// at zero: a discount can never exceed the underlying price.
func (s *Service) applyFixedDiscount(totals itemTotals, fixed decimal.Decimal, in computeInput) itemTotals {
	if fixed.IsNegative() {
		fixed = decimal.Zero
	}

	out := totals
	out.discountApplied = true
	out.beforeDiscountUnitAmount = totals.unitAmount
	out.beforeDiscountAmountTotal = totals.amountTotal

	if len(totals.tiersDetails) > 1 {
		// Graduated totals are a weighted blend across tiers; the
		// discount reduces the blend proportionally instead of being
		// re-derived from a single unit price.
		discount := decimal.Min(fixed, totals.amountTotal)
		out.discountAmount = discount
		factor := decimal.Zero
		if totals.amountTotal.Sign() > 0 {
			factor = totals.amountTotal.Sub(discount).Div(totals.amountTotal).Round(internalPrecision)
		}
		if totals.unitAmount.Sign() > 0 {
			out.unitDiscountAmount = totals.unitAmount.Sub(totals.unitAmount.Mul(factor))
		}
		out.unitAmount = totals.unitAmount.Mul(factor)
		out.unitAmountNet = totals.unitAmountNet.Mul(factor)
		out.unitAmountGross = totals.unitAmountGross.Mul(factor)
		out.amountSubtotal = totals.amountSubtotal.Mul(factor)
		out.amountTotal = totals.amountTotal.Mul(factor)
		out.amountTax = out.amountTotal.Sub(out.amountSubtotal)
		return out
	}

	unitDiscount := decimal.Min(fixed, totals.unitAmount)
	discounted := totals.unitAmount.Sub(unitDiscount)
	unit := splitUnitAmount(discounted, in.rate, in.inclusive)

	multiplier := in.multiplier()
	subtotal, total, tax := unit.scaled(multiplier)

	out.unitDiscountAmount = unitDiscount
	out.discountAmount = unitDiscount.Mul(multiplier)
	out.unitAmount = unit.amount
	out.unitAmountNet = unit.net
	out.unitAmountGross = unit.gross
	out.amountSubtotal = subtotal
	out.amountTotal = total
	out.amountTax = tax
	return out
}

// applyCashback computes the cashback amount and the total after cashback
// without touching the charged amounts.
func applyCashback(totals itemTotals, coupon *domain.Coupon) itemTotals {
	out := totals
	amount := decimal.Zero

	switch coupon.Type {
	case domain.CouponFixed:
		amount = fixedValueOf(coupon)
	case domain.CouponPercentage:
		pct, _ := percentageOf(coupon)
		amount = totals.amountTotal.Mul(clampPercentage(pct)).Div(hundred)
	}
	if amount.IsNegative() {
		amount = decimal.Zero
	}

	after := totals.amountTotal.Sub(amount)
	if after.IsNegative() {
		after = decimal.Zero
	}

	out.cashbackApplied = true
	out.cashbackAmount = amount
	out.afterCashbackAmountTotal = after
	out.cashbackPeriod = coupon.CashbackPeriod
	if out.cashbackPeriod == "" {
		out.cashbackPeriod = "0"
	}
	return out
}
