package service

import (
	"github.com/shopspring/decimal"

	"github.com/smallbiznis/pricekit/internal/money"
	"github.com/smallbiznis/pricekit/internal/pricing/domain"
)

// outUnits rescales an internal-precision amount to the external two-digit
// integer representation, rounding half away from zero.
func outUnits(d decimal.Decimal) int64 {
	return money.ToMinorUnits(d, money.OutputPrecision)
}

// outPair returns the external integer and its decimal-string companion. The
// string is derived from the rescaled integer, not the internal value, so
// both representations always agree.
func outPair(d decimal.Decimal) (int64, string) {
	units := outUnits(d)
	return units, unitsDecimal(units)
}

func unitsDecimal(units int64) string {
	return money.FormatDecimal(money.FromMinorUnits(units, money.OutputPrecision), money.OutputPrecision)
}

// taxPair derives the external tax from the already-rescaled subtotal and
// total, so total minus subtotal always equals tax exactly, independent of
// how the three internal values round.
func taxPair(subtotal, total int64) (int64, string) {
	tax := total - subtotal
	return tax, unitsDecimal(tax)
}

// rescaleLine fills the externally visible integer fields of a computed item
// from its internal-precision totals. Frozen lines are already populated and
// left untouched.
func rescaleLine(line *lineResult) {
	if line.frozen {
		return
	}

	item := line.item
	if line.composite {
		item.ItemComponents = make([]*domain.PriceItem, 0, len(line.components))
		for _, component := range line.components {
			rescaleLine(component)
			item.ItemComponents = append(item.ItemComponents, component.item)
		}
		item.AmountSubtotal, item.AmountSubtotalDecimal = outPair(line.totals.amountSubtotal)
		item.AmountTotal, item.AmountTotalDecimal = outPair(line.totals.amountTotal)
		item.AmountTax, item.AmountTaxDecimal = taxPair(item.AmountSubtotal, item.AmountTotal)
		if line.breakdown != nil {
			item.TotalDetails = line.breakdown.toTotalDetails()
		}
		return
	}

	t := line.totals
	item.UnitAmount, item.UnitAmountDecimal = outPair(t.unitAmount)
	item.UnitAmountNet, item.UnitAmountNetDecimal = outPair(t.unitAmountNet)
	item.UnitAmountGross, item.UnitAmountGrossDecimal = outPair(t.unitAmountGross)
	item.AmountSubtotal, item.AmountSubtotalDecimal = outPair(t.amountSubtotal)
	item.AmountTotal, item.AmountTotalDecimal = outPair(t.amountTotal)
	item.AmountTax, item.AmountTaxDecimal = taxPair(item.AmountSubtotal, item.AmountTotal)
	item.Taxes = []*domain.TaxAmount{taxAmountOf(line.taxDesc, line.rate, t.amountTax)}

	if len(t.tiersDetails) > 0 {
		item.TiersDetails = make([]domain.TierDetails, 0, len(t.tiersDetails))
		for _, tier := range t.tiersDetails {
			item.TiersDetails = append(item.TiersDetails, rescaleTier(tier))
		}
	}
	if t.getAG != nil {
		item.GetAG = rescaleGetAG(t.getAG)
	}

	if t.discountApplied {
		item.DiscountAmount, item.DiscountAmountDecimal = outPair(t.discountAmount)
		item.UnitDiscountAmount, item.UnitDiscountAmountDecimal = outPair(t.unitDiscountAmount)
		item.BeforeDiscountUnitAmount, _ = outPair(t.beforeDiscountUnitAmount)
		item.BeforeDiscountAmountTotal, item.BeforeDiscountAmountTotalDec = outPair(t.beforeDiscountAmountTotal)
		if t.discountPercentage != nil {
			pct := t.discountPercentage.InexactFloat64()
			item.DiscountPercentage = &pct
		}
	}

	if t.cashbackApplied {
		item.CashbackAmount, item.CashbackAmountDecimal = outPair(t.cashbackAmount)
		item.CashbackPeriod = t.cashbackPeriod
		after, afterDecimal := outPair(t.afterCashbackAmountTotal)
		item.AfterCashbackAmountTotal = &after
		item.AfterCashbackAmountTotalDecimal = afterDecimal
	}
}

func rescaleTier(tier tierDetail) domain.TierDetails {
	out := domain.TierDetails{Quantity: tier.quantity.InexactFloat64()}
	out.UnitAmount, out.UnitAmountDecimal = outPair(tier.unitAmount)
	out.UnitAmountNet = outUnits(tier.unitAmountNet)
	out.UnitAmountGross = outUnits(tier.unitAmountGross)
	out.AmountSubtotal, out.AmountSubtotalDecimal = outPair(tier.amountSubtotal)
	out.AmountTotal, out.AmountTotalDecimal = outPair(tier.amountTotal)
	out.AmountTax = outUnits(tier.amountTax)
	return out
}

func rescaleGetAG(g *getAGTotals) *domain.GetAGDetails {
	out := &domain.GetAGDetails{Category: g.category}
	out.MarkupAmount, out.MarkupAmountDecimal = outPair(g.markupAmount)
	out.MarkupAmountNet, out.MarkupAmountNetDecimal = outPair(g.markupAmountNet)
	out.UnitAmountNet, out.UnitAmountNetDecimal = outPair(g.unitAmountNet)
	out.UnitAmountGross, out.UnitAmountGrossDecimal = outPair(g.unitAmountGross)
	return out
}

// taxAmountOf builds the applied-tax record of a line. Untaxed lines are
// reported explicitly as nontaxable rather than omitted.
func taxAmountOf(taxDesc *domain.Tax, rate decimal.Decimal, amount decimal.Decimal) *domain.TaxAmount {
	out := &domain.TaxAmount{Tax: taxDesc}
	out.Amount, out.AmountDecimal = outPair(amount)
	if taxDesc == nil && rate.IsZero() {
		out.Rate = "nontaxable"
		return out
	}
	percent := rate.Mul(hundred)
	out.Rate = percent.String()
	out.RateValue = percent.InexactFloat64()
	return out
}

// finalize converts the fold state into the external aggregate.
func (a *accumulator) finalize(items []*domain.PriceItem, currency string) *domain.PricingDetails {
	details := &domain.PricingDetails{
		Items:    items,
		Currency: currency,
	}
	details.AmountSubtotal, details.AmountSubtotalDecimal = outPair(a.subtotal)
	details.AmountTotal, details.AmountTotalDecimal = outPair(a.total)
	details.AmountTax, details.AmountTaxDecimal = taxPair(details.AmountSubtotal, details.AmountTotal)
	details.TotalDetails = a.toTotalDetails()
	return details
}

func (a *accumulator) toTotalDetails() *domain.TotalDetails {
	out := &domain.TotalDetails{Breakdown: &domain.TotalDetailsBreakdown{}}
	out.AmountTax, _ = taxPair(outUnits(a.subtotal), outUnits(a.total))

	for _, bucket := range a.taxes {
		out.Breakdown.Taxes = append(out.Breakdown.Taxes, rescaleTaxBucket(bucket))
	}
	for _, bucket := range a.recurrences {
		out.Breakdown.Recurrences = append(out.Breakdown.Recurrences, rescaleRecurrence(bucket))
	}
	for _, bucket := range a.recurrencesByTax {
		out.Breakdown.RecurrencesByTax = append(out.Breakdown.RecurrencesByTax, rescaleRecurrenceByTax(bucket))
	}
	for _, bucket := range a.cashbacks {
		cb := &domain.CashbackBucket{CashbackPeriod: bucket.period}
		cb.Amount, cb.AmountDecimal = outPair(bucket.amount)
		out.Breakdown.Cashbacks = append(out.Breakdown.Cashbacks, cb)
	}
	return out
}

func rescaleTaxBucket(bucket *taxBucketAcc) *domain.TaxBucket {
	out := &domain.TaxBucket{Tax: taxAmountOf(bucket.taxDesc, bucket.rate, bucket.amount)}
	out.Amount, out.AmountDecimal = outPair(bucket.amount)
	return out
}

func rescaleRecurrence(bucket *recurrenceAcc) *domain.RecurrenceBucket {
	out := &domain.RecurrenceBucket{
		Type:          bucket.rtype,
		BillingPeriod: bucket.period,
	}
	out.UnitAmountGross, out.UnitAmountGrossDecimal = outPair(bucket.unitGross)
	out.UnitAmountNet, out.UnitAmountNetDecimal = outPair(bucket.unitNet)
	out.AmountSubtotal, out.AmountSubtotalDecimal = outPair(bucket.subtotal)
	out.AmountTotal, out.AmountTotalDecimal = outPair(bucket.total)
	out.AmountTax, _ = taxPair(out.AmountSubtotal, out.AmountTotal)
	if bucket.discountSeen {
		out.BeforeDiscountAmountTotal, out.BeforeDiscountAmountTotalDecimal = outPair(bucket.beforeDiscount)
		out.DiscountAmount, out.DiscountAmountDecimal = outPair(bucket.discount)
	}
	return out
}

func rescaleRecurrenceByTax(bucket *recurrenceByTaxAcc) *domain.RecurrenceByTaxBucket {
	out := &domain.RecurrenceByTaxBucket{
		Type:          bucket.rtype,
		BillingPeriod: bucket.period,
		TaxRate:       bucket.rate.Mul(hundred).InexactFloat64(),
	}
	out.AmountSubtotal, out.AmountSubtotalDecimal = outPair(bucket.subtotal)
	out.AmountTotal, out.AmountTotalDecimal = outPair(bucket.total)
	taxBucket := &domain.TaxBucket{Tax: taxAmountOf(bucket.taxDesc, bucket.rate, bucket.tax)}
	taxBucket.Amount, taxBucket.AmountDecimal = outPair(bucket.tax)
	out.Tax = taxBucket
	return out
}
