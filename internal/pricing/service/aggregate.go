package service

import (
	"github.com/shopspring/decimal"

	"github.com/smallbiznis/pricekit/internal/money"
	"github.com/smallbiznis/pricekit/internal/pricing/domain"
)

// lineResult pairs a computed output item with the internal-precision totals
// that feed the fold. The same shape serves simple items, frozen snapshots
// and composite bundles.
type lineResult struct {
	item   *domain.PriceItem
	totals itemTotals

	taxDesc  *domain.Tax
	rate     decimal.Decimal
	rtype    domain.PriceType
	period   domain.BillingPeriod
	currency string

	// skip keeps the line out of the sums (on-request without approval).
	skip bool
	// frozen lines are echoed verbatim and never rescaled.
	frozen bool

	composite  bool
	components []*lineResult
	// breakdown is the composite bundle's own accumulator, attached to the
	// parent item as total_details.
	breakdown *accumulator
}

// immutableLine reconstructs fold inputs from a frozen prior computation so
// externally priced items are never recalculated. The echoed item's
// two-digit integers convert back to decimals exactly.
func immutableLine(item *domain.PriceItem) *lineResult {
	echoed := item
	if frozen := item.ImmutablePricingDetails; frozen != nil && len(frozen.Items) > 0 {
		echoed = frozen.Items[0]
	}
	// The emitted copy keeps the frozen marker so feeding the output back
	// in echoes again instead of recomputing from a price that may be gone.
	out := *echoed
	out.ImmutablePricingDetails = item.ImmutablePricingDetails

	totals := itemTotals{
		unitAmount:      money.FromMinorUnits(echoed.UnitAmount, money.OutputPrecision),
		unitAmountNet:   money.FromMinorUnits(echoed.UnitAmountNet, money.OutputPrecision),
		unitAmountGross: money.FromMinorUnits(echoed.UnitAmountGross, money.OutputPrecision),
		amountSubtotal:  money.FromMinorUnits(echoed.AmountSubtotal, money.OutputPrecision),
		amountTotal:     money.FromMinorUnits(echoed.AmountTotal, money.OutputPrecision),
		amountTax:       money.FromMinorUnits(echoed.AmountTax, money.OutputPrecision),
		displayMode:     echoed.PriceDisplayInJourneys,
	}
	if echoed.CashbackAmount > 0 || echoed.CashbackPeriod != "" {
		totals.cashbackApplied = true
		totals.cashbackAmount = money.FromMinorUnits(echoed.CashbackAmount, money.OutputPrecision)
		totals.cashbackPeriod = echoed.CashbackPeriod
		if totals.cashbackPeriod == "" {
			totals.cashbackPeriod = "0"
		}
	}
	if echoed.DiscountAmount > 0 || echoed.BeforeDiscountAmountTotal > 0 {
		totals.discountApplied = true
		totals.discountAmount = money.FromMinorUnits(echoed.DiscountAmount, money.OutputPrecision)
		totals.beforeDiscountAmountTotal = money.FromMinorUnits(echoed.BeforeDiscountAmountTotal, money.OutputPrecision)
	}

	line := &lineResult{
		item:     &out,
		totals:   totals,
		rtype:    echoed.Type,
		period:   echoed.BillingPeriod,
		currency: echoed.Currency,
		frozen:   true,
	}
	if len(echoed.Taxes) > 0 && echoed.Taxes[0] != nil {
		line.taxDesc = echoed.Taxes[0].Tax
		line.rate = decimal.NewFromFloat(echoed.Taxes[0].RateValue).Div(hundred)
	}
	return line
}

// accumulator is the zero-valued fold state: grand totals plus the grouped
// buckets. All amounts stay at internal precision until finalize.
type accumulator struct {
	subtotal decimal.Decimal
	total    decimal.Decimal
	tax      decimal.Decimal

	taxes            []*taxBucketAcc
	recurrences      []*recurrenceAcc
	recurrencesByTax []*recurrenceByTaxAcc
	cashbacks        []*cashbackAcc
}

type taxBucketAcc struct {
	taxDesc *domain.Tax
	rate    decimal.Decimal
	amount  decimal.Decimal
}

type recurrenceAcc struct {
	rtype  domain.PriceType
	period domain.BillingPeriod

	unitGross decimal.Decimal
	unitNet   decimal.Decimal
	subtotal  decimal.Decimal
	total     decimal.Decimal
	tax       decimal.Decimal

	discountSeen   bool
	beforeDiscount decimal.Decimal
	discount       decimal.Decimal
}

type recurrenceByTaxAcc struct {
	rtype    domain.PriceType
	period   domain.BillingPeriod
	rate     decimal.Decimal
	taxDesc  *domain.Tax
	subtotal decimal.Decimal
	total    decimal.Decimal
	tax      decimal.Decimal
}

type cashbackAcc struct {
	period string
	amount decimal.Decimal
}

func newAccumulator() *accumulator {
	return &accumulator{}
}

// fold adds one computed line to the running totals. Composite bundles fold
// through their components with the same bucket logic; skipped lines
// contribute nothing.
func (a *accumulator) fold(line *lineResult) {
	if line.composite {
		for _, component := range line.components {
			a.fold(component)
		}
		return
	}
	if line.skip {
		return
	}

	t := line.totals
	a.subtotal = a.subtotal.Add(t.amountSubtotal)
	a.total = a.total.Add(t.amountTotal)
	a.tax = a.tax.Add(t.amountTax)

	a.foldTax(line)
	a.foldRecurrence(line)
	a.foldRecurrenceByTax(line)
	a.foldCashback(line)
}

// foldTax matches an existing bucket by tax id first, then by rate, and
// appends a new bucket when nothing matches. Nontaxable lines carry no
// bucket.
func (a *accumulator) foldTax(line *lineResult) {
	if line.taxDesc == nil && line.rate.IsZero() {
		return
	}
	for _, bucket := range a.taxes {
		if taxMatches(bucket, line) {
			bucket.amount = bucket.amount.Add(line.totals.amountTax)
			if bucket.taxDesc == nil {
				bucket.taxDesc = line.taxDesc
			}
			return
		}
	}
	a.taxes = append(a.taxes, &taxBucketAcc{
		taxDesc: line.taxDesc,
		rate:    line.rate,
		amount:  line.totals.amountTax,
	})
}

func taxMatches(bucket *taxBucketAcc, line *lineResult) bool {
	if bucket.taxDesc != nil && line.taxDesc != nil && bucket.taxDesc.ID != "" {
		if bucket.taxDesc.ID == line.taxDesc.ID {
			return true
		}
	}
	return bucket.rate.Equal(line.rate)
}

func (a *accumulator) foldRecurrence(line *lineResult) {
	t := line.totals
	for _, bucket := range a.recurrences {
		if bucket.rtype == line.rtype && bucket.period == recurrencePeriod(line) {
			addRecurrence(bucket, t)
			return
		}
	}
	bucket := &recurrenceAcc{rtype: line.rtype, period: recurrencePeriod(line)}
	addRecurrence(bucket, t)
	a.recurrences = append(a.recurrences, bucket)
}

func addRecurrence(bucket *recurrenceAcc, t itemTotals) {
	bucket.unitGross = bucket.unitGross.Add(t.unitAmountGross)
	bucket.unitNet = bucket.unitNet.Add(t.unitAmountNet)
	bucket.subtotal = bucket.subtotal.Add(t.amountSubtotal)
	bucket.total = bucket.total.Add(t.amountTotal)
	bucket.tax = bucket.tax.Add(t.amountTax)

	if t.discountApplied {
		bucket.discountSeen = true
		bucket.beforeDiscount = bucket.beforeDiscount.Add(t.beforeDiscountAmountTotal)
		bucket.discount = bucket.discount.Add(t.discountAmount)
	} else {
		bucket.beforeDiscount = bucket.beforeDiscount.Add(t.amountTotal)
	}
}

func (a *accumulator) foldRecurrenceByTax(line *lineResult) {
	t := line.totals
	for _, bucket := range a.recurrencesByTax {
		if bucket.rtype == line.rtype && bucket.period == recurrencePeriod(line) && bucket.rate.Equal(line.rate) {
			bucket.subtotal = bucket.subtotal.Add(t.amountSubtotal)
			bucket.total = bucket.total.Add(t.amountTotal)
			bucket.tax = bucket.tax.Add(t.amountTax)
			return
		}
	}
	a.recurrencesByTax = append(a.recurrencesByTax, &recurrenceByTaxAcc{
		rtype:    line.rtype,
		period:   recurrencePeriod(line),
		rate:     line.rate,
		taxDesc:  line.taxDesc,
		subtotal: t.amountSubtotal,
		total:    t.amountTotal,
		tax:      t.amountTax,
	})
}

func (a *accumulator) foldCashback(line *lineResult) {
	t := line.totals
	if !t.cashbackApplied {
		return
	}
	for _, bucket := range a.cashbacks {
		if bucket.period == t.cashbackPeriod {
			bucket.amount = bucket.amount.Add(t.cashbackAmount)
			return
		}
	}
	a.cashbacks = append(a.cashbacks, &cashbackAcc{
		period: t.cashbackPeriod,
		amount: t.cashbackAmount,
	})
}

// recurrencePeriod keys one-time items into a single bucket with no billing
// period.
func recurrencePeriod(line *lineResult) domain.BillingPeriod {
	if line.rtype == domain.OneTime {
		return ""
	}
	return line.period
}
