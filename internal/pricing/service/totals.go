package service

import (
	"github.com/shopspring/decimal"

	"github.com/smallbiznis/pricekit/internal/pricing/domain"
)

var one = decimal.NewFromInt(1)
var hundred = decimal.NewFromInt(100)

// computeInput is the common strategy input: the price definition plus the
// item's already-normalized quantities and the resolved tax.
type computeInput struct {
	price    *domain.Price
	item     *domain.PriceItem
	currency string

	taxDesc   *domain.Tax
	rate      decimal.Decimal // 0-1 fraction
	inclusive bool

	// quantity is the line quantity; mappingRaw is the user-entered input
	// value when a price mapping addresses this price, mapping the same
	// value rescaled to the price's billing period.
	quantity   decimal.Decimal
	mappingRaw *decimal.Decimal
	mapping    *decimal.Decimal
}

// multiplier is the factor applied to unit amounts: the normalized mapping
// input when present, scaled by the line quantity.
func (in computeInput) multiplier() decimal.Decimal {
	if in.mapping == nil {
		return in.quantity
	}
	return in.mapping.Mul(in.quantity)
}

// bundleScale converts totals computed over the raw selection quantity into
// line totals: the frequency-normalization ratio times the line quantity.
// Without a mapping, totals are already computed over the line quantity and
// the scale is 1.
func (in computeInput) bundleScale() decimal.Decimal {
	if in.mappingRaw == nil || in.mappingRaw.IsZero() || in.mapping == nil {
		return one
	}
	return in.multiplier().Div(*in.mappingRaw)
}

// selectionQuantity is the quantity used to pick tiers: the raw mapping
// input when present, else the line quantity.
func (in computeInput) selectionQuantity() decimal.Decimal {
	if in.mappingRaw != nil {
		return *in.mappingRaw
	}
	return in.quantity
}

// itemTotals is the common strategy output at internal precision. The
// rescale pass converts it into the externally visible integers.
type itemTotals struct {
	unitAmount      decimal.Decimal
	unitAmountNet   decimal.Decimal
	unitAmountGross decimal.Decimal
	amountSubtotal  decimal.Decimal
	amountTotal     decimal.Decimal
	amountTax       decimal.Decimal

	displayMode  domain.PriceDisplayInJourneys
	tiersDetails []tierDetail
	getAG        *getAGTotals

	// Discount fields, set only when a discount coupon applied.
	discountApplied           bool
	discountPercentage        *decimal.Decimal
	discountAmount            decimal.Decimal
	unitDiscountAmount        decimal.Decimal
	beforeDiscountUnitAmount  decimal.Decimal
	beforeDiscountAmountTotal decimal.Decimal

	// Cashback fields, set only when a cashback coupon applied.
	cashbackApplied          bool
	cashbackAmount           decimal.Decimal
	cashbackPeriod           string
	afterCashbackAmountTotal decimal.Decimal
}

type tierDetail struct {
	quantity        decimal.Decimal
	unitAmount      decimal.Decimal
	unitAmountNet   decimal.Decimal
	unitAmountGross decimal.Decimal
	amountSubtotal  decimal.Decimal
	amountTotal     decimal.Decimal
	amountTax       decimal.Decimal
	displayMode     domain.TierDisplayMode
}

type getAGTotals struct {
	category        string
	markupAmount    decimal.Decimal
	markupAmountNet decimal.Decimal
	unitAmountNet   decimal.Decimal
	unitAmountGross decimal.Decimal
}

// unitAmounts is the net/gross/tax split of a single unit amount.
type unitAmounts struct {
	amount decimal.Decimal
	net    decimal.Decimal
	gross  decimal.Decimal
	tax    decimal.Decimal
}

// splitUnitAmount derives the net and gross sides of a stated unit amount.
// Tax-inclusive amounts already contain tax, so the net is divided out;
// exclusive amounts are net and tax is added on top. The divided net is kept
// at internal precision so downstream multiplications stay deterministic.
func splitUnitAmount(amount decimal.Decimal, rate decimal.Decimal, inclusive bool) unitAmounts {
	if rate.IsZero() {
		return unitAmounts{amount: amount, net: amount, gross: amount}
	}

	factor := one.Add(rate)
	if inclusive {
		net := amount.Div(factor).Round(internalPrecision)
		return unitAmounts{amount: amount, net: net, gross: amount, tax: amount.Sub(net)}
	}

	gross := amount.Mul(factor)
	return unitAmounts{amount: amount, net: amount, gross: gross, tax: gross.Sub(amount)}
}

// scaled multiplies the unit split into line totals.
func (u unitAmounts) scaled(multiplier decimal.Decimal) (subtotal, total, tax decimal.Decimal) {
	return u.net.Mul(multiplier), u.gross.Mul(multiplier), u.tax.Mul(multiplier)
}
