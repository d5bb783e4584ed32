package domain

// PricingDetails is the aggregate result of a computation: the computed line
// items plus grand totals and the grouped breakdown. All integer amounts are
// at the external two-digit precision; decimal strings are derived from the
// rescaled integers.
type PricingDetails struct {
	Items []*PriceItem `json:"items,omitempty"`

	AmountSubtotal        int64  `json:"amount_subtotal"`
	AmountSubtotalDecimal string `json:"amount_subtotal_decimal,omitempty"`
	AmountTotal           int64  `json:"amount_total"`
	AmountTotalDecimal    string `json:"amount_total_decimal,omitempty"`
	AmountTax             int64  `json:"amount_tax"`
	AmountTaxDecimal      string `json:"amount_tax_decimal,omitempty"`

	Currency string `json:"currency,omitempty"`

	TotalDetails *TotalDetails `json:"total_details,omitempty"`
}

// TotalDetails carries the grouped breakdown of an aggregate or of a single
// composite item.
type TotalDetails struct {
	AmountTax int64                  `json:"amount_tax"`
	Breakdown *TotalDetailsBreakdown `json:"breakdown,omitempty"`
}

// TotalDetailsBreakdown groups totals by tax rate, recurrence, recurrence
// and tax combined, and cashback period.
type TotalDetailsBreakdown struct {
	Taxes            []*TaxBucket             `json:"taxes,omitempty"`
	Recurrences      []*RecurrenceBucket      `json:"recurrences,omitempty"`
	RecurrencesByTax []*RecurrenceByTaxBucket `json:"recurrencesByTax,omitempty"`
	Cashbacks        []*CashbackBucket        `json:"cashbacks,omitempty"`
}

// TaxBucket accumulates tax amounts per distinct tax rate. Buckets match by
// tax id first, then by rate.
type TaxBucket struct {
	Tax           *TaxAmount `json:"tax,omitempty"`
	Amount        int64      `json:"amount"`
	AmountDecimal string     `json:"amount_decimal,omitempty"`
}

// RecurrenceBucket accumulates totals per (type, billing period) pair.
// One-time items share a single bucket with no billing period.
type RecurrenceBucket struct {
	Type          PriceType     `json:"type,omitempty"`
	BillingPeriod BillingPeriod `json:"billing_period,omitempty"`

	UnitAmountGross        int64  `json:"unit_amount_gross"`
	UnitAmountGrossDecimal string `json:"unit_amount_gross_decimal,omitempty"`
	UnitAmountNet          int64  `json:"unit_amount_net"`
	UnitAmountNetDecimal   string `json:"unit_amount_net_decimal,omitempty"`

	AmountSubtotal        int64  `json:"amount_subtotal"`
	AmountSubtotalDecimal string `json:"amount_subtotal_decimal,omitempty"`
	AmountTotal           int64  `json:"amount_total"`
	AmountTotalDecimal    string `json:"amount_total_decimal,omitempty"`
	AmountTax             int64  `json:"amount_tax"`

	BeforeDiscountAmountTotal        int64  `json:"before_discount_amount_total,omitempty"`
	BeforeDiscountAmountTotalDecimal string `json:"before_discount_amount_total_decimal,omitempty"`
	DiscountAmount                   int64  `json:"discount_amount,omitempty"`
	DiscountAmountDecimal            string `json:"discount_amount_decimal,omitempty"`
}

// RecurrenceByTaxBucket accumulates totals per (type, billing period, tax
// rate) triple.
type RecurrenceByTaxBucket struct {
	Type          PriceType     `json:"type,omitempty"`
	BillingPeriod BillingPeriod `json:"billing_period,omitempty"`
	TaxRate       float64       `json:"tax_rate"`

	AmountSubtotal        int64  `json:"amount_subtotal"`
	AmountSubtotalDecimal string `json:"amount_subtotal_decimal,omitempty"`
	AmountTotal           int64  `json:"amount_total"`
	AmountTotalDecimal    string `json:"amount_total_decimal,omitempty"`

	Tax *TaxBucket `json:"tax,omitempty"`
}

// CashbackBucket accumulates cashback amounts per cashback period. Period
// "0" means immediate.
type CashbackBucket struct {
	CashbackPeriod string `json:"cashback_period,omitempty"`
	Amount         int64  `json:"amount_total"`
	AmountDecimal  string `json:"amount_total_decimal,omitempty"`
}
