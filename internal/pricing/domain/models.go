package domain

// PricingModel selects the computation strategy for a price. The engine
// dispatches on this tag; an empty value is treated as PerUnit.
type PricingModel string

const (
	PerUnit         PricingModel = "per_unit"
	TieredVolume    PricingModel = "tiered_volume"
	TieredGraduated PricingModel = "tiered_graduated"
	TieredFlatFee   PricingModel = "tiered_flatfee"
	ExternalGetAG   PricingModel = "external_getag"
	DynamicTariff   PricingModel = "dynamic_tariff"
)

// PriceType distinguishes one-off charges from recurring ones.
type PriceType string

const (
	OneTime   PriceType = "one_time"
	Recurring PriceType = "recurring"
)

// BillingPeriod is the cadence of a recurring price.
type BillingPeriod string

const (
	Weekly     BillingPeriod = "weekly"
	Monthly    BillingPeriod = "monthly"
	Quarterly  BillingPeriod = "quarterly"
	SemiAnnual BillingPeriod = "semiannual"
	Yearly     BillingPeriod = "yearly"
)

// PriceDisplayInJourneys controls how a computed amount may be presented.
type PriceDisplayInJourneys string

const (
	DisplayShowPrice     PriceDisplayInJourneys = "show_price"
	DisplayEstimated     PriceDisplayInJourneys = "estimated_price"
	DisplayStartingPrice PriceDisplayInJourneys = "show_as_starting_price"
	DisplayOnRequest     PriceDisplayInJourneys = "show_as_on_request"
)

// TierDisplayMode overrides the item display mode when the matching tier
// requires explicit approval.
type TierDisplayMode string

const (
	TierDisplayDefault   TierDisplayMode = ""
	TierDisplayOnRequest TierDisplayMode = "on_request"
)

// Tax describes a tax rate attached to a price. Rate may arrive as a JSON
// number or a numeric string; legacy records occasionally wrap a single tax
// in an array. Resolution lives in internal/tax.
type Tax struct {
	ID   string `json:"_id,omitempty"`
	Type string `json:"type,omitempty"`
	Rate any    `json:"rate,omitempty"`
}

// PriceTier is one quantity-bounded segment of a tiered price. UpTo is nil on
// the unbounded last tier. Tiers are consulted in ascending UpTo order; a
// tier's span is (previous.UpTo, this.UpTo].
type PriceTier struct {
	UpTo                 *float64        `json:"up_to"`
	UnitAmount           int64           `json:"unit_amount,omitempty"`
	UnitAmountDecimal    string          `json:"unit_amount_decimal,omitempty"`
	FlatFeeAmount        int64           `json:"flat_fee_amount,omitempty"`
	FlatFeeAmountDecimal string          `json:"flat_fee_amount_decimal,omitempty"`
	DisplayMode          TierDisplayMode `json:"display_mode,omitempty"`
}

// GetAG configures the external markup pricing model: the base fee comes from
// a partner system via an ExternalFeeMapping and the markup described here is
// layered on top, either flat or through a nested tier schedule.
type GetAG struct {
	Category            string       `json:"category,omitempty"`
	MarkupAmount        int64        `json:"markup_amount,omitempty"`
	MarkupAmountDecimal string       `json:"markup_amount_decimal,omitempty"`
	MarkupPricingModel  PricingModel `json:"markup_pricing_model,omitempty"`
	MarkupTiers         []PriceTier  `json:"markup_tiers,omitempty"`
}

// GetAGDetails is the computed echo of a GetAG configuration. It is always
// present on items priced with the external markup or dynamic tariff models,
// zero-valued when inputs were missing, never omitted.
type GetAGDetails struct {
	Category               string `json:"category,omitempty"`
	MarkupAmount           int64  `json:"markup_amount"`
	MarkupAmountDecimal    string `json:"markup_amount_decimal,omitempty"`
	MarkupAmountNet        int64  `json:"markup_amount_net"`
	MarkupAmountNetDecimal string `json:"markup_amount_net_decimal,omitempty"`
	UnitAmountNet          int64  `json:"unit_amount_net"`
	UnitAmountNetDecimal   string `json:"unit_amount_net_decimal,omitempty"`
	UnitAmountGross        int64  `json:"unit_amount_gross"`
	UnitAmountGrossDecimal string `json:"unit_amount_gross_decimal,omitempty"`
}

// DynamicTariffConfig is the pass-through sibling of GetAG: no external fee,
// amounts derive from the average price plus markup alone.
type DynamicTariffConfig struct {
	Mode                string `json:"mode,omitempty"`
	AveragePrice        int64  `json:"average_price,omitempty"`
	AveragePriceDecimal string `json:"average_price_decimal,omitempty"`
	MarkupAmount        int64  `json:"markup_amount,omitempty"`
	MarkupAmountDecimal string `json:"markup_amount_decimal,omitempty"`
}

// Product is the catalog entity a price belongs to. Bookkeeping fields are
// stripped by internal/snapshot before the product is embedded in results.
type Product struct {
	ID          string   `json:"_id,omitempty"`
	Name        string   `json:"name,omitempty"`
	Code        string   `json:"code,omitempty"`
	Type        string   `json:"type,omitempty"`
	Tags        []string `json:"_tags,omitempty"`
	Org         string   `json:"_org,omitempty"`
	OwnerID     string   `json:"_owner_id,omitempty"`
	ACL         any      `json:"_acl,omitempty"`
	Schema      string   `json:"_schema,omitempty"`
	CreatedAt   string   `json:"_created_at,omitempty"`
	UpdatedAt   string   `json:"_updated_at,omitempty"`
	Relations   any      `json:"_relations,omitempty"`
	Files       any      `json:"_files,omitempty"`
	Description string   `json:"description,omitempty"`
}

// Price is an immutable pricing definition. A composite price carries no
// amounts of its own; its PriceComponents are priced individually.
type Price struct {
	ID                     string                 `json:"_id,omitempty"`
	Description            string                 `json:"description,omitempty"`
	PricingModel           PricingModel           `json:"pricing_model,omitempty"`
	UnitAmount             int64                  `json:"unit_amount,omitempty"`
	UnitAmountDecimal      string                 `json:"unit_amount_decimal,omitempty"`
	Currency               string                 `json:"unit_amount_currency,omitempty"`
	IsTaxInclusive         bool                   `json:"is_tax_inclusive,omitempty"`
	PriceDisplayInJourneys PriceDisplayInJourneys `json:"price_display_in_journeys,omitempty"`
	Type                   PriceType              `json:"type,omitempty"`
	BillingPeriod          BillingPeriod          `json:"billing_period,omitempty"`
	Tax                    []*Tax                 `json:"tax,omitempty"`
	Tiers                  []PriceTier            `json:"tiers,omitempty"`
	IsCompositePrice       bool                   `json:"is_composite_price,omitempty"`
	PriceComponents        []*Price               `json:"price_components,omitempty"`
	GetAG                  *GetAG                 `json:"get_ag,omitempty"`
	DynamicTariff          *DynamicTariffConfig   `json:"dynamic_tariff,omitempty"`
	Tags                   []string               `json:"_tags,omitempty"`

	// Bookkeeping, present on raw catalog entities and cleared by
	// internal/snapshot before the price is embedded in a computed item.
	Org       string `json:"_org,omitempty"`
	OwnerID   string `json:"_owner_id,omitempty"`
	ACL       any    `json:"_acl,omitempty"`
	Schema    string `json:"_schema,omitempty"`
	CreatedAt string `json:"_created_at,omitempty"`
	UpdatedAt string `json:"_updated_at,omitempty"`
	Relations any    `json:"_relations,omitempty"`
	Files     any    `json:"_files,omitempty"`
}

// CouponType is the discount flavor of a coupon.
type CouponType string

const (
	CouponFixed      CouponType = "fixed"
	CouponPercentage CouponType = "percentage"
)

// CouponCategory distinguishes price-reducing coupons from cashbacks, which
// return value post-purchase without altering the charged price.
type CouponCategory string

const (
	CategoryDiscount CouponCategory = "discount"
	CategoryCashback CouponCategory = "cashback"
)

// Coupon is an optional enrichment attached to a price item. Invalid coupons
// are filtered out rather than rejected; only the first valid one applies.
type Coupon struct {
	ID                 string         `json:"_id,omitempty"`
	Name               string         `json:"name,omitempty"`
	Type               CouponType     `json:"type,omitempty"`
	Category           CouponCategory `json:"category,omitempty"`
	PercentageValue    any            `json:"percentage_value,omitempty"`
	FixedValue         int64          `json:"fixed_value,omitempty"`
	FixedValueDecimal  string         `json:"fixed_value_decimal,omitempty"`
	FixedValueCurrency string         `json:"fixed_value_currency,omitempty"`
	CashbackPeriod     string         `json:"cashback_period,omitempty"`
}

// PriceMapping carries a user-entered input value (for tier selection or
// markup scaling) tagged with the frequency it was entered against.
type PriceMapping struct {
	PriceID       string        `json:"price_id,omitempty"`
	Value         *float64      `json:"value,omitempty"`
	FrequencyUnit BillingPeriod `json:"frequency_unit,omitempty"`
}

// ExternalFeeMapping carries an upstream-computed fee for the external
// markup model. IsBasePrice marks fees already expressed per unit, which must
// not be divided by the user input.
type ExternalFeeMapping struct {
	PriceID            string        `json:"price_id,omitempty"`
	AmountTotal        int64         `json:"amount_total,omitempty"`
	AmountTotalDecimal string        `json:"amount_total_decimal,omitempty"`
	FrequencyUnit      BillingPeriod `json:"frequency_unit,omitempty"`
	IsBasePrice        bool          `json:"is_base_price,omitempty"`
}

// TaxAmount is an applied tax on a computed item: the descriptor plus the
// resolved amount. Rate is "nontaxable" when no tax applies.
type TaxAmount struct {
	Tax           *Tax    `json:"tax,omitempty"`
	Rate          string  `json:"rate,omitempty"`
	RateValue     float64 `json:"rateValue,omitempty"`
	Amount        int64   `json:"amount"`
	AmountDecimal string  `json:"amount_decimal,omitempty"`
}

// TierDetails is the per-tier slice of a computed tiered item.
type TierDetails struct {
	Quantity              float64 `json:"quantity"`
	UnitAmount            int64   `json:"unit_amount"`
	UnitAmountDecimal     string  `json:"unit_amount_decimal,omitempty"`
	UnitAmountNet         int64   `json:"unit_amount_net"`
	UnitAmountGross       int64   `json:"unit_amount_gross"`
	AmountSubtotal        int64   `json:"amount_subtotal"`
	AmountSubtotalDecimal string  `json:"amount_subtotal_decimal,omitempty"`
	AmountTotal           int64   `json:"amount_total"`
	AmountTotalDecimal    string  `json:"amount_total_decimal,omitempty"`
	AmountTax             int64   `json:"amount_tax"`
}

// PriceItem is a single line being priced. The same shape serves as input and
// output so previously computed items can be re-submitted for incremental
// edits; recomputing an already computed item yields identical output.
type PriceItem struct {
	ID          string `json:"_id,omitempty"`
	Description string `json:"description,omitempty"`

	Quantity  *int64 `json:"quantity,omitempty"`
	PriceID   string `json:"price_id,omitempty"`
	ProductID string `json:"product_id,omitempty"`

	Price   *Price   `json:"_price,omitempty"`
	Product *Product `json:"_product,omitempty"`

	PriceMappings        []PriceMapping       `json:"price_mappings,omitempty"`
	ExternalFeesMappings []ExternalFeeMapping `json:"external_fees_mappings,omitempty"`
	Coupons              []*Coupon            `json:"_coupons,omitempty"`
	Taxes                []*TaxAmount         `json:"taxes,omitempty"`

	OnRequestApproved bool `json:"on_request_approved,omitempty"`

	// A frozen prior computation. When present it is echoed verbatim into
	// the aggregate instead of being recomputed, so externally priced items
	// are never silently recalculated.
	ImmutablePricingDetails *PricingDetails `json:"_immutable_pricing_details,omitempty"`

	Type          PriceType     `json:"type,omitempty"`
	BillingPeriod BillingPeriod `json:"billing_period,omitempty"`
	Currency      string        `json:"currency,omitempty"`

	PriceDisplayInJourneys PriceDisplayInJourneys `json:"price_display_in_journeys,omitempty"`

	UnitAmount             int64  `json:"unit_amount,omitempty"`
	UnitAmountDecimal      string `json:"unit_amount_decimal,omitempty"`
	UnitAmountNet          int64  `json:"unit_amount_net,omitempty"`
	UnitAmountNetDecimal   string `json:"unit_amount_net_decimal,omitempty"`
	UnitAmountGross        int64  `json:"unit_amount_gross,omitempty"`
	UnitAmountGrossDecimal string `json:"unit_amount_gross_decimal,omitempty"`

	AmountSubtotal        int64  `json:"amount_subtotal"`
	AmountSubtotalDecimal string `json:"amount_subtotal_decimal,omitempty"`
	AmountTotal           int64  `json:"amount_total"`
	AmountTotalDecimal    string `json:"amount_total_decimal,omitempty"`
	AmountTax             int64  `json:"amount_tax"`
	AmountTaxDecimal      string `json:"amount_tax_decimal,omitempty"`

	TiersDetails []TierDetails `json:"tiers_details,omitempty"`
	GetAG        *GetAGDetails `json:"get_ag,omitempty"`

	DiscountAmount               int64    `json:"discount_amount,omitempty"`
	DiscountAmountDecimal        string   `json:"discount_amount_decimal,omitempty"`
	DiscountPercentage           *float64 `json:"discount_percentage,omitempty"`
	UnitDiscountAmount           int64    `json:"unit_discount_amount,omitempty"`
	UnitDiscountAmountDecimal    string   `json:"unit_discount_amount_decimal,omitempty"`
	BeforeDiscountUnitAmount     int64    `json:"before_discount_unit_amount,omitempty"`
	BeforeDiscountAmountTotal    int64    `json:"before_discount_amount_total,omitempty"`
	BeforeDiscountAmountTotalDec string   `json:"before_discount_amount_total_decimal,omitempty"`

	CashbackAmount                  int64  `json:"cashback_amount,omitempty"`
	CashbackAmountDecimal           string `json:"cashback_amount_decimal,omitempty"`
	CashbackPeriod                  string `json:"cashback_period,omitempty"`
	AfterCashbackAmountTotal        *int64 `json:"after_cashback_amount_total,omitempty"`
	AfterCashbackAmountTotalDecimal string `json:"after_cashback_amount_total_decimal,omitempty"`

	IsCompositePrice bool         `json:"is_composite_price,omitempty"`
	ItemComponents   []*PriceItem `json:"item_components,omitempty"`

	// Composite items carry their own breakdown so a bundle's totals are
	// independently queryable without re-walking its components.
	TotalDetails *TotalDetails `json:"total_details,omitempty"`
}

// EffectiveQuantity returns the line quantity, defaulting to 1.
func (i *PriceItem) EffectiveQuantity() int64 {
	if i.Quantity == nil {
		return 1
	}
	return *i.Quantity
}

// PriceMappingFor returns the input mapping addressed to the given price.
func (i *PriceItem) PriceMappingFor(priceID string) *PriceMapping {
	for idx := range i.PriceMappings {
		if i.PriceMappings[idx].PriceID == priceID {
			return &i.PriceMappings[idx]
		}
	}
	return nil
}

// ExternalFeeMappingFor returns the external fee addressed to the given price.
func (i *PriceItem) ExternalFeeMappingFor(priceID string) *ExternalFeeMapping {
	for idx := range i.ExternalFeesMappings {
		if i.ExternalFeesMappings[idx].PriceID == priceID {
			return &i.ExternalFeesMappings[idx]
		}
	}
	return nil
}
