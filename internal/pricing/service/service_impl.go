package service

import (
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/smallbiznis/pricekit/internal/frequency"
	"github.com/smallbiznis/pricekit/internal/money"
	"github.com/smallbiznis/pricekit/internal/pricing/domain"
	"github.com/smallbiznis/pricekit/internal/snapshot"
	"github.com/smallbiznis/pricekit/internal/tax"
)

const internalPrecision = money.InternalPrecision

type Service struct {
	log *zap.Logger
}

type ServiceParam struct {
	fx.In

	Log *zap.Logger
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		log: p.Log.Named("pricing.service"),
	}
}

// ComputeAggregatedAndPriceTotals computes every item and folds the results
// into grouped totals. Items carrying frozen pricing details are echoed
// verbatim; on-request items without approval stay visible but contribute
// nothing to the sums.
func (s *Service) ComputeAggregatedAndPriceTotals(items []*domain.PriceItem) (*domain.PricingDetails, error) {
	acc := newAccumulator()
	out := make([]*domain.PriceItem, 0, len(items))
	currency := ""

	for _, item := range items {
		if item == nil {
			continue
		}

		line, err := s.resolveLine(item)
		if err != nil {
			return nil, err
		}

		acc.fold(line)
		rescaleLine(line)
		out = append(out, line.item)
		if currency == "" {
			currency = line.currency
		}
	}

	if currency == "" {
		currency = money.DefaultCurrency
	}
	return acc.finalize(out, currency), nil
}

// ComputePriceItemDetails is the single-item convenience wrapper around the
// aggregation.
func (s *Service) ComputePriceItemDetails(item *domain.PriceItem) (*domain.PricingDetails, error) {
	return s.ComputeAggregatedAndPriceTotals([]*domain.PriceItem{item})
}

// resolveLine routes one input item: frozen snapshot, composite bundle, or
// plain computation.
func (s *Service) resolveLine(item *domain.PriceItem) (*lineResult, error) {
	if item.ImmutablePricingDetails != nil {
		return immutableLine(item), nil
	}
	if item.Price != nil && item.Price.IsCompositePrice {
		return s.composeComposite(item)
	}
	return s.computeLineItem(item)
}

// computeLineItem computes a simple (non-composite) price item through the
// per-model strategy, then applies the first valid coupon.
func (s *Service) computeLineItem(item *domain.PriceItem) (*lineResult, error) {
	price := item.Price
	if price == nil {
		// Incomplete catalog data degrades to a zero line rather than
		// failing the whole computation.
		s.log.Warn("price item without price snapshot", zap.String("item_id", item.ID))
		price = &domain.Price{}
	}

	in := s.resolveInput(price, item)
	totals, err := s.dispatch(in)
	if err != nil {
		return nil, err
	}

	totals = s.applyCoupon(totals, firstValidCoupon(item.Coupons), in)

	line := &lineResult{
		item:     buildItemSkeleton(item, price, in.currency),
		totals:   totals,
		taxDesc:  in.taxDesc,
		rate:     in.rate,
		rtype:    priceTypeOf(price),
		period:   price.BillingPeriod,
		currency: in.currency,
	}
	line.item.PriceDisplayInJourneys = totals.displayMode

	if totals.displayMode == domain.DisplayOnRequest && !item.OnRequestApproved {
		// Visible but unapplied: the line stays in the result with zero
		// totals and is skipped by the fold.
		line.skip = true
		line.totals = itemTotals{
			displayMode:  totals.displayMode,
			tiersDetails: nil,
			getAG:        totals.getAG,
		}
	}

	return line, nil
}

// resolveInput normalizes the item's quantities against the price's billing
// cadence and resolves the applicable tax.
func (s *Service) resolveInput(price *domain.Price, item *domain.PriceItem) computeInput {
	taxDesc := tax.First(price.Tax)

	in := computeInput{
		price:     price,
		item:      item,
		currency:  currencyOf(price),
		taxDesc:   taxDesc,
		rate:      tax.Rate(taxDesc),
		inclusive: price.IsTaxInclusive,
		quantity:  decimal.NewFromInt(item.EffectiveQuantity()),
	}

	if mapping := item.PriceMappingFor(price.ID); mapping != nil && mapping.Value != nil {
		raw := decimal.NewFromFloat(*mapping.Value)
		in.mappingRaw = &raw

		normalized := raw
		if price.Type == domain.Recurring {
			normalized = frequency.Normalize(raw, mapping.FrequencyUnit, price.BillingPeriod)
		}
		in.mapping = &normalized
	}

	return in
}

func (s *Service) dispatch(in computeInput) (itemTotals, error) {
	switch in.price.PricingModel {
	case domain.TieredVolume:
		return s.computeTieredVolume(in)
	case domain.TieredGraduated:
		return s.computeTieredGraduated(in)
	case domain.TieredFlatFee:
		return s.computeTieredFlatFee(in)
	case domain.ExternalGetAG:
		return s.computeExternalGetAG(in)
	case domain.DynamicTariff:
		return s.computeDynamicTariff(in)
	default:
		return s.computePerUnit(in), nil
	}
}

// parseAmount reads a decimal amount string, logging a diagnostic and
// substituting zero when the input is malformed. Computation continues;
// partial catalog data must never abort a quote.
func (s *Service) parseAmount(value, field, priceID string) decimal.Decimal {
	d, ok := money.FromDecimalString(value)
	if !ok {
		s.log.Warn("malformed amount, using zero",
			zap.String("field", field),
			zap.String("value", value),
			zap.String("price_id", priceID),
		)
		return decimal.Zero
	}
	return d
}

// buildItemSkeleton carries the caller's inputs into a fresh output item and
// embeds stripped price/product snapshots. Numeric fields are filled by the
// rescale pass.
func buildItemSkeleton(item *domain.PriceItem, price *domain.Price, currency string) *domain.PriceItem {
	out := &domain.PriceItem{
		ID:                   item.ID,
		Description:          itemDescription(item, price),
		Quantity:             item.Quantity,
		PriceID:              priceIDOf(item, price),
		ProductID:            item.ProductID,
		Price:                snapshot.Price(price),
		Product:              snapshot.Product(item.Product),
		PriceMappings:        item.PriceMappings,
		ExternalFeesMappings: item.ExternalFeesMappings,
		Coupons:              item.Coupons,
		OnRequestApproved:    item.OnRequestApproved,
		Type:                 priceTypeOf(price),
		BillingPeriod:        price.BillingPeriod,
		Currency:             currency,
	}
	return out
}

func itemDescription(item *domain.PriceItem, price *domain.Price) string {
	if item.Description != "" {
		return item.Description
	}
	return price.Description
}

func priceIDOf(item *domain.PriceItem, price *domain.Price) string {
	if item.PriceID != "" {
		return item.PriceID
	}
	return price.ID
}

func priceTypeOf(price *domain.Price) domain.PriceType {
	if price.Type == "" {
		return domain.OneTime
	}
	return price.Type
}

func currencyOf(price *domain.Price) string {
	if price.Currency == "" {
		return money.DefaultCurrency
	}
	return price.Currency
}
