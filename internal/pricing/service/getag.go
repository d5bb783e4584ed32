package service

import (
	"github.com/shopspring/decimal"

	"github.com/smallbiznis/pricekit/internal/pricing/domain"
)

// computeExternalGetAG prices the external markup model: a partner-supplied
// fee divided down to a unit amount, plus the configured markup. All inputs
// must be present and non-zero; otherwise every amount is zero but the
// markup descriptor is still echoed back with zeroed sub-amounts.
func (s *Service) computeExternalGetAG(in computeInput) (itemTotals, error) {
	cfg := in.price.GetAG
	zero := itemTotals{
		displayMode: displayModeOf(in.price),
		getAG:       zeroGetAGTotals(cfg),
	}
	if cfg == nil {
		return zero, nil
	}

	feeMapping := in.item.ExternalFeeMappingFor(in.price.ID)
	if feeMapping == nil || in.mappingRaw == nil || in.mappingRaw.IsZero() {
		return zero, nil
	}
	fee := s.parseAmount(feeMapping.AmountTotalDecimal, "amount_total_decimal", in.price.ID)
	if fee.IsZero() {
		return zero, nil
	}

	// The partner fee is net. Unless it is flagged as a base price it
	// covers the whole user input and is divided down to a unit amount.
	unitFeeNet := fee
	if !feeMapping.IsBasePrice {
		unitFeeNet = fee.Div(*in.mappingRaw).Round(internalPrecision)
	}

	markup, markupNet, err := s.markupPerUnit(in, cfg)
	if err != nil {
		return itemTotals{}, err
	}

	unitNet := unitFeeNet.Add(markupNet)
	unitGross := unitNet.Mul(one.Add(in.rate))

	multiplier := in.multiplier()
	subtotal := unitNet.Mul(multiplier)
	total := unitGross.Mul(multiplier)

	return itemTotals{
		unitAmount:      unitGross,
		unitAmountNet:   unitNet,
		unitAmountGross: unitGross,
		amountSubtotal:  subtotal,
		amountTotal:     total,
		amountTax:       total.Sub(subtotal),
		displayMode:     displayModeOf(in.price),
		getAG: &getAGTotals{
			category:        cfg.Category,
			markupAmount:    markup,
			markupAmountNet: markupNet,
			unitAmountNet:   unitNet,
			unitAmountGross: unitGross,
		},
	}, nil
}

// markupPerUnit resolves the per-unit markup: either a flat amount or a
// nested volume/flat-fee schedule keyed by the raw user input. The returned
// pair is the stated markup and its net side.
func (s *Service) markupPerUnit(in computeInput, cfg *domain.GetAG) (decimal.Decimal, decimal.Decimal, error) {
	amount := decimal.Zero

	switch cfg.MarkupPricingModel {
	case domain.TieredVolume, domain.TieredFlatFee:
		if len(cfg.MarkupTiers) == 0 {
			break
		}
		if err := validateTiers(cfg.MarkupTiers); err != nil {
			return decimal.Zero, decimal.Zero, err
		}
		_, tier := matchTier(cfg.MarkupTiers, in.selectionQuantity())
		if cfg.MarkupPricingModel == domain.TieredFlatFee {
			amount = s.parseAmount(tier.FlatFeeAmountDecimal, "flat_fee_amount_decimal", in.price.ID)
		} else {
			amount = s.parseAmount(tier.UnitAmountDecimal, "unit_amount_decimal", in.price.ID)
		}
	default:
		amount = s.parseAmount(cfg.MarkupAmountDecimal, "markup_amount_decimal", in.price.ID)
	}

	unit := splitUnitAmount(amount, in.rate, in.inclusive)
	return unit.amount, unit.net, nil
}

// computeDynamicTariff is the pass-through sibling of the get-AG model:
// no external fee, the unit amount derives from the configured average
// price plus markup alone.
func (s *Service) computeDynamicTariff(in computeInput) (itemTotals, error) {
	cfg := in.price.DynamicTariff
	if cfg == nil {
		return itemTotals{displayMode: displayModeOf(in.price)}, nil
	}

	average := s.parseAmount(cfg.AveragePriceDecimal, "average_price_decimal", in.price.ID)
	markup := s.parseAmount(cfg.MarkupAmountDecimal, "markup_amount_decimal", in.price.ID)

	markupUnit := splitUnitAmount(markup, in.rate, in.inclusive)
	averageUnit := splitUnitAmount(average, in.rate, in.inclusive)

	unitNet := averageUnit.net.Add(markupUnit.net)
	unitGross := unitNet.Mul(one.Add(in.rate))

	multiplier := in.multiplier()
	subtotal := unitNet.Mul(multiplier)
	total := unitGross.Mul(multiplier)

	return itemTotals{
		unitAmount:      unitGross,
		unitAmountNet:   unitNet,
		unitAmountGross: unitGross,
		amountSubtotal:  subtotal,
		amountTotal:     total,
		amountTax:       total.Sub(subtotal),
		displayMode:     displayModeOf(in.price),
		getAG: &getAGTotals{
			category:        cfg.Mode,
			markupAmount:    markupUnit.amount,
			markupAmountNet: markupUnit.net,
			unitAmountNet:   unitNet,
			unitAmountGross: unitGross,
		},
	}, nil
}

func zeroGetAGTotals(cfg *domain.GetAG) *getAGTotals {
	t := &getAGTotals{}
	if cfg != nil {
		t.category = cfg.Category
	}
	return t
}
