package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/smallbiznis/pricekit/internal/pricing/domain"
)

// validateTiers enforces ascending, strictly widening tier bounds. A tier
// whose span collapses (min >= max) indicates a malformed catalog entry and
// is fatal to the computation.
func validateTiers(tiers []domain.PriceTier) error {
	previous := decimal.Zero
	for i, tier := range tiers {
		if tier.UpTo == nil {
			if i != len(tiers)-1 {
				return fmt.Errorf("tier %d: unbounded tier before the end: %w", i, domain.ErrInvalidTierBounds)
			}
			continue
		}
		upTo := decimal.NewFromFloat(*tier.UpTo)
		if i == 0 {
			if !upTo.IsPositive() {
				return fmt.Errorf("tier 0: upper bound %s: %w", upTo, domain.ErrInvalidTierBounds)
			}
		} else if upTo.LessThanOrEqual(previous) {
			return fmt.Errorf("tier %d: upper bound %s not above %s: %w", i, upTo, previous, domain.ErrInvalidTierBounds)
		}
		previous = upTo
	}
	return nil
}

// matchTier returns the tier a selection quantity falls into. Tiers are
// consulted in ascending order and the match is inclusive at each boundary:
// a quantity exactly equal to up_to selects that tier. Non-positive
// quantities select the first tier.
func matchTier(tiers []domain.PriceTier, quantity decimal.Decimal) (int, domain.PriceTier) {
	if len(tiers) == 0 {
		return -1, domain.PriceTier{}
	}
	if quantity.Sign() <= 0 {
		return 0, tiers[0]
	}
	for i, tier := range tiers {
		if tier.UpTo == nil {
			return i, tier
		}
		if quantity.LessThanOrEqual(decimal.NewFromFloat(*tier.UpTo)) {
			return i, tier
		}
	}
	return len(tiers) - 1, tiers[len(tiers)-1]
}

// computeTieredVolume prices the entire multiplier at the single matching
// tier's unit rate.
func (s *Service) computeTieredVolume(in computeInput) (itemTotals, error) {
	if len(in.price.Tiers) == 0 {
		return itemTotals{displayMode: displayModeOf(in.price)}, nil
	}
	if err := validateTiers(in.price.Tiers); err != nil {
		return itemTotals{}, err
	}

	_, tier := matchTier(in.price.Tiers, in.selectionQuantity())
	amount := s.parseAmount(tier.UnitAmountDecimal, "unit_amount_decimal", in.price.ID)
	unit := splitUnitAmount(amount, in.rate, in.inclusive)

	// The raw input value selects the tier; totals scale by the
	// frequency-normalized multiplier, same as the per-unit model.
	mult := in.multiplier()
	if mult.Sign() < 0 {
		mult = decimal.Zero
	}
	subtotal, total, tax := unit.scaled(mult)

	detail := tierDetail{
		quantity:        mult,
		unitAmount:      unit.amount,
		unitAmountNet:   unit.net,
		unitAmountGross: unit.gross,
		amountSubtotal:  subtotal,
		amountTotal:     total,
		amountTax:       tax,
		displayMode:     tier.DisplayMode,
	}

	return itemTotals{
		unitAmount:      unit.amount,
		unitAmountNet:   unit.net,
		unitAmountGross: unit.gross,
		amountSubtotal:  subtotal,
		amountTotal:     total,
		amountTax:       tax,
		tiersDetails:    []tierDetail{detail},
		displayMode:     effectiveDisplayMode(in.price, tier.DisplayMode),
	}, nil
}

// computeTieredGraduated partitions the selection quantity across all tiers
// up to and including the matching one; each tier contributes its own span
// at its own rate.
func (s *Service) computeTieredGraduated(in computeInput) (itemTotals, error) {
	if len(in.price.Tiers) == 0 {
		return itemTotals{displayMode: displayModeOf(in.price)}, nil
	}
	if err := validateTiers(in.price.Tiers); err != nil {
		return itemTotals{}, err
	}

	quantity := in.selectionQuantity()
	if quantity.Sign() < 0 {
		return itemTotals{}, fmt.Errorf("selection quantity %s: %w", quantity, domain.ErrQuantityBelowTier)
	}

	totals := itemTotals{displayMode: displayModeOf(in.price)}
	remaining := quantity
	previous := decimal.Zero
	for _, tier := range in.price.Tiers {
		span := remaining
		if tier.UpTo != nil {
			width := decimal.NewFromFloat(*tier.UpTo).Sub(previous)
			if span.GreaterThan(width) {
				span = width
			}
			previous = decimal.NewFromFloat(*tier.UpTo)
		}

		amount := s.parseAmount(tier.UnitAmountDecimal, "unit_amount_decimal", in.price.ID)
		unit := splitUnitAmount(amount, in.rate, in.inclusive)
		subtotal, total, tax := unit.scaled(span)

		totals.amountSubtotal = totals.amountSubtotal.Add(subtotal)
		totals.amountTotal = totals.amountTotal.Add(total)
		totals.amountTax = totals.amountTax.Add(tax)
		totals.tiersDetails = append(totals.tiersDetails, tierDetail{
			quantity:        span,
			unitAmount:      unit.amount,
			unitAmountNet:   unit.net,
			unitAmountGross: unit.gross,
			amountSubtotal:  subtotal,
			amountTotal:     total,
			amountTax:       tax,
			displayMode:     tier.DisplayMode,
		})
		totals.displayMode = effectiveDisplayMode(in.price, tier.DisplayMode)

		remaining = remaining.Sub(span)
		if remaining.Sign() <= 0 {
			break
		}
	}

	// The blended unit amounts are the weighted averages over the consumed
	// spans; with nothing consumed they stay zero.
	if quantity.Sign() > 0 {
		totals.unitAmount = totals.amountTotal.Div(quantity).Round(internalPrecision)
		totals.unitAmountNet = totals.amountSubtotal.Div(quantity).Round(internalPrecision)
		totals.unitAmountGross = totals.unitAmount
	}

	// The spans are tiered over the raw mapped input; the normalization
	// ratio and the line quantity scale them into line totals. The blended
	// unit amounts above are per raw unit and stay untouched.
	if scale := in.bundleScale(); !scale.Equal(one) {
		totals.amountSubtotal = totals.amountSubtotal.Mul(scale)
		totals.amountTotal = totals.amountTotal.Mul(scale)
		totals.amountTax = totals.amountTax.Mul(scale)
		for i := range totals.tiersDetails {
			detail := &totals.tiersDetails[i]
			detail.amountSubtotal = detail.amountSubtotal.Mul(scale)
			detail.amountTotal = detail.amountTotal.Mul(scale)
			detail.amountTax = detail.amountTax.Mul(scale)
		}
	}

	return totals, nil
}

// computeTieredFlatFee charges the matching tier's flat fee once, or once
// per line quantity when the tier is selected through a price mapping.
func (s *Service) computeTieredFlatFee(in computeInput) (itemTotals, error) {
	if len(in.price.Tiers) == 0 {
		return itemTotals{displayMode: displayModeOf(in.price)}, nil
	}
	if err := validateTiers(in.price.Tiers); err != nil {
		return itemTotals{}, err
	}

	_, tier := matchTier(in.price.Tiers, in.selectionQuantity())
	amount := s.parseAmount(tier.FlatFeeAmountDecimal, "flat_fee_amount_decimal", in.price.ID)
	unit := splitUnitAmount(amount, in.rate, in.inclusive)

	factor := one
	if in.mappingRaw != nil {
		factor = in.quantity
	}
	subtotal, total, tax := unit.scaled(factor)

	detail := tierDetail{
		quantity:        in.selectionQuantity(),
		unitAmount:      unit.amount,
		unitAmountNet:   unit.net,
		unitAmountGross: unit.gross,
		amountSubtotal:  subtotal,
		amountTotal:     total,
		amountTax:       tax,
		displayMode:     tier.DisplayMode,
	}

	return itemTotals{
		unitAmount:      unit.amount,
		unitAmountNet:   unit.net,
		unitAmountGross: unit.gross,
		amountSubtotal:  subtotal,
		amountTotal:     total,
		amountTax:       tax,
		tiersDetails:    []tierDetail{detail},
		displayMode:     effectiveDisplayMode(in.price, tier.DisplayMode),
	}, nil
}

func displayModeOf(price *domain.Price) domain.PriceDisplayInJourneys {
	if price.PriceDisplayInJourneys == "" {
		return domain.DisplayShowPrice
	}
	return price.PriceDisplayInJourneys
}

// effectiveDisplayMode overrides the caller-supplied display mode when the
// matched tier requires explicit approval.
func effectiveDisplayMode(price *domain.Price, tierMode domain.TierDisplayMode) domain.PriceDisplayInJourneys {
	if tierMode == domain.TierDisplayOnRequest {
		return domain.DisplayOnRequest
	}
	return displayModeOf(price)
}
