package service

// computePerUnit is the base strategy: a stated unit amount multiplied out.
// All tiered strategies delegate to the same unit split per tier.
func (s *Service) computePerUnit(in computeInput) itemTotals {
	amount := s.parseAmount(in.price.UnitAmountDecimal, "unit_amount_decimal", in.price.ID)
	unit := splitUnitAmount(amount, in.rate, in.inclusive)

	subtotal, total, tax := unit.scaled(in.multiplier())
	return itemTotals{
		unitAmount:      unit.amount,
		unitAmountNet:   unit.net,
		unitAmountGross: unit.gross,
		amountSubtotal:  subtotal,
		amountTotal:     total,
		amountTax:       tax,
		displayMode:     displayModeOf(in.price),
	}
}
