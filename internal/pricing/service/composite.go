package service

import (
	"github.com/smallbiznis/pricekit/internal/pricing/domain"
)

// ComputeCompositePrice computes a composite item and returns it with its
// components and its own total_details breakdown attached.
func (s *Service) ComputeCompositePrice(item *domain.PriceItem) (*domain.PriceItem, error) {
	line, err := s.resolveLine(item)
	if err != nil {
		return nil, err
	}
	rescaleLine(line)
	return line.item, nil
}

// composeComposite prices every component of a bundle individually and sums
// them into the parent. The parent carries no unit amounts of its own; its
// totals are purely the component sums, and it keeps a private breakdown so
// the bundle is queryable without re-walking its components.
func (s *Service) composeComposite(item *domain.PriceItem) (*lineResult, error) {
	price := item.Price

	specs := s.componentInputs(item, price)
	breakdown := newAccumulator()
	components := make([]*lineResult, 0, len(specs))
	totals := itemTotals{displayMode: domain.DisplayShowPrice}

	for _, spec := range specs {
		component, err := s.computeLineItem(spec.input)
		if err != nil {
			return nil, err
		}
		// The output echoes the component's own quantity. The parent
		// quantity is already multiplied into the computed amounts and
		// must not be applied again when the output is recomputed.
		component.item.Quantity = spec.quantity
		components = append(components, component)
		breakdown.fold(component)
		if component.skip {
			continue
		}
		totals.amountSubtotal = totals.amountSubtotal.Add(component.totals.amountSubtotal)
		totals.amountTotal = totals.amountTotal.Add(component.totals.amountTotal)
		totals.amountTax = totals.amountTax.Add(component.totals.amountTax)
	}

	parent := buildItemSkeleton(item, price, currencyOf(price))
	parent.IsCompositePrice = true
	parent.PriceDisplayInJourneys = displayModeOf(price)

	return &lineResult{
		item:       parent,
		totals:     totals,
		rtype:      priceTypeOf(price),
		period:     price.BillingPeriod,
		currency:   currencyOf(price),
		composite:  true,
		components: components,
		breakdown:  breakdown,
	}, nil
}

// componentSpec pairs the derived input for one component with the
// component's own quantity, kept aside so the output item can echo it
// untouched by the parent multiplication.
type componentSpec struct {
	input    *domain.PriceItem
	quantity *int64
}

// componentInputs resolves the list of component items to price. Caller
// supplied item_components win, matched back to their price definitions;
// otherwise one input per price component is derived.
func (s *Service) componentInputs(item *domain.PriceItem, price *domain.Price) []componentSpec {
	if len(item.ItemComponents) > 0 {
		specs := make([]componentSpec, 0, len(item.ItemComponents))
		for _, component := range item.ItemComponents {
			if component == nil {
				continue
			}
			compPrice := component.Price
			if compPrice == nil {
				compPrice = componentPriceByID(price, component.PriceID)
			}
			specs = append(specs, componentInput(item, price, component, compPrice))
		}
		return specs
	}

	specs := make([]componentSpec, 0, len(price.PriceComponents))
	for _, compPrice := range price.PriceComponents {
		if compPrice == nil {
			continue
		}
		specs = append(specs, componentInput(item, price, nil, compPrice))
	}
	return specs
}

func componentPriceByID(price *domain.Price, priceID string) *domain.Price {
	if priceID == "" {
		return nil
	}
	for _, component := range price.PriceComponents {
		if component != nil && component.ID == priceID {
			return component
		}
	}
	return nil
}

// componentInput builds the derived input item for one component. Component
// quantity multiplies with the parent quantity; tax, recurrence and currency
// fall back to the parent price when the component leaves them unset. Input
// mappings are shared down so components can be addressed by price id.
func componentInput(parent *domain.PriceItem, parentPrice *domain.Price, component *domain.PriceItem, compPrice *domain.Price) componentSpec {
	input := &domain.PriceItem{
		Price:                inheritPrice(parentPrice, compPrice),
		PriceMappings:        parent.PriceMappings,
		ExternalFeesMappings: parent.ExternalFeesMappings,
		OnRequestApproved:    parent.OnRequestApproved,
	}

	quantity := parent.EffectiveQuantity()
	var own *int64
	if component != nil {
		input.ID = component.ID
		input.Description = component.Description
		input.PriceID = component.PriceID
		input.ProductID = component.ProductID
		input.Product = component.Product
		input.Coupons = component.Coupons
		own = component.Quantity
		quantity *= component.EffectiveQuantity()
		if len(component.PriceMappings) > 0 {
			input.PriceMappings = component.PriceMappings
		}
		if len(component.ExternalFeesMappings) > 0 {
			input.ExternalFeesMappings = component.ExternalFeesMappings
		}
		if component.OnRequestApproved {
			input.OnRequestApproved = true
		}
	}
	input.Quantity = &quantity

	return componentSpec{input: input, quantity: own}
}

// inheritPrice copies a component price, filling tax, recurrence and currency
// from the parent bundle where the component leaves them unset. The catalog
// entities themselves are never mutated.
func inheritPrice(parentPrice *domain.Price, compPrice *domain.Price) *domain.Price {
	if compPrice == nil {
		return nil
	}
	out := *compPrice
	if parentPrice == nil {
		return &out
	}
	if len(out.Tax) == 0 {
		out.Tax = parentPrice.Tax
	}
	if out.Type == "" {
		out.Type = parentPrice.Type
	}
	if out.BillingPeriod == "" {
		out.BillingPeriod = parentPrice.BillingPeriod
	}
	if out.Currency == "" {
		out.Currency = parentPrice.Currency
	}
	return &out
}
