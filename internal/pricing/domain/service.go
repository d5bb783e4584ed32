package domain

// Service is the pricing computation engine. Every method is a pure
// function: no input is mutated, identical inputs produce identical outputs,
// and concurrent callers need no coordination.
type Service interface {
	// ComputeAggregatedAndPriceTotals computes every item and folds the
	// results into consistent grouped totals.
	ComputeAggregatedAndPriceTotals(items []*PriceItem) (*PricingDetails, error)

	// ComputePriceItemDetails is the single-item convenience wrapper.
	ComputePriceItemDetails(item *PriceItem) (*PricingDetails, error)

	// ComputeCompositePrice expands a bundle into computed components
	// without running the full aggregation.
	ComputeCompositePrice(item *PriceItem) (*PriceItem, error)
}
