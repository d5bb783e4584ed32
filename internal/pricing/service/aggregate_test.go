package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallbiznis/pricekit/internal/pricing/domain"
)

func TestAggregate_SumsAndTaxIdentity(t *testing.T) {
	svc := newTestService()

	inclusive := perUnitPrice("a", "10.00", inclusiveTax("tax-19", 19))
	inclusive.IsTaxInclusive = true
	exclusive := perUnitPrice("b", "5.00", inclusiveTax("tax-7", 7))

	details, err := svc.ComputeAggregatedAndPriceTotals([]*domain.PriceItem{
		{Quantity: qty(1), Price: inclusive},
		{Quantity: qty(3), Price: exclusive},
	})
	require.NoError(t, err)
	require.Len(t, details.Items, 2)

	for _, item := range details.Items {
		assert.Equal(t, item.AmountTax, item.AmountTotal-item.AmountSubtotal, item.PriceID)
	}
	assert.Equal(t, details.AmountTax, details.AmountTotal-details.AmountSubtotal)

	// 10.00 inclusive + 3 x 5.00 plus 7%
	assert.Equal(t, int64(1000+1605), details.AmountTotal)
	assert.Equal(t, int64(840+1500), details.AmountSubtotal)
}

func TestAggregate_TaxBucketsMatchByID(t *testing.T) {
	svc := newTestService()
	shared := inclusiveTax("tax-19", 19)

	details, err := svc.ComputeAggregatedAndPriceTotals([]*domain.PriceItem{
		{Quantity: qty(1), Price: perUnitPrice("a", "10.00", shared)},
		{Quantity: qty(1), Price: perUnitPrice("b", "20.00", shared)},
		{Quantity: qty(1), Price: perUnitPrice("c", "10.00", inclusiveTax("tax-7", 7))},
	})
	require.NoError(t, err)

	breakdown := details.TotalDetails.Breakdown
	require.Len(t, breakdown.Taxes, 2)
	assert.Equal(t, int64(190+380), breakdown.Taxes[0].Amount)
	assert.Equal(t, int64(70), breakdown.Taxes[1].Amount)
	assert.Equal(t, "19", breakdown.Taxes[0].Tax.Rate)
	assert.Equal(t, "7", breakdown.Taxes[1].Tax.Rate)
}

func TestAggregate_RecurrenceBuckets(t *testing.T) {
	svc := newTestService()

	monthly := perUnitPrice("a", "10.00")
	monthly.Type = domain.Recurring
	monthly.BillingPeriod = domain.Monthly
	yearly := perUnitPrice("b", "100.00")
	yearly.Type = domain.Recurring
	yearly.BillingPeriod = domain.Yearly
	oneTime := perUnitPrice("c", "7.00")

	details, err := svc.ComputeAggregatedAndPriceTotals([]*domain.PriceItem{
		{Quantity: qty(1), Price: monthly},
		{Quantity: qty(1), Price: yearly},
		{Quantity: qty(1), Price: oneTime},
		{Quantity: qty(2), Price: monthly},
	})
	require.NoError(t, err)

	breakdown := details.TotalDetails.Breakdown
	require.Len(t, breakdown.Recurrences, 3)

	assert.Equal(t, domain.Recurring, breakdown.Recurrences[0].Type)
	assert.Equal(t, domain.Monthly, breakdown.Recurrences[0].BillingPeriod)
	assert.Equal(t, int64(3000), breakdown.Recurrences[0].AmountTotal)

	assert.Equal(t, domain.Yearly, breakdown.Recurrences[1].BillingPeriod)
	assert.Equal(t, int64(10000), breakdown.Recurrences[1].AmountTotal)

	assert.Equal(t, domain.OneTime, breakdown.Recurrences[2].Type)
	assert.Empty(t, breakdown.Recurrences[2].BillingPeriod)
	assert.Equal(t, int64(700), breakdown.Recurrences[2].AmountTotal)
}

func TestAggregate_RecurrencesByTax(t *testing.T) {
	svc := newTestService()

	monthly19 := perUnitPrice("a", "10.00", inclusiveTax("tax-19", 19))
	monthly19.Type = domain.Recurring
	monthly19.BillingPeriod = domain.Monthly
	monthly7 := perUnitPrice("b", "10.00", inclusiveTax("tax-7", 7))
	monthly7.Type = domain.Recurring
	monthly7.BillingPeriod = domain.Monthly

	details, err := svc.ComputeAggregatedAndPriceTotals([]*domain.PriceItem{
		{Quantity: qty(1), Price: monthly19},
		{Quantity: qty(1), Price: monthly7},
	})
	require.NoError(t, err)

	buckets := details.TotalDetails.Breakdown.RecurrencesByTax
	require.Len(t, buckets, 2)
	assert.Equal(t, float64(19), buckets[0].TaxRate)
	assert.Equal(t, float64(7), buckets[1].TaxRate)
	assert.Equal(t, domain.Monthly, buckets[0].BillingPeriod)
	require.NotNil(t, buckets[0].Tax)
	assert.Equal(t, int64(190), buckets[0].Tax.Amount)
}

func TestAggregate_Idempotence(t *testing.T) {
	svc := newTestService()
	price := perUnitPrice("a", "789.46", inclusiveTax("tax-19", 19))
	price.IsTaxInclusive = true

	first, err := svc.ComputePriceItemDetails(&domain.PriceItem{
		Quantity: qty(2),
		Price:    price,
		Coupons:  []*domain.Coupon{percentageCoupon(25)},
	})
	require.NoError(t, err)

	second, err := svc.ComputePriceItemDetails(first.Items[0])
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAggregate_ImmutableDetailsEchoedVerbatim(t *testing.T) {
	svc := newTestService()

	frozen := &domain.PriceItem{
		ID:             "frozen-1",
		Currency:       "EUR",
		Type:           domain.Recurring,
		BillingPeriod:  domain.Monthly,
		AmountSubtotal: 840,
		AmountTotal:    1000,
		AmountTax:      160,
		UnitAmountNet:  840,
		Taxes: []*domain.TaxAmount{
			{Tax: &domain.Tax{ID: "tax-19"}, Rate: "19", RateValue: 19, Amount: 160},
		},
	}

	marker := &domain.PricingDetails{Items: []*domain.PriceItem{frozen}}
	details, err := svc.ComputeAggregatedAndPriceTotals([]*domain.PriceItem{
		{
			ImmutablePricingDetails: marker,
			// A price snapshot that would compute differently; it must be
			// ignored in favor of the frozen result.
			Price:    perUnitPrice("a", "999.99"),
			Quantity: qty(5),
		},
		{Quantity: qty(1), Price: perUnitPrice("b", "5.00")},
	})
	require.NoError(t, err)

	require.Len(t, details.Items, 2)
	expected := *frozen
	expected.ImmutablePricingDetails = marker
	assert.Equal(t, &expected, details.Items[0])
	assert.Equal(t, int64(1000+500), details.AmountTotal)
	assert.Equal(t, int64(160), details.AmountTax)

	// The frozen tax still lands in its bucket.
	require.Len(t, details.TotalDetails.Breakdown.Taxes, 1)
	assert.Equal(t, int64(160), details.TotalDetails.Breakdown.Taxes[0].Amount)
}

func TestAggregate_ImmutableSurvivesRecompute(t *testing.T) {
	svc := newTestService()

	frozen := &domain.PriceItem{
		ID:             "frozen-1",
		Currency:       "EUR",
		Type:           domain.OneTime,
		AmountSubtotal: 840,
		AmountTotal:    1000,
		AmountTax:      160,
		Taxes: []*domain.TaxAmount{
			{Tax: &domain.Tax{ID: "tax-19"}, Rate: "19", RateValue: 19, Amount: 160},
		},
	}

	first, err := svc.ComputeAggregatedAndPriceTotals([]*domain.PriceItem{
		{ImmutablePricingDetails: &domain.PricingDetails{Items: []*domain.PriceItem{frozen}}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1000), first.AmountTotal)

	// No price snapshot survives on the echoed item; the frozen marker
	// alone must keep a second pass from recomputing the line to zero.
	second, err := svc.ComputeAggregatedAndPriceTotals(first.Items)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), second.AmountTotal)
	assert.Equal(t, first, second)
}

func TestAggregate_SkipsNilItems(t *testing.T) {
	svc := newTestService()

	details, err := svc.ComputeAggregatedAndPriceTotals([]*domain.PriceItem{
		nil,
		{Quantity: qty(1), Price: perUnitPrice("a", "5.00")},
	})
	require.NoError(t, err)
	require.Len(t, details.Items, 1)
	assert.Equal(t, int64(500), details.AmountTotal)
}

func TestAggregate_EmptyInput(t *testing.T) {
	svc := newTestService()

	details, err := svc.ComputeAggregatedAndPriceTotals(nil)
	require.NoError(t, err)
	assert.Empty(t, details.Items)
	assert.Equal(t, int64(0), details.AmountTotal)
	assert.Equal(t, "EUR", details.Currency)
}

func TestAggregate_OrderInvariantTotals(t *testing.T) {
	svc := newTestService()

	a := &domain.PriceItem{Quantity: qty(1), Price: perUnitPrice("a", "10.00", inclusiveTax("tax-19", 19))}
	b := &domain.PriceItem{Quantity: qty(2), Price: perUnitPrice("b", "3.33", inclusiveTax("tax-7", 7))}
	c := &domain.PriceItem{Quantity: qty(7), Price: perUnitPrice("c", "0.19")}

	forward, err := svc.ComputeAggregatedAndPriceTotals([]*domain.PriceItem{a, b, c})
	require.NoError(t, err)
	reverse, err := svc.ComputeAggregatedAndPriceTotals([]*domain.PriceItem{c, b, a})
	require.NoError(t, err)

	assert.Equal(t, forward.AmountSubtotal, reverse.AmountSubtotal)
	assert.Equal(t, forward.AmountTotal, reverse.AmountTotal)
	assert.Equal(t, forward.AmountTax, reverse.AmountTax)
}
