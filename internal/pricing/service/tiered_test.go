package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallbiznis/pricekit/internal/pricing/domain"
)

func volumePrice(tiers []domain.PriceTier) *domain.Price {
	return &domain.Price{
		ID:           "price-volume",
		PricingModel: domain.TieredVolume,
		Currency:     "EUR",
		Tiers:        tiers,
	}
}

func TestTieredVolume_BoundaryIsInclusive(t *testing.T) {
	svc := newTestService()
	price := volumePrice([]domain.PriceTier{
		{UpTo: upTo(10), UnitAmountDecimal: "1.00"},
		{UpTo: nil, UnitAmountDecimal: "0.50"},
	})

	// 10 sits exactly on the boundary and selects the lower tier.
	details, err := svc.ComputePriceItemDetails(&domain.PriceItem{Quantity: qty(10), Price: price})
	require.NoError(t, err)
	assert.Equal(t, int64(1000), details.Items[0].AmountTotal)

	details, err = svc.ComputePriceItemDetails(&domain.PriceItem{Quantity: qty(11), Price: price})
	require.NoError(t, err)
	assert.Equal(t, int64(550), details.Items[0].AmountTotal)
}

func TestTieredVolume_EmitsSingleTierDetail(t *testing.T) {
	svc := newTestService()
	price := volumePrice([]domain.PriceTier{
		{UpTo: upTo(10), UnitAmountDecimal: "1.00"},
		{UpTo: nil, UnitAmountDecimal: "0.50"},
	})

	details, err := svc.ComputePriceItemDetails(&domain.PriceItem{Quantity: qty(4), Price: price})
	require.NoError(t, err)

	item := details.Items[0]
	require.Len(t, item.TiersDetails, 1)
	assert.Equal(t, float64(4), item.TiersDetails[0].Quantity)
	assert.Equal(t, int64(100), item.TiersDetails[0].UnitAmount)
	assert.Equal(t, int64(400), item.TiersDetails[0].AmountTotal)
}

func TestTieredVolume_EmptyTiersYieldZero(t *testing.T) {
	svc := newTestService()

	details, err := svc.ComputePriceItemDetails(&domain.PriceItem{Quantity: qty(5), Price: volumePrice(nil)})
	require.NoError(t, err)
	assert.Equal(t, int64(0), details.Items[0].AmountTotal)
}

func TestTieredVolume_InvalidBoundsFail(t *testing.T) {
	svc := newTestService()
	price := volumePrice([]domain.PriceTier{
		{UpTo: upTo(10), UnitAmountDecimal: "1.00"},
		{UpTo: upTo(5), UnitAmountDecimal: "0.50"},
	})

	_, err := svc.ComputePriceItemDetails(&domain.PriceItem{Quantity: qty(3), Price: price})
	require.ErrorIs(t, err, domain.ErrInvalidTierBounds)
}

func TestTieredVolume_MappingNormalizedAcrossFrequencies(t *testing.T) {
	svc := newTestService()
	price := volumePrice([]domain.PriceTier{
		{UpTo: upTo(1000), UnitAmountDecimal: "1.00"},
		{UpTo: nil, UnitAmountDecimal: "0.50"},
	})
	price.Type = domain.Recurring
	price.BillingPeriod = domain.Monthly

	// The raw yearly 1300 selects the tier; the monthly-normalized 100 is
	// what gets billed.
	details, err := svc.ComputePriceItemDetails(&domain.PriceItem{
		Quantity: qty(1),
		Price:    price,
		PriceMappings: []domain.PriceMapping{
			{PriceID: price.ID, Value: mappingValue(1300), FrequencyUnit: domain.Yearly},
		},
	})
	require.NoError(t, err)

	item := details.Items[0]
	assert.Equal(t, int64(5000), item.AmountTotal)
	require.Len(t, item.TiersDetails, 1)
	assert.Equal(t, float64(100), item.TiersDetails[0].Quantity)
	assert.Equal(t, int64(50), item.TiersDetails[0].UnitAmount)
}

func TestTieredVolume_UnboundedTierMustBeLast(t *testing.T) {
	svc := newTestService()
	price := volumePrice([]domain.PriceTier{
		{UpTo: nil, UnitAmountDecimal: "1.00"},
		{UpTo: upTo(10), UnitAmountDecimal: "0.50"},
	})

	_, err := svc.ComputePriceItemDetails(&domain.PriceItem{Quantity: qty(3), Price: price})
	require.ErrorIs(t, err, domain.ErrInvalidTierBounds)
}

func graduatedPrice() *domain.Price {
	return &domain.Price{
		ID:           "price-graduated",
		PricingModel: domain.TieredGraduated,
		Currency:     "EUR",
		Tiers: []domain.PriceTier{
			{UpTo: upTo(10), UnitAmountDecimal: "10.00"},
			{UpTo: upTo(20), UnitAmountDecimal: "8.00"},
			{UpTo: nil, UnitAmountDecimal: "6.00"},
		},
	}
}

func TestTieredGraduated_PartitionsAcrossTiers(t *testing.T) {
	svc := newTestService()

	details, err := svc.ComputePriceItemDetails(&domain.PriceItem{Quantity: qty(15), Price: graduatedPrice()})
	require.NoError(t, err)

	// 10 x 10.00 + 5 x 8.00 = 140.00
	item := details.Items[0]
	assert.Equal(t, int64(14000), item.AmountSubtotal)
	assert.Equal(t, int64(14000), item.AmountTotal)

	require.Len(t, item.TiersDetails, 2)
	assert.Equal(t, float64(10), item.TiersDetails[0].Quantity)
	assert.Equal(t, int64(10000), item.TiersDetails[0].AmountTotal)
	assert.Equal(t, float64(5), item.TiersDetails[1].Quantity)
	assert.Equal(t, int64(4000), item.TiersDetails[1].AmountTotal)
}

func TestTieredGraduated_BlendedUnitAmount(t *testing.T) {
	svc := newTestService()

	details, err := svc.ComputePriceItemDetails(&domain.PriceItem{Quantity: qty(15), Price: graduatedPrice()})
	require.NoError(t, err)

	// 140.00 / 15 = 9.3333...
	assert.Equal(t, int64(933), details.Items[0].UnitAmount)
}

func TestTieredGraduated_NegativeQuantityFails(t *testing.T) {
	svc := newTestService()

	_, err := svc.ComputePriceItemDetails(&domain.PriceItem{Quantity: qty(-3), Price: graduatedPrice()})
	require.ErrorIs(t, err, domain.ErrQuantityBelowTier)
}

func TestTieredGraduated_MappingCountsBundles(t *testing.T) {
	svc := newTestService()
	price := graduatedPrice()

	details, err := svc.ComputePriceItemDetails(&domain.PriceItem{
		Quantity:      qty(2),
		Price:         price,
		PriceMappings: []domain.PriceMapping{{PriceID: price.ID, Value: mappingValue(15)}},
	})
	require.NoError(t, err)

	// Two bundles of 15, each internally tiered.
	assert.Equal(t, int64(28000), details.Items[0].AmountTotal)
}

func TestTieredGraduated_MappingNormalizedAcrossFrequencies(t *testing.T) {
	svc := newTestService()
	price := graduatedPrice()
	price.Type = domain.Recurring
	price.BillingPeriod = domain.Monthly

	details, err := svc.ComputePriceItemDetails(&domain.PriceItem{
		Quantity: qty(1),
		Price:    price,
		PriceMappings: []domain.PriceMapping{
			{PriceID: price.ID, Value: mappingValue(15), FrequencyUnit: domain.Yearly},
		},
	})
	require.NoError(t, err)

	// The yearly 15 partitions the tiers (10 x 10.00 + 5 x 8.00 = 140.00);
	// billed monthly that is 140.00 / 13 = 10.77.
	assert.Equal(t, int64(1077), details.Items[0].AmountTotal)
}

func TestTieredFlatFee_ChargedOnce(t *testing.T) {
	svc := newTestService()
	price := &domain.Price{
		ID:           "price-flat",
		PricingModel: domain.TieredFlatFee,
		Currency:     "EUR",
		Tiers: []domain.PriceTier{
			{UpTo: upTo(10), FlatFeeAmountDecimal: "25.00"},
			{UpTo: nil, FlatFeeAmountDecimal: "40.00"},
		},
	}

	details, err := svc.ComputePriceItemDetails(&domain.PriceItem{Quantity: qty(7), Price: price})
	require.NoError(t, err)
	assert.Equal(t, int64(2500), details.Items[0].AmountTotal)

	details, err = svc.ComputePriceItemDetails(&domain.PriceItem{Quantity: qty(11), Price: price})
	require.NoError(t, err)
	assert.Equal(t, int64(4000), details.Items[0].AmountTotal)
}

func TestTierDisplayMode_OnRequestGate(t *testing.T) {
	svc := newTestService()
	price := volumePrice([]domain.PriceTier{
		{UpTo: upTo(10), UnitAmountDecimal: "1.00"},
		{UpTo: nil, UnitAmountDecimal: "0.50", DisplayMode: domain.TierDisplayOnRequest},
	})

	// Unapproved: the line is visible but zeroed and excluded from totals.
	details, err := svc.ComputePriceItemDetails(&domain.PriceItem{Quantity: qty(50), Price: price})
	require.NoError(t, err)

	item := details.Items[0]
	assert.Equal(t, domain.DisplayOnRequest, item.PriceDisplayInJourneys)
	assert.Equal(t, int64(0), item.AmountTotal)
	assert.Equal(t, int64(0), details.AmountTotal)

	// Approval unlocks the computed amounts.
	details, err = svc.ComputePriceItemDetails(&domain.PriceItem{
		Quantity:          qty(50),
		Price:             price,
		OnRequestApproved: true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2500), details.Items[0].AmountTotal)
	assert.Equal(t, int64(2500), details.AmountTotal)
}
