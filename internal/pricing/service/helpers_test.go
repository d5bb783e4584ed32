package service

import (
	"go.uber.org/zap"

	"github.com/smallbiznis/pricekit/internal/pricing/domain"
)

func newTestService() domain.Service {
	return NewService(ServiceParam{Log: zap.NewNop()})
}

func qty(v int64) *int64 { return &v }

func upTo(v float64) *float64 { return &v }

func mappingValue(v float64) *float64 { return &v }

// perUnitPrice is the most common fixture: a stated unit amount with an
// optional tax.
func perUnitPrice(id, amount string, taxes ...*domain.Tax) *domain.Price {
	return &domain.Price{
		ID:                "price-" + id,
		Description:       "Price " + id,
		PricingModel:      domain.PerUnit,
		UnitAmountDecimal: amount,
		Currency:          "EUR",
		Tax:               taxes,
	}
}

func inclusiveTax(id string, rate any) *domain.Tax {
	return &domain.Tax{ID: id, Type: "VAT", Rate: rate}
}
