// Package snapshot embeds catalog entities into computed results. Raw
// catalog records carry access-control and audit bookkeeping that has no
// place in a pricing result; the copies returned here are stripped of it,
// recursively for composite prices. Inputs are never mutated.
package snapshot

import (
	"github.com/smallbiznis/pricekit/internal/pricing/domain"
)

// Price returns a stripped copy of a price definition, including its
// components.
func Price(p *domain.Price) *domain.Price {
	if p == nil {
		return nil
	}

	out := *p
	out.Org = ""
	out.OwnerID = ""
	out.ACL = nil
	out.Schema = ""
	out.CreatedAt = ""
	out.UpdatedAt = ""
	out.Relations = nil
	out.Files = nil

	if len(p.PriceComponents) > 0 {
		out.PriceComponents = make([]*domain.Price, 0, len(p.PriceComponents))
		for _, component := range p.PriceComponents {
			out.PriceComponents = append(out.PriceComponents, Price(component))
		}
	}
	return &out
}

// Product returns a stripped copy of a product.
func Product(p *domain.Product) *domain.Product {
	if p == nil {
		return nil
	}

	out := *p
	out.Org = ""
	out.OwnerID = ""
	out.ACL = nil
	out.Schema = ""
	out.CreatedAt = ""
	out.UpdatedAt = ""
	out.Relations = nil
	out.Files = nil
	return &out
}
