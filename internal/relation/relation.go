// Package relation extracts the catalog entities referenced by a set of
// price items, for callers that need to link a computed result back to its
// prices and products. It walks composite components as well, deduplicates,
// and normalizes tags into URL-safe slugs.
package relation

import (
	"github.com/gosimple/slug"
	"github.com/samber/lo"

	"github.com/smallbiznis/pricekit/internal/pricing/domain"
)

// EntityRef points at one referenced catalog entity.
type EntityRef struct {
	EntityID string `json:"entity_id,omitempty"`
}

// EntityRelations is the extraction result: unique price and product
// references in first-appearance order, plus the slug-normalized tag union.
type EntityRelations struct {
	Prices   []EntityRef `json:"price,omitempty"`
	Products []EntityRef `json:"product,omitempty"`
	Tags     []string    `json:"_tags,omitempty"`
}

// ExtractPricingEntitiesBySlug collects the prices, products and tags
// referenced by the given items, including nested composite components.
func ExtractPricingEntitiesBySlug(items []*domain.PriceItem) EntityRelations {
	c := &collector{
		seenPrices:   map[string]bool{},
		seenProducts: map[string]bool{},
		seenTags:     map[string]bool{},
	}
	for _, item := range items {
		c.item(item)
	}
	return c.out
}

type collector struct {
	out          EntityRelations
	seenPrices   map[string]bool
	seenProducts map[string]bool
	seenTags     map[string]bool
}

func (c *collector) item(item *domain.PriceItem) {
	if item == nil {
		return
	}

	c.price(item.Price, priceIDOf(item))
	c.product(item.Product, productIDOf(item))
	for _, component := range item.ItemComponents {
		c.item(component)
	}
}

func (c *collector) price(price *domain.Price, id string) {
	if price != nil && id == "" {
		id = price.ID
	}
	if id != "" && !c.seenPrices[id] {
		c.seenPrices[id] = true
		c.out.Prices = append(c.out.Prices, EntityRef{EntityID: id})
	}
	if price == nil {
		return
	}
	c.tags(price.Tags)
	for _, component := range price.PriceComponents {
		c.price(component, "")
	}
}

func (c *collector) product(product *domain.Product, id string) {
	if product != nil && id == "" {
		id = product.ID
	}
	if id != "" && !c.seenProducts[id] {
		c.seenProducts[id] = true
		c.out.Products = append(c.out.Products, EntityRef{EntityID: id})
	}
	if product != nil {
		c.tags(product.Tags)
	}
}

func (c *collector) tags(tags []string) {
	normalized := lo.FilterMap(tags, func(tag string, _ int) (string, bool) {
		s := slug.Make(tag)
		if s == "" || c.seenTags[s] {
			return "", false
		}
		c.seenTags[s] = true
		return s, true
	})
	c.out.Tags = append(c.out.Tags, normalized...)
}

func priceIDOf(item *domain.PriceItem) string {
	if item.PriceID != "" {
		return item.PriceID
	}
	if item.Price != nil {
		return item.Price.ID
	}
	return ""
}

func productIDOf(item *domain.PriceItem) string {
	if item.ProductID != "" {
		return item.ProductID
	}
	if item.Product != nil {
		return item.Product.ID
	}
	return ""
}
