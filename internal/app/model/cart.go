package model

import (
	"github.com/fruitfulhq/storefront-backend/pkg/pricing"
)

// VariantSelection is an optional variant chosen for a cart line. Price,
// when set, supersedes the product's base price for that line.
type VariantSelection struct {
	Name  string   `json:"name"`
	Price *float64 `json:"price,omitempty"`
}

// ProductSnapshot is the denormalized product state cached on a cart line
// at add-time (or refreshed on reload) so views render without a second
// fetch per line.
type ProductSnapshot struct {
	ProductID     string   `json:"product_id"`
	Name          string   `json:"name"`
	Price         float64  `json:"price"`
	DiscountKind  string   `json:"discount_kind,omitempty"` // "percentage" or "fixed"
	DiscountValue float64  `json:"discount_value,omitempty"`
	MaxDiscount   *float64 `json:"max_discount,omitempty"`
	// LegacyDiscount is the older flat percentage field some backend
	// responses still carry. Treated as a percentage discount when the
	// structured fields are absent.
	LegacyDiscount float64  `json:"discount,omitempty"`
	Images         []string `json:"images,omitempty"`
}

// Discount normalizes the snapshot's discount fields into a resolver rule.
// Returns nil when the product carries no discount.
func (p ProductSnapshot) Discount() *pricing.Discount {
	switch p.DiscountKind {
	case string(pricing.KindPercentage):
		return &pricing.Discount{Kind: pricing.KindPercentage, Value: p.DiscountValue, MaxAmount: p.MaxDiscount}
	case string(pricing.KindFixed):
		return &pricing.Discount{Kind: pricing.KindFixed, Value: p.DiscountValue}
	}
	if p.LegacyDiscount > 0 {
		return &pricing.Discount{Kind: pricing.KindPercentage, Value: p.LegacyDiscount, MaxAmount: p.MaxDiscount}
	}
	return nil
}

// CartLine is one product(+variant) entry in a cart.
type CartLine struct {
	ID        string            `json:"id"`
	ProductID string            `json:"product_id"`
	Quantity  int               `json:"quantity"`
	Variant   *VariantSelection `json:"variant,omitempty"`
	Product   ProductSnapshot   `json:"product"`
}

// UnitPrice returns the variant override price when present, else the
// product snapshot's base price.
func (l CartLine) UnitPrice() float64 {
	if l.Variant != nil && l.Variant.Price != nil {
		return *l.Variant.Price
	}
	return l.Product.Price
}

// EffectivePrice is the unit price after the product's discount.
func (l CartLine) EffectivePrice() float64 {
	return pricing.Resolve(l.UnitPrice(), l.Product.Discount()).Price
}

// Subtotal is quantity times effective unit price.
func (l CartLine) Subtotal() float64 {
	return float64(l.Quantity) * l.EffectivePrice()
}

// VariantName returns the selected variant's name, or "" for the bare product.
func (l CartLine) VariantName() string {
	if l.Variant == nil {
		return ""
	}
	return l.Variant.Name
}

// CartTotal sums quantity times effective unit price over all lines.
func CartTotal(lines []CartLine) float64 {
	var total float64
	for _, line := range lines {
		total += line.Subtotal()
	}
	return total
}
