package pricing

import "math"

// DiscountKind distinguishes how a discount magnitude is interpreted.
type DiscountKind string

const (
	// KindPercentage reduces the base price by Value percent (0-100),
	// optionally capped at MaxAmount.
	KindPercentage DiscountKind = "percentage"
	// KindFixed deducts a flat Value, never below a zero price.
	KindFixed DiscountKind = "fixed"
)

// Discount describes a price reduction rule attached to a product snapshot.
type Discount struct {
	Kind      DiscountKind `json:"kind"`
	Value     float64      `json:"value"`
	MaxAmount *float64     `json:"max_amount,omitempty"`
}

// Resolution is the outcome of applying a discount to a base price.
type Resolution struct {
	Price     float64 `json:"price"`
	Deduction float64 `json:"deduction"`
}

// Resolve computes the effective unit price for a base price under an
// optional discount. It never errors: malformed input (NaN, negative
// magnitudes, unknown kinds) degrades to "no discount", and the resulting
// price is never negative.
func Resolve(basePrice float64, d *Discount) Resolution {
	if math.IsNaN(basePrice) || basePrice < 0 {
		basePrice = 0
	}

	none := Resolution{Price: basePrice, Deduction: 0}
	if d == nil || math.IsNaN(d.Value) || d.Value <= 0 {
		return none
	}

	var deduction float64
	switch d.Kind {
	case KindPercentage:
		deduction = basePrice * d.Value / 100
		if d.MaxAmount != nil && !math.IsNaN(*d.MaxAmount) && *d.MaxAmount >= 0 && deduction > *d.MaxAmount {
			deduction = *d.MaxAmount
		}
	case KindFixed:
		deduction = d.Value
	default:
		return none
	}

	if deduction > basePrice {
		deduction = basePrice
	}

	return Resolution{Price: basePrice - deduction, Deduction: deduction}
}
