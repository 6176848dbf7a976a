package pricing

import (
	"github.com/shopspring/decimal"
)

// Rounding selects how tax is rounded to cents.
type Rounding string

const (
	// RoundHalfUp rounds .005 away from zero (typical currency handling).
	RoundHalfUp Rounding = "half_up"
	// RoundBank rounds .005 to the nearest even cent.
	RoundBank Rounding = "bank"
)

// Documented pricing defaults. Currency units are Rand.
const (
	DefaultFreeShippingThreshold = "500"
	DefaultFlatShippingRate      = "50"
	DefaultTaxRate               = "0.15"
)

// Policy holds the shipping and tax rules applied to a cart subtotal.
// It is a pure value; Quote has no side effects.
type Policy struct {
	FreeShippingThreshold decimal.Decimal
	FlatShippingRate      decimal.Decimal
	TaxRate               decimal.Decimal
	Rounding              Rounding
}

// DefaultPolicy returns the storefront defaults: free shipping from 500,
// flat 50 below it, 15% tax on the subtotal only, half-up rounding.
func DefaultPolicy() Policy {
	return Policy{
		FreeShippingThreshold: decimal.RequireFromString(DefaultFreeShippingThreshold),
		FlatShippingRate:      decimal.RequireFromString(DefaultFlatShippingRate),
		TaxRate:               decimal.RequireFromString(DefaultTaxRate),
		Rounding:              RoundHalfUp,
	}
}

// Quote is the priced breakdown of a subtotal.
type Quote struct {
	Subtotal     decimal.Decimal
	ShippingCost decimal.Decimal
	Tax          decimal.Decimal
	Total        decimal.Decimal
}

// Quote derives shipping, tax and total from a subtotal. Tax is rounded
// once, to two decimal places, on the full subtotal; rounding per line
// would accumulate drift.
func (p Policy) Quote(subtotal decimal.Decimal) (Quote, error) {
	if subtotal.IsNegative() {
		return Quote{}, ErrNegativeSubtotal
	}

	shipping := p.FlatShippingRate
	if subtotal.GreaterThanOrEqual(p.FreeShippingThreshold) {
		shipping = decimal.Zero
	}

	tax := p.roundTax(subtotal.Mul(p.TaxRate))

	return Quote{
		Subtotal:     subtotal,
		ShippingCost: shipping,
		Tax:          tax,
		Total:        subtotal.Add(shipping).Add(tax),
	}, nil
}

func (p Policy) roundTax(raw decimal.Decimal) decimal.Decimal {
	if p.Rounding == RoundBank {
		return raw.RoundBank(2)
	}
	return raw.Round(2)
}
