package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PolicyFromStrings builds a Policy from configuration overrides. Empty
// fields keep the default. Unknown rounding modes are rejected rather
// than silently ignored.
func PolicyFromStrings(threshold, flatRate, taxRate, rounding string) (Policy, error) {
	p := DefaultPolicy()

	var err error
	if threshold != "" {
		if p.FreeShippingThreshold, err = decimal.NewFromString(threshold); err != nil {
			return Policy{}, fmt.Errorf("invalid free shipping threshold %q: %w", threshold, err)
		}
	}
	if flatRate != "" {
		if p.FlatShippingRate, err = decimal.NewFromString(flatRate); err != nil {
			return Policy{}, fmt.Errorf("invalid flat shipping rate %q: %w", flatRate, err)
		}
	}
	if taxRate != "" {
		if p.TaxRate, err = decimal.NewFromString(taxRate); err != nil {
			return Policy{}, fmt.Errorf("invalid tax rate %q: %w", taxRate, err)
		}
	}

	switch Rounding(rounding) {
	case "":
	case RoundHalfUp, RoundBank:
		p.Rounding = Rounding(rounding)
	default:
		return Policy{}, fmt.Errorf("unknown tax rounding mode %q", rounding)
	}

	return p, nil
}
