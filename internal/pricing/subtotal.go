package pricing

import (
	"github.com/shopspring/decimal"
)

// Line is one priced cart entry fed into the aggregator.
type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

// Subtotal sums unitPrice x quantity across lines with exact decimal
// arithmetic. An empty cart and non-positive quantities are rejected
// before checkout can proceed.
func Subtotal(lines []Line) (decimal.Decimal, error) {
	if len(lines) == 0 {
		return decimal.Zero, ErrEmptyCart
	}

	subtotal := decimal.Zero
	for _, line := range lines {
		if line.Quantity <= 0 {
			return decimal.Zero, ErrInvalidQuantity
		}
		if line.UnitPrice.IsNegative() {
			return decimal.Zero, ErrNegativePrice
		}
		subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	return subtotal, nil
}
