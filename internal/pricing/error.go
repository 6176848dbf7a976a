package pricing

import "errors"

var (
	ErrEmptyCart        = errors.New("cart is empty")
	ErrInvalidQuantity  = errors.New("quantity must be greater than zero")
	ErrNegativeSubtotal = errors.New("subtotal cannot be negative")
	ErrNegativePrice    = errors.New("unit price cannot be negative")
)
