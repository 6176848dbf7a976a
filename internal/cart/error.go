package cart

import "errors"

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrMissingProduct  = errors.New("cart line is missing a product id")
	ErrInvalidQuantity = errors.New("cart quantity must be greater than zero")
)
