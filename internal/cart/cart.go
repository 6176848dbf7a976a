package cart

// Line references a product by id with a requested quantity. Carts live
// on the client; the server only ever sees one as a checkout parameter
// and never persists it.
type Line struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Cart is the explicit value object handed to checkout. Order of lines
// is preserved into the order.
type Cart struct {
	Lines []Line `json:"items"`
}

// Validate rejects empty carts and non-positive quantities before any
// side effect happens.
func (c Cart) Validate() error {
	if len(c.Lines) == 0 {
		return ErrEmptyCart
	}
	for _, line := range c.Lines {
		if line.ProductID == "" {
			return ErrMissingProduct
		}
		if line.Quantity <= 0 {
			return ErrInvalidQuantity
		}
	}
	return nil
}
