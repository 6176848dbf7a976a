package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCartValidate(t *testing.T) {
	tests := []struct {
		name    string
		cart    Cart
		wantErr error
	}{
		{
			name:    "Valid",
			cart:    Cart{Lines: []Line{{ProductID: "p1", Quantity: 2}}},
			wantErr: nil,
		},
		{
			name:    "Empty",
			cart:    Cart{},
			wantErr: ErrEmptyCart,
		},
		{
			name:    "ZeroQuantity",
			cart:    Cart{Lines: []Line{{ProductID: "p1", Quantity: 0}}},
			wantErr: ErrInvalidQuantity,
		},
		{
			name:    "NegativeQuantity",
			cart:    Cart{Lines: []Line{{ProductID: "p1", Quantity: -3}}},
			wantErr: ErrInvalidQuantity,
		},
		{
			name:    "MissingProductID",
			cart:    Cart{Lines: []Line{{ProductID: "", Quantity: 1}}},
			wantErr: ErrMissingProduct,
		},
		{
			name: "BadLineAmongGood",
			cart: Cart{Lines: []Line{
				{ProductID: "p1", Quantity: 1},
				{ProductID: "p2", Quantity: 0},
			}},
			wantErr: ErrInvalidQuantity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cart.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
