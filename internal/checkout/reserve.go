package checkout

import (
	"context"
)

// reservation records one successful conditional stock decrement so it
// can be compensated later.
type reservation struct {
	productID string
	quantity  int
}

// reserveStock decrements stock line by line. Each decrement is atomic
// at the store, so two checkouts racing for the last unit cannot both
// win. On any failure the decrements already taken are released before
// returning; insufficient stock never leaves a partial reservation.
func (s *service) reserveStock(ctx context.Context, lines []pricedLine) ([]reservation, error) {
	reserved := make([]reservation, 0, len(lines))

	for _, line := range lines {
		if err := s.catalog.ReserveStock(ctx, line.product.ID, line.quantity); err != nil {
			s.releaseStock(ctx, reserved)
			return nil, err
		}
		reserved = append(reserved, reservation{
			productID: line.product.ID,
			quantity:  line.quantity,
		})
	}

	return reserved, nil
}
