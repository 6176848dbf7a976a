package checkout

import (
	"context"

	"go.uber.org/zap"

	"storefront-be/internal/logger"
)

// releaseStock is the compensating action: it returns reserved units
// after a downstream failure so no stock is consumed by an order that
// was never persisted. Release must not be starved by the failed
// request's deadline, so it runs without the caller's cancellation.
func (s *service) releaseStock(ctx context.Context, reserved []reservation) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "releaseStock"),
	)

	releaseCtx := context.WithoutCancel(ctx)
	for _, r := range reserved {
		if err := s.catalog.ReleaseStock(releaseCtx, r.productID, r.quantity); err != nil {
			// Nothing left to do in-line; the discrepancy needs operator
			// attention.
			log.Error("failed to release reserved stock",
				zap.String("product_id", r.productID),
				zap.Int("quantity", r.quantity),
				zap.Error(err),
			)
		}
	}
}
