package checkout

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"storefront-be/internal/address"
	"storefront-be/internal/cart"
	"storefront-be/internal/logger"
	"storefront-be/internal/order"
	"storefront-be/internal/pricing"
	"storefront-be/internal/product"
	"storefront-be/internal/utils"
)

// Catalog is the slice of the product store checkout needs: lookups plus
// the conditional reserve/release stock primitives.
type Catalog interface {
	GetByID(ctx context.Context, id string) (*product.Product, error)
	ReserveStock(ctx context.Context, id string, qty int) error
	ReleaseStock(ctx context.Context, id string, qty int) error
}

// Orders persists assembled orders and answers idempotency lookups.
type Orders interface {
	Create(ctx context.Context, o *order.Order) error
	GetByIdempotencyKey(ctx context.Context, userID, key string) (*order.Order, error)
}

// Input carries everything checkout needs beyond the cart itself.
type Input struct {
	ShippingAddress address.Address
	BillingAddress  *address.Address
	PaymentMethod   string
	Notes           *string
	// IdempotencyKey, when supplied, makes retries safe: a repeated key
	// returns the already-created order without touching stock again.
	IdempotencyKey *string
}

type Service interface {
	Checkout(ctx context.Context, c cart.Cart, input Input) (*order.Order, error)
}

type service struct {
	catalog Catalog
	orders  Orders
	numbers NumberGenerator
	policy  pricing.Policy
}

func NewService(catalog Catalog, orders Orders, numbers NumberGenerator, policy pricing.Policy) Service {
	return &service{
		catalog: catalog,
		orders:  orders,
		numbers: numbers,
		policy:  policy,
	}
}

// pricedLine pairs a cart line with the product loaded for it. The price
// captured here is what gets frozen into the order.
type pricedLine struct {
	product  *product.Product
	quantity int
}

func (s *service) Checkout(ctx context.Context, c cart.Cart, input Input) (*order.Order, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Checkout"),
		zap.String("user_id", userID),
		zap.Int("line_count", len(c.Lines)),
	)
	log.Info("checkout started")

	if input.IdempotencyKey != nil {
		existing, err := s.orders.GetByIdempotencyKey(ctx, userID, *input.IdempotencyKey)
		if err != nil {
			return nil, s.classify(ctx, err)
		}
		if existing != nil {
			log.Info("idempotent replay, returning existing order",
				zap.String("order_id", existing.ID))
			return existing, nil
		}
	}

	status := StatusValidating

	lines, quote, err := s.validateAndPrice(ctx, c, input)
	if err != nil {
		log.Warn("checkout validation failed", zap.Error(err))
		return nil, s.fail(&status, err)
	}
	if err := advance(&status, StatusPricingComputed); err != nil {
		return nil, err
	}

	log.Info("pricing computed",
		zap.String("subtotal", quote.Subtotal.String()),
		zap.String("shipping_cost", quote.ShippingCost.String()),
		zap.String("tax", quote.Tax.String()),
		zap.String("total", quote.Total.String()),
	)

	reserved, err := s.reserveStock(ctx, lines)
	if err != nil {
		log.Warn("stock reservation failed", zap.Error(err))
		return nil, s.fail(&status, s.classify(ctx, err))
	}
	if err := advance(&status, StatusStockReserved); err != nil {
		s.releaseStock(ctx, reserved)
		return nil, err
	}

	o := s.assemble(userID, lines, quote, input)
	if err := advance(&status, StatusAssembled); err != nil {
		s.releaseStock(ctx, reserved)
		return nil, err
	}

	if err := s.orders.Create(ctx, o); err != nil {
		// No order exists to consume the reservation; give it back.
		log.Error("order persistence failed, releasing reservation", zap.Error(err))
		s.releaseStock(ctx, reserved)
		return nil, s.fail(&status, s.persistErr(ctx, err))
	}
	if err := advance(&status, StatusPersisted); err != nil {
		return nil, err
	}

	log.Info("checkout persisted",
		zap.String("order_id", o.ID),
		zap.String("order_number", o.OrderNumber),
	)
	return o, nil
}

func (s *service) validateAndPrice(ctx context.Context, c cart.Cart, input Input) ([]pricedLine, pricing.Quote, error) {
	if err := c.Validate(); err != nil {
		return nil, pricing.Quote{}, fmt.Errorf("%w: %w", ErrInvalidCart, err)
	}

	if err := input.ShippingAddress.Validate(); err != nil {
		return nil, pricing.Quote{}, fmt.Errorf("%w: shipping: %w", ErrInvalidAddress, err)
	}
	if input.BillingAddress != nil {
		if err := input.BillingAddress.Validate(); err != nil {
			return nil, pricing.Quote{}, fmt.Errorf("%w: billing: %w", ErrInvalidAddress, err)
		}
	}

	lines := make([]pricedLine, 0, len(c.Lines))
	priceLines := make([]pricing.Line, 0, len(c.Lines))
	for _, line := range c.Lines {
		p, err := s.catalog.GetByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, product.ErrProductNotFound) {
				return nil, pricing.Quote{}, fmt.Errorf("%w: %w: %s", ErrInvalidCart, err, line.ProductID)
			}
			return nil, pricing.Quote{}, s.classify(ctx, err)
		}
		if !p.IsActive {
			return nil, pricing.Quote{}, fmt.Errorf("%w: product %s is not available", ErrInvalidCart, p.ID)
		}

		lines = append(lines, pricedLine{product: p, quantity: line.Quantity})
		priceLines = append(priceLines, pricing.Line{UnitPrice: p.Price, Quantity: line.Quantity})
	}

	subtotal, err := pricing.Subtotal(priceLines)
	if err != nil {
		return nil, pricing.Quote{}, fmt.Errorf("%w: %w", ErrInvalidCart, err)
	}

	quote, err := s.policy.Quote(subtotal)
	if err != nil {
		return nil, pricing.Quote{}, err
	}
	return lines, quote, nil
}

// assemble freezes purchase prices into an immutable order record. Pure
// construction; there is nothing here that can fail.
func (s *service) assemble(userID string, lines []pricedLine, quote pricing.Quote, input Input) *order.Order {
	items := make([]order.OrderLine, 0, len(lines))
	for _, line := range lines {
		items = append(items, order.OrderLine{
			ProductID:       line.product.ID,
			ProductName:     line.product.Name,
			Quantity:        line.quantity,
			PriceAtPurchase: line.product.Price,
		})
	}

	billing := input.ShippingAddress
	if input.BillingAddress != nil {
		billing = *input.BillingAddress
	}

	return &order.Order{
		OrderNumber:     s.numbers.Next(),
		UserID:          userID,
		Status:          order.StatusPending,
		PaymentStatus:   order.PaymentPending,
		Subtotal:        quote.Subtotal,
		ShippingCost:    quote.ShippingCost,
		Tax:             quote.Tax,
		Total:           quote.Total,
		ShippingAddress: input.ShippingAddress,
		BillingAddress:  billing,
		PaymentMethod:   input.PaymentMethod,
		Notes:           input.Notes,
		IdempotencyKey:  input.IdempotencyKey,
		Items:           items,
	}
}

func (s *service) fail(status *Status, err error) error {
	*status = StatusFailed
	return err
}

// classify maps collaborator failures caused by an expired deadline onto
// the timeout error; compensation treats both alike.
func (s *service) classify(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return err
}

func (s *service) persistErr(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %w", ErrPersistence, err)
}

func advance(status *Status, to Status) error {
	if !status.CanTransitionTo(to) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, *status, to)
	}
	*status = to
	return nil
}
