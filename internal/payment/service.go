package payment

import (
	"context"
	"fmt"

	"storefront-be/internal/logger"
	"storefront-be/internal/order"

	"go.uber.org/zap"
)

// OrderRefs is the slice of the order store the payment flow needs.
type OrderRefs interface {
	SetPaymentRef(ctx context.Context, id, ref string) error
}

type Service interface {
	// Initiate builds the hosted-payment redirect for a freshly placed
	// order and records a pending payment against it.
	Initiate(ctx context.Context, o *order.Order, email string) (*Redirect, error)
}

type service struct {
	gateway Gateway
	repo    Repository
	orders  OrderRefs
}

func NewService(gateway Gateway, repo Repository, orders OrderRefs) Service {
	return &service{gateway: gateway, repo: repo, orders: orders}
}

func (s *service) Initiate(ctx context.Context, o *order.Order, email string) (*Redirect, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "InitiatePayment"),
		zap.String("order_id", o.ID),
	)

	redirect, err := s.gateway.BuildRedirect(ctx, CheckoutRequest{
		OrderNumber: o.OrderNumber,
		Amount:      o.Total,
		ItemName:    fmt.Sprintf("Order %s (%d items)", o.OrderNumber, len(o.Items)),
		FirstName:   o.ShippingAddress.FirstName,
		LastName:    o.ShippingAddress.LastName,
		Email:       email,
	})
	if err != nil {
		log.Error("failed to build payment redirect", zap.Error(err))
		return nil, err
	}

	p := &Payment{
		OrderID:       o.ID,
		Reference:     o.OrderNumber,
		Amount:        o.Total,
		Status:        StatusPending,
		PaymentMethod: o.PaymentMethod,
		Provider:      "PAYFAST",
	}
	if err := s.repo.Save(ctx, p); err != nil {
		log.Error("failed to save payment", zap.Error(err))
		return nil, err
	}

	if err := s.orders.SetPaymentRef(ctx, o.ID, o.OrderNumber); err != nil {
		log.Error("failed to link payment reference", zap.Error(err))
		return nil, err
	}

	log.Info("payment initiated", zap.String("reference", o.OrderNumber))
	return redirect, nil
}
