package order

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"storefront-be/internal/logger"
	"storefront-be/internal/utils"
)

type Service interface {
	// ListMine returns the authenticated user's orders, newest first.
	ListMine(ctx context.Context, limit, page int) ([]Order, int64, error)
	// GetDetail enforces ownership; admins may read any order.
	GetDetail(ctx context.Context, orderID string) (*Order, error)
	// ListAll is the admin view with an optional status filter.
	ListAll(ctx context.Context, opts ListOptions) ([]Order, int64, error)
	// UpdateStatus applies an admin status change under the forward-only
	// transition rule.
	UpdateStatus(ctx context.Context, orderID string, status OrderStatus) (*Order, error)
	// Cancel lets the owning customer cancel a non-terminal order.
	Cancel(ctx context.Context, orderID string) error
	MarkAsPaid(ctx context.Context, paymentRef string) error
	MarkAsFailed(ctx context.Context, paymentRef string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) ListMine(ctx context.Context, limit, page int) ([]Order, int64, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, 0, ErrUnauthorized
	}

	opts := ListOptions{UserID: &userID, Limit: limit, Page: page}
	orders, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, opts)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (s *service) GetDetail(ctx context.Context, orderID string) (*Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	userID, _ := utils.GetUserIDFromContext(ctx)
	if !utils.IsAdmin(ctx) && o.UserID != userID {
		return nil, ErrUnauthorized
	}
	return o, nil
}

func (s *service) ListAll(ctx context.Context, opts ListOptions) ([]Order, int64, error) {
	orders, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, opts)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (s *service) UpdateStatus(ctx context.Context, orderID string, status OrderStatus) (*Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}

	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !CanTransition(o.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, o.Status, status)
	}

	if err := s.repo.UpdateStatus(ctx, orderID, o.Status, status); err != nil {
		return nil, err
	}

	o.Status = status
	return o, nil
}

func (s *service) Cancel(ctx context.Context, orderID string) error {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}

	userID, _ := utils.GetUserIDFromContext(ctx)
	if !utils.IsAdmin(ctx) && o.UserID != userID {
		return ErrUnauthorized
	}

	if !CanTransition(o.Status, StatusCancelled) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, o.Status, StatusCancelled)
	}

	return s.repo.UpdateStatus(ctx, orderID, o.Status, StatusCancelled)
}

func (s *service) MarkAsPaid(ctx context.Context, paymentRef string) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "MarkAsPaid"),
		zap.String("payment_ref", paymentRef),
	)

	o, err := s.repo.GetByPaymentRef(ctx, paymentRef)
	if err != nil {
		return err
	}

	if o.PaymentStatus == PaymentPaid {
		log.Info("order already marked as paid", zap.String("order_id", o.ID))
		return nil
	}

	if err := s.repo.UpdatePaymentStatus(ctx, o.ID, PaymentPaid); err != nil {
		return err
	}

	// Paid orders move to CONFIRMED unless fulfillment already advanced.
	if o.Status == StatusPending {
		if err := s.repo.UpdateStatus(ctx, o.ID, StatusPending, StatusConfirmed); err != nil &&
			err != ErrStatusConflict {
			return err
		}
	}

	log.Info("order marked as paid", zap.String("order_id", o.ID))
	return nil
}

func (s *service) MarkAsFailed(ctx context.Context, paymentRef string) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "MarkAsFailed"),
		zap.String("payment_ref", paymentRef),
	)

	o, err := s.repo.GetByPaymentRef(ctx, paymentRef)
	if err != nil {
		return err
	}

	if o.PaymentStatus == PaymentFailed {
		log.Info("order already marked as failed", zap.String("order_id", o.ID))
		return nil
	}

	if err := s.repo.UpdatePaymentStatus(ctx, o.ID, PaymentFailed); err != nil {
		return err
	}

	log.Warn("order payment failed", zap.String("order_id", o.ID))
	return nil
}
