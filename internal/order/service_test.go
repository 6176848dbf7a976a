package order

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"storefront-be/internal/utils"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, o *Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func (m *MockRepository) GetByIdempotencyKey(ctx context.Context, userID, key string) (*Order, error) {
	args := m.Called(ctx, userID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, opts ListOptions) ([]Order, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Order), args.Error(1)
}

func (m *MockRepository) Count(ctx context.Context, opts ListOptions) (int64, error) {
	args := m.Called(ctx, opts)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) UpdateStatus(ctx context.Context, id string, from, to OrderStatus) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}

func (m *MockRepository) GetByPaymentRef(ctx context.Context, ref string) (*Order, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func (m *MockRepository) SetPaymentRef(ctx context.Context, id, ref string) error {
	args := m.Called(ctx, id, ref)
	return args.Error(0)
}

func (m *MockRepository) UpdatePaymentStatus(ctx context.Context, id string, status PaymentStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func customerCtx(userID string) context.Context {
	return utils.SetUserContext(context.Background(), userID, userID+"@example.com", utils.RoleCustomer)
}

func adminCtx() context.Context {
	return utils.SetUserContext(context.Background(), "admin-1", "admin@example.com", utils.RoleAdmin)
}

func TestService_GetDetail(t *testing.T) {
	t.Run("OwnerCanRead", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)
		ctx := customerCtx("u1")

		repo.On("GetByID", ctx, "o1").Return(&Order{ID: "o1", UserID: "u1"}, nil)

		o, err := svc.GetDetail(ctx, "o1")
		require.NoError(t, err)
		assert.Equal(t, "o1", o.ID)
	})

	t.Run("StrangerRejected", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)
		ctx := customerCtx("u2")

		repo.On("GetByID", ctx, "o1").Return(&Order{ID: "o1", UserID: "u1"}, nil)

		_, err := svc.GetDetail(ctx, "o1")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("AdminBypassesOwnership", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)
		ctx := adminCtx()

		repo.On("GetByID", ctx, "o1").Return(&Order{ID: "o1", UserID: "u1"}, nil)

		_, err := svc.GetDetail(ctx, "o1")
		assert.NoError(t, err)
	})
}

func TestService_ListMine(t *testing.T) {
	t.Run("Unauthenticated", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		_, _, err := svc.ListMine(context.Background(), 10, 1)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("FiltersByUser", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)
		ctx := customerCtx("u1")

		matches := mock.MatchedBy(func(opts ListOptions) bool {
			return opts.UserID != nil && *opts.UserID == "u1"
		})
		repo.On("List", ctx, matches).Return([]Order{{ID: "o1"}}, nil)
		repo.On("Count", ctx, matches).Return(int64(1), nil)

		orders, total, err := svc.ListMine(ctx, 10, 1)
		require.NoError(t, err)
		assert.Len(t, orders, 1)
		assert.Equal(t, int64(1), total)
	})
}

func TestService_UpdateStatus(t *testing.T) {
	ctx := adminCtx()

	t.Run("LegalTransition", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("GetByID", ctx, "o1").Return(&Order{ID: "o1", Status: StatusPending}, nil)
		repo.On("UpdateStatus", ctx, "o1", StatusPending, StatusShipped).Return(nil)

		o, err := svc.UpdateStatus(ctx, "o1", StatusShipped)
		require.NoError(t, err)
		assert.Equal(t, StatusShipped, o.Status)
	})

	t.Run("BackwardRejected", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("GetByID", ctx, "o1").Return(&Order{ID: "o1", Status: StatusShipped}, nil)

		_, err := svc.UpdateStatus(ctx, "o1", StatusConfirmed)
		assert.ErrorIs(t, err, ErrIllegalTransition)
		repo.AssertNotCalled(t, "UpdateStatus")
	})

	t.Run("UnknownStatus", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		_, err := svc.UpdateStatus(ctx, "o1", OrderStatus("LOST"))
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})
}

func TestService_Cancel(t *testing.T) {
	t.Run("OwnerCancelsPending", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)
		ctx := customerCtx("u1")

		repo.On("GetByID", ctx, "o1").Return(&Order{ID: "o1", UserID: "u1", Status: StatusPending}, nil)
		repo.On("UpdateStatus", ctx, "o1", StatusPending, StatusCancelled).Return(nil)

		assert.NoError(t, svc.Cancel(ctx, "o1"))
	})

	t.Run("DeliveredCannotBeCancelled", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)
		ctx := customerCtx("u1")

		repo.On("GetByID", ctx, "o1").Return(&Order{ID: "o1", UserID: "u1", Status: StatusDelivered}, nil)

		err := svc.Cancel(ctx, "o1")
		assert.ErrorIs(t, err, ErrIllegalTransition)
	})

	t.Run("StrangerRejected", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)
		ctx := customerCtx("stranger")

		repo.On("GetByID", ctx, "o1").Return(&Order{ID: "o1", UserID: "u1", Status: StatusPending}, nil)

		assert.ErrorIs(t, svc.Cancel(ctx, "o1"), ErrUnauthorized)
	})
}

func TestService_MarkAsPaid(t *testing.T) {
	ctx := context.Background()

	t.Run("PendingOrderConfirmed", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("GetByPaymentRef", ctx, "pf-1").
			Return(&Order{ID: "o1", Status: StatusPending, PaymentStatus: PaymentPending}, nil)
		repo.On("UpdatePaymentStatus", ctx, "o1", PaymentPaid).Return(nil)
		repo.On("UpdateStatus", ctx, "o1", StatusPending, StatusConfirmed).Return(nil)

		assert.NoError(t, svc.MarkAsPaid(ctx, "pf-1"))
		repo.AssertExpectations(t)
	})

	t.Run("AlreadyPaidIsIdempotent", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("GetByPaymentRef", ctx, "pf-1").
			Return(&Order{ID: "o1", PaymentStatus: PaymentPaid}, nil)

		assert.NoError(t, svc.MarkAsPaid(ctx, "pf-1"))
		repo.AssertNotCalled(t, "UpdatePaymentStatus")
	})

	t.Run("UnknownReference", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("GetByPaymentRef", ctx, "ghost").Return(nil, ErrOrderNotFound)

		assert.ErrorIs(t, svc.MarkAsPaid(ctx, "ghost"), ErrOrderNotFound)
	})
}

func TestService_MarkAsFailed(t *testing.T) {
	ctx := context.Background()

	repo := new(MockRepository)
	svc := NewService(repo)

	repo.On("GetByPaymentRef", ctx, "pf-2").
		Return(&Order{ID: "o2", PaymentStatus: PaymentPending}, nil)
	repo.On("UpdatePaymentStatus", ctx, "o2", PaymentFailed).Return(nil)

	assert.NoError(t, svc.MarkAsFailed(ctx, "pf-2"))
	repo.AssertExpectations(t)
}
