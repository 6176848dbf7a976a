package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"storefront-be/internal/cart"
	"storefront-be/internal/checkout"
	"storefront-be/internal/order"
	"storefront-be/internal/payment"
	"storefront-be/internal/product"
	"storefront-be/internal/utils"
)

// MockCheckoutService is a mock implementation of the checkout Service interface
type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) Checkout(ctx context.Context, c cart.Cart, input checkout.Input) (*order.Order, error) {
	args := m.Called(ctx, c, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

// MockPaymentService is a mock implementation of the payment Service interface
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) Initiate(ctx context.Context, o *order.Order, email string) (*payment.Redirect, error) {
	args := m.Called(ctx, o, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Redirect), args.Error(1)
}

const checkoutBody = `{
	"items": [{"productId": "pA", "quantity": 2}],
	"shippingAddress": {
		"firstName": "Thabo", "lastName": "Mokoena",
		"streetAddress": "12 Long Street", "city": "Cape Town",
		"province": "Western Cape", "postalCode": "8001", "phone": "+27821234567"
	},
	"paymentMethod": "payfast"
}`

func checkoutReq(body string) *http.Request {
	r := httptest.NewRequest("POST", "/api/checkout", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	ctx := utils.SetUserContext(r.Context(), "u1", "u1@example.com", utils.RoleCustomer)
	return r.WithContext(ctx)
}

func TestPlaceOrder(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		checkoutSvc := new(MockCheckoutService)
		paymentSvc := new(MockPaymentService)
		h := NewCheckoutHandler(checkoutSvc, paymentSvc, time.Second)

		placed := &order.Order{
			ID:          "o1",
			OrderNumber: "ORD-1",
			Total:       decimal.RequireFromString("280.00"),
		}
		checkoutSvc.On("Checkout", mock.Anything, mock.MatchedBy(func(c cart.Cart) bool {
			return len(c.Lines) == 1 && c.Lines[0].ProductID == "pA" && c.Lines[0].Quantity == 2
		}), mock.MatchedBy(func(in checkout.Input) bool {
			return in.ShippingAddress.City == "Cape Town" && in.PaymentMethod == "payfast"
		})).Return(placed, nil)
		paymentSvc.On("Initiate", mock.Anything, placed, "u1@example.com").
			Return(&payment.Redirect{URL: "https://sandbox.payfast.co.za/eng/process"}, nil)

		w := httptest.NewRecorder()
		h.PlaceOrder(w, checkoutReq(checkoutBody))

		require.Equal(t, http.StatusCreated, w.Code)

		var resp struct {
			Order   order.Order       `json:"order"`
			Payment *payment.Redirect `json:"payment"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "ORD-1", resp.Order.OrderNumber)
		require.NotNil(t, resp.Payment)
		assert.Contains(t, resp.Payment.URL, "payfast")
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		h := NewCheckoutHandler(new(MockCheckoutService), new(MockPaymentService), time.Second)

		w := httptest.NewRecorder()
		h.PlaceOrder(w, checkoutReq("{not json"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("InsufficientStockIs409WithShortfall", func(t *testing.T) {
		checkoutSvc := new(MockCheckoutService)
		h := NewCheckoutHandler(checkoutSvc, new(MockPaymentService), time.Second)

		checkoutSvc.On("Checkout", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, &product.InsufficientStockError{ProductID: "pA", Requested: 2, Available: 1})

		w := httptest.NewRecorder()
		h.PlaceOrder(w, checkoutReq(checkoutBody))

		require.Equal(t, http.StatusConflict, w.Code)

		var resp struct {
			Code      string `json:"code"`
			ProductID string `json:"productId"`
			Available int    `json:"available"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "insufficient_stock", resp.Code)
		assert.Equal(t, "pA", resp.ProductID)
		assert.Equal(t, 1, resp.Available)
	})

	t.Run("EmptyCartIs422", func(t *testing.T) {
		checkoutSvc := new(MockCheckoutService)
		h := NewCheckoutHandler(checkoutSvc, new(MockPaymentService), time.Second)

		checkoutSvc.On("Checkout", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, checkout.ErrInvalidCart)

		w := httptest.NewRecorder()
		h.PlaceOrder(w, checkoutReq(`{"items": [], "paymentMethod": "payfast"}`))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("UnauthenticatedIs401", func(t *testing.T) {
		checkoutSvc := new(MockCheckoutService)
		h := NewCheckoutHandler(checkoutSvc, new(MockPaymentService), time.Second)

		checkoutSvc.On("Checkout", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, checkout.ErrUnauthenticated)

		r := httptest.NewRequest("POST", "/api/checkout", strings.NewReader(checkoutBody))
		w := httptest.NewRecorder()
		h.PlaceOrder(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("TimeoutIs504", func(t *testing.T) {
		checkoutSvc := new(MockCheckoutService)
		h := NewCheckoutHandler(checkoutSvc, new(MockPaymentService), time.Second)

		checkoutSvc.On("Checkout", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, checkout.ErrTimeout)

		w := httptest.NewRecorder()
		h.PlaceOrder(w, checkoutReq(checkoutBody))

		assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	})

	t.Run("RedirectFailureStillPlacesOrder", func(t *testing.T) {
		checkoutSvc := new(MockCheckoutService)
		paymentSvc := new(MockPaymentService)
		h := NewCheckoutHandler(checkoutSvc, paymentSvc, time.Second)

		placed := &order.Order{ID: "o1", OrderNumber: "ORD-1"}
		checkoutSvc.On("Checkout", mock.Anything, mock.Anything, mock.Anything).Return(placed, nil)
		paymentSvc.On("Initiate", mock.Anything, placed, "u1@example.com").
			Return(nil, assertError{})

		w := httptest.NewRecorder()
		h.PlaceOrder(w, checkoutReq(checkoutBody))

		require.Equal(t, http.StatusCreated, w.Code)

		var resp checkoutResponseDTO
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Nil(t, resp.Payment)
	})
}

type assertError struct{}

func (assertError) Error() string { return "boom" }
