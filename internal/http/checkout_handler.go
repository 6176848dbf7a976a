package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"storefront-be/internal/address"
	"storefront-be/internal/cart"
	"storefront-be/internal/checkout"
	"storefront-be/internal/payment"
	"storefront-be/internal/utils"
)

type CheckoutHandler struct {
	checkout checkout.Service
	payments payment.Service
	timeout  time.Duration
}

func NewCheckoutHandler(checkoutSvc checkout.Service, payments payment.Service, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkoutSvc, payments: payments, timeout: timeout}
}

type checkoutItemDTO struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type checkoutRequestDTO struct {
	Items           []checkoutItemDTO `json:"items"`
	ShippingAddress address.Address   `json:"shippingAddress"`
	BillingAddress  *address.Address  `json:"billingAddress,omitempty"`
	PaymentMethod   string            `json:"paymentMethod"`
	Notes           *string           `json:"notes,omitempty"`
	IdempotencyKey  *string           `json:"idempotencyKey,omitempty"`
}

type checkoutResponseDTO struct {
	Order   interface{}       `json:"order"`
	Payment *payment.Redirect `json:"payment,omitempty"`
}

// POST /api/checkout
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req checkoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	c := cart.Cart{}
	for _, item := range req.Items {
		c.Lines = append(c.Lines, cart.Line{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	o, err := h.checkout.Checkout(ctx, c, checkout.Input{
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  req.BillingAddress,
		PaymentMethod:   req.PaymentMethod,
		Notes:           req.Notes,
		IdempotencyKey:  req.IdempotencyKey,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	resp := checkoutResponseDTO{Order: o}

	// A failed redirect does not undo the placed order; the storefront
	// can re-request payment for a pending order.
	email := utils.GetUserEmailFromContext(ctx)
	if redirect, err := h.payments.Initiate(ctx, o, email); err == nil {
		resp.Payment = redirect
	}

	respondJSON(w, http.StatusCreated, resp)
}
