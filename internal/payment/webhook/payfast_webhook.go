package webhook

import (
	"context"
	"encoding/json"
	"net/http"

	"storefront-be/internal/logger"
	"storefront-be/internal/order"
	"storefront-be/internal/payment"

	"go.uber.org/zap"
)

// Notification is the instant transaction notification PayFast posts
// after a payment attempt settles.
type Notification struct {
	PaymentID     string `json:"pf_payment_id"`
	Reference     string `json:"m_payment_id"`
	PaymentStatus string `json:"payment_status"`
	AmountGross   string `json:"amount_gross"`
}

type Handler struct {
	Orders   order.Service
	Payments payment.Repository
	Gateway  payment.Gateway
}

func NewHandler(orders order.Service, payments payment.Repository, gateway payment.Gateway) *Handler {
	return &Handler{Orders: orders, Payments: payments, Gateway: gateway}
}

// Notify is the route handler for the notify_url endpoint. PayFast
// retries on any non-200, so a duplicate delivery must still answer OK.
func (h *Handler) Notify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromCtx(ctx).With(zap.String("handler", "PayfastNotify"))

	if err := h.Gateway.VerifySignature(r); err != nil {
		log.Warn("rejected notification", zap.Error(err))
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed notification", http.StatusBadRequest)
		return
	}

	n := Notification{
		PaymentID:     r.PostFormValue("pf_payment_id"),
		Reference:     r.PostFormValue("m_payment_id"),
		PaymentStatus: r.PostFormValue("payment_status"),
		AmountGross:   r.PostFormValue("amount_gross"),
	}
	if n.PaymentID == "" || n.Reference == "" {
		http.Error(w, "missing notification fields", http.StatusBadRequest)
		return
	}

	payload, _ := json.Marshal(n)
	webhookID, alreadyProcessed, err := h.Payments.SaveWebhook(
		ctx, "PAYFAST", n.PaymentID, n.PaymentStatus, n.Reference, payload, true)
	if err != nil {
		log.Error("failed to record webhook", zap.Error(err))
		http.Error(w, "failed to record notification", http.StatusInternalServerError)
		return
	}
	// Only a delivery that was already applied short-circuits. A retry
	// of one that failed to apply runs the apply step again.
	if alreadyProcessed {
		log.Info("duplicate of processed notification ignored", zap.String("event_id", n.PaymentID))
		w.WriteHeader(http.StatusOK)
		return
	}

	log.Info("notification received",
		zap.String("event_id", n.PaymentID),
		zap.String("reference", n.Reference),
		zap.String("status", n.PaymentStatus),
	)

	switch n.PaymentStatus {
	case "COMPLETE":
		err = h.apply(r, n, payment.StatusComplete, h.Orders.MarkAsPaid)
	case "FAILED":
		err = h.apply(r, n, payment.StatusFailed, h.Orders.MarkAsFailed)
	case "CANCELLED":
		err = h.apply(r, n, payment.StatusCancelled, h.Orders.MarkAsFailed)
	default:
		// Unknown statuses are stored but not acted on.
		_ = h.Payments.MarkWebhookProcessed(ctx, webhookID)
		w.WriteHeader(http.StatusOK)
		return
	}

	if err != nil {
		log.Error("failed to apply notification", zap.Error(err))
		_ = h.Payments.MarkWebhookFailed(ctx, webhookID, err.Error())
		http.Error(w, "failed to update order", http.StatusInternalServerError)
		return
	}

	if err := h.Payments.MarkWebhookProcessed(ctx, webhookID); err != nil {
		log.Error("failed to mark webhook processed", zap.Error(err))
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) apply(
	r *http.Request,
	n Notification,
	paymentStatus string,
	orderFn func(ctx context.Context, ref string) error,
) error {
	ctx := r.Context()
	if err := h.Payments.UpdateStatusByReference(ctx, n.Reference, paymentStatus); err != nil {
		return err
	}
	return orderFn(ctx, n.Reference)
}
