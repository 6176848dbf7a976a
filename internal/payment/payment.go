package payment

import (
	"context"
	"net/http"
)

type Gateway interface {
	BuildRedirect(ctx context.Context, req CheckoutRequest) (*Redirect, error)
	// VerifySignature checks the instant-notification post. The request
	// body is restored so the handler can still parse it.
	VerifySignature(r *http.Request) error
}
