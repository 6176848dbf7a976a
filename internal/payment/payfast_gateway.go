package payment

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"storefront-be/internal/logger"

	"go.uber.org/zap"
)

const (
	payfastProcessURL = "https://www.payfast.co.za/eng/process"
	payfastSandboxURL = "https://sandbox.payfast.co.za/eng/process"
)

type payfastGateway struct {
	merchantID  string
	merchantKey string
	passphrase  string
	returnURL   string
	cancelURL   string
	notifyURL   string
	sandbox     bool
}

func NewPayfastGateway(merchantID, merchantKey, passphrase string) Gateway {
	if merchantID == "" || merchantKey == "" {
		logger.L().Warn("PayFast merchant credentials are empty, gateway runs in sandbox mode")
	}

	return &payfastGateway{
		merchantID:  merchantID,
		merchantKey: merchantKey,
		passphrase:  passphrase,
		returnURL:   os.Getenv("PAYFAST_RETURN_URL"),
		cancelURL:   os.Getenv("PAYFAST_CANCEL_URL"),
		notifyURL:   os.Getenv("PAYFAST_NOTIFY_URL"),
		sandbox:     merchantID == "" || merchantKey == "",
	}
}

func (g *payfastGateway) BuildRedirect(ctx context.Context, req CheckoutRequest) (*Redirect, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("order_number", req.OrderNumber),
		zap.String("amount", req.Amount.StringFixed(2)),
	)

	if req.OrderNumber == "" {
		return nil, errors.New("payfast: order number is required")
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("payfast: non-positive amount %s", req.Amount)
	}

	fields := []Field{
		{"merchant_id", g.merchantID},
		{"merchant_key", g.merchantKey},
		{"return_url", g.returnURL},
		{"cancel_url", g.cancelURL},
		{"notify_url", g.notifyURL},
		{"name_first", req.FirstName},
		{"name_last", req.LastName},
		{"email_address", req.Email},
		{"m_payment_id", req.OrderNumber},
		{"amount", req.Amount.StringFixed(2)},
		{"item_name", req.ItemName},
	}

	// Empty optional fields are omitted from both the form and the
	// signature base string.
	kept := fields[:0]
	for _, f := range fields {
		if f.Value != "" {
			kept = append(kept, f)
		}
	}
	fields = kept

	fields = append(fields, Field{"signature", g.sign(fields)})

	processURL := payfastProcessURL
	if g.sandbox {
		processURL = payfastSandboxURL
	}

	log.Info("built payfast redirect", zap.Bool("sandbox", g.sandbox))

	return &Redirect{URL: processURL, Fields: fields}, nil
}

// sign computes the MD5 signature over the fields in posted order, with
// the passphrase appended when configured.
func (g *payfastGateway) sign(fields []Field) string {
	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(f.Key)
		b.WriteByte('=')
		b.WriteString(encodePayfast(f.Value))
	}
	if g.passphrase != "" {
		b.WriteString("&passphrase=")
		b.WriteString(encodePayfast(g.passphrase))
	}
	sum := md5.Sum([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// encodePayfast matches the provider's urlencode variant: spaces become
// '+' and hex escapes are uppercase, which url.QueryEscape already does.
func encodePayfast(s string) string {
	return url.QueryEscape(s)
}

func (g *payfastGateway) VerifySignature(r *http.Request) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return fmt.Errorf("payfast: read notification body: %w", err)
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	if g.sandbox {
		return nil
	}

	var signature string
	var base []string
	for _, pair := range strings.Split(string(body), "&") {
		if v, ok := strings.CutPrefix(pair, "signature="); ok {
			signature = v
			continue
		}
		base = append(base, pair)
	}
	if signature == "" {
		return errors.New("payfast: notification has no signature")
	}

	payload := strings.Join(base, "&")
	if g.passphrase != "" {
		payload += "&passphrase=" + encodePayfast(g.passphrase)
	}
	sum := md5.Sum([]byte(payload))
	if hex.EncodeToString(sum[:]) != signature {
		return errors.New("payfast: invalid notification signature")
	}
	return nil
}
