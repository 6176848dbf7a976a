package payment

import (
	"time"

	"github.com/shopspring/decimal"
)

type Payment struct {
	ID            int64
	OrderID       string
	Reference     string
	Amount        decimal.Decimal
	Status        string
	PaymentMethod string
	Provider      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

const (
	StatusPending   = "PENDING"
	StatusComplete  = "COMPLETE"
	StatusFailed    = "FAILED"
	StatusCancelled = "CANCELLED"
)

// CheckoutRequest carries the order facts the gateway needs to build a
// hosted-payment redirect.
type CheckoutRequest struct {
	OrderNumber string
	Amount      decimal.Decimal
	ItemName    string
	FirstName   string
	LastName    string
	Email       string
}

// Field is an ordered form field. Order matters: the signature is
// computed over the fields in the sequence they are posted.
type Field struct {
	Key   string
	Value string
}

// Redirect is what the storefront renders as a self-submitting form.
type Redirect struct {
	URL    string
	Fields []Field
}
