package order

import (
	"time"

	"github.com/shopspring/decimal"

	"storefront-be/internal/address"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusConfirmed  OrderStatus = "CONFIRMED"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusShipped    OrderStatus = "SHIPPED"
	StatusDelivered  OrderStatus = "DELIVERED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentFailed   PaymentStatus = "FAILED"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

// Order is the immutable record produced by checkout. Totals and line
// prices are frozen at creation and never recomputed.
type Order struct {
	ID              string          `json:"id"`
	OrderNumber     string          `json:"orderNumber"`
	UserID          string          `json:"userId"`
	Status          OrderStatus     `json:"status"`
	PaymentStatus   PaymentStatus   `json:"paymentStatus"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	ShippingCost    decimal.Decimal `json:"shippingCost"`
	Tax             decimal.Decimal `json:"tax"`
	Total           decimal.Decimal `json:"total"`
	ShippingAddress address.Address `json:"shippingAddress"`
	BillingAddress  address.Address `json:"billingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
	PaymentRef      *string         `json:"paymentId,omitempty"`
	Notes           *string         `json:"notes,omitempty"`
	IdempotencyKey  *string         `json:"-"`
	Items           []OrderLine     `json:"orderItems"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// OrderLine freezes the purchase price of one product. PriceAtPurchase
// must never be re-derived from the catalog after creation.
type OrderLine struct {
	ID              string          `json:"id"`
	OrderID         string          `json:"orderId"`
	ProductID       string          `json:"productId"`
	ProductName     string          `json:"productName"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"priceAtPurchase"`
}

type ListOptions struct {
	UserID *string
	Status *OrderStatus
	Limit  int
	Page   int
}
