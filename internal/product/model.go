package product

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Price         decimal.Decimal  `json:"price"`
	ComparePrice  *decimal.Decimal `json:"comparePrice,omitempty"`
	Category      string           `json:"category"`
	Brand         *string          `json:"brand,omitempty"`
	SKU           string           `json:"sku"`
	StockQuantity int              `json:"stockQuantity"`
	Images        []string         `json:"images"`
	Keywords      []string         `json:"-"`
	IsFeatured    bool             `json:"isFeatured"`
	IsActive      bool             `json:"isActive"`
	Version       int              `json:"-"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

type NewProductInput struct {
	Name         string
	Description  string
	Price        decimal.Decimal
	ComparePrice *decimal.Decimal
	Category     string
	Brand        *string
	SKU          string
	Stock        int
	Images       []string
	IsFeatured   bool
	IsActive     bool
}

type UpdateProductInput struct {
	Name         *string
	Description  *string
	Price        *decimal.Decimal
	ComparePrice *decimal.Decimal
	Category     *string
	Brand        *string
	SKU          *string
	Images       []string
	IsFeatured   *bool
	IsActive     *bool
}

type ListOptions struct {
	Category   *string
	Brand      *string
	Search     *string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Featured   *bool
	OnlyActive bool
	SortBy     string
	SortOrder  string
	Limit      int
	Page       int
}
