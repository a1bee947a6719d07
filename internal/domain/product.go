package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices are rendered as JSON numbers, not quoted strings
	decimal.MarshalJSONWithoutQuotes = true
}

// Store represents a shop on the platform
type Store struct {
	ID        int64  `json:"id" db:"id"`
	Name      string `json:"name" db:"name"`
	OwnerID   int64  `json:"owner_id" db:"owner_id"`
	Location  string `json:"location" db:"location"`
	LogoImage string `json:"logo_image" db:"logo_image"`
}

// Category represents a product category within a store.
// ParentID is nil for top-level categories.
type Category struct {
	ID       int64  `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	StoreID  int64  `json:"store_id" db:"store_id"`
	ParentID *int64 `json:"parent_id,omitempty" db:"parent_category_id"`
}

// Discount represents a percentage reduction with an expiry
type Discount struct {
	ID      int64           `json:"id" db:"id"`
	StoreID int64           `json:"store_id" db:"store_id"`
	Percent decimal.Decimal `json:"percent" db:"percent"`
	Name    string          `json:"name" db:"name"`
	EndDate time.Time       `json:"end_date" db:"end_date"`
}

// Product represents a product in a store catalog
type Product struct {
	ID            int64           `json:"id" db:"id"`
	Name          string          `json:"name" db:"name"`
	Description   string          `json:"description" db:"description"`
	Image         string          `json:"image" db:"image"`
	UnitPrice     decimal.Decimal `json:"unit_price" db:"unit_price"`
	CategoryID    int64           `json:"category_id" db:"category_id"`
	StoreID       int64           `json:"store_id" db:"store_id"`
	DiscountID    *int64          `json:"discount_id,omitempty" db:"discount_id"`
	StockQuantity int             `json:"stock_quantity" db:"stock_quantity"`
	Recommended   bool            `json:"recommended" db:"recommended"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}
