package domain

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// ProductMatch is the storage projection of a product row returned by the
// search and detail queries. DiscountPercent is nil unless the product
// references a discount that has not yet expired.
type ProductMatch struct {
	ID              int64
	Image           string
	Name            string
	Description     string
	CategoryID      int64
	UnitPrice       decimal.Decimal
	DiscountPercent *decimal.Decimal
}

// SearchResult is a product as presented to storefront clients
type SearchResult struct {
	ID            int64            `json:"id"`
	Image         string           `json:"image"`
	Name          string           `json:"name"`
	DiscountPrice decimal.Decimal  `json:"discountPrice"`
	OriginalPrice *decimal.Decimal `json:"originalPrice"`
	Description   string           `json:"description"`
	CategoryID    int64            `json:"categoryId"`
}

// DiscountedPrice applies percent to unitPrice. A nil percent leaves the price unchanged.
func DiscountedPrice(unitPrice decimal.Decimal, percent *decimal.Decimal) decimal.Decimal {
	if percent == nil {
		return unitPrice
	}
	return unitPrice.Sub(unitPrice.Mul(*percent).Div(hundred))
}

// ToSearchResult projects a match into its client representation.
// OriginalPrice is set only when a discount is active.
func (m ProductMatch) ToSearchResult() SearchResult {
	result := SearchResult{
		ID:            m.ID,
		Image:         m.Image,
		Name:          m.Name,
		DiscountPrice: DiscountedPrice(m.UnitPrice, m.DiscountPercent),
		Description:   m.Description,
		CategoryID:    m.CategoryID,
	}
	if m.DiscountPercent != nil {
		original := m.UnitPrice
		result.OriginalPrice = &original
	}
	return result
}
