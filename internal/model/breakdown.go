package model

import "github.com/shopspring/decimal"

// PriceBreakdown is the itemized decomposition of a unit price. It is derived,
// never stored as its own table; order and quotation rows snapshot it as JSON.
// All monetary fields are rounded to 2 decimal places.
type PriceBreakdown struct {
	Metal           decimal.Decimal     `json:"metal"`
	Diamond         decimal.Decimal     `json:"diamond"`
	Making          decimal.Decimal     `json:"making"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	Discount        decimal.Decimal     `json:"discount"`
	DiscountDetails *DiscountDescriptor `json:"discountDetails,omitempty"`
	Tax             decimal.Decimal     `json:"tax"`
	Total           decimal.Decimal     `json:"total"`
}

// LineSubtotal returns the breakdown's subtotal multiplied by quantity,
// rounded to 2 decimal places.
func (b PriceBreakdown) LineSubtotal(quantity int) decimal.Decimal {
	return b.Subtotal.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}

// LineDiscount returns the breakdown's discount multiplied by quantity,
// rounded to 2 decimal places.
func (b PriceBreakdown) LineDiscount(quantity int) decimal.Decimal {
	return b.Discount.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}
