package dto

import "github.com/shopspring/decimal"

// CartItemRequest is one client-side cart line. Only the product id and
// quantity are trusted; names and prices are always re-read server-side.
type CartItemRequest struct {
	ProductID uint `json:"product_id" validate:"required,min=1"`
	Quantity  int  `json:"quantity"   validate:"required,min=1,max=1000"`
}

type CartSummaryRequest struct {
	Items []CartItemRequest `json:"items" validate:"dive"`
}

type CartLineResponse struct {
	ProductID       uint            `json:"product_id"`
	Name            string          `json:"name"`
	Slug            string          `json:"slug"`
	Price           decimal.Decimal `json:"price"`
	Quantity        int             `json:"quantity"`
	Available       int             `json:"available"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	QuantityClamped bool            `json:"quantity_clamped"`
}

type CartSummaryResponse struct {
	Items           []CartLineResponse `json:"items"`
	Unavailable     []uint             `json:"unavailable"`
	ItemCount       int                `json:"item_count"`
	Subtotal        decimal.Decimal    `json:"subtotal"`
	MinOrderAmount  decimal.Decimal    `json:"min_order_amount"`
	FreeShippingMin decimal.Decimal    `json:"free_shipping_min"`
	MeetsMinimum    bool               `json:"meets_minimum"`
	FreeShipping    bool               `json:"free_shipping"`
}
