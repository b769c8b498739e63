package dto

import "github.com/shopspring/decimal"

// ─── Filter ──────────────────────────────────────────────────────────────────

// ProductFilter is bound from the query string of GET /api/products.
type ProductFilter struct {
	Category string `form:"category"` // category slug
	Search   string `form:"q"`
	Featured *bool  `form:"featured"`
	// MinPrice and MaxPrice bound the effective price; parsed as decimals.
	MinPrice string `form:"min_price" validate:"omitempty,numeric"`
	MaxPrice string `form:"max_price" validate:"omitempty,numeric"`
	Sort     string `form:"sort"      validate:"omitempty,oneof=newest price_asc price_desc name"`
	Pagination
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductImageResponse struct {
	ID        uint   `json:"id"`
	Path      string `json:"path"`
	IsPrimary bool   `json:"is_primary"`
	SortOrder int    `json:"sort_order"`
}

type CategoryRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type ProductResponse struct {
	ID              uint             `json:"id"`
	SKU             string           `json:"sku"`
	Name            string           `json:"name"`
	Slug            string           `json:"slug"`
	Description     *string          `json:"description,omitempty"`
	Price           decimal.Decimal  `json:"price"`
	DiscountPrice   *decimal.Decimal `json:"discount_price"`
	EffectivePrice  decimal.Decimal  `json:"effective_price"`
	HasDiscount     bool             `json:"has_discount"`
	DiscountPercent int              `json:"discount_percent"`
	StockQuantity   int              `json:"stock_quantity"`
	InStock         bool             `json:"in_stock"`
	Weight          *int             `json:"weight,omitempty"`
	IsFeatured      bool             `json:"is_featured"`
	Category        *CategoryRef     `json:"category,omitempty"`
	PrimaryImage    *string          `json:"primary_image"`
}

type ProductDetailResponse struct {
	ProductResponse
	Images  []ProductImageResponse `json:"images"`
	Related []ProductResponse      `json:"related"`
}

type ProductListResponse struct {
	Data []ProductResponse `json:"data"`
	PageMeta
}

type CategoryResponse struct {
	ID           uint    `json:"id"`
	Name         string  `json:"name"`
	Slug         string  `json:"slug"`
	Description  *string `json:"description,omitempty"`
	SortOrder    int     `json:"sort_order"`
	IsActive     bool    `json:"is_active"`
	ProductCount int64   `json:"product_count"`
}

type ShippingAreaResponse struct {
	ID                uint            `json:"id"`
	AreaName          string          `json:"area_name"`
	ShippingCost      decimal.Decimal `json:"shipping_cost"`
	EstimatedDelivery string          `json:"estimated_delivery"`
	IsActive          bool            `json:"is_active"`
}
