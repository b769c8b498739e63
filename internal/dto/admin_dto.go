package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Categories ──────────────────────────────────────────────────────────────

// AdminFilter is the common query of back-office lists. Active is "true",
// "false" or "all" (default).
type AdminFilter struct {
	Search string `form:"q"`
	Active string `form:"active" validate:"omitempty,oneof=true false all"`
	Pagination
}

type CategoryRequest struct {
	Name        string  `json:"name"        validate:"required,min=2,max=100"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	SortOrder   int     `json:"sort_order"  validate:"min=0"`
	IsActive    *bool   `json:"is_active"`
}

type CategoryListResponse struct {
	Data []CategoryResponse `json:"data"`
	PageMeta
}

// ─── Products ────────────────────────────────────────────────────────────────

type AdminProductFilter struct {
	Search     string `form:"q"`
	CategoryID uint   `form:"category_id"`
	Active     string `form:"active" validate:"omitempty,oneof=true false all"`
	LowStock   bool   `form:"low_stock"`
	Pagination
}

// ProductRequest is used for both create and update. On update a nil
// StockQuantity leaves the stock untouched; a value goes through the
// set-absolute stock path so the ledger stays complete.
type ProductRequest struct {
	SKU           string           `json:"sku"            validate:"required,min=1,max=50"`
	Name          string           `json:"name"           validate:"required,min=2,max=200"`
	Slug          string           `json:"slug"           validate:"omitempty,max=220"`
	Description   *string          `json:"description"    validate:"omitempty,max=5000"`
	CategoryID    *uint            `json:"category_id"`
	Price         decimal.Decimal  `json:"price"          validate:"required,gt=0"`
	DiscountPrice *decimal.Decimal `json:"discount_price"`
	StockQuantity *int             `json:"stock_quantity" validate:"omitempty,min=0"`
	MinStock      int              `json:"min_stock"      validate:"min=0"`
	Weight        *int             `json:"weight"         validate:"omitempty,min=0"`
	IsActive      *bool            `json:"is_active"`
	IsFeatured    bool             `json:"is_featured"`
}

// AdminProductResponse extends the storefront view with back-office fields.
type AdminProductResponse struct {
	ProductResponse
	CategoryID *uint                  `json:"category_id"`
	MinStock   int                    `json:"min_stock"`
	IsActive   bool                   `json:"is_active"`
	IsLowStock bool                   `json:"is_low_stock"`
	Images     []ProductImageResponse `json:"images"`
	CreatedAt  time.Time              `json:"created_at"`
	UpdatedAt  time.Time              `json:"updated_at"`
}

type AdminProductListResponse struct {
	Data []AdminProductResponse `json:"data"`
	PageMeta
}

type ProductImageRequest struct {
	Path      string `json:"path"       validate:"required,max=255"`
	IsPrimary bool   `json:"is_primary"`
	SortOrder int    `json:"sort_order" validate:"min=0"`
}

// ─── Shipping areas ──────────────────────────────────────────────────────────

type ShippingAreaRequest struct {
	AreaName          string          `json:"area_name"          validate:"required,min=2,max=100"`
	ShippingCost      decimal.Decimal `json:"shipping_cost"      validate:"min=0"`
	EstimatedDelivery string          `json:"estimated_delivery" validate:"max=100"`
	IsActive          *bool           `json:"is_active"`
}

type ShippingAreaListResponse struct {
	Data []ShippingAreaResponse `json:"data"`
	PageMeta
}

// ─── Settings ────────────────────────────────────────────────────────────────

// SettingResponse carries Value converted to its declared type: string,
// decimal number or bool.
type SettingResponse struct {
	Key         string      `json:"key"`
	Value       interface{} `json:"value"`
	Type        string      `json:"type"`
	Description string      `json:"description"`
	IsPublic    bool        `json:"is_public"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// UpdateSettingsRequest maps setting keys to their new raw values.
type UpdateSettingsRequest struct {
	Settings map[string]string `json:"settings" validate:"required,min=1"`
}

// ─── Contact messages ────────────────────────────────────────────────────────

type ContactRequest struct {
	Name    string `json:"name"    validate:"required,min=2,max=100"`
	Email   string `json:"email"   validate:"required,email,max=150"`
	Phone   string `json:"phone"   validate:"omitempty,max=20"`
	Subject string `json:"subject" validate:"required,min=2,max=200"`
	Message string `json:"message" validate:"required,min=5,max=5000"`
}

type ContactFilter struct {
	Unread bool `form:"unread"`
	Pagination
}

type ContactMessageResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

type ContactListResponse struct {
	Data []ContactMessageResponse `json:"data"`
	PageMeta
}

// ─── Dashboard ───────────────────────────────────────────────────────────────

type DashboardResponse struct {
	OrdersByStatus map[string]int64       `json:"orders_by_status"`
	TotalOrders    int64                  `json:"total_orders"`
	TodayOrders    int64                  `json:"today_orders"`
	TodayRevenue   decimal.Decimal        `json:"today_revenue"`
	LowStockCount  int64                  `json:"low_stock_count"`
	UnreadMessages int64                  `json:"unread_messages"`
	RecentOrders   []OrderSummaryResponse `json:"recent_orders"`
}
