package dto

import (
	"time"

	"frozenshop/internal/model"

	"github.com/shopspring/decimal"
)

// ── Checkout ──────────────────────────────────────────────────────────────────

// CheckoutRequest carries the client cart plus customer details. Prices are
// never read from the client; only product ids and quantities are.
type CheckoutRequest struct {
	Items           []CartItemRequest `json:"items"            validate:"dive"`
	CustomerName    string            `json:"customer_name"    validate:"max=100"`
	CustomerPhone   string            `json:"customer_phone"   validate:"max=20"`
	CustomerEmail   string            `json:"customer_email"   validate:"max=150"`
	ShippingAreaID  uint              `json:"shipping_area_id"`
	ShippingAddress string            `json:"shipping_address" validate:"max=500"`
	PaymentMethod   string            `json:"payment_method"   validate:"max=20"`
	Notes           string            `json:"notes"            validate:"max=1000"`
}

type CheckoutResponse struct {
	Order       OrderResponse `json:"order"`
	WhatsAppURL string        `json:"whatsapp_url,omitempty"`
	// AdjustedItems lists products whose quantity was reduced or dropped
	// because of live stock.
	AdjustedItems []uint `json:"adjusted_items,omitempty"`
}

// ── Orders ────────────────────────────────────────────────────────────────────

type OrderItemResponse struct {
	ID          uint            `json:"id"`
	ProductID   *uint           `json:"product_id"`
	ProductName string          `json:"product_name"`
	ProductSKU  string          `json:"product_sku"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type OrderResponse struct {
	ID                uint                  `json:"id"`
	OrderNumber       string                `json:"order_number"`
	CustomerName      string                `json:"customer_name"`
	CustomerPhone     string                `json:"customer_phone"`
	CustomerEmail     *string               `json:"customer_email"`
	ShippingArea      *ShippingAreaResponse `json:"shipping_area,omitempty"`
	ShippingAddress   string                `json:"shipping_address"`
	Notes             *string               `json:"notes"`
	Subtotal          decimal.Decimal       `json:"subtotal"`
	ShippingCost      decimal.Decimal       `json:"shipping_cost"`
	TotalAmount       decimal.Decimal       `json:"total_amount"`
	PaymentMethod     model.PaymentMethod   `json:"payment_method"`
	PaymentMethodMeta model.StatusMeta      `json:"payment_method_meta"`
	PaymentStatus     model.PaymentStatus   `json:"payment_status"`
	PaymentStatusMeta model.StatusMeta      `json:"payment_status_meta"`
	OrderStatus       model.OrderStatus     `json:"order_status"`
	OrderStatusMeta   model.StatusMeta      `json:"order_status_meta"`
	AdminNotes        *string               `json:"admin_notes,omitempty"`
	Items             []OrderItemResponse   `json:"items"`
	CreatedAt         time.Time             `json:"created_at"`
	ConfirmedAt       *time.Time            `json:"confirmed_at"`
	ProcessingAt      *time.Time            `json:"processing_at"`
	ShippedAt         *time.Time            `json:"shipped_at"`
	DeliveredAt       *time.Time            `json:"delivered_at"`
	CancelledAt       *time.Time            `json:"cancelled_at"`
}

// OrderSummaryResponse is the row shape of the admin order list.
type OrderSummaryResponse struct {
	ID              uint                `json:"id"`
	OrderNumber     string              `json:"order_number"`
	CustomerName    string              `json:"customer_name"`
	CustomerPhone   string              `json:"customer_phone"`
	TotalAmount     decimal.Decimal     `json:"total_amount"`
	PaymentStatus   model.PaymentStatus `json:"payment_status"`
	PaymentMeta     model.StatusMeta    `json:"payment_status_meta"`
	OrderStatus     model.OrderStatus   `json:"order_status"`
	OrderStatusMeta model.StatusMeta    `json:"order_status_meta"`
	ItemCount       int                 `json:"item_count"`
	CreatedAt       time.Time           `json:"created_at"`
}

type OrderListResponse struct {
	Data []OrderSummaryResponse `json:"data"`
	PageMeta
}

type OrderFilter struct {
	Status        string `form:"status"         validate:"omitempty,oneof=pending confirmed processing shipped delivered cancelled"`
	PaymentStatus string `form:"payment_status" validate:"omitempty,oneof=pending paid failed"`
	Search        string `form:"q"`
	// DateFrom and DateTo are inclusive calendar days, YYYY-MM-DD.
	DateFrom string `form:"date_from" validate:"omitempty,datetime=2006-01-02"`
	DateTo   string `form:"date_to"   validate:"omitempty,datetime=2006-01-02"`
	Pagination
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed processing shipped delivered cancelled"`
	Notes  string `json:"notes"  validate:"max=1000"`
}

type UpdatePaymentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending paid failed"`
}

type UpdateAdminNotesRequest struct {
	AdminNotes string `json:"admin_notes" validate:"max=2000"`
}

// ── Tracking ──────────────────────────────────────────────────────────────────

// Step states of the tracking timeline.
const (
	StepCompleted = "completed"
	StepCurrent   = "current"
	StepFuture    = "future"
)

type TimelineStep struct {
	Status    model.OrderStatus `json:"status"`
	Meta      model.StatusMeta  `json:"meta"`
	State     string            `json:"state"`
	ReachedAt *time.Time        `json:"reached_at"`
}

// TrackingResponse is the public view of an order. Timeline is empty when
// the order is cancelled; Cancelled and CancelledAt describe that terminal
// state instead.
type TrackingResponse struct {
	Order       OrderResponse  `json:"order"`
	Timeline    []TimelineStep `json:"timeline"`
	Cancelled   bool           `json:"cancelled"`
	CancelledAt *time.Time     `json:"cancelled_at,omitempty"`
}
