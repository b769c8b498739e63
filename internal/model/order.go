package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is a customer purchase. TotalAmount = Subtotal + ShippingCost is
// fixed at creation; status updates never recompute money fields.
type Order struct {
	ID              uint    `gorm:"primaryKey"`
	OrderNumber     string  `gorm:"size:30;uniqueIndex;not null"`
	CustomerName    string  `gorm:"size:100;not null"`
	CustomerPhone   string  `gorm:"size:20;not null"`
	CustomerEmail   *string `gorm:"size:150"`
	ShippingAreaID  uint    `gorm:"index;not null"`
	ShippingAddress string  `gorm:"type:text;not null"`
	Notes           *string `gorm:"type:text"`

	Subtotal     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ShippingCost decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalAmount  decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	PaymentMethod PaymentMethod `gorm:"type:varchar(20);not null"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);not null;index"`
	OrderStatus   OrderStatus   `gorm:"type:varchar(20);not null;index"`
	AdminNotes    *string       `gorm:"type:text"`

	ConfirmedAt  *time.Time
	ProcessingAt *time.Time
	ShippedAt    *time.Time
	DeliveredAt  *time.Time
	CancelledAt  *time.Time
	CreatedAt    time.Time `gorm:"index"`
	UpdatedAt    time.Time

	ShippingArea *ShippingArea `gorm:"foreignKey:ShippingAreaID"`
	Items        []OrderItem   `gorm:"foreignKey:OrderID"`
}

// StatusTime returns when the order reached status, nil if it never did.
func (o *Order) StatusTime(s OrderStatus) *time.Time {
	switch s {
	case OrderPending:
		t := o.CreatedAt
		return &t
	case OrderConfirmed:
		return o.ConfirmedAt
	case OrderProcessing:
		return o.ProcessingAt
	case OrderShipped:
		return o.ShippedAt
	case OrderDelivered:
		return o.DeliveredAt
	case OrderCancelled:
		return o.CancelledAt
	}
	return nil
}

// StampStatus records now as the time the order reached s, keeping an
// earlier stamp if the status was reached before.
func (o *Order) StampStatus(s OrderStatus, now time.Time) {
	set := func(p **time.Time) {
		if *p == nil {
			t := now
			*p = &t
		}
	}
	switch s {
	case OrderConfirmed:
		set(&o.ConfirmedAt)
	case OrderProcessing:
		set(&o.ProcessingAt)
	case OrderShipped:
		set(&o.ShippedAt)
	case OrderDelivered:
		set(&o.DeliveredAt)
	case OrderCancelled:
		set(&o.CancelledAt)
	}
}

// OrderItem is an immutable snapshot of a cart line at order time. Product
// name, SKU and price are copied so history survives product edits; the
// product reference may become NULL.
type OrderItem struct {
	ID          uint            `gorm:"primaryKey"`
	OrderID     uint            `gorm:"index;not null"`
	ProductID   *uint           `gorm:"index"`
	ProductName string          `gorm:"size:200;not null"`
	ProductSKU  string          `gorm:"column:product_sku;size:50;not null"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Quantity    int             `gorm:"not null"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt   time.Time
}
