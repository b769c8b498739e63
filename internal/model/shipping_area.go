package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ShippingArea is a delivery zone with a flat shipping cost.
type ShippingArea struct {
	ID                uint            `gorm:"primaryKey"`
	AreaName          string          `gorm:"size:100;not null"`
	ShippingCost      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	EstimatedDelivery string          `gorm:"size:100"`
	IsActive          bool            `gorm:"not null"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
