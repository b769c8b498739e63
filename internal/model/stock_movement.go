package model

import "time"

// StockMovement is one row of the append-only stock ledger. Rows are never
// updated or deleted; replaying Quantity in ID order from zero reproduces
// Product.StockQuantity.
type StockMovement struct {
	ID            uint         `gorm:"primaryKey"`
	ProductID     uint         `gorm:"index;not null"`
	Quantity      int          `gorm:"not null"` // signed delta
	PreviousStock int          `gorm:"not null"`
	CurrentStock  int          `gorm:"not null"`
	MovementType  MovementType `gorm:"type:varchar(20);not null;index"`
	ReferenceType string       `gorm:"size:30;not null"` // order | order_cancel | adjustment | initial | restock
	ReferenceID   *uint
	Notes         *string `gorm:"type:text"`
	AdminID       *uint   `gorm:"index"` // nil when system-triggered
	CreatedAt     time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
	Admin   *Admin   `gorm:"foreignKey:AdminID"`
}

// Reference types recorded on stock movements.
const (
	RefOrder       = "order"
	RefOrderCancel = "order_cancel"
	RefAdjustment  = "adjustment"
	RefInitial     = "initial"
)
