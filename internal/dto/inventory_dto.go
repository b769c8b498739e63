package dto

import (
	"time"

	"frozenshop/internal/model"
)

// AdjustStockRequest applies a signed delta to a product's stock. Reason is
// stored as the movement reference type and defaults to "adjustment".
type AdjustStockRequest struct {
	Delta  int    `json:"delta"  validate:"required,ne=0"`
	Reason string `json:"reason" validate:"omitempty,oneof=adjustment restock damaged expired return"`
	Notes  string `json:"notes"  validate:"max=500"`
}

// SetStockRequest sets the stock to an absolute quantity.
type SetStockRequest struct {
	Quantity *int   `json:"quantity" validate:"required,min=0"`
	Notes    string `json:"notes"    validate:"max=500"`
}

type MovementFilter struct {
	ProductID uint   `form:"product_id"`
	Type      string `form:"type" validate:"omitempty,oneof=in out adjustment"`
	Pagination
}

type StockMovementResponse struct {
	ID            uint               `json:"id"`
	ProductID     uint               `json:"product_id"`
	ProductName   string             `json:"product_name,omitempty"`
	Quantity      int                `json:"quantity"`
	PreviousStock int                `json:"previous_stock"`
	CurrentStock  int                `json:"current_stock"`
	MovementType  model.MovementType `json:"movement_type"`
	TypeMeta      model.StatusMeta   `json:"movement_type_meta"`
	ReferenceType string             `json:"reference_type"`
	ReferenceID   *uint              `json:"reference_id"`
	Notes         *string            `json:"notes"`
	AdminID       *uint              `json:"admin_id"`
	AdminName     string             `json:"admin_name,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
}

type MovementListResponse struct {
	Data []StockMovementResponse `json:"data"`
	PageMeta
}

// StockAdjustmentResponse reports the outcome of an adjustment. Movement is
// nil when a set-absolute request matched the current stock.
type StockAdjustmentResponse struct {
	ProductID     uint                   `json:"product_id"`
	PreviousStock int                    `json:"previous_stock"`
	CurrentStock  int                    `json:"current_stock"`
	Movement      *StockMovementResponse `json:"movement"`
}

type LowStockResponse struct {
	ProductID     uint   `json:"product_id"`
	SKU           string `json:"sku"`
	Name          string `json:"name"`
	StockQuantity int    `json:"stock_quantity"`
	MinStock      int    `json:"min_stock"`
}

// LedgerCheckResponse compares the replayed movement ledger of a product with
// its live stock.
type LedgerCheckResponse struct {
	ProductID     uint `json:"product_id"`
	LiveStock     int  `json:"live_stock"`
	ReplayedStock int  `json:"replayed_stock"`
	Movements     int  `json:"movements"`
	Consistent    bool `json:"consistent"`
	// BrokenChainAt is the id of the first movement whose previous_stock does
	// not match the current_stock of the movement before it.
	BrokenChainAt *uint `json:"broken_chain_at,omitempty"`
}
