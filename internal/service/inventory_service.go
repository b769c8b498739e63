package service

import (
	"context"
	"fmt"

	"frozenshop/internal/apierror"
	"frozenshop/internal/authz"
	"frozenshop/internal/dto"
	"frozenshop/internal/model"
	"frozenshop/internal/repository"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// StockChange describes one write to the stock ledger.
type StockChange struct {
	ProductID uint
	Delta     int
	// Type defaults to in/out from the sign of Delta.
	Type          model.MovementType
	ReferenceType string
	ReferenceID   *uint
	Notes         string
}

// InventoryService owns every change to Product.StockQuantity. Each change
// updates the product and appends the matching StockMovement in the same
// transaction.
type InventoryService interface {
	AdjustStock(ctx context.Context, auth authz.AuthContext, productID uint, req dto.AdjustStockRequest) (*dto.StockAdjustmentResponse, error)
	SetStockAbsolute(ctx context.Context, auth authz.AuthContext, productID uint, quantity int, notes string) (*dto.StockAdjustmentResponse, error)
	ListMovements(ctx context.Context, filter dto.MovementFilter) (*dto.MovementListResponse, error)
	LowStock(ctx context.Context) ([]dto.LowStockResponse, error)
	VerifyLedger(ctx context.Context, productID uint) (*dto.LedgerCheckResponse, error)

	// Used inside transactions: callers must pass the tx instance
	ApplyChangeTx(tx *gorm.DB, auth authz.AuthContext, change StockChange) (*model.StockMovement, error)
	SetStockAbsoluteTx(tx *gorm.DB, auth authz.AuthContext, productID uint, quantity int, notes string) (*model.StockMovement, error)
}

type inventoryService struct {
	products  repository.ProductRepository
	movements repository.StockMovementRepository
	cache     ProductCache
}

func NewInventoryService(
	products repository.ProductRepository,
	movements repository.StockMovementRepository,
	cache ProductCache,
) InventoryService {
	return &inventoryService{products: products, movements: movements, cache: cache}
}

// ── AdjustStock ───────────────────────────────────────────────────────────────

func (s *inventoryService) AdjustStock(ctx context.Context, auth authz.AuthContext, productID uint, req dto.AdjustStockRequest) (*dto.StockAdjustmentResponse, error) {
	if req.Delta == 0 {
		verr := apierror.NewValidationError()
		verr.Add("delta", "must not be zero")
		return nil, verr
	}
	reason := req.Reason
	if reason == "" {
		reason = model.RefAdjustment
	}

	var mov *model.StockMovement
	err := runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		var err error
		mov, err = s.ApplyChangeTx(tx, auth, StockChange{
			ProductID:     productID,
			Delta:         req.Delta,
			ReferenceType: reason,
			Notes:         req.Notes,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return adjustmentResponse(productID, mov), nil
}

// ── SetStockAbsolute ──────────────────────────────────────────────────────────

func (s *inventoryService) SetStockAbsolute(ctx context.Context, auth authz.AuthContext, productID uint, quantity int, notes string) (*dto.StockAdjustmentResponse, error) {
	var mov *model.StockMovement
	var current int
	err := runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		var err error
		mov, err = s.SetStockAbsoluteTx(tx, auth, productID, quantity, notes)
		current = quantity
		return err
	})
	if err != nil {
		return nil, err
	}
	if mov == nil {
		return &dto.StockAdjustmentResponse{ProductID: productID, PreviousStock: current, CurrentStock: current}, nil
	}
	s.invalidate(ctx)
	return adjustmentResponse(productID, mov), nil
}

// SetStockAbsoluteTx moves the stock to quantity through the ledger. It
// returns a nil movement when the stock already equals quantity.
func (s *inventoryService) SetStockAbsoluteTx(tx *gorm.DB, auth authz.AuthContext, productID uint, quantity int, notes string) (*model.StockMovement, error) {
	if quantity < 0 {
		verr := apierror.NewValidationError()
		verr.Add("stock_quantity", "must not be negative")
		return nil, verr
	}
	p, err := s.products.FindByIDForUpdateTx(tx, productID)
	if err != nil {
		return nil, notFound(err, "product")
	}
	delta := quantity - p.StockQuantity
	if delta == 0 {
		return nil, nil
	}
	return s.applyLocked(tx, auth, p, StockChange{
		ProductID:     productID,
		Delta:         delta,
		Type:          model.MovementAdjustment,
		ReferenceType: model.RefAdjustment,
		Notes:         notes,
	})
}

// ── ApplyChangeTx ─────────────────────────────────────────────────────────────

// ApplyChangeTx locks the product row, applies change.Delta and appends the
// ledger row. It fails with ErrInsufficientStock when the stock would go
// negative, leaving the caller's transaction to roll back.
func (s *inventoryService) ApplyChangeTx(tx *gorm.DB, auth authz.AuthContext, change StockChange) (*model.StockMovement, error) {
	p, err := s.products.FindByIDForUpdateTx(tx, change.ProductID)
	if err != nil {
		return nil, notFound(err, "product")
	}
	return s.applyLocked(tx, auth, p, change)
}

func (s *inventoryService) applyLocked(tx *gorm.DB, auth authz.AuthContext, p *model.Product, change StockChange) (*model.StockMovement, error) {
	previous := p.StockQuantity
	next := previous + change.Delta
	if next < 0 {
		return nil, fmt.Errorf("%s has %d in stock, cannot remove %d: %w", p.Name, previous, -change.Delta, apierror.ErrInsufficientStock)
	}

	typ := change.Type
	if typ == "" {
		typ = model.MovementIn
		if change.Delta < 0 {
			typ = model.MovementOut
		}
	}

	if err := s.products.UpdateStockTx(tx, p.ID, next); err != nil {
		return nil, err
	}
	p.StockQuantity = next

	mov := &model.StockMovement{
		ProductID:     p.ID,
		Quantity:      change.Delta,
		PreviousStock: previous,
		CurrentStock:  next,
		MovementType:  typ,
		ReferenceType: change.ReferenceType,
		ReferenceID:   change.ReferenceID,
		Notes:         strPtr(change.Notes),
		AdminID:       auth.ActorID(),
	}
	if err := s.movements.CreateTx(tx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// ── Reads ─────────────────────────────────────────────────────────────────────

func (s *inventoryService) ListMovements(ctx context.Context, filter dto.MovementFilter) (*dto.MovementListResponse, error) {
	filter.Normalize()
	movements, total, err := s.movements.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.StockMovementResponse, 0, len(movements))
	for i := range movements {
		data = append(data, movementToResponse(&movements[i]))
	}
	return &dto.MovementListResponse{
		Data:     data,
		PageMeta: dto.NewPageMeta(total, filter.Page, filter.Limit),
	}, nil
}

func (s *inventoryService) LowStock(ctx context.Context) ([]dto.LowStockResponse, error) {
	products, err := s.products.LowStock(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LowStockResponse, 0, len(products))
	for _, p := range products {
		out = append(out, dto.LowStockResponse{
			ProductID:     p.ID,
			SKU:           p.SKU,
			Name:          p.Name,
			StockQuantity: p.StockQuantity,
			MinStock:      p.MinStock,
		})
	}
	return out, nil
}

// VerifyLedger replays the product's movements from zero in insertion order
// and compares the result with the live stock. It also checks that every
// row continues the previous one.
func (s *inventoryService) VerifyLedger(ctx context.Context, productID uint) (*dto.LedgerCheckResponse, error) {
	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, notFound(err, "product")
	}
	movements, err := s.movements.ListByProductAsc(ctx, productID)
	if err != nil {
		return nil, err
	}

	resp := &dto.LedgerCheckResponse{
		ProductID: productID,
		LiveStock: p.StockQuantity,
		Movements: len(movements),
	}
	running := 0
	for _, m := range movements {
		if resp.BrokenChainAt == nil && (m.PreviousStock != running || m.CurrentStock != m.PreviousStock+m.Quantity) {
			id := m.ID
			resp.BrokenChainAt = &id
		}
		running += m.Quantity
	}
	resp.ReplayedStock = running
	resp.Consistent = running == p.StockQuantity && resp.BrokenChainAt == nil
	if !resp.Consistent {
		log.Warn().Uint("product_id", productID).Int("live", p.StockQuantity).Int("replayed", running).
			Msg("inventory: stock ledger does not match live stock")
	}
	return resp, nil
}

func (s *inventoryService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.InvalidateProducts(ctx)
	}
}

func adjustmentResponse(productID uint, mov *model.StockMovement) *dto.StockAdjustmentResponse {
	m := movementToResponse(mov)
	return &dto.StockAdjustmentResponse{
		ProductID:     productID,
		PreviousStock: mov.PreviousStock,
		CurrentStock:  mov.CurrentStock,
		Movement:      &m,
	}
}
