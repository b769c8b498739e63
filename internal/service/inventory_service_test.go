package service

import (
	"context"
	"testing"

	"frozenshop/internal/apierror"
	"frozenshop/internal/dto"
	"frozenshop/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestAdjustStock_ChainsMovements(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "DIM-01", 25000, nil, 10)
	ctx := context.Background()

	resp, err := f.inventory.AdjustStock(ctx, superAdmin, p.ID, dto.AdjustStockRequest{Delta: 5, Reason: "restock", Notes: "Supplier drop"})
	require.NoError(t, err)
	assert.Equal(t, 10, resp.PreviousStock)
	assert.Equal(t, 15, resp.CurrentStock)
	require.NotNil(t, resp.Movement)
	assert.Equal(t, model.MovementIn, resp.Movement.MovementType)

	resp, err = f.inventory.AdjustStock(ctx, superAdmin, p.ID, dto.AdjustStockRequest{Delta: -4, Reason: "damaged"})
	require.NoError(t, err)
	assert.Equal(t, 15, resp.PreviousStock)
	assert.Equal(t, 11, resp.CurrentStock)
	assert.Equal(t, model.MovementOut, resp.Movement.MovementType)

	assert.Equal(t, 11, f.stockOf(t, p.ID))
	assert.Equal(t, 2, f.cache.invalidated)

	var movements []model.StockMovement
	require.NoError(t, f.db.Where("product_id = ?", p.ID).Order("id").Find(&movements).Error)
	require.Len(t, movements, 3)
	for i := 1; i < len(movements); i++ {
		assert.Equal(t, movements[i-1].CurrentStock, movements[i].PreviousStock)
	}
	require.NotNil(t, movements[1].AdminID)
	assert.Equal(t, superAdmin.AdminID, *movements[1].AdminID)
	assert.Equal(t, "restock", movements[1].ReferenceType)
}

func TestAdjustStock_RejectsNegativeResult(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "DIM-01", 25000, nil, 3)

	_, err := f.inventory.AdjustStock(context.Background(), superAdmin, p.ID, dto.AdjustStockRequest{Delta: -5})
	assert.ErrorIs(t, err, apierror.ErrInsufficientStock)
	assert.Equal(t, 3, f.stockOf(t, p.ID))

	var count int64
	f.db.Model(&model.StockMovement{}).Where("product_id = ?", p.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestAdjustStock_ZeroDelta(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "DIM-01", 25000, nil, 3)

	_, err := f.inventory.AdjustStock(context.Background(), superAdmin, p.ID, dto.AdjustStockRequest{Delta: 0})
	var verr *apierror.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "delta")
}

func TestAdjustStock_UnknownProduct(t *testing.T) {
	f := newFixture(t)
	_, err := f.inventory.AdjustStock(context.Background(), superAdmin, 999, dto.AdjustStockRequest{Delta: 1})
	assert.ErrorIs(t, err, apierror.ErrNotFound)
}

func TestSetStockAbsolute(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "DIM-01", 25000, nil, 10)
	ctx := context.Background()

	resp, err := f.inventory.SetStockAbsolute(ctx, superAdmin, p.ID, 4, "Stock opname")
	require.NoError(t, err)
	assert.Equal(t, 10, resp.PreviousStock)
	assert.Equal(t, 4, resp.CurrentStock)
	require.NotNil(t, resp.Movement)
	assert.Equal(t, model.MovementAdjustment, resp.Movement.MovementType)
	assert.Equal(t, -6, resp.Movement.Quantity)

	// Same quantity again writes no movement.
	resp, err = f.inventory.SetStockAbsolute(ctx, superAdmin, p.ID, 4, "")
	require.NoError(t, err)
	assert.Nil(t, resp.Movement)
	assert.Equal(t, 4, resp.CurrentStock)

	var count int64
	f.db.Model(&model.StockMovement{}).Where("product_id = ?", p.ID).Count(&count)
	assert.Equal(t, int64(2), count)

	_, err = f.inventory.SetStockAbsolute(ctx, superAdmin, p.ID, -1, "")
	var verr *apierror.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestVerifyLedger_DetectsDrift(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "DIM-01", 25000, nil, 10)
	ctx := context.Background()

	check, err := f.inventory.VerifyLedger(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, check.Consistent)
	assert.Equal(t, 10, check.ReplayedStock)
	assert.Equal(t, 1, check.Movements)

	// A write that bypasses the ledger.
	require.NoError(t, f.db.Model(&model.Product{}).Where("id = ?", p.ID).Update("stock_quantity", 12).Error)

	check, err = f.inventory.VerifyLedger(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, check.Consistent)
	assert.Equal(t, 12, check.LiveStock)
	assert.Equal(t, 10, check.ReplayedStock)
	assert.Nil(t, check.BrokenChainAt)

	// The next ledger write starts from the drifted value and breaks the chain.
	_, err = f.inventory.AdjustStock(ctx, superAdmin, p.ID, dto.AdjustStockRequest{Delta: 1})
	require.NoError(t, err)
	check, err = f.inventory.VerifyLedger(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, check.BrokenChainAt)
}

func TestLowStockAndMovementList(t *testing.T) {
	f := newFixture(t)
	low := f.seedProduct(t, "LOW-01", 10000, nil, 1)
	f.seedProduct(t, "OK-01", 10000, nil, 20)
	ctx := context.Background()

	items, err := f.inventory.LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, low.ID, items[0].ProductID)

	list, err := f.inventory.ListMovements(ctx, dto.MovementFilter{ProductID: low.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.Total)
	require.Len(t, list.Data, 1)
	assert.Equal(t, low.Name, list.Data[0].ProductName)
}
