package service

import (
	"context"
	"net/http"
	"testing"

	"frozenshop/internal/apierror"
	"frozenshop/internal/dto"
	"frozenshop/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// placeOrder checks out qty units of a fresh product and returns the order.
func (f *fixture) placeOrder(t *testing.T, stock, qty int) (*dto.OrderResponse, *model.Product) {
	t.Helper()
	p := f.seedProduct(t, "DIM-01", 25000, nil, stock)
	area := f.seedArea(t, "Bandung Kota", 10000, true)
	resp, err := f.checkout.SubmitOrder(context.Background(), f.checkoutRequest(area.ID, line(p.ID, qty)))
	require.NoError(t, err)
	return &resp.Order, p
}

func TestUpdateStatus_StampsEachStatus(t *testing.T) {
	f := newFixture(t)
	o, _ := f.placeOrder(t, 10, 2)
	ctx := context.Background()

	for _, st := range []model.OrderStatus{model.OrderConfirmed, model.OrderProcessing, model.OrderShipped, model.OrderDelivered} {
		got, err := f.orderSvc.UpdateStatus(ctx, superAdmin, o.ID, dto.UpdateOrderStatusRequest{Status: string(st)})
		require.NoError(t, err)
		assert.Equal(t, st, got.OrderStatus)
	}

	got, err := f.orderSvc.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.ConfirmedAt)
	assert.NotNil(t, got.ProcessingAt)
	assert.NotNil(t, got.ShippedAt)
	assert.NotNil(t, got.DeliveredAt)
	assert.Nil(t, got.CancelledAt)
	assert.True(t, o.TotalAmount.Equal(got.TotalAmount))
	assert.Len(t, f.dispatcher.statusMails, 4)
}

func TestUpdateStatus_CancelRestoresStock(t *testing.T) {
	f := newFixture(t)
	o, p := f.placeOrder(t, 10, 3)
	ctx := context.Background()
	require.Equal(t, 7, f.stockOf(t, p.ID))

	got, err := f.orderSvc.UpdateStatus(ctx, superAdmin, o.ID, dto.UpdateOrderStatusRequest{Status: "cancelled", Notes: "Customer asked"})
	require.NoError(t, err)
	assert.Equal(t, model.OrderCancelled, got.OrderStatus)
	assert.NotNil(t, got.CancelledAt)
	require.NotNil(t, got.AdminNotes)
	assert.Equal(t, "Customer asked", *got.AdminNotes)
	assert.Equal(t, 10, f.stockOf(t, p.ID))

	var restock model.StockMovement
	require.NoError(t, f.db.Where("reference_type = ?", model.RefOrderCancel).First(&restock).Error)
	assert.Equal(t, 3, restock.Quantity)
	assert.Equal(t, model.MovementIn, restock.MovementType)
	require.NotNil(t, restock.ReferenceID)
	assert.Equal(t, o.ID, *restock.ReferenceID)

	check, err := f.inventory.VerifyLedger(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, check.Consistent)
}

func TestUpdateStatus_TerminalStatusesAreFinal(t *testing.T) {
	f := newFixture(t)
	o, p := f.placeOrder(t, 10, 3)
	ctx := context.Background()

	_, err := f.orderSvc.UpdateStatus(ctx, superAdmin, o.ID, dto.UpdateOrderStatusRequest{Status: "cancelled"})
	require.NoError(t, err)

	_, err = f.orderSvc.UpdateStatus(ctx, superAdmin, o.ID, dto.UpdateOrderStatusRequest{Status: "confirmed"})
	assert.ErrorIs(t, err, apierror.ErrInvalidTransition)

	// Re-sending the current status is a no-op and never restocks twice.
	_, err = f.orderSvc.UpdateStatus(ctx, superAdmin, o.ID, dto.UpdateOrderStatusRequest{Status: "cancelled"})
	require.NoError(t, err)
	assert.Equal(t, 10, f.stockOf(t, p.ID))
}

func TestUpdateStatus_CannotMoveBackwards(t *testing.T) {
	f := newFixture(t)
	o, p := f.placeOrder(t, 10, 2)
	ctx := context.Background()

	for _, st := range []string{"confirmed", "processing", "shipped"} {
		_, err := f.orderSvc.UpdateStatus(ctx, superAdmin, o.ID, dto.UpdateOrderStatusRequest{Status: st})
		require.NoError(t, err)
	}
	before, err := f.orderSvc.Get(ctx, o.ID)
	require.NoError(t, err)

	for _, st := range []string{"pending", "confirmed", "processing"} {
		_, err = f.orderSvc.UpdateStatus(ctx, superAdmin, o.ID, dto.UpdateOrderStatusRequest{Status: st})
		assert.ErrorIs(t, err, apierror.ErrInvalidTransition, st)
		assert.Equal(t, http.StatusBadRequest, apierror.Status(err))
	}

	after, err := f.orderSvc.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderShipped, after.OrderStatus)
	assert.Equal(t, before.ConfirmedAt, after.ConfirmedAt)
	assert.Equal(t, before.ProcessingAt, after.ProcessingAt)
	assert.Equal(t, before.ShippedAt, after.ShippedAt)
	assert.Len(t, f.dispatcher.statusMails, 3)

	// Skipping ahead and cancelling stay allowed.
	_, err = f.orderSvc.UpdateStatus(ctx, superAdmin, o.ID, dto.UpdateOrderStatusRequest{Status: "cancelled"})
	require.NoError(t, err)
	assert.Equal(t, 10, f.stockOf(t, p.ID))
}

func TestUpdateStatus_RejectsUnknownStatusAndOrder(t *testing.T) {
	f := newFixture(t)
	o, _ := f.placeOrder(t, 10, 1)
	ctx := context.Background()

	_, err := f.orderSvc.UpdateStatus(ctx, superAdmin, o.ID, dto.UpdateOrderStatusRequest{Status: "lost"})
	var verr *apierror.ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = f.orderSvc.UpdateStatus(ctx, superAdmin, 999, dto.UpdateOrderStatusRequest{Status: "confirmed"})
	assert.ErrorIs(t, err, apierror.ErrNotFound)
}

func TestUpdatePaymentStatusAndNotes(t *testing.T) {
	f := newFixture(t)
	o, _ := f.placeOrder(t, 10, 1)
	ctx := context.Background()

	got, err := f.orderSvc.UpdatePaymentStatus(ctx, superAdmin, o.ID, dto.UpdatePaymentStatusRequest{Status: "paid"})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPaid, got.PaymentStatus)
	assert.Equal(t, model.OrderPending, got.OrderStatus)

	got, err = f.orderSvc.UpdateAdminNotes(ctx, superAdmin, o.ID, dto.UpdateAdminNotesRequest{AdminNotes: "Kirim sore"})
	require.NoError(t, err)
	require.NotNil(t, got.AdminNotes)
	assert.Equal(t, "Kirim sore", *got.AdminNotes)
}

func TestListOrders_FiltersByStatusAndSearch(t *testing.T) {
	f := newFixture(t)
	o, _ := f.placeOrder(t, 10, 1)
	ctx := context.Background()

	list, err := f.orderSvc.List(ctx, dto.OrderFilter{Status: "pending"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.Total)
	assert.Equal(t, 1, list.Data[0].ItemCount)

	list, err = f.orderSvc.List(ctx, dto.OrderFilter{Search: o.OrderNumber})
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.Total)

	list, err = f.orderSvc.List(ctx, dto.OrderFilter{Status: "shipped"})
	require.NoError(t, err)
	assert.Zero(t, list.Total)
	assert.Empty(t, list.Data)

	_, err = f.orderSvc.List(ctx, dto.OrderFilter{DateFrom: "15/01/2026"})
	var verr *apierror.ValidationError
	assert.ErrorAs(t, err, &verr)
}
