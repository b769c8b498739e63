package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"frozenshop/internal/config"
	"frozenshop/internal/dto"
	"frozenshop/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Circuit breaker ──────────────────────────────────────────────────────────

func newTestBreaker(now *time.Time) *CircuitBreaker {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 2, SuccessThreshold: 1, OpenTimeout: time.Minute})
	cb.now = func() time.Time { return *now }
	return cb
}

func TestCircuitBreaker_Lifecycle(t *testing.T) {
	now := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	cb := newTestBreaker(&now)
	boom := errors.New("smtp down")
	fail := func() error { return boom }
	ok := func() error { return nil }

	assert.Equal(t, CBClosed, cb.State())
	assert.ErrorIs(t, cb.Execute(fail), boom)
	assert.Equal(t, CBClosed, cb.State())
	assert.ErrorIs(t, cb.Execute(fail), boom)
	assert.Equal(t, CBOpen, cb.State())

	called := false
	err := cb.Execute(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)

	now = now.Add(time.Minute)
	assert.Equal(t, CBHalfOpen, cb.State())

	// A failed probe reopens the breaker.
	assert.ErrorIs(t, cb.Execute(fail), boom)
	assert.Equal(t, CBOpen, cb.State())

	now = now.Add(time.Minute)
	require.NoError(t, cb.Execute(ok))
	assert.Equal(t, CBClosed, cb.State())
}

func TestCircuitBreaker_SuccessResetsFailureCount(t *testing.T) {
	now := time.Now()
	cb := newTestBreaker(&now)
	boom := errors.New("x")

	_ = cb.Execute(func() error { return boom })
	_ = cb.Execute(func() error { return nil })
	_ = cb.Execute(func() error { return boom })
	assert.Equal(t, CBClosed, cb.State())
}

func TestNewCircuitBreaker_Defaults(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{})
	assert.Equal(t, DefaultCBConfig(), cb.cfg)
	assert.Equal(t, "closed", cb.State().String())
}

// ── Mailer ───────────────────────────────────────────────────────────────────

func TestMailer_DisabledWithoutHost(t *testing.T) {
	m := NewMailer(&config.Config{SMTPUser: "shop@example.com"}, NewCircuitBreaker(DefaultCBConfig()))
	assert.False(t, m.Enabled())
	assert.Equal(t, "shop@example.com", m.from)
	assert.Error(t, m.Send("a@example.com", "s", "b"))
	assert.Equal(t, CBClosed, m.Breaker().State())
}

// ── Receipt PDF ──────────────────────────────────────────────────────────────

func sampleOrder() *model.Order {
	email := "siti@example.com"
	return &model.Order{
		OrderNumber:     "ORD-20260115-AB12CD",
		CustomerName:    "Siti Rahma",
		CustomerPhone:   "6281234567890",
		CustomerEmail:   &email,
		ShippingAddress: "Jl. Melati No. 5, Bandung",
		Subtotal:        decimal.NewFromInt(90000),
		ShippingCost:    decimal.NewFromInt(10000),
		TotalAmount:     decimal.NewFromInt(100000),
		PaymentMethod:   model.PaymentTransfer,
		PaymentStatus:   model.PaymentPending,
		OrderStatus:     model.OrderPending,
		CreatedAt:       time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC),
		ShippingArea:    &model.ShippingArea{AreaName: "Bandung Kota", ShippingCost: decimal.NewFromInt(10000)},
		Items: []model.OrderItem{{
			ProductName: "Chicken Nugget 500g", ProductSKU: "NGT-1",
			Price: decimal.NewFromInt(45000), Quantity: 2, Subtotal: decimal.NewFromInt(90000),
		}},
	}
}

func TestReceiptRenderer_RenderAndArchive(t *testing.T) {
	r := NewReceiptRenderer(t.TempDir())

	data, err := r.RenderReceipt(sampleOrder(), "Frozen Shop", "0812345678")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))

	path, err := r.Archive("ORD-20260115-AB12CD", data)
	require.NoError(t, err)
	stored, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, data, stored)
}

// ── Kafka ────────────────────────────────────────────────────────────────────

func TestOrderMessage_KeyedByOrderNumber(t *testing.T) {
	o := sampleOrder()
	o.ID = 12
	at := time.Date(2026, 1, 15, 3, 0, 0, 0, time.UTC)

	msg, err := orderMessage("order.created", o, at)
	require.NoError(t, err)
	assert.Equal(t, []byte(o.OrderNumber), msg.Key)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "event", msg.Headers[0].Key)
	assert.Equal(t, []byte("order.created"), msg.Headers[0].Value)

	var ev OrderEvent
	require.NoError(t, json.Unmarshal(msg.Value, &ev))
	assert.Equal(t, uint(12), ev.OrderID)
	assert.Equal(t, model.OrderPending, ev.OrderStatus)
	assert.True(t, ev.TotalAmount.Equal(decimal.NewFromInt(100000)))
	assert.Equal(t, at, ev.OccurredAt)
}

func TestProductCache_NilClientSkipsCaching(t *testing.T) {
	ctx := context.Background()
	for name, c := range map[string]*ProductCache{
		"nil cache":  nil,
		"nil client": NewProductCache(nil, time.Minute),
	} {
		t.Run(name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				c.SetProduct(ctx, "nugget", &dto.ProductDetailResponse{})
				_, ok := c.GetProduct(ctx, "nugget")
				assert.False(t, ok)
				c.InvalidateProducts(ctx)
			})
		})
	}
}

