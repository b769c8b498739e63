package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func TestEffectivePrice(t *testing.T) {
	cases := []struct {
		name     string
		price    decimal.Decimal
		discount *decimal.Decimal
		want     decimal.Decimal
		percent  int
	}{
		{"no discount", dec(25000), nil, dec(25000), 0},
		{"valid discount", dec(25000), decPtr(20000), dec(20000), 20},
		{"zero discount", dec(25000), decPtr(0), dec(25000), 0},
		{"negative discount", dec(25000), decPtr(-1000), dec(25000), 0},
		{"discount equal to price", dec(25000), decPtr(25000), dec(25000), 0},
		{"discount above price", dec(25000), decPtr(30000), dec(25000), 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := &Product{Price: tc.price, DiscountPrice: tc.discount}
			assert.True(t, tc.want.Equal(p.EffectivePrice()), "got %s", p.EffectivePrice())
			assert.Equal(t, tc.percent, p.DiscountPercent())
		})
	}
}

func TestPrimaryImage(t *testing.T) {
	p := &Product{}
	assert.Nil(t, p.PrimaryImage())

	p.Images = []ProductImage{
		{ID: 1, Path: "b.jpg", SortOrder: 2},
		{ID: 2, Path: "a.jpg", SortOrder: 1},
	}
	assert.Equal(t, "a.jpg", p.PrimaryImage().Path)

	p.Images = append(p.Images, ProductImage{ID: 3, Path: "main.jpg", SortOrder: 9, IsPrimary: true})
	assert.Equal(t, "main.jpg", p.PrimaryImage().Path)
}

func TestOrderStatusMetadata(t *testing.T) {
	assert.Equal(t, "Dibatalkan", OrderCancelled.Meta().Label)
	assert.Equal(t, "Tidak diketahui", OrderStatus("lost").Meta().Label)
	assert.True(t, OrderDelivered.Terminal())
	assert.False(t, OrderShipped.Terminal())
	assert.Equal(t, 3, OrderShipped.Step())
	assert.Equal(t, -1, OrderCancelled.Step())
	assert.True(t, PaymentTransfer.Valid())
	assert.False(t, PaymentMethod("crypto").Valid())
}
