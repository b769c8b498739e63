package service

import (
	"testing"

	"frozenshop/internal/dto"
	"frozenshop/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceCart_UsesEffectivePriceAndClampsToStock(t *testing.T) {
	products := []model.Product{
		{ID: 7, Name: "Dimsum Ayam", Price: dec(25000), DiscountPrice: decPtr(20000), StockQuantity: 2, IsActive: true},
		{ID: 9, Name: "Nugget", Price: dec(30000), StockQuantity: 10, IsActive: true},
	}
	c := mergeCart([]dto.CartItemRequest{line(7, 3), line(9, 1)})

	pc := priceCart(c, products)

	require.Len(t, pc.lines, 2)
	assert.Equal(t, 2, pc.lines[0].quantity)
	assert.True(t, pc.lines[0].clamped())
	assert.True(t, dec(40000).Equal(pc.lines[0].subtotal))
	assert.False(t, pc.lines[1].clamped())
	assert.True(t, dec(70000).Equal(pc.subtotal), "got %s", pc.subtotal)
	assert.Equal(t, 3, pc.units)
	assert.Equal(t, []uint{7}, pc.adjusted())
}

func TestPriceCart_DropsInactiveMissingAndSoldOut(t *testing.T) {
	products := []model.Product{
		{ID: 1, Price: dec(10000), StockQuantity: 5, IsActive: false},
		{ID: 2, Price: dec(10000), StockQuantity: 0, IsActive: true},
		{ID: 3, Price: dec(10000), StockQuantity: 5, IsActive: true},
	}
	c := mergeCart([]dto.CartItemRequest{line(1, 1), line(2, 1), line(3, 1), line(4, 1)})

	pc := priceCart(c, products)

	require.Len(t, pc.lines, 1)
	assert.Equal(t, uint(3), pc.lines[0].product.ID)
	assert.Equal(t, []uint{1, 2, 4}, pc.adjusted())
}

func TestMergeCart_SumsDuplicateLines(t *testing.T) {
	c := mergeCart([]dto.CartItemRequest{line(5, 1), line(6, 2), line(5, 2), line(8, 0)})
	require.Len(t, c.Items, 2)
	assert.Equal(t, 3, c.Items[0].Quantity)
	assert.Equal(t, []uint{5, 6}, c.ProductIDs())
}

func TestShippingCost(t *testing.T) {
	cases := []struct {
		name     string
		subtotal int64
		freeMin  int64
		want     int64
	}{
		{"below threshold", 60000, 100000, 10000},
		{"at threshold", 100000, 100000, 0},
		{"above threshold", 150000, 100000, 0},
		{"zero threshold never free", 500000, 0, 10000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := shippingCost(dec(tc.subtotal), dec(tc.freeMin), dec(10000))
			assert.True(t, dec(tc.want).Equal(got), "got %s", got)
		})
	}
}

func TestMeetsMinimum(t *testing.T) {
	assert.True(t, meetsMinimum(dec(50000), dec(50000)))
	assert.True(t, meetsMinimum(dec(1), decimal.Zero))
	assert.False(t, meetsMinimum(dec(49999), dec(50000)))
}
