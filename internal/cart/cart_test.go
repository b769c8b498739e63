package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAddMergesByProduct(t *testing.T) {
	var c Cart
	c.Add(Item{ProductID: 7, Name: "Somay", Price: decimal.NewFromInt(20000), Quantity: 2})
	c.Add(Item{ProductID: 8, Name: "Siomay", Price: decimal.NewFromInt(15000), Quantity: 1})
	c.Add(Item{ProductID: 7, Name: "Somay", Price: decimal.NewFromInt(20000), Quantity: 1})
	c.Add(Item{ProductID: 9, Quantity: 0})

	assert.Len(t, c.Items, 2)
	assert.Equal(t, 3, c.Items[0].Quantity)
	assert.Equal(t, 4, c.Count())
	assert.Equal(t, "75000", c.Total().String())
	assert.Equal(t, []uint{7, 8}, c.ProductIDs())
}

func TestRemove(t *testing.T) {
	var c Cart
	c.Add(Item{ProductID: 1, Price: decimal.NewFromInt(1000), Quantity: 1})
	c.Add(Item{ProductID: 2, Price: decimal.NewFromInt(2000), Quantity: 1})
	c.Remove(1)
	c.Remove(42)

	assert.Len(t, c.Items, 1)
	assert.Equal(t, uint(2), c.Items[0].ProductID)
	assert.Equal(t, "2000", c.Total().String())
}
