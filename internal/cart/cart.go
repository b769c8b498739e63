// Package cart implements the storefront cart value. The cart lives in the
// browser; the server uses this type to merge submitted lines and to compute
// totals. Stock is never checked here, only at checkout.
package cart

import "github.com/shopspring/decimal"

// Item is one cart line.
type Item struct {
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// Subtotal is Price × Quantity.
func (i Item) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is an ordered list of lines, at most one per product.
type Cart struct {
	Items []Item `json:"items"`
}

// Add merges item into the cart, summing quantities for a product already
// present. Non-positive quantities are ignored.
func (c *Cart) Add(item Item) {
	if item.Quantity <= 0 {
		return
	}
	for i := range c.Items {
		if c.Items[i].ProductID == item.ProductID {
			c.Items[i].Quantity += item.Quantity
			return
		}
	}
	c.Items = append(c.Items, item)
}

// Remove drops the line for productID.
func (c *Cart) Remove(productID uint) {
	kept := c.Items[:0]
	for _, it := range c.Items {
		if it.ProductID != productID {
			kept = append(kept, it)
		}
	}
	c.Items = kept
}

// Total is Σ price × quantity.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.Items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// Count is the total number of units.
func (c *Cart) Count() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

// ProductIDs lists the distinct product ids in cart order.
func (c *Cart) ProductIDs() []uint {
	ids := make([]uint, 0, len(c.Items))
	for _, it := range c.Items {
		ids = append(ids, it.ProductID)
	}
	return ids
}
