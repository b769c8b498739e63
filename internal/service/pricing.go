package service

import (
	"sort"

	"frozenshop/internal/cart"
	"frozenshop/internal/dto"
	"frozenshop/internal/model"

	"github.com/shopspring/decimal"
)

// pricedLine is a cart line resolved against a live product row.
type pricedLine struct {
	product   model.Product
	requested int
	quantity  int
	price     decimal.Decimal
	subtotal  decimal.Decimal
}

func (l pricedLine) clamped() bool { return l.quantity < l.requested }

// pricedCart is the server-side view of a submitted cart.
type pricedCart struct {
	lines []pricedLine
	// dropped lists products that are missing, inactive or out of stock.
	dropped  []uint
	subtotal decimal.Decimal
	units    int
}

// adjusted lists every product whose requested quantity was not honoured.
func (pc pricedCart) adjusted() []uint {
	out := append([]uint(nil), pc.dropped...)
	for _, l := range pc.lines {
		if l.clamped() {
			out = append(out, l.product.ID)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// mergeCart folds the submitted lines into a cart, summing duplicates.
func mergeCart(items []dto.CartItemRequest) cart.Cart {
	var c cart.Cart
	for _, it := range items {
		c.Add(cart.Item{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return c
}

// priceCart re-prices c with the effective price of each product and clamps
// every quantity to the live stock. Lines for unknown or inactive products
// and lines clamped to zero are dropped. Client prices are ignored.
func priceCart(c cart.Cart, products []model.Product) pricedCart {
	byID := make(map[uint]model.Product, len(products))
	for _, p := range products {
		if p.IsActive {
			byID[p.ID] = p
		}
	}

	var priced cart.Cart
	pc := pricedCart{subtotal: decimal.Zero}
	for _, it := range c.Items {
		p, ok := byID[it.ProductID]
		if !ok {
			pc.dropped = append(pc.dropped, it.ProductID)
			continue
		}
		qty := it.Quantity
		if p.StockQuantity < qty {
			qty = p.StockQuantity
		}
		if qty <= 0 {
			pc.dropped = append(pc.dropped, it.ProductID)
			continue
		}
		line := cart.Item{ProductID: p.ID, Name: p.Name, Price: p.EffectivePrice(), Quantity: qty}
		priced.Add(line)
		pc.lines = append(pc.lines, pricedLine{
			product:   p,
			requested: it.Quantity,
			quantity:  qty,
			price:     line.Price,
			subtotal:  line.Subtotal(),
		})
	}
	pc.subtotal = priced.Total()
	pc.units = priced.Count()
	return pc
}

// qualifiesForFreeShipping reports whether subtotal reaches the free-shipping
// threshold. A zero threshold disables free shipping.
func qualifiesForFreeShipping(subtotal, freeShippingMin decimal.Decimal) bool {
	return freeShippingMin.IsPositive() && subtotal.GreaterThanOrEqual(freeShippingMin)
}

// shippingCost is zero for orders that qualify for free shipping, otherwise
// the area's flat cost.
func shippingCost(subtotal, freeShippingMin, areaCost decimal.Decimal) decimal.Decimal {
	if qualifiesForFreeShipping(subtotal, freeShippingMin) {
		return decimal.Zero
	}
	return areaCost
}

// meetsMinimum reports whether subtotal reaches the minimum order amount.
func meetsMinimum(subtotal, minimum decimal.Decimal) bool {
	return !subtotal.LessThan(minimum)
}
