// Package money formats Rupiah amounts for customer-facing text.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Rupiah renders d as "Rp 70.000", rounded to whole rupiah with dots as
// thousands separators.
func Rupiah(d decimal.Decimal) string {
	s := d.Round(0).StringFixed(0)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-Rp " + b.String()
	}
	return "Rp " + b.String()
}
