package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRupiah(t *testing.T) {
	cases := map[string]string{
		"0":        "Rp 0",
		"950":      "Rp 950",
		"1000":     "Rp 1.000",
		"70000":    "Rp 70.000",
		"1250000":  "Rp 1.250.000",
		"25000.50": "Rp 25.001",
		"-15000":   "-Rp 15.000",
	}
	for in, want := range cases {
		assert.Equal(t, want, Rupiah(decimal.RequireFromString(in)), in)
	}
}
