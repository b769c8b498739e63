package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValid(t *testing.T) {
	for _, ok := range []string{"081234567890", "0812-3456-789", "+6281234567890", "6281234567890", "0812 345 678"} {
		assert.True(t, Valid(ok), ok)
	}
	for _, bad := range []string{"", "12345", "0212345678", "0801234567", "+1 555 123 4567", "08abc4567890"} {
		assert.False(t, Valid(bad), bad)
	}
}

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"081234567890":      "6281234567890",
		"+62 812-3456-7890": "6281234567890",
		"6281234567890":     "6281234567890",
		"81234567890":       "6281234567890",
		"":                  "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Normalize(in, "62"), in)
	}
}
