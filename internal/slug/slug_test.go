package slug

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMake(t *testing.T) {
	cases := map[string]string{
		"Somay Original!!":        "somay-original",
		"  Dimsum  Ayam & Udang ": "dimsum-ayam-udang",
		"Kué Lapis":               "kue-lapis",
		"Bakso 500gr (isi 25)":    "bakso-500gr-isi-25",
		"!!!":                     "item",
	}
	for in, want := range cases {
		assert.Equal(t, want, Make(in), in)
	}
}

func existing(slugs ...string) ExistsFunc {
	set := make(map[string]bool, len(slugs))
	for _, s := range slugs {
		set[s] = true
	}
	return func(_ context.Context, s string) (bool, error) { return set[s], nil }
}

func TestUniqueAppendsSuffixOnCollision(t *testing.T) {
	got, err := Unique(context.Background(), "Somay Original!!", existing("somay-original"))
	require.NoError(t, err)
	assert.Equal(t, "somay-original-1", got)

	got, err = Unique(context.Background(), "Somay Original", existing("somay-original", "somay-original-1", "somay-original-2"))
	require.NoError(t, err)
	assert.Equal(t, "somay-original-3", got)
}

func TestUniqueFreeSlug(t *testing.T) {
	got, err := Unique(context.Background(), "Siomay Ikan", existing("somay-original"))
	require.NoError(t, err)
	assert.Equal(t, "siomay-ikan", got)
}

func TestUniquePropagatesLookupError(t *testing.T) {
	_, err := Unique(context.Background(), "x", func(context.Context, string) (bool, error) {
		return false, errors.New("db down")
	})
	assert.ErrorContains(t, err, "db down")
}
