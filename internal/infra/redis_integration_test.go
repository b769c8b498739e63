//go:build integration

package infra

import (
	"context"
	"fmt"
	"testing"
	"time"

	"frozenshop/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func TestProductCache_RoundTripAndInvalidate(t *testing.T) {
	ctx := context.Background()
	c, err := tcRedis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(ctx) })
	url, err := c.ConnectionString(ctx)
	require.NoError(t, err)

	rdb, err := NewRedis(url)
	require.NoError(t, err)
	require.NoError(t, rdb.Set(ctx, "jobs:unrelated", "keep", 0).Err())

	cache := NewProductCache(rdb, time.Minute)
	_, ok := cache.GetProduct(ctx, "nugget")
	assert.False(t, ok)

	// More keys than one SCAN/DEL batch.
	for i := 0; i < 150; i++ {
		slug := fmt.Sprintf("product-%d", i)
		cache.SetProduct(ctx, slug, &dto.ProductDetailResponse{ProductResponse: dto.ProductResponse{ID: uint(i + 1), Slug: slug}})
	}
	got, ok := cache.GetProduct(ctx, "product-7")
	require.True(t, ok)
	assert.Equal(t, uint(8), got.ID)
	assert.Greater(t, rdb.TTL(ctx, "product:product-7").Val(), time.Duration(0))

	cache.InvalidateProducts(ctx)
	_, ok = cache.GetProduct(ctx, "product-7")
	assert.False(t, ok)
	keys, err := rdb.Keys(ctx, "product:*").Result()
	require.NoError(t, err)
	assert.Empty(t, keys)
	assert.Equal(t, "keep", rdb.Get(ctx, "jobs:unrelated").Val())
}
