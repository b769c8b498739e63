package infra

import (
	"context"
	"encoding/json"
	"time"

	"frozenshop/internal/dto"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// NewRedis creates and validates a go-redis client connection.
func NewRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opts)

	// Validate connectivity at startup
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return rdb, nil
}

const productCachePrefix = "product:"

// ProductCache keeps product detail responses in Redis keyed by slug.
// Every operation is best effort: errors are logged and treated as misses.
// A nil cache or nil client disables caching.
type ProductCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewProductCache(rdb *redis.Client, ttl time.Duration) *ProductCache {
	return &ProductCache{rdb: rdb, ttl: ttl}
}

func (c *ProductCache) enabled() bool { return c != nil && c.rdb != nil }

func (c *ProductCache) GetProduct(ctx context.Context, slug string) (*dto.ProductDetailResponse, bool) {
	if !c.enabled() {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, productCachePrefix+slug).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Str("slug", slug).Msg("product cache: get failed")
		}
		return nil, false
	}
	var resp dto.ProductDetailResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, false
	}
	return &resp, true
}

func (c *ProductCache) SetProduct(ctx context.Context, slug string, p *dto.ProductDetailResponse) {
	if !c.enabled() {
		return
	}
	b, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, productCachePrefix+slug, b, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("slug", slug).Msg("product cache: set failed")
	}
}

// InvalidateProducts deletes every cached product key.
func (c *ProductCache) InvalidateProducts(ctx context.Context) {
	if !c.enabled() {
		return
	}
	iter := c.rdb.Scan(ctx, 0, productCachePrefix+"*", 100).Iterator()
	keys := make([]string, 0, 100)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) == 100 {
			c.del(ctx, keys)
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		log.Warn().Err(err).Msg("product cache: scan failed")
	}
	c.del(ctx, keys)
}

func (c *ProductCache) del(ctx context.Context, keys []string) {
	if len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		log.Warn().Err(err).Int("keys", len(keys)).Msg("product cache: delete failed")
	}
}
