package planstore

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/zyra-ai/zyra/pkg/plan"
)

const defaultCacheTTL = 5 * time.Minute

// CachedSource wraps a TierSource with a Redis read-through cache. Cache
// faults degrade to the underlying source rather than failing the request;
// source faults are still propagated so guards never fail open.
type CachedSource struct {
	source plan.TierSource
	client redis.Cmdable
	ttl    time.Duration
	prefix string
}

// CacheOption configures a CachedSource.
type CacheOption func(*CachedSource)

// WithTTL sets how long a cached tier is served before re-reading the
// source. Billing events invalidate eagerly, so the TTL only bounds
// staleness from out-of-band changes.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *CachedSource) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithKeyPrefix namespaces cache keys, e.g. per environment.
func WithKeyPrefix(prefix string) CacheOption {
	return func(c *CachedSource) {
		if prefix != "" {
			c.prefix = prefix
		}
	}
}

// NewCachedSource creates a caching decorator around source. Panics if
// source or client is nil.
func NewCachedSource(source plan.TierSource, client redis.Cmdable, opts ...CacheOption) *CachedSource {
	if source == nil {
		panic("planstore.NewCachedSource: TierSource is required")
	}
	if client == nil {
		panic("planstore.NewCachedSource: redis client is required")
	}

	c := &CachedSource{
		source: source,
		client: client,
		ttl:    defaultCacheTTL,
		prefix: "zyra:tier:",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TierName returns the cached tier name, falling back to the source on a
// miss. An empty tier name (free merchant) is cached like any other value.
func (c *CachedSource) TierName(ctx context.Context, merchantID uuid.UUID) (string, error) {
	key := c.key(merchantID)

	cached, err := c.client.Get(ctx, key).Result()
	if err == nil {
		return cached, nil
	}
	// redis.Nil is an ordinary miss; other errors mean the cache is
	// unavailable and we read through to the source.

	tier, err := c.source.TierName(ctx, merchantID)
	if err != nil {
		return "", err
	}

	if err := c.client.Set(ctx, key, tier, c.ttl).Err(); err != nil && !errors.Is(err, context.Canceled) {
		// A failed write only costs the next request a source read.
		return tier, nil
	}
	return tier, nil
}

// Invalidate drops the merchant's cached tier. Called by the billing
// service after applying a webhook that changes the tier.
func (c *CachedSource) Invalidate(ctx context.Context, merchantID uuid.UUID) error {
	if err := c.client.Del(ctx, c.key(merchantID)).Err(); err != nil {
		return errors.Join(ErrCacheUnavailable, err)
	}
	return nil
}

func (c *CachedSource) key(merchantID uuid.UUID) string {
	return c.prefix + merchantID.String()
}
