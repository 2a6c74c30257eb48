package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/zatekoja/clinicbooking/backend/internal/domain/providers"
	redisclient "github.com/zatekoja/clinicbooking/backend/internal/infrastructure/clients/redis"
)

// RedisAdapter implements the CacheProvider interface using Redis counters
type RedisAdapter struct {
	client *redisclient.Client
}

// NewRedisAdapter creates a new Redis cache adapter
func NewRedisAdapter(client *redisclient.Client) providers.CacheProvider {
	return &RedisAdapter{
		client: client,
	}
}

// Increment bumps a counter and starts its expiry on first use
func (a *RedisAdapter) Increment(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	pipe := a.client.Client().TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to increment counter: %w", err)
	}
	return incr.Val(), nil
}

// TTL returns the remaining lifetime of key, or zero when it has none
func (a *RedisAdapter) TTL(ctx context.Context, key string) (time.Duration, error) {
	ttl, err := a.client.Client().TTL(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to read ttl: %w", err)
	}
	if ttl < 0 {
		return 0, nil
	}
	return ttl, nil
}
