package providers

import (
	"context"
	"time"
)

// CacheProvider defines the shared counters used for rate limiting
type CacheProvider interface {
	// Increment atomically adds one to a counter and returns the new value.
	// The expiry is set when the counter is created and left alone afterwards.
	Increment(ctx context.Context, key string, ttl time.Duration) (int64, error)

	// TTL returns the remaining lifetime of key
	TTL(ctx context.Context, key string) (time.Duration, error)
}
