package cache

import (
	"context"
	"time"
)

// Store backs the OTP and login rate limiters. RedisStore serves multi-node
// deployments; DatabaseStore keeps single-node setups free of extra
// infrastructure by counting inside the primary database.
type Store interface {
	// IncrementWithTTL bumps the counter at key, starting a new window of the
	// given duration on first hit, and reports the count and time remaining.
	IncrementWithTTL(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Delete(ctx context.Context, keys ...string) error
}
