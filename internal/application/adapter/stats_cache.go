package adapter

import (
	"context"
	"time"
)

// StatsCache caches serialized statistics snapshots. A miss is reported
// through the bool, not an error; errors mean the cache itself misbehaved and
// callers are expected to fall back to a direct read.
type StatsCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
