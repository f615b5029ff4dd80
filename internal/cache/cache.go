package cache

import (
	"context"
	"time"
)

// Cache memoizes JSON-encodable values. The scoring engine uses it to pin
// AI relevance scores so re-running a pipeline yields stable totals.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (hit bool, err error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}
