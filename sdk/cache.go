package sdk

import (
	"context"
	"time"
)

// ResponseCache stores raw GET response bodies keyed by URL.
//
// Any error from Get is treated as a miss, so implementations can report
// their own not-found sentinel. internal/cache provides a Redis backed
// implementation.
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
