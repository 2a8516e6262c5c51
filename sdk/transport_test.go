package sdk

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPath(t *testing.T) {
	tests := []struct {
		pattern string
		args    []string
		want    string
	}{
		{"space/{key}", []string{"DEV"}, "space/DEV"},
		{"space/{key}/content", []string{"MY SPACE"}, "space/MY%20SPACE/content"},
		{"content/{id}/label/{name}", []string{"42", "a/b"}, "content/42/label/a%2Fb"},
		{"content/{id}/label/{name}", []string{"42", "c++"}, "content/42/label/c%2B%2B"},
		{"user/watch/label/{name}", []string{"q?&"}, "user/watch/label/q%3F%26"},
		{"content/{id}/child/attachment/{attachmentId}", []string{"42"}, "content/42/child/attachment/{attachmentId}"},
		{"group", nil, "group"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, buildPath(tt.pattern, tt.args...))
		})
	}
}

func TestRateLimit(t *testing.T) {
	server := newMockServer(t)
	client := newTestClient(t, server, func(c *Config) {
		c.WithRateLimit(0.01, 1).WithRetryStrategy(&NoRetryStrategy{})
	})

	_, err := client.Misc().SystemInfo(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = client.Misc().SystemInfo(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, 1, server.RequestCount())
}

func TestCircuitBreakerOpensThroughClient(t *testing.T) {
	server := newMockServer(t)
	server.WithErrorResponse("GET space/DEV", http.StatusServiceUnavailable, "maintenance")

	metrics := NewMetricsCollector()
	client := newTestClient(t, server, func(c *Config) {
		c.WithRetryStrategy(&NoRetryStrategy{}).
			WithObserver(metrics).
			WithCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 2, SuccessThreshold: 1, Timeout: time.Hour, HalfOpenRequests: 1})
	})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := client.Space().Get(ctx, "DEV", nil)
		assert.ErrorIs(t, err, ErrServerError)
	}

	_, err := client.Space().Get(ctx, "DEV", nil)
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, IsRetryable(err))
	assert.Equal(t, 2, server.RequestCount())
	assert.Equal(t, int64(1), metrics.Snapshot().CircuitStateChanges["*"])
}

func TestPerEndpointCircuitBreaker(t *testing.T) {
	server := newMockServer(t)
	server.WithErrorResponse("GET space/DEV", http.StatusInternalServerError, "boom")
	client := newTestClient(t, server, func(c *Config) {
		c.WithRetryStrategy(&NoRetryStrategy{}).
			WithCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 1, SuccessThreshold: 1, Timeout: time.Hour, HalfOpenRequests: 1}).
			WithPerEndpointCircuitBreaker()
	})
	ctx := context.Background()

	_, err := client.Space().Get(ctx, "DEV", nil)
	assert.ErrorIs(t, err, ErrServerError)
	_, err = client.Space().Get(ctx, "OPS", nil)
	assert.ErrorIs(t, err, ErrCircuitOpen)

	_, err = client.Misc().SystemInfo(ctx)
	assert.NoError(t, err)
	assert.Equal(t, CircuitOpen, client.transport.perEndpointCircuitBreaker.State("GET space/{key}"))
	assert.Equal(t, CircuitClosed, client.transport.perEndpointCircuitBreaker.State("GET settings/systemInfo"))
}

type mapCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	ttls    map[string]time.Duration
	deleted []string
}

var errCacheMiss = errors.New("cache miss")

func newMapCache() *mapCache {
	return &mapCache{entries: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (c *mapCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	if !ok {
		return nil, errCacheMiss
	}
	return v, nil
}

func (c *mapCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = append([]byte(nil), value...)
	c.ttls[key] = ttl
	return nil
}

func (c *mapCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	c.deleted = append(c.deleted, key)
	return nil
}

func TestResponseCache(t *testing.T) {
	server := newMockServer(t)
	server.Respond("GET space/DEV", http.StatusOK, Space{Key: "DEV", Name: "Development"})
	server.Respond("PUT space/DEV", http.StatusOK, Space{Key: "DEV", Name: "Dev"})

	cache := newMapCache()
	metrics := NewMetricsCollector()
	client := newTestClient(t, server, func(c *Config) {
		c.WithCache(cache, time.Minute).WithObserver(metrics)
	})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		space, err := client.Space().Get(ctx, "DEV", nil)
		require.NoError(t, err)
		assert.Equal(t, "Development", space.Name)
	}
	assert.Equal(t, 1, server.RequestCount())

	key := "confluence:" + server.URL + "/rest/api/space/DEV"
	assert.Contains(t, cache.entries, key)
	assert.Equal(t, time.Minute, cache.ttls[key])

	snapshot := metrics.Snapshot()
	assert.Equal(t, int64(2), snapshot.CacheHits)
	assert.Equal(t, int64(1), snapshot.CacheMisses)
	assert.InDelta(t, 2.0/3.0, snapshot.CacheHitRate(), 0.001)

	_, err := client.Space().Update(ctx, &Space{Key: "DEV", Name: "Dev"})
	require.NoError(t, err)
	assert.Equal(t, []string{key}, cache.deleted)

	_, err = client.Space().Get(ctx, "DEV", nil)
	require.NoError(t, err)
	assert.Equal(t, 3, server.RequestCount())
}

func TestResponseCacheIgnoresErrors(t *testing.T) {
	server := newMockServer(t)
	server.WithErrorResponse("GET space/NOPE", http.StatusNotFound, "No space with key : NOPE")
	cache := newMapCache()
	client := newTestClient(t, server, func(c *Config) { c.WithCache(cache, time.Minute) })

	for i := 0; i < 2; i++ {
		_, err := client.Space().Get(context.Background(), "NOPE", nil)
		assert.True(t, IsNotFound(err))
	}
	assert.Empty(t, cache.entries)
	assert.Equal(t, 2, server.RequestCount())
}

func TestPostIsNotRepeatedAfterAmbiguousFailure(t *testing.T) {
	created := map[string]interface{}{"key": "DEV", "name": "Development"}

	t.Run("server error", func(t *testing.T) {
		server := newMockServer(t)
		attempts := server.WithRetryResponse("POST space", 1, http.StatusServiceUnavailable, created)
		client := newTestClient(t, server)

		_, err := client.Space().Create(context.Background(), "DEV", "Development", "")
		require.Error(t, err)
		assert.True(t, IsRetryable(err))
		assert.Equal(t, int32(1), attempts.Load())
	})

	t.Run("connection dropped", func(t *testing.T) {
		server := newMockServer(t)
		server.Handle("POST content", func(w http.ResponseWriter, r *http.Request) (int, interface{}) {
			if server.RequestCount() == 1 {
				if conn, _, err := w.(http.Hijacker).Hijack(); err == nil {
					_ = conn.Close()
				}
			}
			return http.StatusOK, map[string]interface{}{"id": "1", "type": "page"}
		})
		client := newTestClient(t, server)

		_, err := client.Content().Create(context.Background(), &NewContent{
			Type:     ContentTypePage,
			Title:    "Release notes",
			SpaceKey: "DEV",
			Body:     "<p>Shipped.</p>",
		})
		require.Error(t, err)
		assert.Equal(t, 1, server.RequestCount())
	})

	t.Run("rate limited is retried", func(t *testing.T) {
		server := newMockServer(t)
		server.Handle("POST space", func(w http.ResponseWriter, r *http.Request) (int, interface{}) {
			if server.RequestCount() == 1 {
				return http.StatusTooManyRequests, nil
			}
			return http.StatusOK, created
		})
		client := newTestClient(t, server)

		space, err := client.Space().Create(context.Background(), "DEV", "Development", "")
		require.NoError(t, err)
		assert.Equal(t, "DEV", space.Key)
		assert.Equal(t, 2, server.RequestCount())
	})
}

func TestIdempotentRequestsAreRetried(t *testing.T) {
	server := newMockServer(t)
	attempts := server.WithRetryResponse("PUT space/DEV", 1, http.StatusServiceUnavailable,
		map[string]interface{}{"key": "DEV", "name": "Renamed"})
	client := newTestClient(t, server)

	space, err := client.Space().Update(context.Background(), &Space{Key: "DEV", Name: "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", space.Name)
	assert.Equal(t, int32(2), attempts.Load())
}

func TestRefusedBeforeProcessing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"too many requests", (&APIError{StatusCode: http.StatusTooManyRequests}).ToError(), true},
		{"unavailable with retry-after", (&APIError{StatusCode: http.StatusServiceUnavailable, RetryAfter: time.Second}).ToError(), true},
		{"unavailable without retry-after", (&APIError{StatusCode: http.StatusServiceUnavailable}).ToError(), false},
		{"bad gateway", (&APIError{StatusCode: http.StatusBadGateway}).ToError(), false},
		{"network", (&NetworkError{Op: "POST space", Err: errors.New("connection reset")}).ToError(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, refusedBeforeProcessing(tt.err))
		})
	}

	assert.True(t, idempotent(http.MethodGet))
	assert.True(t, idempotent(http.MethodPut))
	assert.True(t, idempotent(http.MethodDelete))
	assert.False(t, idempotent(http.MethodPost))
}
