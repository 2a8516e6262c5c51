package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
)

// RedisContainer is a throwaway Redis for cache tests.
type RedisContainer struct {
	Container testcontainers.Container
	Host      string
	Port      int
	URL       string
}

// StartRedis starts redis:7-alpine and waits until it accepts connections.
func StartRedis(ctx context.Context) (*RedisContainer, error) {
	container, err := redis.Run(ctx, "redis:7-alpine",
		redis.WithLogLevel(redis.LogLevelVerbose),
		testcontainers.WithWaitStrategy(
			wait.ForLog("Ready to accept connections").
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start redis container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get redis host: %w", err)
	}

	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get redis port: %w", err)
	}

	return &RedisContainer{
		Container: container,
		Host:      host,
		Port:      port.Int(),
		URL:       fmt.Sprintf("redis://%s:%s", host, port.Port()),
	}, nil
}

// Cleanup terminates the container
func (rc *RedisContainer) Cleanup(ctx context.Context) error {
	if rc == nil || rc.Container == nil {
		return nil
	}
	if err := rc.Container.Terminate(ctx); err != nil {
		return fmt.Errorf("failed to terminate redis: %w", err)
	}
	return nil
}
