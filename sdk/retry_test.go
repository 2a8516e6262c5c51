package sdk

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errServer = (&APIError{StatusCode: http.StatusServiceUnavailable, Message: "down"}).ToError()

func TestExponentialBackoffIntervals(t *testing.T) {
	s := &ExponentialBackoffStrategy{
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     time.Second,
		Multiplier:      2,
	}
	assert.Equal(t, time.Duration(0), s.NextInterval(0))
	assert.Equal(t, 100*time.Millisecond, s.NextInterval(1))
	assert.Equal(t, 200*time.Millisecond, s.NextInterval(2))
	assert.Equal(t, 400*time.Millisecond, s.NextInterval(3))
	assert.Equal(t, time.Second, s.NextInterval(10))

	s.Jitter = 0.3
	for i := 0; i < 100; i++ {
		d := s.NextInterval(2)
		assert.GreaterOrEqual(t, d, 140*time.Millisecond)
		assert.LessOrEqual(t, d, 260*time.Millisecond)
	}
}

func TestLinearAndConstantBackoff(t *testing.T) {
	constant := DefaultConstantBackoff()
	assert.Equal(t, 500*time.Millisecond, constant.NextInterval(1))
	assert.Equal(t, 500*time.Millisecond, constant.NextInterval(5))

	linear := &LinearBackoffStrategy{Interval: time.Second}
	assert.Equal(t, time.Second, linear.NextInterval(3))
	assert.Equal(t, time.Duration(0), linear.NextInterval(0))

	none := &NoRetryStrategy{}
	assert.False(t, none.ShouldRetry(errServer, 1))
}

func TestRetryBudget(t *testing.T) {
	budget := RetryBudget{MaxAttempts: 3, MaxDuration: time.Second}
	assert.False(t, budget.IsExhausted(2, 0))
	assert.True(t, budget.IsExhausted(3, 0))
	assert.True(t, budget.IsExhausted(1, time.Second))

	assert.True(t, budget.IsRetryable(errServer))
	assert.False(t, budget.IsRetryable(invalidArgument("bad")))

	networkOnly := RetryBudget{RetryableErrors: []ErrorType{ErrorTypeNetwork}}
	assert.False(t, networkOnly.IsRetryable(errServer))
	assert.True(t, networkOnly.IsRetryable((&NetworkError{Op: "GET", Err: errors.New("reset")}).ToError()))
}

func fastRetry(attempts int) RetryStrategy {
	return &ConstantBackoffStrategy{Interval: time.Millisecond, Budget: RetryBudget{MaxAttempts: attempts}}
}

func TestRetryExecutor(t *testing.T) {
	t.Run("succeeds after failures", func(t *testing.T) {
		var retries []int
		executor := newRetryExecutor(fastRetry(5), func(attempt int, delay time.Duration, err error) {
			retries = append(retries, attempt)
		})

		calls := 0
		err := executor.Execute(context.Background(), func() error {
			calls++
			if calls < 3 {
				return errServer
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
		assert.Equal(t, []int{2, 3}, retries)
	})

	t.Run("budget exhausted returns last error", func(t *testing.T) {
		executor := newRetryExecutor(fastRetry(2), nil)
		calls := 0
		err := executor.Execute(context.Background(), func() error {
			calls++
			return errServer
		})
		assert.Same(t, errServer, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("non retryable error stops", func(t *testing.T) {
		executor := newRetryExecutor(fastRetry(5), nil)
		calls := 0
		notFound := (&APIError{StatusCode: http.StatusNotFound}).ToError()
		err := executor.Execute(context.Background(), func() error {
			calls++
			return notFound
		})
		assert.Same(t, notFound, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("context canceled while waiting", func(t *testing.T) {
		executor := newRetryExecutor(&ConstantBackoffStrategy{Interval: time.Hour}, nil)
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		err := executor.Execute(ctx, func() error { return errServer })
		assert.ErrorIs(t, err, ErrTimeout)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("retry after overrides shorter interval", func(t *testing.T) {
		var delays []time.Duration
		executor := newRetryExecutor(fastRetry(2), func(attempt int, delay time.Duration, err error) {
			delays = append(delays, delay)
		})
		throttled := &APIError{StatusCode: http.StatusTooManyRequests, RetryAfter: 30 * time.Millisecond}

		calls := 0
		err := executor.Execute(context.Background(), func() error {
			calls++
			if calls == 1 {
				return throttled.ToError()
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, []time.Duration{30 * time.Millisecond}, delays)
	})
}
