package sdk

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"net/http"
	"time"
)

// RetryStrategy defines how retries should be performed.
//
// The SDK provides several built-in strategies:
//   - ExponentialBackoffStrategy: Exponentially increasing delays
//   - LinearBackoffStrategy: Fixed delay with jitter
//   - ConstantBackoffStrategy: Fixed delay between retries
//   - NoRetryStrategy: Disables retries entirely
//
// Custom strategies only need the two methods:
//
//	type quadratic struct{}
//
//	func (quadratic) NextInterval(attempt int) time.Duration {
//	    return time.Duration(attempt*attempt) * 100 * time.Millisecond
//	}
//
//	func (quadratic) ShouldRetry(err error, attempt int) bool {
//	    return sdk.IsRetryable(err) && attempt < 5
//	}
type RetryStrategy interface {
	// NextInterval returns the delay before the next retry attempt.
	// The attempt parameter starts at 1 for the first retry.
	// Return 0 to indicate no more retries should be attempted.
	NextInterval(attempt int) time.Duration

	// ShouldRetry determines if the error is retryable for the given attempt.
	ShouldRetry(err error, attempt int) bool
}

// budgeted is implemented by the built-in strategies so the executor can
// enforce their budget.
type budgeted interface {
	retryBudget() RetryBudget
}

// RetryBudget limits retry attempts by count and duration.
//
// Example:
//
//	budget := sdk.RetryBudget{
//	    MaxAttempts: 5,
//	    MaxDuration: 30 * time.Second,
//	    RetryableErrors: []sdk.ErrorType{
//	        sdk.ErrorTypeNetwork,
//	        sdk.ErrorTypeRateLimit,
//	    },
//	}
type RetryBudget struct {
	// MaxAttempts is the maximum number of attempts, including the first.
	// Set to 0 for unlimited attempts.
	MaxAttempts int

	// MaxDuration is the maximum total time for all attempts.
	// Set to 0 for no time limit.
	MaxDuration time.Duration

	// RetryableErrors restricts retries to specific error types.
	// If empty, all retryable errors are allowed.
	RetryableErrors []ErrorType
}

// DefaultRetryBudget returns a budget of 3 attempts within 30 seconds.
func DefaultRetryBudget() RetryBudget {
	return RetryBudget{
		MaxAttempts: 3,
		MaxDuration: 30 * time.Second,
	}
}

// IsExhausted checks if the retry budget is exhausted
func (rb *RetryBudget) IsExhausted(attempt int, elapsed time.Duration) bool {
	if rb.MaxAttempts > 0 && attempt >= rb.MaxAttempts {
		return true
	}
	if rb.MaxDuration > 0 && elapsed >= rb.MaxDuration {
		return true
	}
	return false
}

// IsRetryable checks if an error is allowed by the budget
func (rb *RetryBudget) IsRetryable(err error) bool {
	if !IsRetryable(err) {
		return false
	}
	if len(rb.RetryableErrors) == 0 {
		return true
	}

	var enhancedErr *Error
	if errors.As(err, &enhancedErr) {
		for _, allowed := range rb.RetryableErrors {
			if enhancedErr.Type == allowed {
				return true
			}
		}
	}
	return false
}

// ExponentialBackoffStrategy implements exponential backoff with jitter.
//
// The delay calculation is:
//
//	base = InitialInterval * (Multiplier ^ (attempt-1))
//	delay = min(base, MaxInterval) ± jitter
type ExponentialBackoffStrategy struct {
	// InitialInterval is the delay before the first retry.
	InitialInterval time.Duration

	// MaxInterval caps the delay.
	MaxInterval time.Duration

	// Multiplier is the exponential growth factor.
	Multiplier float64

	// Jitter is the randomization factor (0.0 to 1.0).
	Jitter float64

	// Budget limits retry attempts by count and duration.
	Budget RetryBudget
}

// DefaultExponentialBackoff returns 100ms doubling up to 5s with ±30%
// jitter and the default budget.
func DefaultExponentialBackoff() *ExponentialBackoffStrategy {
	return &ExponentialBackoffStrategy{
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		Multiplier:      2.0,
		Jitter:          0.3,
		Budget:          DefaultRetryBudget(),
	}
}

// NextInterval calculates the next retry interval
func (s *ExponentialBackoffStrategy) NextInterval(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	interval := float64(s.InitialInterval) * math.Pow(s.Multiplier, float64(attempt-1))
	if interval > float64(s.MaxInterval) {
		interval = float64(s.MaxInterval)
	}
	return withJitter(interval, s.Jitter)
}

// ShouldRetry determines if the error is retryable
func (s *ExponentialBackoffStrategy) ShouldRetry(err error, attempt int) bool {
	return s.Budget.IsRetryable(err)
}

func (s *ExponentialBackoffStrategy) retryBudget() RetryBudget { return s.Budget }

// LinearBackoffStrategy retries after a fixed interval with optional jitter.
type LinearBackoffStrategy struct {
	// Interval is the base interval between retries.
	Interval time.Duration

	// Jitter is the randomization factor (0.0 to 1.0).
	Jitter float64

	// Budget limits retry attempts.
	Budget RetryBudget
}

// DefaultLinearBackoff returns 1s ±10% with the default budget.
func DefaultLinearBackoff() *LinearBackoffStrategy {
	return &LinearBackoffStrategy{
		Interval: 1 * time.Second,
		Jitter:   0.1,
		Budget:   DefaultRetryBudget(),
	}
}

// NextInterval returns the next retry interval
func (s *LinearBackoffStrategy) NextInterval(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	return withJitter(float64(s.Interval), s.Jitter)
}

// ShouldRetry determines if the error is retryable
func (s *LinearBackoffStrategy) ShouldRetry(err error, attempt int) bool {
	return s.Budget.IsRetryable(err)
}

func (s *LinearBackoffStrategy) retryBudget() RetryBudget { return s.Budget }

// ConstantBackoffStrategy retries after exactly the same delay every time.
type ConstantBackoffStrategy struct {
	// Interval is the fixed interval between retries.
	Interval time.Duration

	// Budget limits retry attempts.
	Budget RetryBudget
}

// DefaultConstantBackoff returns 500ms with the default budget.
func DefaultConstantBackoff() *ConstantBackoffStrategy {
	return &ConstantBackoffStrategy{
		Interval: 500 * time.Millisecond,
		Budget:   DefaultRetryBudget(),
	}
}

// NextInterval returns the next retry interval
func (s *ConstantBackoffStrategy) NextInterval(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	return s.Interval
}

// ShouldRetry determines if the error is retryable
func (s *ConstantBackoffStrategy) ShouldRetry(err error, attempt int) bool {
	return s.Budget.IsRetryable(err)
}

func (s *ConstantBackoffStrategy) retryBudget() RetryBudget { return s.Budget }

// NoRetryStrategy disables retries entirely.
type NoRetryStrategy struct{}

// NextInterval always returns 0
func (s *NoRetryStrategy) NextInterval(attempt int) time.Duration {
	return 0
}

// ShouldRetry always returns false
func (s *NoRetryStrategy) ShouldRetry(err error, attempt int) bool {
	return false
}

func withJitter(interval, jitter float64) time.Duration {
	if jitter > 0 {
		jitterRange := interval * jitter
		interval += jitterRange * (2*rand.Float64() - 1)
	}
	if interval < 0 {
		interval = 0
	}
	return time.Duration(interval)
}

// retryFunc is notified before every retry with the upcoming attempt number,
// the delay and the error that caused it.
type retryFunc func(attempt int, delay time.Duration, err error)

// retryExecutor handles retry execution with a given strategy
type retryExecutor struct {
	strategy RetryStrategy
	onRetry  retryFunc
	// allow, when set, vetoes retries the strategy would otherwise make.
	allow func(err error) bool
}

func newRetryExecutor(strategy RetryStrategy, onRetry retryFunc) *retryExecutor {
	if strategy == nil {
		strategy = DefaultExponentialBackoff()
	}
	return &retryExecutor{strategy: strategy, onRetry: onRetry}
}

// Execute runs fn until it succeeds, the strategy gives up, the budget is
// spent or ctx is done. The last error is returned unchanged.
func (re *retryExecutor) Execute(ctx context.Context, fn func() error) error {
	startTime := time.Now()

	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}

		if !re.strategy.ShouldRetry(err, attempt) {
			return err
		}
		if re.allow != nil && !re.allow(err) {
			return err
		}
		if ctx.Err() != nil {
			return WrapError(ctx.Err(), ErrorTypeTimeout, "context canceled during retry")
		}
		if b, ok := re.strategy.(budgeted); ok {
			budget := b.retryBudget()
			if budget.IsExhausted(attempt, time.Since(startTime)) {
				return err
			}
		}

		interval := re.strategy.NextInterval(attempt)
		if interval <= 0 {
			return err
		}
		if after := retryAfter(err); after > interval {
			interval = after
		}
		if re.onRetry != nil {
			re.onRetry(attempt+1, interval, err)
		}

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return WrapError(ctx.Err(), ErrorTypeTimeout, "context canceled during retry wait")
		case <-timer.C:
		}
	}
}

// idempotent reports whether repeating a request with method has the same
// effect as sending it once.
func idempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

// refusedBeforeProcessing reports whether err is a response the server sends
// without acting on the request: 429, or 503 with a Retry-After delay. Only
// these are retried for POST.
func refusedBeforeProcessing(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.StatusCode {
	case http.StatusTooManyRequests:
		return true
	case http.StatusServiceUnavailable:
		return apiErr.RetryAfter > 0
	}
	return false
}

// retryAfter extracts the server supplied Retry-After delay, if any.
func retryAfter(err error) time.Duration {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.RetryAfter
	}
	return 0
}
