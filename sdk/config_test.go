package sdk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	assert.Equal(t, 30*time.Second, config.Timeout)
	assert.Equal(t, 3, config.RetryConfig.MaxRetries)
	assert.Equal(t, "go-confluence/1.0", config.UserAgent)
	assert.IsType(t, NoAuth{}, config.Auth)
	assert.Nil(t, config.CircuitBreakerConfig)
	assert.Zero(t, config.RateLimit)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		wantErr bool
	}{
		{"valid", "https://wiki.example.com", false},
		{"context path", "http://localhost:8090/confluence", false},
		{"empty", "", true},
		{"no scheme", "wiki.example.com", true},
		{"no host", "https://", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := DefaultConfig().WithBaseURL(tt.baseURL).Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestConfigValidateDefaults(t *testing.T) {
	config := &Config{
		BaseURL:              "https://wiki.example.com",
		RetryConfig:          RetryConfig{MaxRetries: -1},
		RateLimit:            5,
		CircuitBreakerConfig: &CircuitBreakerConfig{},
	}
	require.NoError(t, config.Validate())

	assert.Equal(t, 30*time.Second, config.Timeout)
	assert.NotNil(t, config.Auth)
	assert.NotNil(t, config.Observer)
	assert.NotNil(t, config.Logger)
	assert.Equal(t, 0, config.RetryConfig.MaxRetries)
	assert.Equal(t, 100*time.Millisecond, config.RetryConfig.InitialInterval)
	assert.Equal(t, 2.0, config.RetryConfig.Multiplier)
	assert.Equal(t, 5, config.RateBurst)
	assert.Equal(t, 5*time.Minute, config.CacheTTL)
	assert.Equal(t, DefaultCircuitBreakerConfig(), *config.CircuitBreakerConfig)
}

func TestConfigBuilders(t *testing.T) {
	cache := newMapCache()
	metrics := NewMetricsCollector()
	config := DefaultConfig().
		WithBaseURL("https://wiki.example.com").
		WithTimeout(5*time.Second).
		WithBasicAuth("jsmith", "token").
		WithRetries(1).
		WithHeader("X-Team", "docs").
		WithRateLimit(10, 2).
		WithCache(cache, time.Minute).
		WithObserver(metrics).
		WithCircuitBreaker(DefaultCircuitBreakerConfig()).
		WithPerEndpointCircuitBreaker()

	assert.Equal(t, 5*time.Second, config.Timeout)
	assert.Equal(t, BasicAuth{Username: "jsmith", Password: "token"}, config.Auth)
	assert.Equal(t, 1, config.RetryConfig.MaxRetries)
	assert.Equal(t, "docs", config.Headers["X-Team"])
	assert.Equal(t, 10.0, config.RateLimit)
	assert.Equal(t, 2, config.RateBurst)
	assert.Same(t, cache, config.Cache)
	assert.Equal(t, time.Minute, config.CacheTTL)
	assert.Same(t, metrics, config.Observer)
	assert.True(t, config.EnablePerEndpointCircuitBreaker)

	config.WithBearerToken("pat")
	assert.Equal(t, BearerToken{Token: "pat"}, config.Auth)
}
