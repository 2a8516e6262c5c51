package sdk

import (
	"io"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
)

// Config holds the configuration for the Confluence client.
// Only BaseURL is required; all other fields have sensible defaults.
//
// Configuration can be built using the fluent builder pattern:
//
//	config := sdk.DefaultConfig().
//	    WithBaseURL("https://wiki.example.com").
//	    WithBasicAuth("jsmith", token).
//	    WithTimeout(30 * time.Second).
//	    WithRateLimit(10, 5).
//	    WithCircuitBreaker(sdk.DefaultCircuitBreakerConfig())
//
//	client, err := sdk.NewClient(config)
type Config struct {
	// BaseURL is the Confluence base URL, including any context path.
	// The REST API is reached under BaseURL + "/rest/api".
	// Example: "https://wiki.example.com/confluence"
	BaseURL string

	// Timeout is the HTTP request timeout.
	// Default: 30s
	Timeout time.Duration

	// Auth applies credentials to every request.
	// Default: NoAuth
	Auth Authenticator

	// RetryConfig holds retry-related settings.
	RetryConfig RetryConfig

	// TransportConfig holds HTTP transport settings.
	TransportConfig TransportConfig

	// Headers are custom headers to include in all requests.
	Headers map[string]string

	// UserAgent is sent with every request.
	// Default: "go-confluence/1.0"
	UserAgent string

	// CircuitBreakerConfig holds circuit breaker settings.
	// If nil, circuit breaker is disabled.
	CircuitBreakerConfig *CircuitBreakerConfig

	// EnablePerEndpointCircuitBreaker gives every endpoint its own breaker.
	EnablePerEndpointCircuitBreaker bool

	// RetryStrategy defines the retry strategy to use.
	// If nil, exponential backoff built from RetryConfig is used.
	RetryStrategy RetryStrategy

	// RateLimit is the maximum number of requests per second.
	// Zero disables client-side rate limiting.
	RateLimit float64

	// RateBurst is the burst size allowed by the rate limiter.
	// Default: 5 when RateLimit is set
	RateBurst int

	// Cache stores GET responses. If nil, responses are not cached.
	Cache ResponseCache

	// CacheTTL is the lifetime of cached responses.
	// Default: 5m
	CacheTTL time.Duration

	// Observer for monitoring operations.
	// If nil, NoopObserver is used.
	Observer Observer

	// Logger receives debug and warning output from the transport.
	// If nil, output is discarded.
	Logger *logrus.Entry
}

// RetryConfig holds retry-related configuration for automatic request retries.
type RetryConfig struct {
	// MaxRetries is the maximum number of retry attempts.
	// Set to 0 to disable retries.
	// Default: 3
	MaxRetries int

	// InitialInterval is the initial retry interval.
	// Default: 100ms
	InitialInterval time.Duration

	// MaxInterval is the maximum retry interval.
	// Default: 5s
	MaxInterval time.Duration

	// Multiplier is the exponential backoff multiplier.
	// Default: 2.0
	Multiplier float64
}

// TransportConfig holds HTTP transport configuration for connection pooling.
type TransportConfig struct {
	// MaxIdleConns controls the maximum number of idle connections
	// across all hosts. Zero means no limit.
	// Default: 100
	MaxIdleConns int

	// MaxConnsPerHost controls the maximum connections per host.
	// Default: 10
	MaxConnsPerHost int

	// IdleConnTimeout is the maximum time an idle connection will remain idle
	// before closing itself.
	// Default: 90s
	IdleConnTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults. BaseURL must still
// be set before the config is used.
//
// Example:
//
//	config := sdk.DefaultConfig().WithBaseURL("https://wiki.example.com")
//	client, err := sdk.NewClient(config)
func DefaultConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
		Auth:    NoAuth{},
		RetryConfig: RetryConfig{
			MaxRetries:      3,
			InitialInterval: 100 * time.Millisecond,
			MaxInterval:     5 * time.Second,
			Multiplier:      2.0,
		},
		TransportConfig: TransportConfig{
			MaxIdleConns:    100,
			MaxConnsPerHost: 10,
			IdleConnTimeout: 90 * time.Second,
		},
		Headers:   make(map[string]string),
		UserAgent: "go-confluence/1.0",
		CacheTTL:  5 * time.Minute,
		Observer:  &NoopObserver{},
	}
}

// WithBaseURL sets the Confluence base URL.
func (c *Config) WithBaseURL(url string) *Config {
	c.BaseURL = url
	return c
}

// WithTimeout sets the request timeout for all operations.
func (c *Config) WithTimeout(timeout time.Duration) *Config {
	c.Timeout = timeout
	return c
}

// WithBasicAuth authenticates with a username and password or API token.
//
// Example:
//
//	config := sdk.DefaultConfig().
//	    WithBaseURL("https://example.atlassian.net/wiki").
//	    WithBasicAuth("jsmith@example.com", os.Getenv("CONFLUENCE_TOKEN"))
func (c *Config) WithBasicAuth(username, password string) *Config {
	c.Auth = BasicAuth{Username: username, Password: password}
	return c
}

// WithBearerToken authenticates with a personal access token.
func (c *Config) WithBearerToken(token string) *Config {
	c.Auth = BearerToken{Token: token}
	return c
}

// WithRetries sets the maximum number of retry attempts for failed requests.
// Set to 0 to disable automatic retries.
func (c *Config) WithRetries(maxRetries int) *Config {
	c.RetryConfig.MaxRetries = maxRetries
	return c
}

// WithHeader adds a custom header to be sent with all requests.
func (c *Config) WithHeader(key, value string) *Config {
	if c.Headers == nil {
		c.Headers = make(map[string]string)
	}
	c.Headers[key] = value
	return c
}

// WithCircuitBreaker enables and configures circuit breaker protection.
//
// Example:
//
//	config := sdk.DefaultConfig().
//	    WithCircuitBreaker(sdk.CircuitBreakerConfig{
//	        FailureThreshold: 5,
//	        SuccessThreshold: 2,
//	        Timeout: 30 * time.Second,
//	    })
func (c *Config) WithCircuitBreaker(config CircuitBreakerConfig) *Config {
	c.CircuitBreakerConfig = &config
	return c
}

// WithPerEndpointCircuitBreaker enables per-endpoint circuit breakers.
// It has no effect unless a circuit breaker is configured.
func (c *Config) WithPerEndpointCircuitBreaker() *Config {
	c.EnablePerEndpointCircuitBreaker = true
	return c
}

// WithRetryStrategy sets a custom retry strategy for determining retry delays.
//
// Example:
//
//	config := sdk.DefaultConfig().
//	    WithRetryStrategy(sdk.DefaultConstantBackoff())
func (c *Config) WithRetryStrategy(strategy RetryStrategy) *Config {
	c.RetryStrategy = strategy
	return c
}

// WithRateLimit limits the client to perSecond requests per second with the
// given burst. Confluence Cloud throttles aggressive clients with 429s.
func (c *Config) WithRateLimit(perSecond float64, burst int) *Config {
	c.RateLimit = perSecond
	c.RateBurst = burst
	return c
}

// WithCache enables response caching for GET requests.
//
// Example:
//
//	redisCache, _ := cache.NewRedisCache(cache.DefaultConfig())
//	config := sdk.DefaultConfig().WithCache(redisCache, 10*time.Minute)
func (c *Config) WithCache(cache ResponseCache, ttl time.Duration) *Config {
	c.Cache = cache
	c.CacheTTL = ttl
	return c
}

// WithObserver sets a custom observer for monitoring SDK operations.
func (c *Config) WithObserver(observer Observer) *Config {
	c.Observer = observer
	return c
}

// WithLogger sets the logger used by the transport.
func (c *Config) WithLogger(logger *logrus.Entry) *Config {
	c.Logger = logger
	return c
}

// Validate validates the configuration and sets defaults for missing values.
// This is called automatically by NewClient.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return WrapError(ErrInvalidConfig, ErrorTypeValidation, "base URL is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return WrapError(ErrInvalidConfig, ErrorTypeValidation, "base URL must have a scheme and host")
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.Auth == nil {
		c.Auth = NoAuth{}
	}
	if c.UserAgent == "" {
		c.UserAgent = "go-confluence/1.0"
	}
	if c.RetryConfig.MaxRetries < 0 {
		c.RetryConfig.MaxRetries = 0
	}
	if c.RetryConfig.InitialInterval <= 0 {
		c.RetryConfig.InitialInterval = 100 * time.Millisecond
	}
	if c.RetryConfig.MaxInterval <= 0 {
		c.RetryConfig.MaxInterval = 5 * time.Second
	}
	if c.RetryConfig.Multiplier <= 1 {
		c.RetryConfig.Multiplier = 2.0
	}
	if c.RateLimit < 0 {
		c.RateLimit = 0
	}
	if c.RateLimit > 0 && c.RateBurst <= 0 {
		c.RateBurst = 5
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = 5 * time.Minute
	}
	if c.Observer == nil {
		c.Observer = &NoopObserver{}
	}
	if c.Logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		c.Logger = logrus.NewEntry(discard)
	}
	if c.CircuitBreakerConfig != nil {
		if c.CircuitBreakerConfig.FailureThreshold <= 0 {
			c.CircuitBreakerConfig.FailureThreshold = 5
		}
		if c.CircuitBreakerConfig.SuccessThreshold <= 0 {
			c.CircuitBreakerConfig.SuccessThreshold = 2
		}
		if c.CircuitBreakerConfig.Timeout <= 0 {
			c.CircuitBreakerConfig.Timeout = 30 * time.Second
		}
		if c.CircuitBreakerConfig.HalfOpenRequests <= 0 {
			c.CircuitBreakerConfig.HalfOpenRequests = 3
		}
	}
	return nil
}
