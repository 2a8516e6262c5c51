// Package config loads the confluence CLI configuration from a YAML file
// and the environment.
package config

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/birbparty/go-confluence/internal/cache"
	"github.com/birbparty/go-confluence/sdk"
	"gopkg.in/yaml.v3"
)

// ErrNoBaseURL is returned by Validate when no Confluence URL is configured.
var ErrNoBaseURL = errors.New("no Confluence base URL configured (set base_url or CONFLUENCE_BASE_URL)")

// Config holds the CLI configuration
type Config struct {
	BaseURL string     `yaml:"base_url"`
	Auth    AuthConfig `yaml:"auth"`

	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`

	RateLimit      RateLimitConfig `yaml:"rate_limit"`
	CircuitBreaker bool            `yaml:"circuit_breaker"`

	Cache CacheConfig `yaml:"cache"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// AuthConfig holds credentials. Token takes precedence over a password.
type AuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Token    string `yaml:"token"`
}

// RateLimitConfig holds client-side rate limiting
type RateLimitConfig struct {
	PerSecond float64 `yaml:"per_second"`
	Burst     int     `yaml:"burst"`
}

// CacheConfig holds the Redis response cache configuration
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	URL       string        `yaml:"url"`
	Host      string        `yaml:"host"`
	Port      int           `yaml:"port"`
	Password  string        `yaml:"password"`
	DB        int           `yaml:"db"`
	KeyPrefix string        `yaml:"key_prefix"`
	TTL       time.Duration `yaml:"ttl"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	redis := cache.DefaultConfig()
	return &Config{
		Timeout:    30 * time.Second,
		MaxRetries: 3,
		Cache: CacheConfig{
			Host:      redis.Host,
			Port:      redis.Port,
			KeyPrefix: redis.KeyPrefix,
			TTL:       redis.DefaultTTL,
		},
		LogLevel:  "warn",
		LogFormat: "text",
	}
}

// Load reads the YAML file at path, if path is not empty, over the defaults
// and then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.BaseURL = getEnvOrDefault("CONFLUENCE_BASE_URL", c.BaseURL)
	c.Auth.Username = getEnvOrDefault("CONFLUENCE_USERNAME", c.Auth.Username)
	c.Auth.Password = getEnvOrDefault("CONFLUENCE_PASSWORD", c.Auth.Password)
	c.Auth.Token = getEnvOrDefault("CONFLUENCE_TOKEN", c.Auth.Token)
	c.LogLevel = getEnvOrDefault("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnvOrDefault("LOG_FORMAT", c.LogFormat)

	c.Cache.URL = getEnvOrDefault("REDIS_URL", c.Cache.URL)
	c.Cache.Host = getEnvOrDefault("REDIS_HOST", c.Cache.Host)
	c.Cache.Password = getEnvOrDefault("REDIS_PASSWORD", c.Cache.Password)

	var err error
	if c.Cache.Enabled, err = getEnvBool("CACHE_ENABLED", c.Cache.Enabled); err != nil {
		return err
	}
	if c.Cache.Port, err = getEnvInt("REDIS_PORT", c.Cache.Port); err != nil {
		return err
	}
	if c.Cache.DB, err = getEnvInt("REDIS_DB", c.Cache.DB); err != nil {
		return err
	}
	if value := os.Getenv("CACHE_DEFAULT_TTL"); value != "" {
		ttl, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid CACHE_DEFAULT_TTL: %w", err)
		}
		c.Cache.TTL = ttl
	}
	return nil
}

// Validate checks that the configuration can build a client
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrNoBaseURL
	}
	if c.Auth.Password != "" && c.Auth.Username == "" {
		return fmt.Errorf("auth.password is set without auth.username")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must not be negative, got %d", c.MaxRetries)
	}
	if c.RateLimit.PerSecond < 0 {
		return fmt.Errorf("rate_limit.per_second must not be negative, got %g", c.RateLimit.PerSecond)
	}
	return nil
}

// Identity names the credentials in use, for scoping cached responses.
// Secrets are included as digests, so changing a password or token starts
// a fresh cache scope.
func (c *Config) Identity() string {
	switch {
	case c.Auth.Token != "":
		return c.BaseURL + "|token|" + secretDigest(c.Auth.Token)
	case c.Auth.Username != "":
		return c.BaseURL + "|user|" + c.Auth.Username + "|" + secretDigest(c.Auth.Password)
	default:
		return c.BaseURL + "|anonymous"
	}
}

func secretDigest(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

// ClientConfig returns the sdk configuration for this file. Cache, logger
// and observer are left for the caller to attach.
func (c *Config) ClientConfig() (*sdk.Config, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	cfg := sdk.DefaultConfig().
		WithBaseURL(c.BaseURL).
		WithRetries(c.MaxRetries)
	if c.Timeout > 0 {
		cfg = cfg.WithTimeout(c.Timeout)
	}

	switch {
	case c.Auth.Token != "":
		cfg = cfg.WithBearerToken(c.Auth.Token)
	case c.Auth.Username != "":
		cfg = cfg.WithBasicAuth(c.Auth.Username, c.Auth.Password)
	}

	if c.RateLimit.PerSecond > 0 {
		cfg = cfg.WithRateLimit(c.RateLimit.PerSecond, c.RateLimit.Burst)
	}
	if c.CircuitBreaker {
		cfg = cfg.WithCircuitBreaker(sdk.DefaultCircuitBreakerConfig())
	}
	return cfg, nil
}

// RedisConfig returns the cache connection settings
func (c *Config) RedisConfig() *cache.Config {
	cfg := cache.DefaultConfig()
	cfg.URL = c.Cache.URL
	if c.Cache.Host != "" {
		cfg.Host = c.Cache.Host
	}
	if c.Cache.Port != 0 {
		cfg.Port = c.Cache.Port
	}
	cfg.Password = c.Cache.Password
	cfg.DB = c.Cache.DB
	if c.Cache.KeyPrefix != "" {
		cfg.KeyPrefix = c.Cache.KeyPrefix
	}
	if c.Cache.TTL > 0 {
		cfg.DefaultTTL = c.Cache.TTL
	}
	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return i, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
