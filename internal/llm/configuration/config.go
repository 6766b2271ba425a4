// Package configuration holds configuration for the LLM client stack:
// provider credentials and endpoints, retry and circuit breaker tuning,
// rate limiting, caching, and pricing behavior.
package configuration

import (
	"net/http"
	"time"
)

// Config holds comprehensive configuration for the LLM client.
type Config struct {
	// HTTP client configuration.
	HTTPTimeout time.Duration `json:"http_timeout" yaml:"http_timeout"`
	HTTPClient  *http.Client  `json:"-" yaml:"-"`

	// Providers maps provider name to its configuration.
	Providers map[string]ProviderConfig `json:"providers" yaml:"providers"`

	// Retry configuration applied per provider call.
	Retry RetryConfig `json:"retry" yaml:"retry"`

	// CircuitBreaker configuration applied per provider.
	CircuitBreaker CircuitBreakerConfig `json:"circuit_breaker" yaml:"circuit_breaker"`

	// RateLimit configuration for local token buckets.
	RateLimit RateLimitConfig `json:"rate_limit" yaml:"rate_limit"`

	// Cache configuration for success-only response caching.
	Cache CacheConfig `json:"cache" yaml:"cache"`

	// Pricing configuration for cost attribution.
	Pricing PricingConfig `json:"pricing" yaml:"pricing"`
}

// ProviderConfig holds provider-specific configuration and authentication.
type ProviderConfig struct {
	Endpoint  string            `json:"endpoint" yaml:"endpoint"`
	APIKey    string            `json:"-" yaml:"-"` // Sensitive, not serialized
	APIKeyEnv string            `json:"api_key_env" yaml:"api_key_env"`
	Timeout   time.Duration     `json:"timeout" yaml:"timeout"`
	Headers   map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
}

// RetryConfig controls retry behavior for failed provider calls.
// The orchestration layer performs its own primary→fallback routing, so
// per-call retry stays conservative: transient failures only, bounded
// attempts, exponential backoff with jitter.
type RetryConfig struct {
	MaxAttempts     int           `json:"max_attempts" yaml:"max_attempts"`
	InitialInterval time.Duration `json:"initial_interval" yaml:"initial_interval"`
	MaxInterval     time.Duration `json:"max_interval" yaml:"max_interval"`
	Multiplier      float64       `json:"multiplier" yaml:"multiplier"`
	UseJitter       bool          `json:"use_jitter" yaml:"use_jitter"`
}

// CircuitBreakerConfig controls per-provider circuit breaker behavior.
type CircuitBreakerConfig struct {
	FailureThreshold int           `json:"failure_threshold" yaml:"failure_threshold"`
	SuccessThreshold int           `json:"success_threshold" yaml:"success_threshold"`
	OpenTimeout      time.Duration `json:"open_timeout" yaml:"open_timeout"`
}

// RateLimitConfig controls the local token bucket per provider/model.
type RateLimitConfig struct {
	Enabled         bool    `json:"enabled" yaml:"enabled"`
	TokensPerSecond float64 `json:"tokens_per_second" yaml:"tokens_per_second"`
	BurstSize       int     `json:"burst_size" yaml:"burst_size"`
}

// CacheConfig controls success-only response caching. When RedisAddr is
// empty the cache is in-memory and per-process.
type CacheConfig struct {
	Enabled       bool          `json:"enabled" yaml:"enabled"`
	TTL           time.Duration `json:"ttl" yaml:"ttl"`
	RedisAddr     string        `json:"redis_addr,omitempty" yaml:"redis_addr,omitempty"`
	RedisPassword string        `json:"-" yaml:"-"` // Sensitive
	RedisDB       int           `json:"redis_db" yaml:"redis_db"`
}

// PricingConfig controls cost attribution. FailClosed rejects calls whose
// model has no pricing entry rather than letting costs go untracked.
type PricingConfig struct {
	Enabled    bool `json:"enabled" yaml:"enabled"`
	FailClosed bool `json:"fail_closed" yaml:"fail_closed"`
}
