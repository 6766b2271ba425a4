package configuration

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default HTTP transport tuning.
const (
	DefaultHTTPTimeout = 60 * time.Second

	defaultRetryAttempts  = 2
	defaultRetryInitial   = 200 * time.Millisecond
	defaultRetryMax       = 5 * time.Second
	defaultRetryMultipler = 2.0

	// Circuit breaker thresholds: open after 3 consecutive failures,
	// close after 2 successes, probe recovery after 60s.
	defaultBreakerFailures = 3
	defaultBreakerSuccess  = 2
	defaultBreakerTimeout  = 60 * time.Second

	defaultRateTokensPerSecond = 5.0
	defaultRateBurst           = 10

	defaultCacheTTL = 15 * time.Minute
)

// Supported provider names; keys into Config.Providers.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderStub   = "stub"
)

// DefaultConfig returns a production-shaped configuration with both real
// providers registered. API keys resolve from the conventional env vars.
func DefaultConfig() *Config {
	cfg := &Config{
		HTTPTimeout: DefaultHTTPTimeout,
		Providers: map[string]ProviderConfig{
			ProviderOpenAI: {
				Endpoint:  "https://api.openai.com/v1",
				APIKeyEnv: "OPENAI_API_KEY",
				Timeout:   45 * time.Second,
			},
			ProviderGemini: {
				Endpoint:  "https://generativelanguage.googleapis.com/v1beta",
				APIKeyEnv: "GEMINI_API_KEY",
				Timeout:   45 * time.Second,
			},
		},
		Retry: RetryConfig{
			MaxAttempts:     defaultRetryAttempts,
			InitialInterval: defaultRetryInitial,
			MaxInterval:     defaultRetryMax,
			Multiplier:      defaultRetryMultipler,
			UseJitter:       true,
		},
		CircuitBreaker: CircuitBreakerConfig{
			FailureThreshold: defaultBreakerFailures,
			SuccessThreshold: defaultBreakerSuccess,
			OpenTimeout:      defaultBreakerTimeout,
		},
		RateLimit: RateLimitConfig{
			Enabled:         true,
			TokensPerSecond: defaultRateTokensPerSecond,
			BurstSize:       defaultRateBurst,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     defaultCacheTTL,
		},
		Pricing: PricingConfig{
			Enabled:    true,
			FailClosed: false,
		},
	}
	cfg.ResolveAPIKeys()
	return cfg
}

// ResolveAPIKeys fills provider API keys from their configured env vars.
// Providers with neither a key nor an env var stay keyless; the adapter
// will fail authentication at call time rather than startup.
func (c *Config) ResolveAPIKeys() {
	for name, pc := range c.Providers {
		if pc.APIKey == "" && pc.APIKeyEnv != "" {
			pc.APIKey = os.Getenv(pc.APIKeyEnv)
			c.Providers[name] = pc
		}
	}
}

// LoadFile reads a YAML configuration file over DefaultConfig, so partial
// files only override what they mention.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	cfg.ResolveAPIKeys()
	return cfg, nil
}
